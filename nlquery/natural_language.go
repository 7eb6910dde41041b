package nlquery

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/api/option"

	"github.com/hwam91/open-ag-library/nlquery/prompts"
)

// NLQueryEngine turns natural-language questions about the FAOSTAT
// data into SQL, validates it, runs it and renders the result table.
type NLQueryEngine struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	db      *sql.DB
	prompts *prompts.PromptBuilder
	keys    *KeyManager
}

// NewNLQueryEngine initializes the engine against an open database
// connection and the Gemini API
func NewNLQueryEngine(ctx context.Context, db *sql.DB, modelName string) (*NLQueryEngine, error) {
	keys := NewKeyManager()
	apiKey := keys.GetNextKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Low temperature for precise SQL
	temp := float32(0.2)
	model.Temperature = &temp

	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockNone,
		},
	}

	return &NLQueryEngine{
		client:  client,
		model:   model,
		db:      db,
		prompts: prompts.NewPromptBuilder(),
		keys:    keys,
	}, nil
}

// ProcessQuery handles one natural language question end to end
func (e *NLQueryEngine) ProcessQuery(ctx context.Context, question string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	sqlQuery, err := e.Ask(queryCtx, question)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") {
			return fmt.Errorf("the query timed out; try a more specific question or add filters (e.g. year, country, commodity)")
		}
		errMsg, _ := e.getErrorMessage(queryCtx, question, err)
		return fmt.Errorf("%s", errMsg)
	}

	if valid, reason := e.validateQuery(queryCtx, question, sqlQuery); !valid {
		return fmt.Errorf("invalid query: %s", reason)
	}

	fmt.Printf("\nExecuting SQL Query:\n%s\n\n", sqlQuery)
	results, err := e.executeQuery(sqlQuery)
	if err != nil {
		errMsg, _ := e.getErrorMessage(queryCtx, question, err)
		return fmt.Errorf("%s", errMsg)
	}

	e.displayResults(results)
	return nil
}

// Ask generates a SQL query for the question. The rule-based generator
// answers common phrasings directly; everything else goes to the model
// with backoff on rate limits.
func (e *NLQueryEngine) Ask(ctx context.Context, question string) (string, error) {
	if sqlQuery, err := GenerateSQL(question); err == nil {
		return sqlQuery, nil
	}

	var lastErr error
	backoff := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
	}

	for i, wait := range backoff {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			chat := e.model.StartChat()
			prompt := e.prompts.BuildQueryPrompt(question)

			resp, err := chat.SendMessage(ctx, genai.Text(prompt))
			if err != nil {
				lastErr = err
				if isRateLimitError(err) {
					time.Sleep(wait)
					continue
				}
				fmt.Printf("Attempt %d failed: %v\n", i+1, err)
				time.Sleep(wait)
				continue
			}

			if len(resp.Candidates) == 0 {
				lastErr = fmt.Errorf("no response candidates")
				time.Sleep(wait)
				continue
			}

			sqlQuery, err := extractSQLFromResponse(resp.Candidates[0].Content.Parts[0])
			if err != nil {
				lastErr = err
				time.Sleep(wait)
				continue
			}

			return sqlQuery, nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("all attempts failed, last error: %v", lastErr)
	}
	return "", fmt.Errorf("failed to generate SQL query after all attempts")
}

// Helper function to check for rate limit errors
func isRateLimitError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "rate limit") ||
		strings.Contains(strings.ToLower(err.Error()), "quota exceeded")
}

// Helper function to extract SQL from response
func extractSQLFromResponse(content interface{}) (string, error) {
	text, ok := content.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type: %T", content)
	}

	sqlQuery := strings.TrimSpace(string(text))

	// Handle different SQL code block formats
	formats := []string{"```sql", "```SQL", "```postgresql"}
	for _, format := range formats {
		if strings.HasPrefix(sqlQuery, format) {
			sqlQuery = strings.TrimPrefix(sqlQuery, format)
			if idx := strings.LastIndex(sqlQuery, "```"); idx != -1 {
				sqlQuery = sqlQuery[:idx]
			}
			break
		}
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", fmt.Errorf("empty SQL query after extraction")
	}

	return sqlQuery, nil
}

func (e *NLQueryEngine) validateQuery(ctx context.Context, question, sql string) (bool, string) {
	chat := e.model.StartChat()
	prompt := e.prompts.BuildValidationPrompt(question, sql)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 {
		return false, "validation failed due to API error"
	}

	text := resp.Candidates[0].Content.Parts[0]
	if textStr, ok := text.(genai.Text); ok {
		result := strings.TrimSpace(string(textStr))
		if strings.HasPrefix(result, "VALID") {
			return true, ""
		}
		if strings.HasPrefix(result, "INVALID: ") {
			return false, strings.TrimPrefix(result, "INVALID: ")
		}
		return false, fmt.Sprintf("validation failed: %s", result)
	}
	return false, "invalid response format from validation"
}

func (e *NLQueryEngine) getErrorMessage(ctx context.Context, question string, cause error) (string, error) {
	chat := e.model.StartChat()
	prompt := e.prompts.BuildErrorPrompt(question, cause)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 {
		return "An error occurred while processing your query", nil
	}

	text := resp.Candidates[0].Content.Parts[0]
	if textStr, ok := text.(genai.Text); ok {
		return strings.TrimSpace(string(textStr)), nil
	}
	return "An error occurred while processing your query", nil
}

// Execute SQL query and return results
func (e *NLQueryEngine) executeQuery(query string) ([]map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		result := make(map[string]interface{})
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		for i, column := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				result[column] = string(b)
			} else {
				result[column] = val
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// Display results in a table format
func (e *NLQueryEngine) displayResults(results []map[string]interface{}) {
	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	var columns []string
	for column := range results[0] {
		columns = append(columns, column)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, result := range results {
		var row []string
		for _, column := range columns {
			value := result[column]
			if value == nil {
				row = append(row, "NULL")
			} else {
				row = append(row, fmt.Sprintf("%v", value))
			}
		}
		table.Append(row)
	}

	table.Render()
}

// Close resources
func (e *NLQueryEngine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
