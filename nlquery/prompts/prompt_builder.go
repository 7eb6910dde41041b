package prompts

import (
	"fmt"
)

// PromptBuilder handles the construction of prompts for the LLM
type PromptBuilder struct {
	schema        string
	documentation string
	examples      string
}

// NewPromptBuilder creates a new PromptBuilder with schema context
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		schema:        SchemaContext,
		documentation: Documentation,
		examples:      QueryExamples,
	}
}

// BuildQueryPrompt creates a prompt for SQL query generation
func (pb *PromptBuilder) BuildQueryPrompt(question string) string {
	return fmt.Sprintf(`You are a PostgreSQL query generator for a FAOSTAT agricultural statistics database. Follow these rules strictly:

%s

%s

%s

Rules:
1. Respond with a single PostgreSQL query and nothing else
2. Prefer faostat_data_view over joining the base tables
3. Use LIKE/ILIKE patterns for item and element names, never exact equality unless the question demands it
4. Always add LIMIT for open-ended result sets

Now generate a SQL query for this question: %s`,
		pb.schema, pb.documentation, pb.examples, question)
}

// BuildValidationPrompt creates a prompt for validating generated SQL
func (pb *PromptBuilder) BuildValidationPrompt(question, sql string) string {
	return fmt.Sprintf(`You are a SQL query validator for a FAOSTAT agricultural database. Validate whether the generated SQL correctly answers the user's question.
Rules:
1. For production/yield/area questions, check the element_name filter matches the measurement asked about
2. For "top N" questions, verify ORDER BY and LIMIT
3. Check that aggregations (SUM, AVG) fit the question
4. Verify WHERE clause conditions (country, item, year) match the question

User Question: %s
Generated SQL: %s

Respond with:
- "VALID" if the query is correct
- "INVALID: <reason>" if the query is incorrect, explaining why
`, question, sql)
}

// BuildErrorPrompt creates a prompt for generating user-friendly error messages
func (pb *PromptBuilder) BuildErrorPrompt(question string, err error) string {
	return fmt.Sprintf(`Generate a user-friendly error message for this failed query:

Question: "%s"

Error: %v

Requirements:
1. Explain the issue in simple terms
2. Suggest how to rephrase the question (e.g. name a country, commodity or year)
3. Keep the message concise and helpful

Error Message:`, question, err)
}
