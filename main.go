package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"

	"github.com/hwam91/open-ag-library/analyzer"
	"github.com/hwam91/open-ag-library/config"
	"github.com/hwam91/open-ag-library/importer"
	"github.com/hwam91/open-ag-library/migrations"
	"github.com/hwam91/open-ag-library/nlquery"
)

func init() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to database using environment variables
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"))

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Test connection
	err = db.Ping()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize database schema
	if err := migrations.InitSchema(db); err != nil {
		log.Printf("Warning: Error initializing schema: %v", err)
	}
	if err := migrations.VerifySchema(db); err != nil {
		log.Fatalf("Schema verification failed: %v", err)
	}

	ctx := context.Background()

	for {
		displayMenu()
		choice := readChoice()

		switch choice {
		case "1":
			handleImportAll(ctx, db, cfg)
		case "2":
			handleImportSingle(ctx, db, cfg)
		case "3":
			handleAnalyzeSchemas(cfg)
		case "4":
			displayDatasets(db)
		case "5":
			displayDatasetRowCounts(db)
		case "6":
			displayTopProducers(db)
		case "7":
			displayProductionTrend(db)
		case "8":
			handleNaturalLanguageQuery(ctx, db, cfg)
		case "9":
			color.Green("Thank you for using Open Ag Library!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu() {
	color.Cyan("\n=== Open Ag Library ===")
	fmt.Println("1. Import FAOSTAT Data (all archives)")
	fmt.Println("2. Import Single Archive")
	fmt.Println("3. Analyze Archive Schemas")
	fmt.Println("4. List Datasets")
	fmt.Println("5. Dataset Row Counts")
	fmt.Println("6. Top Producers")
	fmt.Println("7. Production Trend by Country")
	fmt.Println("8. Ask a Question (natural language)")
	fmt.Println("9. Exit")
	fmt.Print("\nEnter your choice (1-9): ")
}

func handleImportAll(ctx context.Context, db *sql.DB, cfg *config.Config) {
	fmt.Printf("\nReady to import all archives under %s using %s\n", cfg.DataDir, cfg.DatasetsFile)
	fmt.Print("Proceed with import? (y/n): ")

	if strings.ToLower(readString()) != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imp := importer.New(db, importer.Config{
		DataDir:       cfg.DataDir,
		DatasetsFile:  cfg.DatasetsFile,
		BatchSize:     cfg.BatchSize,
		ProgressEvery: cfg.ProgressEvery,
	})

	if err := imp.Run(ctx); err != nil {
		color.Red("Error importing data: %v", err)
	} else {
		color.Green("Import completed successfully!")
	}
}

func handleImportSingle(ctx context.Context, db *sql.DB, cfg *config.Config) {
	fmt.Print("Enter the archive path: ")
	path := readString()

	datasets, err := importer.LoadDatasets(cfg.DatasetsFile)
	if err != nil {
		color.Red("Error loading dataset metadata: %v", err)
		return
	}
	importer.InsertDatasetMetadata(db, datasets)

	code := importer.ResolveDatasetCode(path, datasets)
	fmt.Printf("Resolved dataset code: %s\n", code)

	imp := importer.New(db, importer.Config{
		DataDir:       cfg.DataDir,
		DatasetsFile:  cfg.DatasetsFile,
		BatchSize:     cfg.BatchSize,
		ProgressEvery: cfg.ProgressEvery,
	})

	if err := imp.ProcessArchive(ctx, path, code); err != nil {
		color.Red("Error processing archive: %v", err)
	} else {
		color.Green("Archive imported successfully!")
	}
}

func handleAnalyzeSchemas(cfg *config.Config) {
	fmt.Print("How many archives to analyze (default 10): ")
	limit := readInt()
	if limit <= 0 {
		limit = 10
	}

	if _, err := os.Stat(cfg.DatasetsFile); err == nil {
		color.Green("Metadata file found: %s", cfg.DatasetsFile)
	} else {
		color.Yellow("Metadata file not found: %s", cfg.DatasetsFile)
	}

	schemas, err := analyzer.AnalyzeArchives(cfg.DataDir, limit)
	if err != nil {
		color.Red("Error analyzing archives: %v", err)
		return
	}

	analyzer.WriteReport(schemas, os.Stdout)

	if err := analyzer.SaveJSON(schemas, "schema_analysis.json"); err != nil {
		color.Red("Error saving schema_analysis.json: %v", err)
	} else {
		fmt.Println("\nDetailed analysis saved to: schema_analysis.json")
	}
}

func displayDatasets(db *sql.DB) {
	datasets, err := importer.ListDatasets(db)
	if err != nil {
		log.Printf("Error listing datasets: %v", err)
		return
	}

	color.Yellow("\nAvailable Datasets")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Name", "Topic", "Updated"})

	for _, d := range datasets {
		updated := ""
		if d.DateUpdate.Valid {
			updated = d.DateUpdate.Time.Format("2006-01-02")
		}
		table.Append([]string{d.Code, d.Name, d.Topic, updated})
	}

	table.Render()
}

func displayDatasetRowCounts(db *sql.DB) {
	query := `
		SELECT fd.dataset_code, COALESCE(d.dataset_name, 'Unknown'), COUNT(*) as observations
		FROM faostat_data fd
		LEFT JOIN datasets d ON fd.dataset_code = d.dataset_code
		GROUP BY fd.dataset_code, d.dataset_name
		ORDER BY observations DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		log.Printf("Error getting row counts: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nObservations per Dataset")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Dataset", "Observations"})

	for rows.Next() {
		var code, name string
		var count int64

		err := rows.Scan(&code, &name, &count)
		if err != nil {
			continue
		}

		table.Append([]string{code, name, fmt.Sprintf("%d", count)})
	}

	table.Render()
}

func displayTopProducers(db *sql.DB) {
	fmt.Print("Enter a commodity (e.g. Wheat): ")
	item := readString()
	fmt.Print("Enter a year (e.g. 2020): ")
	year := readInt()

	query := `
		SELECT area_name, SUM(value) as total_production, unit
		FROM faostat_data_view
		WHERE item_name ILIKE '%' || $1 || '%'
		AND element_name LIKE '%Production%'
		AND year = $2
		AND value IS NOT NULL
		GROUP BY area_name, unit
		ORDER BY total_production DESC
		LIMIT 10
	`

	rows, err := db.Query(query, item, year)
	if err != nil {
		log.Printf("Error getting top producers: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nTop 10 Producers of %s in %d", item, year)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Country/Region", "Production", "Unit"})

	rank := 1
	for rows.Next() {
		var area, unit string
		var total float64

		err := rows.Scan(&area, &total, &unit)
		if err != nil {
			continue
		}

		table.Append([]string{
			fmt.Sprintf("%d", rank),
			area,
			fmt.Sprintf("%.2f", total),
			unit,
		})
		rank++
	}

	table.Render()
}

func displayProductionTrend(db *sql.DB) {
	fmt.Print("Enter a country or region (e.g. India): ")
	area := readString()

	query := `
		SELECT year, item_name, SUM(value) as production, unit
		FROM faostat_data_view
		WHERE area_name ILIKE $1
		AND element_name LIKE '%Production%'
		AND value IS NOT NULL
		GROUP BY year, item_name, unit
		ORDER BY year DESC, production DESC
		LIMIT 20
	`

	rows, err := db.Query(query, area)
	if err != nil {
		log.Printf("Error getting production trend: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nProduction Trend for %s", area)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Year", "Item", "Production", "Unit"})

	for rows.Next() {
		var year int
		var item, unit string
		var production float64

		err := rows.Scan(&year, &item, &production, &unit)
		if err != nil {
			continue
		}

		table.Append([]string{
			fmt.Sprintf("%d", year),
			item,
			fmt.Sprintf("%.2f", production),
			unit,
		})
	}

	table.Render()
}

func handleNaturalLanguageQuery(ctx context.Context, db *sql.DB, cfg *config.Config) {
	engine, err := nlquery.NewNLQueryEngine(ctx, db, cfg.GeminiModel)
	if err != nil {
		color.Red("Error initializing query engine: %v", err)
		return
	}
	defer engine.Close()

	color.Cyan("\nAsk questions about the agricultural data (type 'exit' to return)")

	for {
		fmt.Print("\nAsk a question: ")
		question := readString()

		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			return
		}

		if err := engine.ProcessQuery(ctx, question); err != nil {
			color.Red("%v", err)
		}
	}
}

func readChoice() string {
	var input string
	fmt.Scanln(&input)
	return strings.TrimSpace(input)
}

func readString() string {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func readInt() int {
	var input string
	fmt.Scanln(&input)
	i, _ := strconv.Atoi(input)
	return i
}
