// Package analyzer inspects FAOSTAT archives and reports how consistent
// their CSV schemas are, to confirm the relational schema covers every
// dataset before a full import.
package analyzer

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hwam91/open-ag-library/importer"
)

// StandardColumns are expected in every main data CSV
var StandardColumns = []string{
	"Area Code", "Area", "Item Code", "Item",
	"Element Code", "Element", "Year", "Value", "Flag",
}

// ArchiveSchema describes the structure of one archive's main data CSV
type ArchiveSchema struct {
	ZipFile    string            `json:"zip_file"`
	Columns    []string          `json:"columns"`
	NumColumns int               `json:"num_columns"`
	FilesInZip []string          `json:"files_in_zip"`
	SampleRow  map[string]string `json:"sample_row"`
}

// AnalyzeArchives inspects up to limit archives under root. Archives
// without a main data CSV are skipped. limit <= 0 means no limit.
func AnalyzeArchives(root string, limit int) ([]ArchiveSchema, error) {
	archives, err := importer.FindArchives(root)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(archives) > limit {
		archives = archives[:limit]
	}

	var schemas []ArchiveSchema
	for _, path := range archives {
		schema, err := analyzeArchive(path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		schemas = append(schemas, *schema)
	}

	return schemas, nil
}

func analyzeArchive(path string) (*ArchiveSchema, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	schema := &ArchiveSchema{ZipFile: filepath.Base(path)}
	var mainData *zip.File
	for _, f := range zr.File {
		schema.FilesInZip = append(schema.FilesInZip, f.Name)
		if mainData == nil && strings.Contains(f.Name, "All_Data_(Normalized).csv") {
			mainData = f
		}
	}
	if mainData == nil {
		return nil, fmt.Errorf("no main data file")
	}

	rc, err := mainData.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	schema.Columns = header
	schema.NumColumns = len(header)

	if record, err := reader.Read(); err == nil || err == io.EOF {
		if len(record) > 0 {
			schema.SampleRow = make(map[string]string)
			for i, col := range header {
				if i < len(record) {
					schema.SampleRow[col] = record[i]
				}
			}
		}
	}

	return schema, nil
}

// WriteReport renders the consistency analysis to w
func WriteReport(schemas []ArchiveSchema, w io.Writer) {
	if len(schemas) == 0 {
		fmt.Fprintln(w, "No archives analyzed")
		return
	}

	counts := ColumnDistribution(schemas)
	columns := make([]string, 0, len(counts))
	for col := range counts {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	color.Cyan("\nColumn distribution across %d archives", len(schemas))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Archives", "Coverage"})
	for _, col := range columns {
		table.Append([]string{
			col,
			fmt.Sprintf("%d/%d", counts[col], len(schemas)),
			fmt.Sprintf("%.1f%%", float64(counts[col])/float64(len(schemas))*100),
		})
	}
	table.Render()

	color.Cyan("\nStandard columns")
	for _, col := range StandardColumns {
		if counts[col] == len(schemas) {
			color.Green("  %s: %d/%d archives", col, counts[col], len(schemas))
		} else {
			color.Red("  %s: %d/%d archives", col, counts[col], len(schemas))
		}
	}

	optional := []string{}
	for _, col := range columns {
		if counts[col] < len(schemas) && !contains(StandardColumns, col) {
			optional = append(optional, col)
		}
	}
	if len(optional) > 0 {
		color.Yellow("\nOptional columns (nullable in the schema): %s", strings.Join(optional, ", "))
	}
}

// ColumnDistribution counts how many archives carry each column
func ColumnDistribution(schemas []ArchiveSchema) map[string]int {
	counts := make(map[string]int)
	for _, schema := range schemas {
		seen := make(map[string]bool)
		for _, col := range schema.Columns {
			if !seen[col] {
				counts[col]++
				seen[col] = true
			}
		}
	}
	return counts
}

// SaveJSON writes the detailed schema info for offline inspection
func SaveJSON(schemas []ArchiveSchema, path string) error {
	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
