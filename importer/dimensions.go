package importer

import (
	"archive/zip"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
)

// DimensionSpec describes how one dimension CSV maps onto its table.
// Columns are positional: the CSV's own header is discarded and each
// field is taken by index, matching the fixed layout of FAOSTAT
// exports.
type DimensionSpec struct {
	Name    string
	Table   string
	Columns []string
	KeyCol  string
	// WithDataset appends the owning dataset code as a trailing column
	WithDataset bool
}

// DimensionFile pairs a file inside an archive with its spec
type DimensionFile struct {
	File *zip.File
	Spec DimensionSpec
}

var (
	AreaSpec = DimensionSpec{
		Name:    "areas",
		Table:   "areas",
		Columns: []string{"area_code", "m49_code", "area_name"},
		KeyCol:  "area_code",
	}
	ItemSpec = DimensionSpec{
		Name:        "items",
		Table:       "items",
		Columns:     []string{"item_code", "cpc_code", "item_name"},
		KeyCol:      "item_code",
		WithDataset: true,
	}
	ElementSpec = DimensionSpec{
		Name:        "elements",
		Table:       "elements",
		Columns:     []string{"element_code", "element_name"},
		KeyCol:      "element_code",
		WithDataset: true,
	}
	FlagSpec = DimensionSpec{
		Name:    "flags",
		Table:   "flags",
		Columns: []string{"flag_code", "flag_description"},
		KeyCol:  "flag_code",
	}
)

func (s DimensionSpec) insertQuery() string {
	columns := s.Columns
	if s.WithDataset {
		columns = append(append([]string{}, columns...), "dataset_code")
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		s.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		s.KeyCol)
}

// LoadDimension upserts every row of one dimension CSV. Existing rows
// are never overwritten (DO NOTHING on key conflict). The load runs in
// a single transaction: row-level errors are logged and the loop keeps
// going, but a failure to commit discards the whole dimension for this
// archive.
func LoadDimension(db *sql.DB, dim DimensionFile, datasetCode string) error {
	rc, err := dim.File.Open()
	if err != nil {
		return fmt.Errorf("error opening %s: %w", dim.File.Name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("error reading %s header: %w", dim.File.Name, err)
	}
	if len(header) != len(dim.Spec.Columns) {
		log.Printf("Warning: %s has %d columns, expected %d; mapping by position anyway",
			dim.File.Name, len(header), len(dim.Spec.Columns))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(dim.Spec.insertQuery())
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	processed := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Error reading %s record: %v", dim.Spec.Name, err)
			continue
		}
		if len(record) < len(dim.Spec.Columns) {
			log.Printf("Skipping short %s record (%d fields)", dim.Spec.Name, len(record))
			continue
		}

		values := make([]interface{}, 0, len(dim.Spec.Columns)+1)
		for i := range dim.Spec.Columns {
			values = append(values, strings.TrimSpace(record[i]))
		}
		if dim.Spec.WithDataset {
			values = append(values, datasetCode)
		}

		if _, err := stmt.Exec(values...); err != nil {
			log.Printf("Error inserting %s row: %v", dim.Spec.Name, err)
			continue
		}
		processed++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing %s: %w", dim.Spec.Name, err)
	}

	log.Printf("Processed %d %s rows", processed, dim.Spec.Name)
	return nil
}
