package importer

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Constants for configuration
const (
	DefaultBatchSize     = 10000
	DefaultProgressEvery = 10
)

// factColumns holds the header positions of the main data CSV. The
// required columns must be present; the optional ones are -1 when the
// dataset does not carry them.
type factColumns struct {
	areaCode    int
	itemCode    int
	elementCode int
	year        int
	value       int
	yearCode    int
	monthCode   int
	monthName   int
	unit        int
	flag        int
	note        int
}

// factRow is one observation projected into the canonical fact shape
type factRow struct {
	datasetCode string
	areaCode    string
	itemCode    string
	elementCode string
	year        string
	yearCode    string
	monthCode   sql.NullString
	monthName   sql.NullString
	value       sql.NullFloat64
	unit        string
	flag        string
	note        string
}

// FactLoader streams a main data CSV into the faostat_data table in
// fixed-size batches. The fact table is append-only: re-running the
// loader against the same archive duplicates its observations.
type FactLoader struct {
	db            *sql.DB
	batchSize     int
	progressEvery int
}

func NewFactLoader(db *sql.DB, batchSize, progressEvery int) *FactLoader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}
	return &FactLoader{db: db, batchSize: batchSize, progressEvery: progressEvery}
}

// Load reads the main data file and appends all its observations,
// tagged with datasetCode. Returns the number of rows appended.
func (l *FactLoader) Load(ctx context.Context, datasetCode string, file *zip.File) (int64, error) {
	rc, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("error opening %s: %w", file.Name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("error reading %s header: %w", file.Name, err)
	}

	cols, err := mapFactColumns(header)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", file.Name, err)
	}

	return l.stream(ctx, reader, cols, datasetCode, func(batch []factRow) error {
		return l.appendBatch(ctx, batch)
	})
}

// stream accumulates rows into batches and hands each full batch to
// flush. The final partial batch is flushed after EOF.
func (l *FactLoader) stream(ctx context.Context, reader *csv.Reader, cols factColumns, datasetCode string, flush func([]factRow) error) (int64, error) {
	batch := make([]factRow, 0, l.batchSize)
	var total int64
	batches := 0

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Error reading record: %v", err)
			continue
		}

		row, err := projectRow(cols, record, datasetCode)
		if err != nil {
			log.Printf("Skipping record: %v", err)
			continue
		}
		batch = append(batch, row)

		if len(batch) >= l.batchSize {
			if err := flush(batch); err != nil {
				return total, err
			}
			total += int64(len(batch))
			batch = batch[:0]
			batches++
			if batches%l.progressEvery == 0 {
				log.Printf("Processed %d rows...", total)
			}
		}
	}

	if len(batch) > 0 {
		if err := flush(batch); err != nil {
			return total, err
		}
		total += int64(len(batch))
	}

	return total, nil
}

// appendBatch bulk-copies one batch into faostat_data
func (l *FactLoader) appendBatch(ctx context.Context, batch []factRow) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn("faostat_data",
		"dataset_code", "area_code", "item_code", "element_code",
		"year", "year_code", "month_code", "month_name",
		"value", "unit", "flag", "note"))
	if err != nil {
		return fmt.Errorf("error preparing copy: %w", err)
	}

	for _, row := range batch {
		_, err := stmt.Exec(
			row.datasetCode,
			row.areaCode,
			row.itemCode,
			row.elementCode,
			row.year,
			row.yearCode,
			row.monthCode,
			row.monthName,
			row.value,
			row.unit,
			row.flag,
			row.note)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("error buffering row: %w", err)
		}
	}

	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("error flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("error closing copy: %w", err)
	}

	return tx.Commit()
}

// mapFactColumns locates the canonical columns in the CSV header.
// Missing required columns make the whole file unloadable.
func mapFactColumns(header []string) (factColumns, error) {
	cols := factColumns{
		areaCode:    columnIndex(header, "Area Code"),
		itemCode:    columnIndex(header, "Item Code"),
		elementCode: columnIndex(header, "Element Code"),
		year:        columnIndex(header, "Year"),
		value:       columnIndex(header, "Value"),
		yearCode:    columnIndex(header, "Year Code"),
		monthCode:   columnIndex(header, "Months Code"),
		monthName:   columnIndex(header, "Months"),
		unit:        columnIndex(header, "Unit"),
		flag:        columnIndex(header, "Flag"),
		note:        columnIndex(header, "Note"),
	}

	missing := []string{}
	for _, req := range []struct {
		name string
		idx  int
	}{
		{"Area Code", cols.areaCode},
		{"Item Code", cols.itemCode},
		{"Element Code", cols.elementCode},
		{"Year", cols.year},
		{"Value", cols.value},
	} {
		if req.idx == -1 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing required columns: %v", missing)
	}

	return cols, nil
}

// projectRow maps one CSV record onto the canonical fact shape. The
// value column is coerced to numeric; anything unparseable becomes
// NULL, never an error. Year Code defaults to Year, month columns to
// NULL, unit/flag/note to the empty string.
func projectRow(cols factColumns, record []string, datasetCode string) (factRow, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := factRow{
		datasetCode: datasetCode,
		areaCode:    field(cols.areaCode),
		itemCode:    field(cols.itemCode),
		elementCode: field(cols.elementCode),
		year:        field(cols.year),
		unit:        field(cols.unit),
		flag:        field(cols.flag),
		note:        field(cols.note),
	}

	if row.year == "" {
		return row, fmt.Errorf("record has no year")
	}

	row.yearCode = field(cols.yearCode)
	if row.yearCode == "" {
		row.yearCode = row.year
	}

	if mc := field(cols.monthCode); mc != "" {
		row.monthCode = sql.NullString{String: mc, Valid: true}
	}
	if mn := field(cols.monthName); mn != "" {
		row.monthName = sql.NullString{String: mn, Valid: true}
	}

	if v := field(cols.value); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			row.value = sql.NullFloat64{Float64: parsed, Valid: true}
		}
	}

	return row, nil
}

// columnIndex returns the position of a column in the header, ignoring
// case and surrounding whitespace. Returns -1 when absent.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
