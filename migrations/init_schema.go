package migrations

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the FAOSTAT tables and the denormalized view if they
// do not exist yet
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			dataset_code VARCHAR(10) PRIMARY KEY,
			dataset_name TEXT NOT NULL,
			topic TEXT,
			description TEXT,
			contact TEXT,
			email VARCHAR(255),
			date_update TIMESTAMP,
			file_size TEXT,
			file_rows BIGINT,
			file_location TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS areas (
			area_code INTEGER PRIMARY KEY,
			m49_code VARCHAR(10),
			area_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			item_code INTEGER PRIMARY KEY,
			cpc_code VARCHAR(20),
			item_name TEXT NOT NULL,
			dataset_code VARCHAR(10)
		)`,
		`CREATE TABLE IF NOT EXISTS elements (
			element_code INTEGER PRIMARY KEY,
			element_name TEXT NOT NULL,
			dataset_code VARCHAR(10)
		)`,
		`CREATE TABLE IF NOT EXISTS flags (
			flag_code VARCHAR(10) PRIMARY KEY,
			flag_description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS faostat_data (
			id BIGSERIAL PRIMARY KEY,
			dataset_code VARCHAR(10),
			area_code INTEGER,
			item_code INTEGER,
			element_code INTEGER,
			year INTEGER NOT NULL,
			year_code INTEGER,
			month_code INTEGER,
			month_name VARCHAR(20),
			value NUMERIC,
			unit VARCHAR(50),
			flag VARCHAR(10),
			note TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_faostat_data_year ON faostat_data (year)`,
		`CREATE INDEX IF NOT EXISTS idx_faostat_data_area ON faostat_data (area_code)`,
		`CREATE INDEX IF NOT EXISTS idx_faostat_data_dataset ON faostat_data (dataset_code)`,
		`CREATE OR REPLACE VIEW faostat_data_view AS
		SELECT
			fd.id,
			fd.dataset_code,
			d.dataset_name,
			fd.area_code,
			a.area_name,
			a.m49_code,
			fd.item_code,
			i.item_name,
			fd.element_code,
			e.element_name,
			fd.year,
			fd.month_name,
			fd.value,
			fd.unit,
			fd.flag,
			fd.note
		FROM faostat_data fd
		LEFT JOIN datasets d ON fd.dataset_code = d.dataset_code
		LEFT JOIN areas a ON fd.area_code = a.area_code
		LEFT JOIN items i ON fd.item_code = i.item_code
		LEFT JOIN elements e ON fd.element_code = e.element_code`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error executing schema statement: %w", err)
		}
	}

	return nil
}

// VerifySchema checks that all required tables exist
func VerifySchema(db *sql.DB) error {
	tables := []string{"datasets", "areas", "items", "elements", "flags", "faostat_data"}

	for _, table := range tables {
		var exists bool
		query := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = 'public'
				AND table_name = $1
			)`

		err := db.QueryRow(query, table).Scan(&exists)
		if err != nil {
			return err
		}

		if !exists {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	return nil
}
