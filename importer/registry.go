package importer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hwam91/open-ag-library/models"
)

// fullArchiveSuffix is the complete naming convention for an English
// normalized export, e.g. QCL_E_All_Data_(Normalized).zip
const fullArchiveSuffix = "_E_All_Data_(Normalized).zip"

// DatasetDescriptor is one entry of the FAOSTAT datasets metadata
// document. Field names follow the upstream JSON.
type DatasetDescriptor struct {
	DatasetCode        string `json:"DatasetCode"`
	DatasetName        string `json:"DatasetName"`
	Topic              string `json:"Topic"`
	DatasetDescription string `json:"DatasetDescription"`
	Contact            string `json:"Contact"`
	Email              string `json:"Email"`
	DateUpdate         string `json:"DateUpdate"`
	FileSize           string `json:"FileSize"`
	FileRows           int64  `json:"FileRows"`
	FileLocation       string `json:"FileLocation"`
}

type datasetsDocument struct {
	Datasets struct {
		Dataset []DatasetDescriptor `json:"Dataset"`
	} `json:"Datasets"`
}

// LoadDatasets parses the datasets metadata document. A missing or
// malformed document is fatal for the whole run; without dataset
// identity nothing downstream is trustworthy.
func LoadDatasets(path string) ([]DatasetDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading datasets metadata %s: %w", path, err)
	}

	var doc datasetsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing datasets metadata %s: %w", path, err)
	}

	log.Printf("Found %d datasets in %s", len(doc.Datasets.Dataset), path)
	return doc.Datasets.Dataset, nil
}

// InsertDatasetMetadata upserts every descriptor into the datasets
// table. Individual failures are logged and do not stop the remaining
// inserts.
func InsertDatasetMetadata(db *sql.DB, datasets []DatasetDescriptor) {
	query := `
		INSERT INTO datasets (dataset_code, dataset_name, topic, description, contact, email, date_update, file_size, file_rows, file_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (dataset_code) DO UPDATE SET
			dataset_name = EXCLUDED.dataset_name,
			topic = EXCLUDED.topic,
			description = EXCLUDED.description,
			contact = EXCLUDED.contact,
			email = EXCLUDED.email,
			date_update = EXCLUDED.date_update,
			file_size = EXCLUDED.file_size,
			file_rows = EXCLUDED.file_rows,
			file_location = EXCLUDED.file_location`

	inserted := 0
	for _, ds := range datasets {
		var dateUpdate sql.NullString
		if ds.DateUpdate != "" {
			dateUpdate = sql.NullString{String: ds.DateUpdate, Valid: true}
		}

		_, err := db.Exec(query,
			ds.DatasetCode,
			ds.DatasetName,
			ds.Topic,
			ds.DatasetDescription,
			ds.Contact,
			ds.Email,
			dateUpdate,
			ds.FileSize,
			ds.FileRows,
			ds.FileLocation)
		if err != nil {
			log.Printf("Error inserting dataset %s: %v", ds.DatasetCode, err)
			continue
		}
		inserted++
	}

	log.Printf("Inserted %d dataset metadata records", inserted)
}

// ListDatasets reads back the registered dataset metadata, ordered by
// name
func ListDatasets(db *sql.DB) ([]models.Dataset, error) {
	rows, err := db.Query(`
		SELECT dataset_code, dataset_name, COALESCE(topic, ''), COALESCE(description, ''),
		       COALESCE(contact, ''), COALESCE(email, ''), date_update,
		       COALESCE(file_size, ''), COALESCE(file_rows, 0), COALESCE(file_location, '')
		FROM datasets
		ORDER BY dataset_name`)
	if err != nil {
		return nil, fmt.Errorf("error listing datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.Dataset
	for rows.Next() {
		var d models.Dataset
		if err := rows.Scan(&d.Code, &d.Name, &d.Topic, &d.Description,
			&d.Contact, &d.Email, &d.DateUpdate,
			&d.FileSize, &d.FileRows, &d.FileLocation); err != nil {
			return nil, fmt.Errorf("error scanning dataset row: %w", err)
		}
		datasets = append(datasets, d)
	}

	return datasets, rows.Err()
}

// ResolveDatasetCode maps an archive path to its canonical dataset code
// using the metadata descriptors. The first descriptor (in document
// order) whose FileLocation contains the archive stem, or ends with
// "<stem>.zip", wins. When nothing matches, the first 10 characters of
// the stem are used as a synthetic code.
func ResolveDatasetCode(archivePath string, datasets []DatasetDescriptor) string {
	stem := strings.TrimSuffix(filepath.Base(archivePath), fullArchiveSuffix)

	for _, ds := range datasets {
		if ds.FileLocation == "" {
			continue
		}
		if strings.Contains(ds.FileLocation, stem) ||
			strings.HasSuffix(ds.FileLocation, stem+".zip") {
			return ds.DatasetCode
		}
	}

	log.Printf("Warning: could not find dataset code for %s, using filename prefix", archivePath)
	if len(stem) > 10 {
		return stem[:10]
	}
	return stem
}
