package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Config holds the settings for one import run
type Config struct {
	DataDir       string
	DatasetsFile  string
	BatchSize     int
	ProgressEvery int
}

// Importer runs the full FAOSTAT ingestion: registry load, archive
// discovery, then per-archive dimension and fact loads. Archives are
// processed one at a time; a failing archive is logged and the run
// moves on to the next one. Two importers writing to the same tables
// at once are not supported; the fact table has no uniqueness key,
// so overlapping runs duplicate observations.
type Importer struct {
	db  *sql.DB
	cfg Config
}

func New(db *sql.DB, cfg Config) *Importer {
	return &Importer{db: db, cfg: cfg}
}

// Run executes the import. Only a missing or malformed datasets
// metadata document aborts the run.
func (imp *Importer) Run(ctx context.Context) error {
	log.Printf("Starting FAOSTAT data import process")

	datasets, err := LoadDatasets(imp.cfg.DatasetsFile)
	if err != nil {
		return err
	}
	InsertDatasetMetadata(imp.db, datasets)

	archives, err := FindArchives(imp.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("error scanning %s: %w", imp.cfg.DataDir, err)
	}
	log.Printf("Found %d zip files to process", len(archives))

	for i, path := range archives {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		log.Printf("Processing file %d/%d: %s", i+1, len(archives), path)
		code := ResolveDatasetCode(path, datasets)
		log.Printf("Dataset code: %s", code)

		if err := imp.ProcessArchive(ctx, path, code); err != nil {
			log.Printf("Error processing %s: %v", path, err)
			continue
		}
	}

	log.Printf("FAOSTAT data import completed")
	return nil
}

// ProcessArchive loads one archive: dimensions first (each best-effort),
// then the fact data. Dimension failures never block the fact load.
func (imp *Importer) ProcessArchive(ctx context.Context, path, datasetCode string) error {
	archive, err := OpenArchive(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	for _, dim := range archive.Dimensions() {
		log.Printf("Loading %s...", dim.Spec.Name)
		if err := LoadDimension(imp.db, dim, datasetCode); err != nil {
			log.Printf("Error loading %s: %v", dim.Spec.Name, err)
		}
	}

	log.Printf("Loading main data from %s...", archive.MainData.Name)
	loader := NewFactLoader(imp.db, imp.cfg.BatchSize, imp.cfg.ProgressEvery)
	rows, err := loader.Load(ctx, datasetCode, archive.MainData)
	if err != nil {
		return fmt.Errorf("error loading main data: %w", err)
	}

	log.Printf("Completed processing %s (%d observations)", path, rows)
	return nil
}
