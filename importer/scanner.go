package importer

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ArchiveSuffix marks a normalized FAOSTAT export archive
const ArchiveSuffix = "_(Normalized).zip"

// FindArchives walks root and returns the paths of all FAOSTAT archives
// found under it. Order is whatever the filesystem yields; unreadable
// directories are skipped.
func FindArchives(root string) ([]string, error) {
	var archives []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries, keep walking
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ArchiveSuffix) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return archives, nil
}
