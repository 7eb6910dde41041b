package importer

import (
	"archive/zip"
	"fmt"
	"strings"
)

// Archive is one opened FAOSTAT export. MainData is always set; the
// dimension files are nil when the archive does not carry them.
type Archive struct {
	Path     string
	MainData *zip.File
	Areas    *zip.File
	Items    *zip.File
	Elements *zip.File
	Flags    *zip.File

	closer *zip.ReadCloser
}

// OpenArchive opens the zip at path and locates the main fact CSV and
// the optional dimension CSVs by their conventional names. An archive
// without a main fact CSV is an error; there is nothing to load.
func OpenArchive(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("error opening archive %s: %w", path, err)
	}

	a, err := newArchive(&zr.Reader, path)
	if err != nil {
		zr.Close()
		return nil, err
	}
	a.closer = zr
	return a, nil
}

func newArchive(r *zip.Reader, path string) (*Archive, error) {
	a := &Archive{Path: path}

	for _, f := range r.File {
		switch {
		case strings.Contains(f.Name, "All_Data_(Normalized).csv"):
			if a.MainData == nil {
				a.MainData = f
			}
		case strings.Contains(f.Name, "AreaCodes.csv"):
			a.Areas = f
		case strings.Contains(f.Name, "ItemCodes.csv"):
			a.Items = f
		case strings.Contains(f.Name, "Elements.csv"):
			a.Elements = f
		case strings.Contains(f.Name, "Flags.csv"):
			a.Flags = f
		}
	}

	if a.MainData == nil {
		return nil, fmt.Errorf("no main data file in archive %s", path)
	}

	return a, nil
}

// Close releases the underlying zip reader
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Dimensions returns the dimension files present in the archive, paired
// with their load specs, in load order.
func (a *Archive) Dimensions() []DimensionFile {
	var dims []DimensionFile
	if a.Areas != nil {
		dims = append(dims, DimensionFile{File: a.Areas, Spec: AreaSpec})
	}
	if a.Items != nil {
		dims = append(dims, DimensionFile{File: a.Items, Spec: ItemSpec})
	}
	if a.Elements != nil {
		dims = append(dims, DimensionFile{File: a.Elements, Spec: ElementSpec})
	}
	if a.Flags != nil {
		dims = append(dims, DimensionFile{File: a.Flags, Spec: FlagSpec})
	}
	return dims
}
