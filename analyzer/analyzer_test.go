package analyzer

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for fname, content := range files {
		w, err := zw.Create(fname)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestAnalyzeArchives(t *testing.T) {
	dir := t.TempDir()

	writeArchive(t, dir, "Production_Crops_E_All_Data_(Normalized).zip", map[string]string{
		"Production_Crops_E_All_Data_(Normalized).csv": "Area Code,Area,Item Code,Item,Element Code,Element,Year,Unit,Value,Flag\n2,Afghanistan,15,Wheat,5510,Production,2020,tonnes,5000,A\n",
		"Production_Crops_E_AreaCodes.csv":             "Area Code,M49 Code,Area\n",
	})
	writeArchive(t, dir, "Emissions_E_All_Data_(Normalized).zip", map[string]string{
		"Emissions_E_All_Data_(Normalized).csv": "Area Code,Area,Item Code,Item,Element Code,Element,Year,Source,Value,Flag\n",
	})
	writeArchive(t, dir, "Broken_E_All_Data_(Normalized).zip", map[string]string{
		"readme.txt": "nothing useful",
	})

	schemas, err := AnalyzeArchives(dir, 0)
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	byName := map[string]ArchiveSchema{}
	for _, s := range schemas {
		byName[s.ZipFile] = s
	}

	crops := byName["Production_Crops_E_All_Data_(Normalized).zip"]
	assert.Equal(t, 10, crops.NumColumns)
	assert.Len(t, crops.FilesInZip, 2)
	assert.Equal(t, "Wheat", crops.SampleRow["Item"])
	assert.Equal(t, "5000", crops.SampleRow["Value"])

	emissions := byName["Emissions_E_All_Data_(Normalized).zip"]
	assert.Contains(t, emissions.Columns, "Source")
	assert.Nil(t, emissions.SampleRow)
}

func TestAnalyzeArchives_Limit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A_E_All_Data_(Normalized).zip", "B_E_All_Data_(Normalized).zip", "C_E_All_Data_(Normalized).zip"} {
		writeArchive(t, dir, name, map[string]string{
			name[:1] + "_E_All_Data_(Normalized).csv": "Area Code,Value\n",
		})
	}

	schemas, err := AnalyzeArchives(dir, 2)
	require.NoError(t, err)
	assert.Len(t, schemas, 2)
}

func TestColumnDistribution(t *testing.T) {
	schemas := []ArchiveSchema{
		{Columns: []string{"Area Code", "Year", "Value"}},
		{Columns: []string{"Area Code", "Year", "Value", "Note"}},
		{Columns: []string{"Area Code", "Year", "Year"}},
	}

	counts := ColumnDistribution(schemas)
	assert.Equal(t, 3, counts["Area Code"])
	assert.Equal(t, 3, counts["Year"], "duplicate columns in one archive count once")
	assert.Equal(t, 2, counts["Value"])
	assert.Equal(t, 1, counts["Note"])
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema_analysis.json")

	schemas := []ArchiveSchema{{ZipFile: "x.zip", Columns: []string{"Year"}, NumColumns: 1}}
	require.NoError(t, SaveJSON(schemas, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"zip_file": "x.zip"`)
}
