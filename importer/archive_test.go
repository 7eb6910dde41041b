package importer

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string][]byte) *zip.Reader {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func TestNewArchive_FullArchive(t *testing.T) {
	zr := buildZip(t, map[string][]byte{
		"QCL_E_All_Data_(Normalized).csv": []byte("Area Code,Item Code\n"),
		"QCL_E_AreaCodes.csv":             []byte("Area Code,M49 Code,Area\n"),
		"QCL_E_ItemCodes.csv":             []byte("Item Code,CPC Code,Item\n"),
		"QCL_E_Elements.csv":              []byte("Element Code,Element\n"),
		"QCL_E_Flags.csv":                 []byte("Flag,Description\n"),
	})

	a, err := newArchive(zr, "QCL_E_All_Data_(Normalized).zip")
	require.NoError(t, err)
	assert.NotNil(t, a.MainData)
	assert.NotNil(t, a.Areas)
	assert.NotNil(t, a.Items)
	assert.NotNil(t, a.Elements)
	assert.NotNil(t, a.Flags)

	dims := a.Dimensions()
	require.Len(t, dims, 4)
	assert.Equal(t, "areas", dims[0].Spec.Name)
	assert.Equal(t, "items", dims[1].Spec.Name)
	assert.Equal(t, "elements", dims[2].Spec.Name)
	assert.Equal(t, "flags", dims[3].Spec.Name)
}

func TestNewArchive_MissingMainData(t *testing.T) {
	zr := buildZip(t, map[string][]byte{
		"QCL_E_AreaCodes.csv": []byte("Area Code,M49 Code,Area\n"),
	})

	_, err := newArchive(zr, "QCL_E_All_Data_(Normalized).zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no main data file")
}

func TestNewArchive_MissingDimensionsAreSkipped(t *testing.T) {
	zr := buildZip(t, map[string][]byte{
		"PP_E_All_Data_(Normalized).csv": []byte("Area Code,Item Code\n"),
		"PP_E_Flags.csv":                 []byte("Flag,Description\n"),
	})

	a, err := newArchive(zr, "PP_E_All_Data_(Normalized).zip")
	require.NoError(t, err)
	assert.Nil(t, a.Areas)
	assert.Nil(t, a.Items)
	assert.Nil(t, a.Elements)

	dims := a.Dimensions()
	require.Len(t, dims, 1)
	assert.Equal(t, "flags", dims[0].Spec.Name)
}

func TestDimensionSpecInsertQuery(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO areas (area_code, m49_code, area_name) VALUES ($1, $2, $3) ON CONFLICT (area_code) DO NOTHING",
		AreaSpec.insertQuery())
	assert.Equal(t,
		"INSERT INTO items (item_code, cpc_code, item_name, dataset_code) VALUES ($1, $2, $3, $4) ON CONFLICT (item_code) DO NOTHING",
		ItemSpec.insertQuery())
	assert.Equal(t,
		"INSERT INTO elements (element_code, element_name, dataset_code) VALUES ($1, $2, $3) ON CONFLICT (element_code) DO NOTHING",
		ElementSpec.insertQuery())
	assert.Equal(t,
		"INSERT INTO flags (flag_code, flag_description) VALUES ($1, $2) ON CONFLICT (flag_code) DO NOTHING",
		FlagSpec.insertQuery())
}
