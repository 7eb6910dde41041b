package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factHeader = "Area Code,Area,Item Code,Item,Element Code,Element,Year Code,Year,Unit,Value,Flag"

func factReader(t *testing.T, rows int) (*csv.Reader, factColumns) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(factHeader + "\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "2,Afghanistan,15,Wheat,5510,Production,2020,2020,tonnes,%d.5,A\n", i)
	}

	reader := csv.NewReader(strings.NewReader(sb.String()))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	require.NoError(t, err)
	cols, err := mapFactColumns(header)
	require.NoError(t, err)
	return reader, cols
}

func TestStream_BatchBoundaries(t *testing.T) {
	reader, cols := factReader(t, 25000)

	loader := NewFactLoader(nil, 10000, 1000000)
	var sizes []int
	total, err := loader.stream(context.Background(), reader, cols, "QCL", func(batch []factRow) error {
		sizes = append(sizes, len(batch))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(25000), total)
	assert.Equal(t, []int{10000, 10000, 5000}, sizes)
}

func TestStream_ExactMultipleOfBatchSize(t *testing.T) {
	reader, cols := factReader(t, 20000)

	loader := NewFactLoader(nil, 10000, 1000000)
	var sizes []int
	total, err := loader.stream(context.Background(), reader, cols, "QCL", func(batch []factRow) error {
		sizes = append(sizes, len(batch))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(20000), total)
	assert.Equal(t, []int{10000, 10000}, sizes)
}

func TestStream_FlushErrorStopsLoad(t *testing.T) {
	reader, cols := factReader(t, 25000)

	loader := NewFactLoader(nil, 10000, 1000000)
	calls := 0
	_, err := loader.stream(context.Background(), reader, cols, "QCL", func(batch []factRow) error {
		calls++
		return fmt.Errorf("boom")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestMapFactColumns_MissingRequired(t *testing.T) {
	_, err := mapFactColumns([]string{"Area Code", "Item Code", "Year", "Value"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Element Code")
}

func TestProjectRow(t *testing.T) {
	header := strings.Split(factHeader, ",")
	cols, err := mapFactColumns(header)
	require.NoError(t, err)

	record := []string{"2", "Afghanistan", "15", "Wheat", "5510", "Production", "2020", "2020", "tonnes", "1234.5", "A"}
	row, err := projectRow(cols, record, "QCL")
	require.NoError(t, err)

	assert.Equal(t, "QCL", row.datasetCode)
	assert.Equal(t, "2", row.areaCode)
	assert.Equal(t, "15", row.itemCode)
	assert.Equal(t, "5510", row.elementCode)
	assert.Equal(t, "2020", row.year)
	assert.Equal(t, "2020", row.yearCode)
	assert.Equal(t, "tonnes", row.unit)
	assert.Equal(t, "A", row.flag)
	assert.Equal(t, "", row.note)
	assert.True(t, row.value.Valid)
	assert.Equal(t, 1234.5, row.value.Float64)
	assert.False(t, row.monthCode.Valid)
	assert.False(t, row.monthName.Valid)
}

func TestProjectRow_NonNumericValueBecomesNull(t *testing.T) {
	header := strings.Split(factHeader, ",")
	cols, err := mapFactColumns(header)
	require.NoError(t, err)

	for _, value := range []string{"N/A", "...", "", "<0.5"} {
		record := []string{"2", "Afghanistan", "15", "Wheat", "5510", "Production", "2020", "2020", "tonnes", value, "A"}
		row, err := projectRow(cols, record, "QCL")
		require.NoError(t, err)
		assert.False(t, row.value.Valid, "value %q should be stored as NULL", value)
	}
}

func TestProjectRow_YearCodeDefaultsToYear(t *testing.T) {
	header := []string{"Area Code", "Item Code", "Element Code", "Year", "Value"}
	cols, err := mapFactColumns(header)
	require.NoError(t, err)

	row, err := projectRow(cols, []string{"2", "15", "5510", "1999", "42"}, "QCL")
	require.NoError(t, err)
	assert.Equal(t, "1999", row.year)
	assert.Equal(t, "1999", row.yearCode)
	assert.Equal(t, "", row.unit)
	assert.Equal(t, "", row.flag)
}

func TestProjectRow_MissingYearIsError(t *testing.T) {
	header := []string{"Area Code", "Item Code", "Element Code", "Year", "Value"}
	cols, err := mapFactColumns(header)
	require.NoError(t, err)

	_, err = projectRow(cols, []string{"2", "15", "5510", "", "42"}, "QCL")
	assert.Error(t, err)
}

func TestColumnIndex(t *testing.T) {
	header := []string{"Area Code", " Year ", "Value"}
	assert.Equal(t, 0, columnIndex(header, "Area Code"))
	assert.Equal(t, 1, columnIndex(header, "year"))
	assert.Equal(t, 2, columnIndex(header, "Value"))
	assert.Equal(t, -1, columnIndex(header, "Note"))
}
