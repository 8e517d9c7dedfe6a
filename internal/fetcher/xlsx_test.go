package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeSpecWorkbook(t *testing.T, sheetName string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, row := range [][]string{
		{"category", "msrp", "life_hours"},
		{"bucket_truck", "172000", "10000"},
		{"stump_grinder", "45000", "5000"},
	} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "specs.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()
	path := writeSpecWorkbook(t, "specs")

	rows, err := ReadXLSX(path, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"bucket_truck", "172000", "10000"}, rows[0])
	assert.Equal(t, []string{"stump_grinder", "45000", "5000"}, rows[1])
}

func TestReadXLSXKeepHeader(t *testing.T) {
	t.Parallel()
	path := writeSpecWorkbook(t, "specs")

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "category", rows[0][0])
}

func TestReadXLSXByName(t *testing.T) {
	t.Parallel()
	path := writeSpecWorkbook(t, "fy2026")

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "fy2026", SkipRows: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no sheet named "missing"`)
}

func TestReadXLSXSheetIndexOutOfRange(t *testing.T) {
	t.Parallel()
	path := writeSpecWorkbook(t, "specs")

	_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadXLSXMissingFile(t *testing.T) {
	t.Parallel()
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
}
