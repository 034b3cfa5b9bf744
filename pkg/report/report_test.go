package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *Table {
	t := &Table{Title: "Commissions 2024-01-01/2024-01-31", Columns: []string{"Staff", "Revenue", "Commission", "Sales"}}
	t.AddRow("Asha", decimal.RequireFromString("4300"), decimal.RequireFromString("110.5"), 3)
	t.AddRow("Ravi, Jr", decimal.Zero, decimal.Zero, 0)
	return t
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{" xlsx ", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	want := "Staff,Revenue,Commission,Sales\n" +
		"Asha,4300.00,110.50,3\n" +
		"\"Ravi, Jr\",0.00,0.00,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Commissions 2024-01-01-2024-01-"
	assert.Equal(t, sheet, f.GetSheetName(0))

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Staff", "Revenue", "Commission", "Sales"}, rows[0])
	assert.Equal(t, "Asha", rows[1][0])
	assert.Equal(t, "110.5", rows[1][2])
}
