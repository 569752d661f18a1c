package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Name"},
		Rows: []map[string]string{
			{"ID": "S1", "Name": "An"},
			{"ID": "S2", "Name": "Binh"},
		},
	}
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Roster")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Roster/2024")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Roster2024", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Binh", value)
}

func TestSheetNameTruncates(t *testing.T) {
	assert.Len(t, []rune(sheetName("a very long attendance sheet title for march")), 31)
	assert.Equal(t, "", sheetName(""))
}
