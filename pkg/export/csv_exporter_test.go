package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVQuotesNumericAndEmptyRows(t *testing.T) {
	out, err := NewSpreadsheetCSVExporter().Render(Dataset{
		Headers: []string{"Name", "Note"},
		Rows:    []map[string]string{{"Name": "An", "Note": "a,b"}, {"Name": "42"}},
	})
	require.NoError(t, err)
	assert.Equal(t, UTF8BOM+"\"Name\",\"Note\"\n\"An\",\"a,b\"\n\"42\",\"\"\n", string(out))
}

func TestSpreadsheetCSVQuotesEveryField(t *testing.T) {
	out, err := NewSpreadsheetCSVExporter().Render(Dataset{
		Headers: []string{"Họ và Tên", "Ghi chú", "Trống"},
		Rows:    []map[string]string{{"Họ và Tên": "Nguyễn Văn A", "Ghi chú": `nói "xin chào"`}},
	})
	require.NoError(t, err)

	text := string(out)
	require.True(t, strings.HasPrefix(text, UTF8BOM))
	lines := strings.Split(strings.TrimPrefix(text, UTF8BOM), "\n")
	assert.Equal(t, `"Họ và Tên","Ghi chú","Trống"`, lines[0])
	assert.Equal(t, `"Nguyễn Văn A","nói ""xin chào""",""`, lines[1])
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := NewSpreadsheetCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
