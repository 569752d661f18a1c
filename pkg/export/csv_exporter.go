package export

import (
	"bytes"
	"fmt"
	"strings"
)

// UTF8BOM is prepended to spreadsheet-bound CSV payloads so Excel detects UTF-8.
const UTF8BOM = "\ufeff"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into spreadsheet-friendly CSV: UTF-8 BOM
// first, every field double-quoted.
type CSVExporter struct{}

// NewSpreadsheetCSVExporter builds the exporter used for user-facing downloads.
func NewSpreadsheetCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.WriteString(UTF8BOM)
	writeQuoted(buf, data.Headers)
	for _, row := range data.Rows {
		writeQuoted(buf, record(data.Headers, row))
	}
	return buf.Bytes(), nil
}

func record(headers []string, row map[string]string) []string {
	out := make([]string, len(headers))
	for i, header := range headers {
		out[i] = row[header]
	}
	return out
}

// writeQuoted emits one line with every field quoted; embedded quotes are doubled.
func writeQuoted(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
