package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandlerStudentsCSV(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/exports/students?classId=c1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "danh_sach_hoc_vien_")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(rec.Body.String(), "\ufeff")), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"IELTS A"`)
}

func TestExportHandlerEmptyScope(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/exports/students?search=nobody", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "EMPTY_EXPORT_SCOPE", decodeEnvelope(t, rec).Error.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/exports/students?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerAttendanceXLSX(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/exports/attendance?classId=c1&month=2024-09&format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "diem_danh_IELTS_A_2024-09.xlsx")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}
