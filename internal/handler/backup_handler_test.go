package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

func TestBackupHandlerDownloadAndRestore(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "backup_")
	payload := rec.Body.Bytes()

	var doc models.BackupDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Len(t, doc.Students, 3)
	assert.Equal(t, "1.0.0", doc.SystemVersion)

	fresh := newTestServer(t)
	fresh.store.ReplaceAll([]models.Student{}, []models.ClassRoom{})
	rec = fresh.do(t, http.MethodPost, "/api/v1/backup/restore", append([]byte("\ufeff"), payload...))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	var result models.RestoreResult
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.Equal(t, 3, result.StudentsAccepted)
	assert.Equal(t, 2, result.ClassesAccepted)
	assert.EqualValues(t, 0, envelope.Meta["warnings"])
	assert.Equal(t, srv.store.ListStudents(), fresh.store.ListStudents())
}

func TestBackupHandlerRestoreMalformed(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/backup/restore", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MALFORMED_BACKUP", decodeEnvelope(t, rec).Error.Code)
	assert.Len(t, srv.store.ListStudents(), 3)
}

func TestBackupHandlerRestoreMultipart(t *testing.T) {
	srv := newTestServer(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`{"students":[{"id":"x1","name":"Only"}]}`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/restore", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, envelope.Meta["warnings"])
	assert.Len(t, srv.store.ListStudents(), 1)
	assert.Len(t, srv.store.ListClasses(), 2)
}

func TestBackupHandlerArchiveWithoutStorage(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/backup/archive", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/backup/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/backup/archives", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
