package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/config"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *responseError         `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type testServer struct {
	engine *gin.Engine
	store  *repository.EntityStore
	ledger *repository.AttendanceLedger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewEntityStore()
	ledger := repository.NewAttendanceLedger()
	settingsStore := repository.NewSettingsStore(models.DefaultSettings(), models.DefaultProfile())
	validate := validator.New()
	logger := zap.NewNop()
	metrics := service.NewMetricsService()

	membership := service.NewMembershipService(store, config.RosterConfig{}, metrics, logger)
	attendance := service.NewAttendanceService(ledger, store, membership, metrics, logger)
	students := service.NewStudentService(store, membership, attendance, validate, logger)
	classes := service.NewClassService(store, membership, validate, logger)
	settings := service.NewSettingsService(settingsStore, validate, logger)
	exports := service.NewExportService(membership, metrics, logger, nil, nil, nil)
	backups := service.NewBackupService(store, settings, membership, attendance, nil, nil, service.BackupConfig{}, metrics, logger)
	dashboard := service.NewDashboardService(store, membership, logger)

	engine := gin.New()
	Register(engine, Handlers{
		Students:   NewStudentHandler(students),
		Classes:    NewClassHandler(classes),
		Attendance: NewAttendanceHandler(attendance, validate),
		Exports:    NewExportHandler(students, attendance, exports),
		Backups:    NewBackupHandler(backups),
		Settings:   NewSettingsHandler(settings),
		Dashboard:  NewDashboardHandler(dashboard, metrics),
		Metrics:    NewMetricsHandler(metrics, nil),
	}, RouterOptions{MetricsEnabled: true, Logger: logger})

	store.UpsertClass(models.ClassRoom{ID: "c1", Name: "IELTS A", MaxCapacity: 2})
	store.UpsertClass(models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	store.UpsertStudent(models.Student{ID: "s1", Name: "Nguyễn An", Email: "an@example.com", Status: models.StudentStatusActive, ClassID: "c1", TuitionPaid: true})
	store.UpsertStudent(models.Student{ID: "s2", Name: "Trần Bình", Email: "binh@example.com", Status: models.StudentStatusActive, ClassID: "IELTS A"})
	store.UpsertStudent(models.Student{ID: "s3", Name: "Lê Chi", Email: "chi@example.com", Status: models.StudentStatusGraduated, ClassID: "c2"})

	return &testServer{engine: engine, store: store, ledger: ledger}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(v)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope
}
