package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/pkg/config"
)

type testEnv struct {
	store      *repository.EntityStore
	ledger     *repository.AttendanceLedger
	settings   *repository.SettingsStore
	membership *MembershipService
	attendance *AttendanceService
	students   *StudentService
	classes    *ClassService
	settingsSv *SettingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewEntityStore()
	ledger := repository.NewAttendanceLedger()
	settings := repository.NewSettingsStore(models.DefaultSettings(), models.DefaultProfile())
	validate := validator.New()
	logger := zap.NewNop()

	membership := NewMembershipService(store, config.RosterConfig{UnassignedLabel: config.DefaultUnassignedLabel}, nil, logger)
	attendance := NewAttendanceService(ledger, store, membership, nil, logger)
	return &testEnv{
		store:      store,
		ledger:     ledger,
		settings:   settings,
		membership: membership,
		attendance: attendance,
		students:   NewStudentService(store, membership, attendance, validate, logger),
		classes:    NewClassService(store, membership, validate, logger),
		settingsSv: NewSettingsService(settings, validate, logger),
	}
}

func (e *testEnv) seedClasses(classes ...models.ClassRoom) {
	for _, class := range classes {
		e.store.UpsertClass(class)
	}
}

func (e *testEnv) seedStudents(students ...models.Student) {
	for _, st := range students {
		e.store.UpsertStudent(st)
	}
}

func student(id, name, classID string) models.Student {
	return models.Student{
		ID:       id,
		Name:     name,
		Email:    id + "@example.com",
		Status:   models.StudentStatusActive,
		JoinDate: "2024-01-15",
		ClassID:  classID,
		Scores:   []models.SubjectScore{},
	}
}

func fixedClock(ts string) func() time.Time {
	parsed, _ := time.Parse(time.RFC3339, ts)
	return func() time.Time { return parsed }
}
