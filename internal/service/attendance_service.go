package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type attendanceLedger interface {
	Mark(studentID, date string) models.Mark
	SetMark(studentID, date string, mark models.Mark)
	MarksForMonth(studentID, yearMonth string) map[string]models.Mark
	Tuition(studentID, yearMonth string) (paid, seeded bool)
	SetTuition(studentID, yearMonth string, paid bool)
	SeedTuition(studentID, yearMonth string, paid bool) bool
	ForgetStudent(studentID string)
}

type studentReader interface {
	ListStudents() []models.Student
	FindStudent(id string) (models.Student, bool)
	FindClass(id string) (models.ClassRoom, bool)
}

var weekdayLabels = [...]string{"CN", "T2", "T3", "T4", "T5", "T6", "T7"}

// DaysInMonth lists every calendar day of a YYYY-MM month, leap years included.
func DaysInMonth(yearMonth string) ([]models.Day, error) {
	first, err := models.ParseMonth(yearMonth)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	days := make([]models.Day, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		days = append(days, models.Day{
			Date:      d.Format(models.DateLayout),
			Day:       d.Day(),
			Month:     int(d.Month()),
			Weekday:   weekdayLabels[wd],
			IsWeekend: wd == time.Sunday || wd == time.Saturday,
		})
	}
	return days, nil
}

// AttendanceService owns the read-modify-write cycles over the attendance ledger.
type AttendanceService struct {
	ledger     attendanceLedger
	students   studentReader
	membership *MembershipService
	metrics    *MetricsService
	logger     *zap.Logger

	mu sync.Mutex
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(ledger attendanceLedger, students studentReader, membership *MembershipService, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{ledger: ledger, students: students, membership: membership, metrics: metrics, logger: logger}
}

// CycleMark advances one cell Unmarked -> Present -> Absent -> Late -> Unmarked and
// returns the new mark. Unknown students are left untouched.
func (s *AttendanceService) CycleMark(ctx context.Context, studentID, date string) (models.Mark, error) {
	if _, err := models.ParseDate(date); err != nil {
		return models.MarkUnmarked, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if _, ok := s.students.FindStudent(studentID); !ok {
		return models.MarkUnmarked, nil
	}

	s.mu.Lock()
	next := s.ledger.Mark(studentID, date).Next()
	s.ledger.SetMark(studentID, date, next)
	s.mu.Unlock()

	s.metrics.RecordAttendanceMark(next, 1)
	s.logger.Debug("attendance cycled", zap.String("student_id", studentID), zap.String("date", date), zap.String("mark", string(next)))
	return next, nil
}

// QuickMarkColumn sets one date for all given students: Absent when all are Present,
// Unmarked when all are Absent, otherwise Present. An empty list writes nothing.
func (s *AttendanceService) QuickMarkColumn(ctx context.Context, date string, studentIDs []string) (models.ColumnResult, error) {
	if _, err := models.ParseDate(date); err != nil {
		return models.ColumnResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	result := models.ColumnResult{Date: date, Applied: models.MarkPresent, Students: []string{}}
	studentIDs = s.knownStudents(studentIDs)
	if len(studentIDs) == 0 {
		return result, nil
	}

	s.mu.Lock()
	allPresent, allAbsent := true, true
	for _, id := range studentIDs {
		mark := s.ledger.Mark(id, date)
		if mark != models.MarkPresent {
			allPresent = false
		}
		if mark != models.MarkAbsent {
			allAbsent = false
		}
	}
	switch {
	case allPresent:
		result.Applied = models.MarkAbsent
	case allAbsent:
		result.Applied = models.MarkUnmarked
	}
	for _, id := range studentIDs {
		s.ledger.SetMark(id, date, result.Applied)
	}
	s.mu.Unlock()

	result.Students = append(result.Students, studentIDs...)
	s.metrics.RecordAttendanceMark(result.Applied, len(studentIDs))
	s.logger.Info("attendance column marked",
		zap.String("date", date),
		zap.String("mark", string(result.Applied)),
		zap.Int("students", len(studentIDs)),
	)
	return result, nil
}

// knownStudents drops unknown and repeated ids, keeping request order.
func (s *AttendanceService) knownStudents(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.students.FindStudent(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// TuitionPaid reads the per-month tuition flag, falling back to the student's global flag
// when the pair was never seeded. It does not write.
func (s *AttendanceService) TuitionPaid(studentID, yearMonth string) bool {
	if paid, seeded := s.ledger.Tuition(studentID, yearMonth); seeded {
		return paid
	}
	if student, ok := s.students.FindStudent(studentID); ok {
		return student.TuitionPaid
	}
	return false
}

// EnsureMonth seeds unseen (student, month) tuition pairs from the global flag and
// returns how many were seeded. Existing entries are never overwritten.
func (s *AttendanceService) EnsureMonth(ctx context.Context, yearMonth string, studentIDs []string) (int, error) {
	if _, err := models.ParseMonth(yearMonth); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seeded := 0
	for _, id := range studentIDs {
		student, ok := s.students.FindStudent(id)
		if !ok {
			continue
		}
		if s.ledger.SeedTuition(id, yearMonth, student.TuitionPaid) {
			seeded++
		}
	}
	return seeded, nil
}

// ToggleTuition seeds the pair if absent, then inverts it and returns the new value.
func (s *AttendanceService) ToggleTuition(ctx context.Context, studentID, yearMonth string) (bool, error) {
	if _, err := models.ParseMonth(yearMonth); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	student, ok := s.students.FindStudent(studentID)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	s.ledger.SeedTuition(studentID, yearMonth, student.TuitionPaid)
	paid, _ := s.ledger.Tuition(studentID, yearMonth)
	paid = !paid
	s.ledger.SetTuition(studentID, yearMonth, paid)
	s.mu.Unlock()

	s.logger.Info("tuition toggled", zap.String("student_id", studentID), zap.String("month", yearMonth), zap.Bool("paid", paid))
	return paid, nil
}

// MonthlyStat computes present-equivalent days (Late counts half) over marked days.
// A month with no marks yields zero rather than dividing by zero.
func (s *AttendanceService) MonthlyStat(studentID, yearMonth string) (models.MonthlyStat, error) {
	if _, err := models.ParseMonth(yearMonth); err != nil {
		return models.MonthlyStat{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return monthlyStat(s.ledger.MarksForMonth(studentID, yearMonth)), nil
}

func monthlyStat(marks map[string]models.Mark) models.MonthlyStat {
	stat := models.MonthlyStat{}
	for _, mark := range marks {
		if mark == models.MarkUnmarked {
			continue
		}
		stat.TotalMarkedDays++
		stat.PresentEquivalent += mark.Credit()
	}
	if stat.TotalMarkedDays > 0 {
		stat.Percentage = int(math.Round(stat.PresentEquivalent / float64(stat.TotalMarkedDays) * 100))
	}
	return stat
}

// Sheet builds the attendance grid of a class for one month. Tuition pairs of the
// visible students are seeded before the grid is read.
func (s *AttendanceService) Sheet(ctx context.Context, classID, yearMonth, search string) (*models.AttendanceSheet, error) {
	days, err := DaysInMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	class, ok := s.students.FindClass(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", classID))
	}

	members := s.membership.Members(class, s.students.ListStudents())
	if match := SearchPredicate(search); match != nil {
		filtered := members[:0]
		for _, st := range members {
			if match(st) {
				filtered = append(filtered, st)
			}
		}
		members = filtered
	}

	ids := make([]string, 0, len(members))
	for _, st := range members {
		ids = append(ids, st.ID)
	}
	if _, err := s.EnsureMonth(ctx, yearMonth, ids); err != nil {
		return nil, err
	}

	sheet := &models.AttendanceSheet{
		ClassID:   class.ID,
		ClassName: class.Name,
		Month:     yearMonth,
		Days:      days,
		Rows:      make([]models.SheetRow, 0, len(members)),
		Empty:     len(members) == 0,
	}
	for _, st := range members {
		marks := s.ledger.MarksForMonth(st.ID, yearMonth)
		sheet.Rows = append(sheet.Rows, models.SheetRow{
			Student:     st,
			Marks:       marks,
			TuitionPaid: s.TuitionPaid(st.ID, yearMonth),
			Stat:        monthlyStat(marks),
		})
	}
	return sheet, nil
}

// ForgetStudent drops the ledger entries of a removed student.
func (s *AttendanceService) ForgetStudent(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.ForgetStudent(studentID)
}
