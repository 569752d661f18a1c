package repository

import (
	"strings"
	"sync"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// AttendanceLedger stores the sparse attendance matrix (student -> date -> mark) and
// per-month tuition flags (student -> YYYY-MM -> paid). A missing mark is Unmarked and
// is never stored.
type AttendanceLedger struct {
	mu      sync.RWMutex
	marks   map[string]map[string]models.Mark
	tuition map[string]map[string]bool
}

// NewAttendanceLedger builds an empty ledger.
func NewAttendanceLedger() *AttendanceLedger {
	return &AttendanceLedger{
		marks:   make(map[string]map[string]models.Mark),
		tuition: make(map[string]map[string]bool),
	}
}

// Mark returns the mark for a student on a date.
func (l *AttendanceLedger) Mark(studentID, date string) models.Mark {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.marks[studentID][date]
}

// SetMark stores a mark; Unmarked removes the entry.
func (l *AttendanceLedger) SetMark(studentID, date string, mark models.Mark) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mark == models.MarkUnmarked {
		if days, ok := l.marks[studentID]; ok {
			delete(days, date)
			if len(days) == 0 {
				delete(l.marks, studentID)
			}
		}
		return
	}
	days, ok := l.marks[studentID]
	if !ok {
		days = make(map[string]models.Mark)
		l.marks[studentID] = days
	}
	days[date] = mark
}

// MarksForMonth returns a copy of the marks of a student whose date starts with yearMonth.
func (l *AttendanceLedger) MarksForMonth(studentID, yearMonth string) map[string]models.Mark {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]models.Mark)
	prefix := yearMonth + "-"
	for date, mark := range l.marks[studentID] {
		if strings.HasPrefix(date, prefix) {
			out[date] = mark
		}
	}
	return out
}

// Tuition returns the per-month flag and whether it has been seeded.
func (l *AttendanceLedger) Tuition(studentID, yearMonth string) (paid, seeded bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	paid, seeded = l.tuition[studentID][yearMonth]
	return paid, seeded
}

// SetTuition stores the per-month flag.
func (l *AttendanceLedger) SetTuition(studentID, yearMonth string, paid bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	months, ok := l.tuition[studentID]
	if !ok {
		months = make(map[string]bool)
		l.tuition[studentID] = months
	}
	months[yearMonth] = paid
}

// SeedTuition stores the flag only when the pair is unset and reports whether it wrote.
func (l *AttendanceLedger) SeedTuition(studentID, yearMonth string, paid bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	months, ok := l.tuition[studentID]
	if !ok {
		months = make(map[string]bool)
		l.tuition[studentID] = months
	}
	if _, seeded := months[yearMonth]; seeded {
		return false
	}
	months[yearMonth] = paid
	return true
}

// ForgetStudent drops every entry of a student.
func (l *AttendanceLedger) ForgetStudent(studentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.marks, studentID)
	delete(l.tuition, studentID)
}

// Size returns the number of stored marks and tuition flags.
func (l *AttendanceLedger) Size() (marks, tuition int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, days := range l.marks {
		marks += len(days)
	}
	for _, months := range l.tuition {
		tuition += len(months)
	}
	return marks, tuition
}
