package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/pkg/config"
)

type entityStore interface {
	ListStudents() []models.Student
	ListClasses() []models.ClassRoom
	FindStudent(id string) (models.Student, bool)
	FindClass(id string) (models.ClassRoom, bool)
	UpsertStudent(student models.Student)
	UpsertClass(class models.ClassRoom)
	RemoveStudent(id string) bool
	ReplaceAll(students []models.Student, classes []models.ClassRoom) (bool, bool)
	Transaction(fn func(tx *repository.StoreTx) error) error
}

// ResolveMembership returns the first class whose id or name equals the student's
// classId. Two classes sharing a display name are ambiguous; list order decides.
func ResolveMembership(student models.Student, classes []models.ClassRoom) (models.ClassRoom, bool) {
	for _, class := range classes {
		if class.Ref().Matches(student.ClassID) {
			return class, true
		}
	}
	return models.ClassRoom{}, false
}

// CountMembers is the authoritative enrollment of a class: students whose classId
// equals its id or its name. The stored StudentCount is never consulted.
func CountMembers(classID, className string, students []models.Student) int {
	ref := models.ClassRef{ID: classID, Name: className}
	count := 0
	for _, st := range students {
		if ref.Matches(st.ClassID) {
			count++
		}
	}
	return count
}

// SearchPredicate matches a case-insensitive query against name and email. An empty
// query matches everyone.
func SearchPredicate(query string) func(models.Student) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(st models.Student) bool {
		return strings.Contains(strings.ToLower(st.Name), q) || strings.Contains(strings.ToLower(st.Email), q)
	}
}

// MembershipService is the only writer of Student.ClassID.
type MembershipService struct {
	store           entityStore
	metrics         *MetricsService
	logger          *zap.Logger
	unassignedLabel string
}

// NewMembershipService constructs the membership reconciler.
func NewMembershipService(store entityStore, cfg config.RosterConfig, metrics *MetricsService, logger *zap.Logger) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	label := cfg.UnassignedLabel
	if label == "" {
		label = config.DefaultUnassignedLabel
	}
	return &MembershipService{store: store, metrics: metrics, logger: logger, unassignedLabel: label}
}

// IsUnassigned reports whether a classId value means "no class".
func (s *MembershipService) IsUnassigned(classID string) bool {
	trimmed := strings.TrimSpace(classID)
	return trimmed == "" || trimmed == s.unassignedLabel
}

// AvailableForAssignment returns students not matched to the class, optionally only
// those without a class, optionally filtered by match. Students enrolled elsewhere are
// included; assigning them is an implicit transfer.
func (s *MembershipService) AvailableForAssignment(classID, className string, students []models.Student, match func(models.Student) bool, onlyUnassigned bool) []models.Student {
	ref := models.ClassRef{ID: classID, Name: className}
	out := make([]models.Student, 0)
	for _, st := range students {
		if ref.Matches(st.ClassID) {
			continue
		}
		if onlyUnassigned && !s.IsUnassigned(st.ClassID) {
			continue
		}
		if match != nil && !match(st) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// AssignStudentToClass overwrites the student's classId with target as given (id or
// name). An empty target or the unassigned label clears membership. Unknown students
// are ignored. Capacity is informational: the result flags an over-capacity class but
// the assignment is kept.
func (s *MembershipService) AssignStudentToClass(ctx context.Context, studentID, target string) models.AssignmentResult {
	var result models.AssignmentResult
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		result = s.assignInTx(tx, studentID, target)
		return nil
	})
	s.recordAssignment(result)
	return result
}

// assignInTx applies the assignment inside an open transaction so callers can combine
// it with other writes.
func (s *MembershipService) assignInTx(tx *repository.StoreTx, studentID, target string) models.AssignmentResult {
	result := models.AssignmentResult{StudentID: studentID}
	if s.IsUnassigned(target) {
		target = ""
	}
	student, ok := tx.FindStudent(studentID)
	if !ok {
		return result
	}
	classes := tx.ListClasses()
	previous, hadPrevious := ResolveMembership(student, classes)

	result.Found = true
	result.PreviousClass = student.ClassID
	result.ClassID = target

	student.ClassID = target
	tx.UpsertStudent(student)

	next, hasNext := ResolveMembership(student, classes)
	if hadPrevious && (!hasNext || next.ID != previous.ID) && target != "" {
		result.Transferred = true
	}
	if hasNext && next.MaxCapacity > 0 {
		result.OverCapacity = CountMembers(next.ID, next.Name, tx.ListStudents()) > next.MaxCapacity
	}
	return result
}

func (s *MembershipService) recordAssignment(result models.AssignmentResult) {
	if !result.Found {
		s.logger.Debug("assign skipped: unknown student", zap.String("student_id", result.StudentID))
		return
	}

	operation := "assign"
	if result.ClassID == "" {
		operation = "clear"
	} else if result.Transferred {
		operation = "transfer"
	}
	s.metrics.RecordMembershipChange(operation)
	fields := []zap.Field{
		zap.String("student_id", result.StudentID),
		zap.String("from", result.PreviousClass),
		zap.String("to", result.ClassID),
		zap.String("operation", operation),
	}
	if result.OverCapacity {
		s.logger.Warn("class over capacity after assignment", fields...)
	} else {
		s.logger.Info("membership changed", fields...)
	}
}

// DeleteClassCascade removes the class and clears classId for every student that
// pointed at it by id or by its pre-deletion name. Unknown ids are ignored.
func (s *MembershipService) DeleteClassCascade(ctx context.Context, classID string) (cleared int, found bool) {
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		class, ok := tx.FindClass(classID)
		if !ok {
			return nil
		}
		found = true
		ref := class.Ref()
		tx.RemoveClass(classID)
		for _, st := range tx.ListStudents() {
			if ref.Matches(st.ClassID) {
				st.ClassID = ""
				tx.UpsertStudent(st)
				cleared++
			}
		}
		return nil
	})
	if found {
		s.metrics.RecordMembershipChange("cascade")
		s.logger.Info("class deleted", zap.String("class_id", classID), zap.Int("students_cleared", cleared))
	}
	return cleared, found
}

// MigrateClassRefs rewrites name-keyed classId values to class ids and normalises the
// unassigned label to an empty string. Values matching no class are left as they are.
func (s *MembershipService) MigrateClassRefs(ctx context.Context) int {
	migrated := 0
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		classes := tx.ListClasses()
		for _, st := range tx.ListStudents() {
			switch {
			case st.ClassID == "":
				continue
			case s.IsUnassigned(st.ClassID):
				st.ClassID = ""
			default:
				class, ok := ResolveMembership(st, classes)
				if !ok || class.ID == st.ClassID {
					continue
				}
				st.ClassID = class.ID
			}
			tx.UpsertStudent(st)
			migrated++
		}
		return nil
	})
	if migrated > 0 {
		s.metrics.RecordMembershipChange("migrate")
	}
	s.logger.Info("class references migrated", zap.Int("students", migrated))
	return migrated
}

// Members returns the students matched to a class, in store order.
func (s *MembershipService) Members(class models.ClassRoom, students []models.Student) []models.Student {
	ref := class.Ref()
	out := make([]models.Student, 0)
	for _, st := range students {
		if ref.Matches(st.ClassID) {
			out = append(out, st)
		}
	}
	return out
}

// Classes returns the current classes.
func (s *MembershipService) Classes() []models.ClassRoom {
	return s.store.ListClasses()
}

// Overviews returns every class with enrollment recomputed from the current students.
func (s *MembershipService) Overviews() []models.ClassOverview {
	students := s.store.ListStudents()
	classes := s.store.ListClasses()
	out := make([]models.ClassOverview, 0, len(classes))
	for _, class := range classes {
		out = append(out, models.NewClassOverview(class, CountMembers(class.ID, class.Name, students)))
	}
	return out
}

// Roster returns a class with its members.
func (s *MembershipService) Roster(classID string) (models.ClassRoster, bool) {
	class, ok := s.store.FindClass(classID)
	if !ok {
		return models.ClassRoster{}, false
	}
	members := s.Members(class, s.store.ListStudents())
	return models.ClassRoster{
		ClassOverview: models.NewClassOverview(class, len(members)),
		Students:      members,
	}, true
}

// ClassLabel returns the display name for a student's classId: the resolved class name,
// the raw value when it matches no class, or the unassigned label.
func (s *MembershipService) ClassLabel(student models.Student, classes []models.ClassRoom) string {
	if s.IsUnassigned(student.ClassID) {
		return s.unassignedLabel
	}
	if class, ok := ResolveMembership(student, classes); ok {
		return class.Name
	}
	return student.ClassID
}
