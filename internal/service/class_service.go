package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// ClassRequest captures the create/replace payload of a class.
type ClassRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Teacher     string `json:"teacher" validate:"omitempty,max=120"`
	Schedule    string `json:"schedule"`
	Subject     string `json:"subject"`
	MaxCapacity int    `json:"maxCapacity" validate:"gte=0"`
	Image       string `json:"image" validate:"omitempty,url"`
}

// AddMemberRequest assigns a student to a class. ConfirmTransfer must be set when the
// student currently belongs to another class.
type AddMemberRequest struct {
	StudentID       string `json:"student_id" validate:"required"`
	ConfirmTransfer bool   `json:"confirm_transfer"`
}

// ClassService coordinates class operations.
type ClassService struct {
	store      entityStore
	membership *MembershipService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(store entityStore, membership *MembershipService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{store: store, membership: membership, validator: validate, logger: logger}
}

// List returns classes with recomputed enrollment and pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassOverview, *models.Pagination, error) {
	query := strings.ToLower(strings.TrimSpace(filter.Search))
	overviews := s.membership.Overviews()
	out := make([]models.ClassOverview, 0, len(overviews))
	for _, ov := range overviews {
		if query != "" && !strings.Contains(strings.ToLower(ov.Name), query) && !strings.Contains(strings.ToLower(ov.Teacher), query) {
			continue
		}
		if filter.Subject != "" && !strings.EqualFold(ov.Subject, filter.Subject) {
			continue
		}
		out = append(out, ov)
	}
	sortClasses(out, filter.SortBy, filter.SortOrder)
	page, pagination := paginate(out, filter.Page, filter.PageSize)
	return page, pagination, nil
}

func sortClasses(classes []models.ClassOverview, sortBy, order string) {
	var less func(a, b models.ClassOverview) bool
	switch sortBy {
	case "name":
		less = func(a, b models.ClassOverview) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "enrolled":
		less = func(a, b models.ClassOverview) bool { return a.Enrolled < b.Enrolled }
	case "capacity":
		less = func(a, b models.ClassOverview) bool { return a.MaxCapacity < b.MaxCapacity }
	default:
		return
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(classes, func(i, j int) bool {
		if desc {
			return less(classes[j], classes[i])
		}
		return less(classes[i], classes[j])
	})
}

// Get returns a class with its members.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassRoster, error) {
	roster, ok := s.membership.Roster(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return &roster, nil
}

// Create adds a new class. Display names must be unique because students may
// reference a class by name.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := classFromRequest(uuid.NewString(), req)

	var createErr error
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		if nameTaken(tx.ListClasses(), class.Name, "") {
			createErr = appErrors.Clone(appErrors.ErrConflict, "class name already exists")
			return nil
		}
		tx.UpsertClass(class)
		return nil
	})
	if createErr != nil {
		return nil, createErr
	}
	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("name", class.Name))
	return &class, nil
}

// Update replaces a class record. Renaming rewrites name-keyed student references to
// the new name so existing members stay matched.
func (s *ClassService) Update(ctx context.Context, id string, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := classFromRequest(id, req)

	var (
		updateErr error
		renamed   int
	)
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		current, ok := tx.FindClass(id)
		if !ok {
			updateErr = appErrors.Clone(appErrors.ErrNotFound, "class not found")
			return nil
		}
		if nameTaken(tx.ListClasses(), class.Name, id) {
			updateErr = appErrors.Clone(appErrors.ErrConflict, "class name already exists")
			return nil
		}
		class.StudentCount = current.StudentCount
		tx.UpsertClass(class)
		if current.Name != class.Name && current.Name != "" {
			for _, st := range tx.ListStudents() {
				if st.ClassID == current.Name && st.ClassID != current.ID {
					st.ClassID = class.Name
					tx.UpsertStudent(st)
					renamed++
				}
			}
		}
		return nil
	})
	if updateErr != nil {
		return nil, updateErr
	}
	s.logger.Info("class updated", zap.String("class_id", id), zap.Int("renamed_refs", renamed))
	return &class, nil
}

// Delete removes a class and clears its members. Unknown ids are ignored.
func (s *ClassService) Delete(ctx context.Context, id string) (int, error) {
	cleared, _ := s.membership.DeleteClassCascade(ctx, id)
	return cleared, nil
}

// Members returns the students of a class.
func (s *ClassService) Members(ctx context.Context, id string) ([]models.Student, error) {
	roster, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return roster.Students, nil
}

// Available lists students that could be added to the class.
func (s *ClassService) Available(ctx context.Context, id, search string, onlyUnassigned bool) ([]models.Student, error) {
	class, ok := s.store.FindClass(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return s.membership.AvailableForAssignment(class.ID, class.Name, s.store.ListStudents(), SearchPredicate(search), onlyUnassigned), nil
}

// AddMember assigns a student to the class by id. Moving a student out of another class
// requires ConfirmTransfer. Unknown students are a no-op.
func (s *ClassService) AddMember(ctx context.Context, classID string, req AddMemberRequest) (models.AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.AssignmentResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	class, ok := s.store.FindClass(classID)
	if !ok {
		return models.AssignmentResult{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	student, ok := s.store.FindStudent(req.StudentID)
	if !ok {
		return models.AssignmentResult{StudentID: req.StudentID}, nil
	}
	if class.Ref().Matches(student.ClassID) {
		return models.AssignmentResult{StudentID: student.ID, PreviousClass: student.ClassID, ClassID: student.ClassID, Found: true}, nil
	}
	if current, enrolled := ResolveMembership(student, s.store.ListClasses()); enrolled && !req.ConfirmTransfer {
		return models.AssignmentResult{}, appErrors.Clone(appErrors.ErrTransferRequiresConfirmation,
			fmt.Sprintf("student %s already belongs to class %s", student.Name, current.Name))
	}
	return s.membership.AssignStudentToClass(ctx, student.ID, class.ID), nil
}

// RemoveMember clears a student's membership when they belong to the class.
func (s *ClassService) RemoveMember(ctx context.Context, classID, studentID string) (models.AssignmentResult, error) {
	class, ok := s.store.FindClass(classID)
	if !ok {
		return models.AssignmentResult{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	student, ok := s.store.FindStudent(studentID)
	if !ok || !class.Ref().Matches(student.ClassID) {
		return models.AssignmentResult{StudentID: studentID, Found: ok}, nil
	}
	return s.membership.AssignStudentToClass(ctx, studentID, ""), nil
}

// MigrateRefs rewrites legacy name-keyed references to class ids.
func (s *ClassService) MigrateRefs(ctx context.Context) int {
	return s.membership.MigrateClassRefs(ctx)
}

func classFromRequest(id string, req ClassRequest) models.ClassRoom {
	return models.ClassRoom{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Teacher:     strings.TrimSpace(req.Teacher),
		Schedule:    req.Schedule,
		Subject:     req.Subject,
		MaxCapacity: req.MaxCapacity,
		Image:       req.Image,
	}
}

func nameTaken(classes []models.ClassRoom, name, excludeID string) bool {
	for _, class := range classes {
		if class.ID != excludeID && strings.EqualFold(class.Name, name) {
			return true
		}
	}
	return false
}
