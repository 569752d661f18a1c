package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// UnassignedFilter is the class filter value selecting students without a class.
const UnassignedFilter = "unassigned"

// StudentRequest holds payload for creating or replacing students.
type StudentRequest struct {
	Name        string                `json:"name" validate:"required,max=120"`
	Email       string                `json:"email" validate:"omitempty,email"`
	Phone       string                `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth string                `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Avatar      string                `json:"avatar"`
	JoinDate    string                `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	Status      models.StudentStatus  `json:"status"`
	GPA         float64               `json:"gpa" validate:"gte=0,lte=10"`
	Attendance  float64               `json:"attendance" validate:"gte=0,lte=100"`
	TuitionPaid bool                  `json:"tuitionPaid"`
	ClassID     string                `json:"classId"`
	Scores      []models.SubjectScore `json:"scores" validate:"dive"`
}

type attendanceForgetter interface {
	ForgetStudent(studentID string)
}

// StudentService handles student use-cases.
type StudentService struct {
	store      entityStore
	membership *MembershipService
	attendance attendanceForgetter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(store entityStore, membership *MembershipService, attendance attendanceForgetter, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		store:      store,
		membership: membership,
		attendance: attendance,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns filtered, sorted students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students := s.Filter(ctx, filter)
	page, pagination := paginate(students, filter.Page, filter.PageSize)
	return page, pagination, nil
}

// Filter applies search, status, class and tuition filters plus sorting, without
// pagination. Exports use it to build their scope.
func (s *StudentService) Filter(ctx context.Context, filter models.StudentFilter) []models.Student {
	all := s.store.ListStudents()
	classes := s.store.ListClasses()

	var classRef *models.ClassRef
	if filter.ClassRef != "" && filter.ClassRef != UnassignedFilter {
		ref := models.ClassRef{ID: filter.ClassRef}
		for _, class := range classes {
			if class.Ref().Matches(filter.ClassRef) {
				ref = class.Ref()
				break
			}
		}
		classRef = &ref
	}

	query := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Student, 0, len(all))
	for _, st := range all {
		if query != "" && !matchesStudentQuery(st, query) {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if filter.ClassRef == UnassignedFilter && !s.membership.IsUnassigned(st.ClassID) {
			continue
		}
		if classRef != nil && !classRef.Matches(st.ClassID) {
			continue
		}
		if filter.Tuition != nil && st.TuitionPaid != *filter.Tuition {
			continue
		}
		out = append(out, st)
	}
	sortStudents(out, filter.SortBy, filter.SortOrder)
	return out
}

func matchesStudentQuery(st models.Student, query string) bool {
	return strings.Contains(strings.ToLower(st.Name), query) ||
		strings.Contains(strings.ToLower(st.Email), query) ||
		strings.Contains(strings.ToLower(st.Phone), query) ||
		strings.Contains(strings.ToLower(st.ID), query)
}

func sortStudents(students []models.Student, sortBy, order string) {
	var less func(a, b models.Student) bool
	switch sortBy {
	case "name":
		less = func(a, b models.Student) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "gpa":
		less = func(a, b models.Student) bool { return a.GPA < b.GPA }
	case "attendance":
		less = func(a, b models.Student) bool { return a.Attendance < b.Attendance }
	case "joinDate":
		less = func(a, b models.Student) bool { return a.JoinDate < b.JoinDate }
	default:
		return
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(students, func(i, j int) bool {
		if desc {
			return less(students[j], students[i])
		}
		return less(students[i], students[j])
	})
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.store.FindStudent(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Create registers a new student. Class membership goes through the reconciler.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.build(uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	if student.JoinDate == "" {
		student.JoinDate = s.now().Format(models.DateLayout)
	}
	s.save(student, req.ClassID, req.ClassID != "")
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return s.Get(ctx, student.ID)
}

// Update replaces a student record, inserting it when the id is unseen. A changed
// classId is applied through the reconciler.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	student, err := s.build(id, req)
	if err != nil {
		return nil, err
	}
	current, exists := s.store.FindStudent(id)
	if exists {
		student.ClassID = current.ClassID
		if student.JoinDate == "" {
			student.JoinDate = current.JoinDate
		}
	}
	assign := (!exists && req.ClassID != "") || (exists && req.ClassID != current.ClassID)
	s.save(student, req.ClassID, assign)
	s.logger.Info("student updated", zap.String("student_id", id), zap.Bool("inserted", !exists))
	return s.Get(ctx, id)
}

// save writes the record and, when assign is set, its class in one store transition.
func (s *StudentService) save(student models.Student, classID string, assign bool) {
	var assignment models.AssignmentResult
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		tx.UpsertStudent(student)
		if assign {
			assignment = s.membership.assignInTx(tx, student.ID, classID)
		}
		return nil
	})
	if assign {
		s.membership.recordAssignment(assignment)
	}
}

// Delete removes a student and their attendance entries. Unknown ids are ignored.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	removed := s.store.RemoveStudent(id)
	if s.attendance != nil {
		s.attendance.ForgetStudent(id)
	}
	if removed {
		s.logger.Info("student deleted", zap.String("student_id", id))
	}
	return nil
}

func (s *StudentService) build(id string, req StudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	status := req.Status
	if status == "" {
		status = models.StudentStatusActive
	}
	if !status.Valid() {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}
	scores := req.Scores
	if scores == nil {
		scores = []models.SubjectScore{}
	}
	return models.Student{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: req.DateOfBirth,
		Avatar:      req.Avatar,
		JoinDate:    req.JoinDate,
		Status:      status,
		GPA:         req.GPA,
		Attendance:  req.Attendance,
		TuitionPaid: req.TuitionPaid,
		Scores:      scores,
	}.Clone(), nil
}
