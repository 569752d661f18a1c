package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/pkg/config"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestStudentServiceCreateAssignsThroughReconciler(t *testing.T) {
	env := newTestEnv(t)
	env.students.now = func() time.Time { return time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC) }
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"})

	created, err := env.students.Create(context.Background(), StudentRequest{
		Name:    "  Nguyễn Văn An ",
		Email:   "an@example.com",
		GPA:     8.5,
		ClassID: "c1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Nguyễn Văn An", created.Name)
	assert.Equal(t, models.StudentStatusActive, created.Status)
	assert.Equal(t, "2024-09-01", created.JoinDate)
	assert.Equal(t, "c1", created.ClassID)
	assert.NotNil(t, created.Scores)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.students.Create(ctx, StudentRequest{Email: "an@example.com"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = env.students.Create(ctx, StudentRequest{Name: "An", GPA: 11})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = env.students.Create(ctx, StudentRequest{Name: "An", DateOfBirth: "01/02/2000"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = env.students.Create(ctx, StudentRequest{Name: "An", Status: "Expelled"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceUpdateUpserts(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"}, models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	env.seedStudents(student("s1", "An", "c1"))
	ctx := context.Background()

	updated, err := env.students.Update(ctx, "s1", StudentRequest{Name: "An Updated", ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "An Updated", updated.Name)
	assert.Equal(t, "c1", updated.ClassID)
	assert.Equal(t, "2024-01-15", updated.JoinDate)

	moved, err := env.students.Update(ctx, "s1", StudentRequest{Name: "An Updated", ClassID: "TOEIC B"})
	require.NoError(t, err)
	assert.Equal(t, "TOEIC B", moved.ClassID)

	inserted, err := env.students.Update(ctx, "s9", StudentRequest{Name: "New", ClassID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "s9", inserted.ID)
	assert.Equal(t, "c2", inserted.ClassID)
	assert.Len(t, env.store.ListStudents(), 2)
}

func TestStudentServiceDeleteForgetsAttendance(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudents(student("s1", "An", ""))
	env.ledger.SetMark("s1", "2024-09-03", models.MarkPresent)
	ctx := context.Background()

	require.NoError(t, env.students.Delete(ctx, "s1"))
	require.NoError(t, env.students.Delete(ctx, "s1"))

	_, err := env.students.Get(ctx, "s1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	marks, _ := env.ledger.Size()
	assert.Zero(t, marks)
}

func TestStudentServiceListFiltersSortsAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"})
	a := student("s1", "Chi", "c1")
	a.GPA = 7
	b := student("s2", "An", "IELTS A")
	b.GPA = 9
	b.TuitionPaid = true
	c := student("s3", "Binh", "")
	c.GPA = 8
	c.Status = models.StudentStatusGraduated
	env.seedStudents(a, b, c)
	ctx := context.Background()

	byClass := env.students.Filter(ctx, models.StudentFilter{ClassRef: "c1", SortBy: "name"})
	assert.Equal(t, []string{"s2", "s1"}, studentIDs(byClass))

	unassigned := env.students.Filter(ctx, models.StudentFilter{ClassRef: UnassignedFilter})
	assert.Equal(t, []string{"s3"}, studentIDs(unassigned))

	paid := true
	assert.Equal(t, []string{"s2"}, studentIDs(env.students.Filter(ctx, models.StudentFilter{Tuition: &paid})))
	assert.Equal(t, []string{"s3"}, studentIDs(env.students.Filter(ctx, models.StudentFilter{Status: models.StudentStatusGraduated})))
	assert.Equal(t, []string{"s3"}, studentIDs(env.students.Filter(ctx, models.StudentFilter{Search: "BINH"})))

	page, pagination, err := env.students.List(ctx, models.StudentFilter{SortBy: "gpa", SortOrder: "desc", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, studentIDs(page))
	assert.Equal(t, &models.Pagination{Page: 2, PageSize: 2, TotalCount: 3}, pagination)
}

type recordingStore struct {
	*repository.EntityStore
	transactions int
	directWrites int
}

func (r *recordingStore) UpsertStudent(student models.Student) {
	r.directWrites++
	r.EntityStore.UpsertStudent(student)
}

func (r *recordingStore) Transaction(fn func(tx *repository.StoreTx) error) error {
	r.transactions++
	return r.EntityStore.Transaction(fn)
}

func TestStudentServiceWritesRecordAndClassInOneTransition(t *testing.T) {
	store := &recordingStore{EntityStore: repository.NewEntityStore()}
	store.EntityStore.UpsertClass(models.ClassRoom{ID: "c1", Name: "IELTS A"})
	store.EntityStore.UpsertClass(models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	membership := NewMembershipService(store, config.RosterConfig{}, nil, nil)
	students := NewStudentService(store, membership, nil, nil, nil)
	ctx := context.Background()

	created, err := students.Create(ctx, StudentRequest{Name: "An", ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ClassID)
	assert.Equal(t, 1, store.transactions)
	assert.Zero(t, store.directWrites)

	updated, err := students.Update(ctx, created.ID, StudentRequest{Name: "An", ClassID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "c2", updated.ClassID)
	assert.Equal(t, 2, store.transactions)
	assert.Zero(t, store.directWrites)

	inserted, err := students.Update(ctx, "new-id", StudentRequest{Name: "Binh"})
	require.NoError(t, err)
	assert.Empty(t, inserted.ClassID)
	assert.Equal(t, 3, store.transactions)
	assert.Zero(t, store.directWrites)
}
