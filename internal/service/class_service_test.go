package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestClassServiceCreateRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.classes.Create(ctx, ClassRequest{Name: "IELTS A", Teacher: "Ms. Lan", MaxCapacity: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = env.classes.Create(ctx, ClassRequest{Name: "ielts a"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = env.classes.Create(ctx, ClassRequest{Name: "", MaxCapacity: -1})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestClassServiceRenameKeepsNameKeyedMembers(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"})
	env.seedStudents(student("s1", "An", "IELTS A"), student("s2", "Binh", "c1"))
	ctx := context.Background()

	_, err := env.classes.Update(ctx, "c1", ClassRequest{Name: "IELTS Advanced"})
	require.NoError(t, err)

	roster, err := env.classes.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, roster.Enrolled)
	st, _ := env.store.FindStudent("s1")
	assert.Equal(t, "IELTS Advanced", st.ClassID)

	_, err = env.classes.Update(ctx, "missing", ClassRequest{Name: "X"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceAddMemberRequiresTransferConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"}, models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	env.seedStudents(student("s1", "An", "TOEIC B"), student("s2", "Binh", ""))
	ctx := context.Background()

	result, err := env.classes.AddMember(ctx, "c1", AddMemberRequest{StudentID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, "c1", result.ClassID)

	_, err = env.classes.AddMember(ctx, "c1", AddMemberRequest{StudentID: "s1"})
	assert.True(t, errors.Is(err, appErrors.ErrTransferRequiresConfirmation))
	st, _ := env.store.FindStudent("s1")
	assert.Equal(t, "TOEIC B", st.ClassID)

	result, err = env.classes.AddMember(ctx, "c1", AddMemberRequest{StudentID: "s1", ConfirmTransfer: true})
	require.NoError(t, err)
	assert.True(t, result.Transferred)

	result, err = env.classes.AddMember(ctx, "c1", AddMemberRequest{StudentID: "ghost"})
	require.NoError(t, err)
	assert.False(t, result.Found)

	_, err = env.classes.AddMember(ctx, "missing", AddMemberRequest{StudentID: "s1"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceRemoveMemberAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"}, models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	env.seedStudents(student("s1", "An", "c1"), student("s2", "Binh", "c2"), student("s3", "Chi", "IELTS A"))
	ctx := context.Background()

	result, err := env.classes.RemoveMember(ctx, "c1", "s2")
	require.NoError(t, err)
	assert.Empty(t, result.ClassID)
	st, _ := env.store.FindStudent("s2")
	assert.Equal(t, "c2", st.ClassID, "members of other classes are untouched")

	_, err = env.classes.RemoveMember(ctx, "c1", "s1")
	require.NoError(t, err)
	st, _ = env.store.FindStudent("s1")
	assert.Empty(t, st.ClassID)

	cleared, err := env.classes.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	cleared, err = env.classes.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func TestClassServiceListAndAvailable(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(
		models.ClassRoom{ID: "c1", Name: "IELTS A", Subject: "English", MaxCapacity: 1},
		models.ClassRoom{ID: "c2", Name: "Math B", Subject: "Math"},
	)
	env.seedStudents(student("s1", "An", "c1"), student("s2", "Binh", "IELTS A"), student("s3", "Chi", ""))
	ctx := context.Background()

	classes, pagination, err := env.classes.List(ctx, models.ClassFilter{SortBy: "enrolled", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "c1", classes[0].ID)
	assert.Equal(t, 2, classes[0].Enrolled)
	assert.True(t, classes[0].OverCapacity)
	assert.Equal(t, 2, pagination.TotalCount)

	english, _, err := env.classes.List(ctx, models.ClassFilter{Subject: "english"})
	require.NoError(t, err)
	assert.Len(t, english, 1)

	available, err := env.classes.Available(ctx, "c1", "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3"}, studentIDs(available))

	migrated := env.classes.MigrateRefs(ctx)
	assert.Equal(t, 1, migrated)
}
