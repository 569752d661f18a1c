package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/config"
)

func TestDatasetReferencesKnownClasses(t *testing.T) {
	classes := Classes()
	seen := map[string]bool{}
	for _, class := range classes {
		assert.False(t, seen[class.ID], "duplicate class id %s", class.ID)
		seen[class.ID] = true
	}

	ids := map[string]bool{}
	for _, student := range Students() {
		assert.False(t, ids[student.ID], "duplicate student id %s", student.ID)
		ids[student.ID] = true
		assert.True(t, student.Status.Valid())
	}
}

func TestLoadResolvesLegacyNameReference(t *testing.T) {
	store := repository.NewEntityStore()
	Load(store, nil)

	students, classes := store.Counts()
	assert.Equal(t, len(Students()), students)
	assert.Equal(t, len(Classes()), classes)

	membership := service.NewMembershipService(store, config.RosterConfig{}, nil, nil)
	roster, ok := membership.Roster("class-ielts-a")
	require.True(t, ok)
	assert.Len(t, roster.Students, 2)

	assert.Equal(t, 2, membership.MigrateClassRefs(context.Background()))
}
