package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A", MaxCapacity: 1}, models.ClassRoom{ID: "c2", Name: "TOEIC B"})
	a := student("s1", "An", "c1")
	a.GPA = 8
	a.Attendance = 90
	a.TuitionPaid = true
	b := student("s2", "Binh", "IELTS A")
	b.GPA = 7
	b.Attendance = 85
	c := student("s3", "Chi", "Chưa xếp lớp")
	c.GPA = 6.5
	c.Attendance = 70
	c.Status = models.StudentStatusDropped
	env.seedStudents(a, b, c)

	summary := NewDashboardService(env.store, env.membership, nil).Summary(context.Background())
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 2, summary.ByStatus[models.StudentStatusActive])
	assert.Equal(t, 1, summary.ByStatus[models.StudentStatusDropped])
	assert.Equal(t, 1, summary.Unassigned)
	assert.Equal(t, 1, summary.TuitionPaid)
	assert.Equal(t, 2, summary.TuitionUnpaid)
	assert.Equal(t, 7.17, summary.AverageGPA)
	assert.Equal(t, 81.67, summary.AverageAttendance)
	assert.Equal(t, 2, summary.TotalClasses)
	assert.Equal(t, 1, summary.OverCapacity)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	env := newTestEnv(t)
	summary := NewDashboardService(env.store, env.membership, nil).Summary(context.Background())
	assert.Zero(t, summary.TotalStudents)
	assert.Zero(t, summary.AverageGPA)
	assert.Empty(t, summary.Classes)
}
