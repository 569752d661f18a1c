package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// DashboardService aggregates headline figures across students and classes.
type DashboardService struct {
	store      entityStore
	membership *MembershipService
	logger     *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(store entityStore, membership *MembershipService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, membership: membership, logger: logger}
}

// Summary computes the dashboard in one pass over the current snapshot.
func (s *DashboardService) Summary(ctx context.Context) models.DashboardSummary {
	students := s.store.ListStudents()
	overviews := s.membership.Overviews()

	summary := models.DashboardSummary{
		TotalStudents: len(students),
		ByStatus:      make(map[models.StudentStatus]int),
		TotalClasses:  len(overviews),
		Classes:       overviews,
	}
	var gpaTotal, attendanceTotal float64
	for _, st := range students {
		summary.ByStatus[st.Status]++
		if s.membership.IsUnassigned(st.ClassID) {
			summary.Unassigned++
		}
		if st.TuitionPaid {
			summary.TuitionPaid++
		} else {
			summary.TuitionUnpaid++
		}
		gpaTotal += st.GPA
		attendanceTotal += st.Attendance
	}
	if len(students) > 0 {
		summary.AverageGPA = round2(gpaTotal / float64(len(students)))
		summary.AverageAttendance = round2(attendanceTotal / float64(len(students)))
	}
	for _, ov := range overviews {
		if ov.OverCapacity {
			summary.OverCapacity++
		}
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
