package models

import "time"

// DashboardSummary aggregates headline figures for the overview screen.
type DashboardSummary struct {
	TotalStudents     int                   `json:"totalStudents"`
	ByStatus          map[StudentStatus]int `json:"byStatus"`
	Unassigned        int                   `json:"unassigned"`
	TuitionPaid       int                   `json:"tuitionPaid"`
	TuitionUnpaid     int                   `json:"tuitionUnpaid"`
	AverageGPA        float64               `json:"averageGpa"`
	AverageAttendance float64               `json:"averageAttendance"`
	TotalClasses      int                   `json:"totalClasses"`
	OverCapacity      int                   `json:"overCapacity"`
	Classes           []ClassOverview       `json:"classes"`
}

// SystemMetrics is a lightweight snapshot of process counters.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	MarksRecorded            uint64    `json:"marksRecorded"`
	ExportsGenerated         uint64    `json:"exportsGenerated"`
	SnapshotHitRatio         float64   `json:"snapshotHitRatio"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
