// Package seed ships the mock dataset the admin screens start with.
package seed

import (
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/pkg/config"
)

type replacer interface {
	ReplaceAll(students []models.Student, classes []models.ClassRoom) (studentsApplied, classesApplied bool)
}

// Classes returns the mock classes.
func Classes() []models.ClassRoom {
	return []models.ClassRoom{
		{ID: "class-ielts-a", Name: "IELTS Foundation A", Teacher: "Nguyễn Thu Hà", Schedule: "T2, T4, T6 18:00-19:30", Subject: "IELTS", MaxCapacity: 15},
		{ID: "class-toeic-b", Name: "TOEIC 650+ B", Teacher: "Trần Minh Quân", Schedule: "T3, T5 19:00-21:00", Subject: "TOEIC", MaxCapacity: 20},
		{ID: "class-kids-1", Name: "Tiếng Anh Thiếu Nhi 1", Teacher: "Lê Phương Anh", Schedule: "T7, CN 08:00-09:30", Subject: "Kids", MaxCapacity: 12},
		{ID: "class-comm-c", Name: "Giao tiếp C", Teacher: "Phạm Đức Long", Schedule: "T2, T5 17:30-19:00", Subject: "Communication", MaxCapacity: 3},
	}
}

// Students returns the mock students. One of them still references its class by
// display name the way older data did.
func Students() []models.Student {
	return []models.Student{
		{
			ID: "HV001", Name: "Nguyễn Văn An", Email: "an.nguyen@example.com", Phone: "0901234567",
			DateOfBirth: "2002-03-14", JoinDate: "2024-01-08", Status: models.StudentStatusActive,
			GPA: 8.2, Attendance: 95, TuitionPaid: true, ClassID: "class-ielts-a",
			Scores: []models.SubjectScore{{Subject: "Listening", Score: 7.5}, {Subject: "Reading", Score: 8}},
		},
		{
			ID: "HV002", Name: "Trần Thị Bích", Email: "bich.tran@example.com", Phone: "0912345678",
			DateOfBirth: "2001-07-22", JoinDate: "2024-02-19", Status: models.StudentStatusActive,
			GPA: 7.4, Attendance: 88, ClassID: "IELTS Foundation A",
			Scores: []models.SubjectScore{{Subject: "Writing", Score: 6.5}},
		},
		{
			ID: "HV003", Name: "Lê Hoàng Cường", Email: "cuong.le@example.com", Phone: "0987654321",
			DateOfBirth: "1999-11-02", JoinDate: "2023-09-04", Status: models.StudentStatusGraduated,
			GPA: 9.1, Attendance: 98, TuitionPaid: true, ClassID: "class-toeic-b",
		},
		{
			ID: "HV004", Name: "Phạm Ngọc Diệp", Email: "diep.pham@example.com", Phone: "0934567890",
			DateOfBirth: "2015-05-30", JoinDate: "2024-06-01", Status: models.StudentStatusActive,
			GPA: 8.8, Attendance: 92, TuitionPaid: true, ClassID: "class-kids-1",
		},
		{
			ID: "HV005", Name: "Võ Minh Đức", Email: "duc.vo@example.com", Phone: "0978123456",
			DateOfBirth: "2000-01-19", JoinDate: "2024-03-11", Status: models.StudentStatusInactive,
			GPA: 6.9, Attendance: 70, ClassID: "class-toeic-b",
		},
		{
			ID: "HV006", Name: "Đặng Thu Giang", Email: "giang.dang@example.com", Phone: "0945678123",
			DateOfBirth: "2003-09-09", JoinDate: "2024-08-26", Status: models.StudentStatusActive,
			GPA: 7.9, Attendance: 85, ClassID: config.DefaultUnassignedLabel,
		},
		{
			ID: "HV007", Name: "Bùi Quang Huy", Email: "huy.bui@example.com", Phone: "0967890123",
			DateOfBirth: "1998-12-25", JoinDate: "2023-05-15", Status: models.StudentStatusDropped,
			GPA: 5.6, Attendance: 40,
		},
		{
			ID: "HV008", Name: "Hồ Khánh Linh", Email: "linh.ho@example.com", Phone: "0923456789",
			DateOfBirth: "2002-04-01", JoinDate: "2024-04-22", Status: models.StudentStatusActive,
			GPA: 8.5, Attendance: 90, TuitionPaid: true, ClassID: "class-comm-c",
		},
	}
}

// Load replaces the store contents with the mock dataset.
func Load(store replacer, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	students, classes := Students(), Classes()
	store.ReplaceAll(students, classes)
	logger.Info("mock dataset loaded", zap.Int("students", len(students)), zap.Int("classes", len(classes)))
}
