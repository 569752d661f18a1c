package models

import (
	"encoding/json"
	"strings"
)

// StudentStatus is the lifecycle state of a student.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "Active"
	StudentStatusInactive  StudentStatus = "Inactive"
	StudentStatusGraduated StudentStatus = "Graduated"
	StudentStatusDropped   StudentStatus = "Dropped"
)

var studentStatusLabels = map[StudentStatus]string{
	StudentStatusActive:    "Đang học",
	StudentStatusInactive:  "Bảo lưu",
	StudentStatusGraduated: "Đã tốt nghiệp",
	StudentStatusDropped:   "Đã nghỉ",
}

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	_, ok := studentStatusLabels[s]
	return ok
}

// Label returns the display label used in exports; unknown values are returned as is.
func (s StudentStatus) Label() string {
	if label, ok := studentStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStudentStatus accepts a status code or its display label (case-insensitive).
// "OnHold" is an alias of Inactive. Unrecognised input is kept verbatim.
func ParseStudentStatus(raw string) StudentStatus {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "OnHold") {
		return StudentStatusInactive
	}
	for status, label := range studentStatusLabels {
		if strings.EqualFold(trimmed, string(status)) || strings.EqualFold(trimmed, label) {
			return status
		}
	}
	return StudentStatus(trimmed)
}

// UnmarshalJSON normalises labels found in older backups.
func (s *StudentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStudentStatus(raw)
	return nil
}

// SubjectScore is one entry of a student's ordered score list.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// Student represents a learner of the academy. ClassID holds either a class id or a
// class display name (legacy data), or is empty / the unassigned label.
type Student struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	DateOfBirth string         `json:"dob"`
	Avatar      string         `json:"avatar"`
	JoinDate    string         `json:"joinDate"`
	Status      StudentStatus  `json:"status"`
	GPA         float64        `json:"gpa"`
	Attendance  float64        `json:"attendance"`
	TuitionPaid bool           `json:"tuitionPaid"`
	ClassID     string         `json:"classId"`
	Scores      []SubjectScore `json:"scores"`
}

// Clone returns a deep copy.
func (s Student) Clone() Student {
	out := s
	if s.Scores != nil {
		out.Scores = make([]SubjectScore, len(s.Scores))
		copy(out.Scores, s.Scores)
	}
	return out
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Status    StudentStatus
	ClassRef  string
	Tuition   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
