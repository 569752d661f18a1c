package models

// ClassRoom represents a class run by the academy. StudentCount is a stored display
// seed only; enrollment is always recomputed from students.
type ClassRoom struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Teacher      string `json:"teacher"`
	Schedule     string `json:"schedule"`
	Subject      string `json:"subject"`
	StudentCount int    `json:"studentCount"`
	MaxCapacity  int    `json:"maxCapacity"`
	Image        string `json:"image"`
}

// Ref returns the keys a student classId may use to point at this class.
func (c ClassRoom) Ref() ClassRef {
	return ClassRef{ID: c.ID, Name: c.Name}
}

// ClassRef is the id-or-name reference to a class. Membership checks go through
// Matches and nowhere else.
type ClassRef struct {
	ID   string
	Name string
}

// Matches reports whether a student classId value points at this class, either by id
// or by display name. An empty value never matches.
func (r ClassRef) Matches(classID string) bool {
	if classID == "" {
		return false
	}
	return classID == r.ID || (r.Name != "" && classID == r.Name)
}

// ClassOverview is a class together with its recomputed enrollment.
type ClassOverview struct {
	ClassRoom
	Enrolled     int  `json:"enrolled"`
	SeatsLeft    int  `json:"seatsLeft"`
	OverCapacity bool `json:"overCapacity"`
}

// NewClassOverview derives enrollment figures. A zero capacity means "not set".
func NewClassOverview(class ClassRoom, enrolled int) ClassOverview {
	overview := ClassOverview{ClassRoom: class, Enrolled: enrolled}
	overview.StudentCount = enrolled
	if class.MaxCapacity > 0 {
		overview.SeatsLeft = class.MaxCapacity - enrolled
		if overview.SeatsLeft < 0 {
			overview.SeatsLeft = 0
		}
		overview.OverCapacity = enrolled > class.MaxCapacity
	}
	return overview
}

// ClassRoster is a class with the students matched to it.
type ClassRoster struct {
	ClassOverview
	Students []Student `json:"students"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search    string
	Subject   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AssignmentResult describes the outcome of a membership change.
type AssignmentResult struct {
	StudentID     string `json:"studentId"`
	PreviousClass string `json:"previousClassId"`
	ClassID       string `json:"classId"`
	Found         bool   `json:"found"`
	Transferred   bool   `json:"transferred"`
	OverCapacity  bool   `json:"overCapacity"`
}
