package models

// UserRole is the role shown on the profile. Role checks are advisory only.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStaff   UserRole = "STAFF"
)

// SystemSettings holds academy-wide preferences.
type SystemSettings struct {
	CenterName         string `json:"centerName" validate:"omitempty,max=200"`
	Email              string `json:"email" validate:"omitempty,email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Website            string `json:"website" validate:"omitempty,url"`
	Language           string `json:"language" validate:"omitempty,oneof=vi en"`
	Currency           string `json:"currency"`
	DarkMode           bool   `json:"darkMode"`
	EmailNotifications bool   `json:"emailNotifications"`
	AutoBackup         bool   `json:"autoBackup"`
}

// UserProfile describes the signed-in administrator.
type UserProfile struct {
	Name   string   `json:"name" validate:"omitempty,max=120"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Phone  string   `json:"phone"`
	Role   UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STAFF"`
	Avatar string   `json:"avatar"`
	Bio    string   `json:"bio"`
}

// DefaultSettings returns the settings an empty session starts with.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		CenterName:         "Trung tâm Đào tạo",
		Language:           "vi",
		Currency:           "VND",
		EmailNotifications: true,
	}
}

// DefaultProfile returns the profile an empty session starts with.
func DefaultProfile() UserProfile {
	return UserProfile{Name: "Quản trị viên", Role: RoleAdmin}
}
