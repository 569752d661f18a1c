package models

// BackupDocument is the JSON backup format. Every field is always emitted.
type BackupDocument struct {
	Settings      SystemSettings `json:"settings"`
	Profile       UserProfile    `json:"profile"`
	Students      []Student      `json:"students"`
	Classes       []ClassRoom    `json:"classes"`
	Timestamp     string         `json:"timestamp"`
	SystemVersion string         `json:"systemVersion"`
}

// RestoreResult reports what a restore accepted.
type RestoreResult struct {
	StudentsAccepted int      `json:"studentsAccepted"`
	ClassesAccepted  int      `json:"classesAccepted"`
	StudentsApplied  bool     `json:"studentsApplied"`
	ClassesApplied   bool     `json:"classesApplied"`
	SettingsApplied  bool     `json:"settingsApplied"`
	ProfileApplied   bool     `json:"profileApplied"`
	SystemVersion    string   `json:"systemVersion,omitempty"`
	MigratedRefs     int      `json:"migratedRefs"`
	Warnings         []string `json:"warnings"`
}

// ArchiveInfo describes a backup written to archive storage.
type ArchiveInfo struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Mirrored  bool   `json:"mirrored"`
	Timestamp string `json:"timestamp"`
}
