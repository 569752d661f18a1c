package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
	"github.com/noah-isme/academy-admin-api/pkg/storage"
)

// JobTypeArchive is the queue job type that archives and prunes backups.
const JobTypeArchive = "backup.archive"

var utf8BOM = []byte("\xef\xbb\xbf")

type archiveStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	List() ([]storage.FileInfo, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type snapshotMirror interface {
	Save(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// BackupConfig tunes the backup codec.
type BackupConfig struct {
	SystemVersion    string
	MigrateClassRefs bool
	MirrorEnabled    bool
	SnapshotKey      string
	SnapshotTTL      time.Duration
	Retention        time.Duration
}

// BackupService encodes the session state into the JSON backup document and restores
// it back, tolerating partial or legacy documents.
type BackupService struct {
	store      entityStore
	settings   *SettingsService
	membership *MembershipService
	attendance attendanceForgetter
	archive    archiveStorage
	mirror     snapshotMirror
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        BackupConfig
	now        func() time.Time
}

// NewBackupService constructs the backup service. attendance, archive and mirror are optional.
func NewBackupService(store entityStore, settings *SettingsService, membership *MembershipService, attendance attendanceForgetter, archive archiveStorage, mirror snapshotMirror, cfg BackupConfig, metrics *MetricsService, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SystemVersion == "" {
		cfg.SystemVersion = "1.0.0"
	}
	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = "academy:backup:latest"
	}
	return &BackupService{
		store:      store,
		settings:   settings,
		membership: membership,
		attendance: attendance,
		archive:    archive,
		mirror:     mirror,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Encode snapshots settings, profile, students and classes.
func (s *BackupService) Encode(ctx context.Context) models.BackupDocument {
	return models.BackupDocument{
		Settings:      s.settings.Settings(ctx),
		Profile:       s.settings.Profile(ctx),
		Students:      s.store.ListStudents(),
		Classes:       s.store.ListClasses(),
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		SystemVersion: s.cfg.SystemVersion,
	}
}

// EncodeJSON renders the backup document as indented JSON without a BOM.
func (s *BackupService) EncodeJSON(ctx context.Context) ([]byte, error) {
	payload, err := json.MarshalIndent(s.Encode(ctx), "", "  ")
	s.metrics.RecordBackup("encode", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backup")
	}
	return payload, nil
}

// DecodedBackup is a parsed document before it is applied. Nil halves were rejected
// or absent.
type DecodedBackup struct {
	Students []models.Student
	Classes  []models.ClassRoom
	Settings json.RawMessage
	Profile  json.RawMessage
	Result   models.RestoreResult
}

// Decode parses a backup without touching any state. A leading BOM is ignored.
// Students and classes are accepted only when they are arrays; settings and profile
// only when they are objects. Anything else is skipped with a warning.
func (s *BackupService) Decode(raw []byte) (*DecodedBackup, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedBackup.Code, appErrors.ErrMalformedBackup.Status, "backup is not valid JSON")
	}
	if top == nil {
		return nil, appErrors.Clone(appErrors.ErrMalformedBackup, "backup must be a JSON object")
	}

	out := &DecodedBackup{Result: models.RestoreResult{Warnings: []string{}}}
	warn := func(format string, args ...interface{}) {
		out.Result.Warnings = append(out.Result.Warnings, fmt.Sprintf(format, args...))
	}

	var version string
	if rawVersion, ok := top["systemVersion"]; ok {
		_ = json.Unmarshal(rawVersion, &version)
	}
	if version == "" {
		warn("backup has no systemVersion; restoring anyway")
	}
	out.Result.SystemVersion = version

	if rawStudents, ok := top["students"]; ok {
		if isJSONArray(rawStudents) {
			var students []models.Student
			if err := json.Unmarshal(rawStudents, &students); err != nil {
				warn("students skipped: %v", err)
			} else {
				if students == nil {
					students = []models.Student{}
				}
				out.Students = students
			}
		} else {
			warn("students skipped: not an array")
		}
	}

	if rawClasses, ok := top["classes"]; ok {
		if isJSONArray(rawClasses) {
			var classes []models.ClassRoom
			if err := json.Unmarshal(rawClasses, &classes); err != nil {
				warn("classes skipped: %v", err)
			} else {
				if classes == nil {
					classes = []models.ClassRoom{}
				}
				out.Classes = classes
			}
		} else {
			warn("classes skipped: not an array")
		}
	}

	if rawSettings, ok := top["settings"]; ok {
		if isJSONObject(rawSettings) {
			out.Settings = rawSettings
		} else {
			warn("settings skipped: not an object")
		}
	}
	if rawProfile, ok := top["profile"]; ok {
		if isJSONObject(rawProfile) {
			out.Profile = rawProfile
		} else {
			warn("profile skipped: not an object")
		}
	}

	out.Result.StudentsAccepted = len(out.Students)
	out.Result.ClassesAccepted = len(out.Classes)
	return out, nil
}

// Restore decodes raw and applies every accepted half. Malformed documents change nothing.
func (s *BackupService) Restore(ctx context.Context, raw []byte) (*models.RestoreResult, error) {
	decoded, err := s.Decode(raw)
	if err != nil {
		s.metrics.RecordBackup("restore", err)
		s.logger.Warn("backup rejected", zap.Error(err))
		return nil, err
	}

	result := decoded.Result
	var dropped []string
	_ = s.store.Transaction(func(tx *repository.StoreTx) error {
		previous := tx.ListStudents()
		result.StudentsApplied, result.ClassesApplied = tx.ReplaceAll(decoded.Students, decoded.Classes)
		if result.StudentsApplied {
			dropped = droppedStudents(previous, decoded.Students)
		}
		return nil
	})
	if s.attendance != nil {
		for _, id := range dropped {
			s.attendance.ForgetStudent(id)
		}
	}
	if !result.StudentsApplied {
		result.StudentsAccepted = 0
	}
	if !result.ClassesApplied {
		result.ClassesAccepted = 0
	}
	result.SettingsApplied, result.ProfileApplied = s.settings.restore(decoded.Settings, decoded.Profile)
	if !result.SettingsApplied && decoded.Settings != nil {
		result.Warnings = append(result.Warnings, "settings skipped: fields did not match")
	}
	if !result.ProfileApplied && decoded.Profile != nil {
		result.Warnings = append(result.Warnings, "profile skipped: fields did not match")
	}

	if s.cfg.MigrateClassRefs && (result.StudentsApplied || result.ClassesApplied) {
		result.MigratedRefs = s.membership.MigrateClassRefs(ctx)
	}

	s.metrics.RecordBackup("restore", nil)
	fields := []zap.Field{
		zap.Int("students", result.StudentsAccepted),
		zap.Int("classes", result.ClassesAccepted),
		zap.Bool("settings", result.SettingsApplied),
		zap.Bool("profile", result.ProfileApplied),
		zap.String("system_version", result.SystemVersion),
		zap.Int("dropped_students", len(dropped)),
	}
	if len(result.Warnings) > 0 {
		s.logger.Warn("backup restored with warnings", append(fields, zap.Strings("warnings", result.Warnings))...)
	} else {
		s.logger.Info("backup restored", fields...)
	}
	return &result, nil
}

func droppedStudents(previous, restored []models.Student) []string {
	kept := make(map[string]struct{}, len(restored))
	for _, st := range restored {
		kept[st.ID] = struct{}{}
	}
	var out []string
	for _, st := range previous {
		if _, ok := kept[st.ID]; !ok {
			out = append(out, st.ID)
		}
	}
	return out
}

// Archive writes the current backup to archive storage and mirrors it when enabled.
// A mirror failure is logged and does not fail the archive.
func (s *BackupService) Archive(ctx context.Context) (*models.ArchiveInfo, error) {
	if s.archive == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "backup archive storage is not configured")
	}
	payload, err := s.EncodeJSON(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	name := fmt.Sprintf("backup_%s.json", now.Format("20060102_150405.000"))
	if _, err := s.archive.Save(name, payload); err != nil {
		s.metrics.RecordBackup("archive", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive backup")
	}
	info := &models.ArchiveInfo{Name: name, Size: len(payload), Timestamp: now.Format(time.RFC3339)}

	if s.cfg.MirrorEnabled && s.mirror != nil {
		if err := s.mirror.Save(ctx, s.cfg.SnapshotKey, payload, s.cfg.SnapshotTTL); err != nil {
			s.logger.Warn("backup mirror failed", zap.String("archive", name), zap.Error(err))
		} else {
			info.Mirrored = true
		}
	}
	s.metrics.RecordBackup("archive", nil)
	s.logger.Info("backup archived", zap.String("archive", name), zap.Int("bytes", len(payload)), zap.Bool("mirrored", info.Mirrored))
	return info, nil
}

// Archives lists archived backups, newest first.
func (s *BackupService) Archives(ctx context.Context) ([]storage.FileInfo, error) {
	if s.archive == nil {
		return []storage.FileInfo{}, nil
	}
	files, err := s.archive.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list archives")
	}
	return files, nil
}

// PruneArchives removes archives older than ttl.
func (s *BackupService) PruneArchives(ttl time.Duration) ([]string, error) {
	if s.archive == nil || ttl <= 0 {
		return []string{}, nil
	}
	deleted, err := s.archive.CleanupOlderThan(ttl)
	s.metrics.RecordBackup("prune", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prune archives")
	}
	if len(deleted) > 0 {
		s.logger.Info("backup archives pruned", zap.Strings("files", deleted))
	}
	return deleted, nil
}

// Latest returns the most recent backup: the Redis mirror first, then the newest
// archive on disk.
func (s *BackupService) Latest(ctx context.Context) ([]byte, error) {
	if s.cfg.MirrorEnabled && s.mirror != nil {
		start := time.Now()
		payload, err := s.mirror.Load(ctx, s.cfg.SnapshotKey)
		s.metrics.RecordSnapshotLookup(err == nil, time.Since(start))
		if err == nil {
			return payload, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("backup mirror lookup failed", zap.Error(err))
		}
	}

	files, err := s.Archives(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no archived backup")
	}
	payload, err := s.archive.Read(files[0].Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read archive")
	}
	return payload, nil
}

// HandleJob is the queue handler for autosave jobs.
func (s *BackupService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeArchive {
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	if _, err := s.Archive(ctx); err != nil {
		return err
	}
	_, err := s.PruneArchives(s.cfg.Retention)
	return err
}
