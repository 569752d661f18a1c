package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/export"
)

// ExportFormat is the file format of a generated report.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to CSV when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

func (f ExportFormat) contentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

var rosterHeaders = []string{
	"Mã Học viên", "Họ và Tên", "Email", "Số điện thoại", "Ngày sinh",
	"Lớp học", "GPA", "Chuyên cần (%)", "Trạng thái", "Học phí",
}

const (
	tuitionPaidLabel   = "Đã đóng"
	tuitionUnpaidLabel = "Chưa đóng"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService turns filtered students and attendance sheets into download payloads.
type ExportService struct {
	membership *MembershipService
	csv        csvRenderer
	pdf        documentRenderer
	xlsx       documentRenderer
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(membership *MembershipService, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf, xlsx documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewSpreadsheetCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{
		membership: membership,
		csv:        csv,
		pdf:        pdf,
		xlsx:       xlsx,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// RosterDataset builds the roster table for students in the given order.
func (s *ExportService) RosterDataset(students []models.Student) export.Dataset {
	classes := s.membership.Classes()
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"Mã Học viên":    st.ID,
			"Họ và Tên":      st.Name,
			"Email":          st.Email,
			"Số điện thoại":  st.Phone,
			"Ngày sinh":      st.DateOfBirth,
			"Lớp học":        s.membership.ClassLabel(st, classes),
			"GPA":            formatNumber(st.GPA),
			"Chuyên cần (%)": formatNumber(st.Attendance),
			"Trạng thái":     st.Status.Label(),
			"Học phí":        tuitionLabel(st.TuitionPaid),
		})
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}

// Roster renders the roster export. An empty scope yields ErrEmptyExportScope.
func (s *ExportService) Roster(ctx context.Context, students []models.Student, format ExportFormat) (*ExportFile, error) {
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyExportScope, "no students match the current filters")
	}
	data := s.RosterDataset(students)
	filename := fmt.Sprintf("danh_sach_hoc_vien_%s.%s", s.now().Format(models.DateLayout), format)
	file, err := s.render(data, "Danh sách học viên", filename, format)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport("roster", string(format))
	s.logger.Info("roster exported", zap.Int("students", len(students)), zap.String("format", string(format)))
	return file, nil
}

// AttendanceDataset builds the attendance grid table of a sheet.
func (s *ExportService) AttendanceDataset(sheet *models.AttendanceSheet) export.Dataset {
	headers := []string{"Họ và tên", "Mã Học viên", "Trạng thái Học phí"}
	for _, day := range sheet.Days {
		headers = append(headers, day.ColumnHeader())
	}
	headers = append(headers, "Tỉ lệ chuyên cần")

	rows := make([]map[string]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		record := map[string]string{
			"Họ và tên":          row.Student.Name,
			"Mã Học viên":        row.Student.ID,
			"Trạng thái Học phí": tuitionLabel(row.TuitionPaid),
			"Tỉ lệ chuyên cần":   fmt.Sprintf("%d%%", row.Stat.Percentage),
		}
		for _, day := range sheet.Days {
			record[day.ColumnHeader()] = row.Marks[day.Date].Code()
		}
		rows = append(rows, record)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// Attendance renders the attendance export of a sheet.
func (s *ExportService) Attendance(ctx context.Context, sheet *models.AttendanceSheet, format ExportFormat) (*ExportFile, error) {
	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyExportScope, "no students in this class for the selected month")
	}
	data := s.AttendanceDataset(sheet)
	title := fmt.Sprintf("Điểm danh %s %s", sheet.ClassName, sheet.Month)
	filename := fmt.Sprintf("diem_danh_%s_%s.%s", fileSafe(sheet.ClassName), sheet.Month, format)
	file, err := s.render(data, title, filename, format)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport("attendance", string(format))
	s.logger.Info("attendance exported",
		zap.String("class_id", sheet.ClassID),
		zap.String("month", sheet.Month),
		zap.Int("students", len(sheet.Rows)),
		zap.String("format", string(format)),
	)
	return file, nil
}

func (s *ExportService) render(data export.Dataset, title, filename string, format ExportFormat) (*ExportFile, error) {
	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(data, title)
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(data, title)
	default:
		format = ExportFormatCSV
		payload, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{Filename: filename, ContentType: format.contentType(), Payload: payload}, nil
}

func tuitionLabel(paid bool) string {
	if paid {
		return tuitionPaidLabel
	}
	return tuitionUnpaidLabel
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fileSafe keeps letters and digits and collapses everything else into underscores.
func fileSafe(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteRune('_')
			underscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "lop"
	}
	return out
}
