package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/export"
)

type stubDocumentRenderer struct {
	title string
	data  export.Dataset
}

func (s *stubDocumentRenderer) Render(data export.Dataset, title string) ([]byte, error) {
	s.title = title
	s.data = data
	return []byte("doc"), nil
}

func newExportService(env *testEnv) *ExportService {
	svc := NewExportService(env.membership, nil, nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 9, 30, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestRosterExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"})
	st := student("s1", `Nguyễn "An"`, "c1")
	st.Phone = "0901"
	st.DateOfBirth = "2005-03-04"
	st.GPA = 8.5
	st.Attendance = 92
	st.TuitionPaid = true
	env.seedStudents(st, student("s2", "Binh", ""))
	svc := newExportService(env)

	file, err := svc.Roster(context.Background(), env.store.ListStudents(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "danh_sach_hoc_vien_2024-09-30.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	body := string(file.Payload)
	require.True(t, strings.HasPrefix(body, export.UTF8BOM))
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(body, export.UTF8BOM), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Mã Học viên","Họ và Tên","Email","Số điện thoại","Ngày sinh","Lớp học","GPA","Chuyên cần (%)","Trạng thái","Học phí"`, lines[0])
	assert.Equal(t, `"s1","Nguyễn ""An""","s1@example.com","0901","2005-03-04","IELTS A","8.5","92","Đang học","Đã đóng"`, lines[1])
	assert.Contains(t, lines[2], `"Chưa xếp lớp"`)
	assert.Contains(t, lines[2], `"Chưa đóng"`)
}

func TestRosterExportEmptyScope(t *testing.T) {
	env := newTestEnv(t)
	svc := newExportService(env)
	file, err := svc.Roster(context.Background(), nil, ExportFormatCSV)
	assert.Nil(t, file)
	assert.True(t, errors.Is(err, appErrors.ErrEmptyExportScope))
}

func TestAttendanceExportCodes(t *testing.T) {
	env := newTestEnv(t)
	env.seedClasses(models.ClassRoom{ID: "c1", Name: "IELTS A"})
	env.seedStudents(student("s1", "An", "c1"))
	env.ledger.SetMark("s1", "2024-09-02", models.MarkPresent)
	env.ledger.SetMark("s1", "2024-09-03", models.MarkAbsent)
	env.ledger.SetMark("s1", "2024-09-04", models.MarkLate)
	sheet, err := env.attendance.Sheet(context.Background(), "c1", "2024-09", "")
	require.NoError(t, err)

	svc := newExportService(env)
	file, err := svc.Attendance(context.Background(), sheet, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "diem_danh_IELTS_A_2024-09.csv", file.Filename)

	lines := strings.Split(strings.TrimPrefix(string(file.Payload), export.UTF8BOM), "\n")
	assert.True(t, strings.HasPrefix(lines[0], `"Họ và tên","Mã Học viên","Trạng thái Học phí","1/9 (CN)","2/9 (T2)"`))
	assert.True(t, strings.HasSuffix(lines[0], `"30/9 (T2)","Tỉ lệ chuyên cần"`))
	assert.True(t, strings.HasPrefix(lines[1], `"An","s1","Chưa đóng","","x","v","m",""`))
	assert.True(t, strings.HasSuffix(lines[1], `"50%"`))
}

func TestAttendanceExportEmptySheet(t *testing.T) {
	env := newTestEnv(t)
	svc := newExportService(env)
	_, err := svc.Attendance(context.Background(), &models.AttendanceSheet{Empty: true, ClassName: "IELTS A"}, ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrEmptyExportScope))
}

func TestExportDocumentFormats(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudents(student("s1", "An", ""))
	pdf := &stubDocumentRenderer{}
	xlsx := &stubDocumentRenderer{}
	svc := NewExportService(env.membership, nil, nil, nil, pdf, xlsx)

	file, err := svc.Roster(context.Background(), env.store.ListStudents(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "Danh sách học viên", pdf.title)
	assert.Len(t, pdf.data.Rows, 1)

	file, err = svc.Roster(context.Background(), env.store.ListStudents(), ExportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.Len(t, xlsx.data.Headers, 10)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatXLSX, format)

	_, err = ParseExportFormat("docx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "Lớp_10A1", fileSafe("Lớp 10A1"))
	assert.Equal(t, "a_b", fileSafe(" a / b "))
	assert.Equal(t, "lop", fileSafe("///"))
}
