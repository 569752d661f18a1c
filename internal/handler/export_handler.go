package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// ExportHandler serves report downloads.
type ExportHandler struct {
	students   *service.StudentService
	attendance *service.AttendanceService
	exports    *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(students *service.StudentService, attendance *service.AttendanceService, exports *service.ExportService) *ExportHandler {
	return &ExportHandler{students: students, attendance: attendance, exports: exports}
}

// Students godoc
// @Summary Download the filtered student roster
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx"
// @Param search query string false "Search"
// @Param status query string false "Status"
// @Param classId query string false "Class id or name"
// @Param tuition query bool false "Tuition flag"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /exports/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	students := h.students.Filter(c.Request.Context(), studentFilter(c))
	file, err := h.exports.Roster(c.Request.Context(), students, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Attendance godoc
// @Summary Download the attendance grid of a class
// @Tags Exports
// @Produce octet-stream
// @Param classId query string true "Class ID"
// @Param month query string true "YYYY-MM"
// @Param search query string false "Search"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sheet, err := h.attendance.Sheet(c.Request.Context(), c.Query("classId"), c.Query("month"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Attendance(c.Request.Context(), sheet, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
