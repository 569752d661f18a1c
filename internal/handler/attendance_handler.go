package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin-api/internal/service"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// CycleMarkRequest advances one attendance cell.
type CycleMarkRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// QuickMarkRequest marks one date for a set of students. When StudentIDs is empty the
// members of ClassID matching Search are used.
type QuickMarkRequest struct {
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	StudentIDs []string `json:"student_ids"`
	ClassID    string   `json:"class_id" validate:"required_without=StudentIDs"`
	Search     string   `json:"search"`
}

// ToggleTuitionRequest flips the per-month tuition flag of a student.
type ToggleTuitionRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Month     string `json:"month" validate:"required,datetime=2006-01"`
}

// AttendanceHandler exposes the attendance ledger.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	validator  *validator.Validate
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, validate *validator.Validate) *AttendanceHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceHandler{attendance: attendance, validator: validate}
}

func (h *AttendanceHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// Days godoc
// @Summary List the days of a month
// @Tags Attendance
// @Produce json
// @Param month query string true "YYYY-MM"
// @Success 200 {object} response.Envelope
// @Router /attendance/days [get]
func (h *AttendanceHandler) Days(c *gin.Context) {
	days, err := service.DaysInMonth(c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// Sheet godoc
// @Summary Attendance grid of a class for one month
// @Tags Attendance
// @Produce json
// @Param classId query string true "Class ID"
// @Param month query string true "YYYY-MM"
// @Param search query string false "Search by name or email"
// @Success 200 {object} response.Envelope
// @Router /attendance/sheet [get]
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	sheet, err := h.attendance.Sheet(c.Request.Context(), c.Query("classId"), c.Query("month"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Stats godoc
// @Summary Monthly attendance statistic of a student
// @Tags Attendance
// @Produce json
// @Param studentId path string true "Student ID"
// @Param month query string true "YYYY-MM"
// @Success 200 {object} response.Envelope
// @Router /attendance/stats/{studentId} [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	month := c.Query("month")
	stat, err := h.attendance.MonthlyStat(c.Param("studentId"), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"stat":        stat,
		"tuitionPaid": h.attendance.TuitionPaid(c.Param("studentId"), month),
	}, nil)
}

// Cycle godoc
// @Summary Cycle one attendance cell
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body CycleMarkRequest true "Cell"
// @Success 200 {object} response.Envelope
// @Router /attendance/cycle [post]
func (h *AttendanceHandler) Cycle(c *gin.Context) {
	var req CycleMarkRequest
	if !h.bind(c, &req) {
		return
	}
	mark, err := h.attendance.CycleMark(c.Request.Context(), req.StudentID, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"studentId": req.StudentID, "date": req.Date, "mark": mark}, nil)
}

// QuickMark godoc
// @Summary Mark a whole column
// @Description All Present becomes Absent, all Absent becomes Unmarked, anything else becomes Present.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body QuickMarkRequest true "Column"
// @Success 200 {object} response.Envelope
// @Router /attendance/quick-mark [post]
func (h *AttendanceHandler) QuickMark(c *gin.Context) {
	var req QuickMarkRequest
	if !h.bind(c, &req) {
		return
	}
	ids := req.StudentIDs
	if len(ids) == 0 {
		sheet, err := h.attendance.Sheet(c.Request.Context(), req.ClassID, req.Date[:7], req.Search)
		if err != nil {
			response.Error(c, err)
			return
		}
		ids = make([]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			ids = append(ids, row.Student.ID)
		}
	}
	result, err := h.attendance.QuickMarkColumn(c.Request.Context(), req.Date, ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ToggleTuition godoc
// @Summary Toggle the tuition flag of a student for a month
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body ToggleTuitionRequest true "Tuition"
// @Success 200 {object} response.Envelope
// @Router /attendance/tuition/toggle [post]
func (h *AttendanceHandler) ToggleTuition(c *gin.Context) {
	var req ToggleTuitionRequest
	if !h.bind(c, &req) {
		return
	}
	paid, err := h.attendance.ToggleTuition(c.Request.Context(), req.StudentID, req.Month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"studentId": req.StudentID, "month": req.Month, "tuitionPaid": paid}, nil)
}
