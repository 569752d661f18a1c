package models

import (
	"fmt"
	"time"
)

// Mark is the attendance state of a student on a calendar day.
type Mark string

const (
	MarkUnmarked Mark = ""
	MarkPresent  Mark = "present"
	MarkAbsent   Mark = "absent"
	MarkLate     Mark = "late"
)

// Valid returns true when the mark is one of the four supported states.
func (m Mark) Valid() bool {
	switch m {
	case MarkUnmarked, MarkPresent, MarkAbsent, MarkLate:
		return true
	default:
		return false
	}
}

// Next returns the successor in the cycle Unmarked -> Present -> Absent -> Late -> Unmarked.
func (m Mark) Next() Mark {
	switch m {
	case MarkUnmarked:
		return MarkPresent
	case MarkPresent:
		return MarkAbsent
	case MarkAbsent:
		return MarkLate
	default:
		return MarkUnmarked
	}
}

// Code is the single-character export code: x present, v absent, m late, empty unmarked.
func (m Mark) Code() string {
	switch m {
	case MarkPresent:
		return "x"
	case MarkAbsent:
		return "v"
	case MarkLate:
		return "m"
	default:
		return ""
	}
}

// Credit is the present-equivalent weight of the mark.
func (m Mark) Credit() float64 {
	switch m {
	case MarkPresent:
		return 1
	case MarkLate:
		return 0.5
	default:
		return 0
	}
}

const (
	// DateLayout is the calendar date key format.
	DateLayout = "2006-01-02"
	// MonthLayout is the calendar month key format.
	MonthLayout = "2006-01"
)

// ParseMonth validates a YYYY-MM value.
func ParseMonth(yearMonth string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, yearMonth)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", yearMonth)
	}
	return t, nil
}

// ParseDate validates a YYYY-MM-DD value.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// Day is one calendar day of a month grid.
type Day struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Weekday   string `json:"weekday"`
	IsWeekend bool   `json:"isWeekend"`
}

// ColumnHeader renders the export header of the day, e.g. "3/9 (T3)".
func (d Day) ColumnHeader() string {
	return fmt.Sprintf("%d/%d (%s)", d.Day, d.Month, d.Weekday)
}

// MonthlyStat summarises a student's attendance for one month.
type MonthlyStat struct {
	PresentEquivalent float64 `json:"presentEquivalent"`
	TotalMarkedDays   int     `json:"totalMarkedDays"`
	Percentage        int     `json:"percentage"`
}

// ColumnResult reports a bulk column operation.
type ColumnResult struct {
	Date     string   `json:"date"`
	Applied  Mark     `json:"applied"`
	Students []string `json:"students"`
}

// SheetRow is one student line of the attendance grid.
type SheetRow struct {
	Student     Student         `json:"student"`
	Marks       map[string]Mark `json:"marks"`
	TuitionPaid bool            `json:"tuitionPaid"`
	Stat        MonthlyStat     `json:"stat"`
}

// AttendanceSheet is the grid for a class and month. Empty is set when the class has
// no matching students so callers can render an explicit "no data" state.
type AttendanceSheet struct {
	ClassID   string     `json:"classId"`
	ClassName string     `json:"className"`
	Month     string     `json:"month"`
	Days      []Day      `json:"days"`
	Rows      []SheetRow `json:"rows"`
	Empty     bool       `json:"empty"`
}
