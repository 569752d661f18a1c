package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

func TestAttendanceLedgerIsSparse(t *testing.T) {
	ledger := NewAttendanceLedger()
	assert.Equal(t, models.MarkUnmarked, ledger.Mark("S1", "2024-03-01"))

	ledger.SetMark("S1", "2024-03-01", models.MarkPresent)
	ledger.SetMark("S1", "2024-03-02", models.MarkLate)
	ledger.SetMark("S1", "2024-04-01", models.MarkAbsent)
	marks, _ := ledger.Size()
	assert.Equal(t, 3, marks)

	ledger.SetMark("S1", "2024-03-01", models.MarkUnmarked)
	marks, _ = ledger.Size()
	assert.Equal(t, 2, marks)

	march := ledger.MarksForMonth("S1", "2024-03")
	assert.Equal(t, map[string]models.Mark{"2024-03-02": models.MarkLate}, march)
}

func TestAttendanceLedgerTuitionSeeding(t *testing.T) {
	ledger := NewAttendanceLedger()

	_, seeded := ledger.Tuition("S1", "2024-03")
	assert.False(t, seeded)

	assert.True(t, ledger.SeedTuition("S1", "2024-03", true))
	assert.False(t, ledger.SeedTuition("S1", "2024-03", false))
	paid, seeded := ledger.Tuition("S1", "2024-03")
	assert.True(t, seeded)
	assert.True(t, paid)

	ledger.SetTuition("S1", "2024-03", false)
	paid, _ = ledger.Tuition("S1", "2024-03")
	assert.False(t, paid)

	ledger.ForgetStudent("S1")
	_, tuition := ledger.Size()
	assert.Zero(t, tuition)
}
