package grade

import (
	"errors"
	"testing"
	"time"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveGrade(t *testing.T) {
	tests := []struct {
		pct    float64
		letter string
		points float64
	}{
		{100, "A+", 4.0},
		{90, "A+", 4.0},
		{89.9, "A", 3.7},
		{80, "A", 3.7},
		{70, "B+", 3.3},
		{60, "B", 3.0},
		{50, "C+", 2.7},
		{40, "C", 2.3},
		{33, "D", 2.0},
		{32.9, "F", 0},
		{0, "F", 0},
	}
	for _, tt := range tests {
		letter, points := DeriveGrade(tt.pct)
		assert.Equal(t, tt.letter, letter, "pct %v", tt.pct)
		assert.Equal(t, tt.points, points, "pct %v", tt.pct)
	}
}

func TestAcademicYearFor(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "2025-2026"},
		{time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC), "2025-2026"},
		{time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), "2025-2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AcademicYearFor(tt.date), "date %v", tt.date)
	}
}

func TestNewMarkDerivesFields(t *testing.T) {
	nm := NewMark{
		StudentRef:     "stu-1",
		Subject:        "Mathematics",
		SubjectCode:    "MATH101",
		Semester:       1,
		AcademicYear:   "2025-2026",
		AssessmentType: AssessmentMidterm,
		MaxMarks:       50,
		ObtainedMarks:  46,
	}
	require.NoError(t, nm.Validate())

	m := nm.Mark("importer", time.Now())
	assert.Equal(t, 92.0, m.Percentage)
	assert.Equal(t, "A+", m.Grade)
	assert.Equal(t, 4.0, m.GradePoints)
	assert.Equal(t, "importer", m.RecordedBy)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())
}

func TestNewMarkValidateRejectsExcessMarks(t *testing.T) {
	nm := NewMark{
		StudentRef:     "stu-1",
		Subject:        "Mathematics",
		SubjectCode:    "MATH101",
		Semester:       1,
		AcademicYear:   "2025-2026",
		AssessmentType: AssessmentMidterm,
		MaxMarks:       100,
		ObtainedMarks:  105,
	}
	err := nm.Validate()
	require.Error(t, err)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.NotEmpty(t, vErr.Fields)
	assert.Equal(t, "obtainedMarks", vErr.Fields[0].Field)
	assert.Contains(t, vErr.Fields[0].Error, "obtained marks exceed max marks")
}
