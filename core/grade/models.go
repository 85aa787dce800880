package grade

import (
	"strconv"
	"strings"
	"time"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
)

// Assessment types
const (
	AssessmentQuiz       = "Quiz"
	AssessmentAssignment = "Assignment"
	AssessmentMidterm    = "Midterm"
	AssessmentFinal      = "Final"
	AssessmentProject    = "Project"
	AssessmentLab        = "Lab"
	AssessmentViva       = "Viva"

	DefaultAssessment = AssessmentFinal
)

const DefaultMaxMarks = 100

var assessments = []string{
	AssessmentQuiz, AssessmentAssignment, AssessmentMidterm, AssessmentFinal,
	AssessmentProject, AssessmentLab, AssessmentViva,
}

// CoerceAssessmentType maps any unrecognized assessment type to the documented
// default rather than rejecting the record.
func CoerceAssessmentType(val string) string {
	val = core.CleanString(val)
	for _, a := range assessments {
		if strings.EqualFold(val, a) {
			return a
		}
	}
	return DefaultAssessment
}

// Mark is one graded assessment result for a student.
type Mark struct {
	ID           string `json:"id" bson:"_id" db:"id"`
	StudentRef   string `json:"studentId" bson:"studentId" db:"student_ref"`
	Subject      string `json:"subject" bson:"subject" db:"subject"`
	SubjectCode  string `json:"subjectCode" bson:"subjectCode" db:"subject_code"`
	Semester     int    `json:"semester" bson:"semester" db:"semester"`
	AcademicYear string `json:"academicYear" bson:"academicYear" db:"academic_year"`

	AssessmentType string  `json:"assessmentType" bson:"assessmentType" db:"assessment_type"`
	MaxMarks       float64 `json:"maxMarks" bson:"maxMarks" db:"max_marks"`
	ObtainedMarks  float64 `json:"obtainedMarks" bson:"obtainedMarks" db:"obtained_marks"`
	Percentage     float64 `json:"percentage" bson:"percentage" db:"percentage"`
	Grade          string  `json:"grade" bson:"grade" db:"grade"`
	GradePoints    float64 `json:"gradePoints" bson:"gradePoints" db:"grade_points"`

	AssessmentDate time.Time `json:"assessmentDate" bson:"assessmentDate" db:"assessment_date"`

	RecordedBy    string    `json:"recordedBy" bson:"recordedBy" db:"recorded_by"`
	LastUpdatedBy string    `json:"lastUpdatedBy" bson:"lastUpdatedBy" db:"last_updated_by"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"` // UTC
}

// Key identifies a mark uniquely: one result per student per subject per
// assessment type per semester per academic year.
type Key struct {
	StudentRef     string
	SubjectCode    string
	Semester       int
	AcademicYear   string
	AssessmentType string
}

func (m Mark) Key() Key {
	return Key{
		StudentRef:     m.StudentRef,
		SubjectCode:    m.SubjectCode,
		Semester:       m.Semester,
		AcademicYear:   m.AcademicYear,
		AssessmentType: m.AssessmentType,
	}
}

// NewMark contains normalized information needed to persist a Mark.
type NewMark struct {
	StudentRef     string    `json:"studentId" validate:"required"`
	Subject        string    `json:"subject" validate:"required"`
	SubjectCode    string    `json:"subjectCode" validate:"required"`
	Semester       int       `json:"semester" validate:"min=1,max=8"`
	AcademicYear   string    `json:"academicYear"`
	AssessmentType string    `json:"assessmentType"`
	MaxMarks       float64   `json:"maxMarks" validate:"gt=0"`
	ObtainedMarks  float64   `json:"obtainedMarks" validate:"min=0"`
	AssessmentDate time.Time `json:"assessmentDate"`
}

func (nm *NewMark) Validate() error {
	nm.StudentRef = core.CleanString(nm.StudentRef)
	nm.Subject = core.CleanString(nm.Subject)
	nm.SubjectCode = core.CleanString(nm.SubjectCode)
	if nm.ObtainedMarks > nm.MaxMarks {
		return core.NewValidationError(nil, core.FieldError{Field: "obtainedMarks", Error: "obtained marks exceed max marks"})
	}
	return core.Validate.Struct(nm)
}

// Mark builds the canonical record, deriving percentage, letter grade and
// grade points from the obtained/max marks.
func (nm NewMark) Mark(actor string, now time.Time) Mark {
	now = now.UTC()
	pct := nm.ObtainedMarks / nm.MaxMarks * 100
	letter, points := DeriveGrade(pct)
	return Mark{
		StudentRef:     nm.StudentRef,
		Subject:        nm.Subject,
		SubjectCode:    nm.SubjectCode,
		Semester:       nm.Semester,
		AcademicYear:   nm.AcademicYear,
		AssessmentType: nm.AssessmentType,
		MaxMarks:       nm.MaxMarks,
		ObtainedMarks:  nm.ObtainedMarks,
		Percentage:     pct,
		Grade:          letter,
		GradePoints:    points,
		AssessmentDate: nm.AssessmentDate,
		RecordedBy:     actor,
		LastUpdatedBy:  actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DeriveGrade maps a percentage to the letter grade and grade points (0-4 scale).
func DeriveGrade(pct float64) (string, float64) {
	switch {
	case pct >= 90:
		return "A+", 4.0
	case pct >= 80:
		return "A", 3.7
	case pct >= 70:
		return "B+", 3.3
	case pct >= 60:
		return "B", 3.0
	case pct >= 50:
		return "C+", 2.7
	case pct >= 40:
		return "C", 2.3
	case pct >= 33:
		return "D", 2.0
	default:
		return "F", 0
	}
}

// AcademicYearFor returns the "2025-2026" style year containing t, with the
// session assumed to roll over in June.
func AcademicYearFor(t time.Time) string {
	y := t.Year()
	if t.Month() < time.June {
		y--
	}
	return strconv.Itoa(y) + "-" + strconv.Itoa(y+1)
}
