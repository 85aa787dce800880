package importing

import "strings"

// Template is the expected-column schema operators fill in when preparing an
// import file for an entity kind.
type Template struct {
	Filename string
	Fields   []string
}

var templates = map[EntityKind]Template{
	EntityStudents: {
		Filename: "student_import_template.csv",
		Fields: []string{
			"firstName", "lastName", "email", "phone", "dateOfBirth", "gender",
			"course", "department", "batch", "semester", "rollNumber",
			"fatherName", "fatherOccupation", "fatherEducation",
			"motherName", "motherOccupation", "motherEducation",
			"totalFees", "feeStatus", "street", "city", "state", "pincode",
		},
	},
	EntityAttendance: {
		Filename: "attendance_import_template.csv",
		Fields:   []string{"studentId", "date", "subject", "status", "period", "remarks"},
	},
	EntityGrades: {
		Filename: "grades_import_template.csv",
		Fields: []string{
			"studentId", "subject", "subjectCode", "semester", "academicYear",
			"assessmentType", "maxMarks", "obtainedMarks", "assessmentDate",
		},
	},
}

// TemplateFor returns the blank schema for the given entity kind. The field
// lists are the single source of truth shared with the adapter layer.
func TemplateFor(kind EntityKind) (Template, bool) {
	t, ok := templates[kind]
	return t, ok
}

// CSV renders the single-line comma-separated header.
func (t Template) CSV() []byte {
	return []byte(strings.Join(t.Fields, ",") + "\n")
}
