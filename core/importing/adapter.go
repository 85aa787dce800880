package importing

import "strings"

// Fields is the canonical pre-validation record shape: canonical field name to
// raw value, with absent fields simply missing (to be defaulted later).
type Fields map[string]Value

func (f Fields) Get(name string) Value {
	if v, ok := f[name]; ok {
		return v
	}
	return Absent
}

// connectorFields extends the template schema with canonical fields only
// external systems supply; together they form the recognized field set per
// entity kind.
var connectorFields = map[EntityKind][]string{
	EntityStudents: {"admissionDate", "expectedGraduation", "country"},
}

// RecognizedFields returns every canonical field the normalizer accepts for a
// kind: the template columns plus connector-only fields.
func RecognizedFields(kind EntityKind) []string {
	t := templates[kind]
	out := make([]string, 0, len(t.Fields)+len(connectorFields[kind]))
	out = append(out, t.Fields...)
	out = append(out, connectorFields[kind]...)
	return out
}

// canonicalIndex maps lowercased canonical names back to their canonical
// spelling, per entity kind.
var canonicalIndex = func() map[EntityKind]map[string]string {
	idx := make(map[EntityKind]map[string]string, len(templates))
	for kind := range templates {
		m := make(map[string]string)
		for _, f := range RecognizedFields(kind) {
			m[strings.ToLower(f)] = f
		}
		idx[kind] = m
	}
	return idx
}()

// aliases maps source-native field names (lowercased) to canonical names, per
// (sourceKind, entityKind). Adding a connector means adding a table here, not
// touching validation.
var aliases = map[SourceKind]map[EntityKind]map[string]string{
	SourceFile: {
		EntityStudents: {
			"first name":          "firstName",
			"last name":           "lastName",
			"e-mail":              "email",
			"email address":       "email",
			"mobile":              "phone",
			"phone number":        "phone",
			"dob":                 "dateOfBirth",
			"date of birth":       "dateOfBirth",
			"roll no":             "rollNumber",
			"roll number":         "rollNumber",
			"rollno":              "rollNumber",
			"registration number": "rollNumber",
			"sem":                 "semester",
			"dept":                "department",
			"fee status":          "feeStatus",
			"total fees":          "totalFees",
		},
		EntityAttendance: {
			"student id": "studentId",
			"roll no":    "studentId",
		},
		EntityGrades: {
			"student id":   "studentId",
			"subject code": "subjectCode",
			"max marks":    "maxMarks",
			"marks":        "obtainedMarks",
		},
	},
	SourceSIS: {
		EntityStudents: {
			"first_name":     "firstName",
			"last_name":      "lastName",
			"email_addr":     "email",
			"phone_number":   "phone",
			"birth_date":     "dateOfBirth",
			"student_number": "rollNumber",
			"grade_level":    "semester",
			"program":        "course",
			"dept_name":      "department",
			"enroll_date":    "admissionDate",
			"father_name":    "fatherName",
			"mother_name":    "motherName",
		},
	},
	SourceClassroom: {
		EntityStudents: {
			"givenname":    "firstName",
			"familyname":   "lastName",
			"emailaddress": "email",
			"courseid":     "course",
		},
		EntityGrades: {
			"courseid":     "subject",
			"courseworkid": "subjectCode",
			"userid":       "studentId",
			"score":        "obtainedMarks",
			"maxscore":     "maxMarks",
			"gradedat":     "assessmentDate",
		},
	},
	SourceBiometric: {
		EntityAttendance: {
			"student_id":   "studentId",
			"employee_id":  "studentId",
			"punch_time":   "date",
			"timestamp":    "date",
			"punch_status": "status",
			"note":         "remarks",
		},
	},
	SourceRFID: {
		EntityAttendance: {
			"student_id":     "studentId",
			"cardholderid":   "studentId",
			"card_holder_id": "studentId",
			"scan_time":      "date",
			"scantime":       "date",
			"note":           "remarks",
		},
	},
	SourceLMS: {
		EntityGrades: {
			"student_id":   "studentId",
			"course_title": "subject",
			"course_code":  "subjectCode",
			"score":        "obtainedMarks",
			"max_score":    "maxMarks",
			"graded_at":    "assessmentDate",
			"term":         "semester",
			"year":         "academicYear",
			"assessment":   "assessmentType",
		},
	},
}

// Adapt reshapes a raw record into the canonical pre-validation shape. Pure
// renaming: source headers match canonical names case-insensitively, source
// aliases per (sourceKind, entityKind) extend that, and anything else is
// dropped silently.
func Adapt(rec RawRecord, kind EntityKind, src SourceKind) Fields {
	canon := canonicalIndex[kind]
	alias := aliases[src][kind]
	out := make(Fields, len(rec.Fields))
	for name, v := range rec.Fields {
		key := strings.ToLower(strings.TrimSpace(name))
		if c, ok := alias[key]; ok {
			out[c] = v
			continue
		}
		if c, ok := canon[key]; ok {
			out[c] = v
		}
	}
	return out
}
