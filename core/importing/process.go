package importing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
)

// Rejection reasons surfaced at the outbound boundary.
const (
	reasonStudentMissing    = "Missing required fields (firstName, lastName, email)"
	reasonInvalidEmail      = "Invalid email format"
	reasonAttendanceMissing = "Missing required fields (studentId, status)"
	reasonInvalidStatus     = "Invalid attendance status"
	reasonGradeMissing      = "Missing required fields (studentId, subject, subjectCode)"
	reasonDuplicateKey      = "duplicate key"
)

// Processor drives one record through adapt, validate/normalize and reconcile
// for its entity kind. Record-local: processing record N never depends on
// record N-1, which is what lets the orchestrator parallelize.
//
// A non-nil error is systemic (store unavailable) and aborts the remaining
// batch; everything record-level comes back as a Rejected outcome.
type Processor interface {
	Kind() EntityKind
	Process(ctx context.Context, rec RawRecord, src SourceKind, actor string) (Outcome, error)
}

// defaulting coercions: a raw value that is absent or fails to parse falls
// back to the given default instead of rejecting the record.

func stringOr(v Value, def string) string {
	if s := v.AsString(); s != "" {
		return s
	}
	return def
}

func intOr(v Value, def int) int {
	if f, ok := v.AsNumber(); ok {
		return int(f)
	}
	return def
}

func floatOr(v Value, def float64) float64 {
	if f, ok := v.AsNumber(); ok {
		return f
	}
	return def
}

func timeOr(v Value, def time.Time) time.Time {
	if t, ok := v.AsTime(); ok {
		return t
	}
	return def
}

// StudentDefaults is the documented default value set applied while
// normalizing student records; tests assert the policy against it.
type StudentDefaults struct {
	DateOfBirth        time.Time
	Gender             string
	Course             string
	Department         string
	Batch              string
	Semester           int
	AdmissionDate      time.Time
	ExpectedGraduation time.Time
	ParentEducation    string
	TotalFees          float64
	FeeStatus          string
	Country            string
}

func NewStudentDefaults(now time.Time) StudentDefaults {
	return StudentDefaults{
		DateOfBirth:        time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:             student.DefaultGender,
		Course:             student.DefaultCourse,
		Department:         student.DefaultDepartment,
		Batch:              strconv.Itoa(now.Year()),
		Semester:           1,
		AdmissionDate:      now,
		ExpectedGraduation: now.AddDate(4, 0, 0),
		ParentEducation:    student.DefaultEducation,
		TotalFees:          0,
		FeeStatus:          student.DefaultFeeStatus,
		Country:            student.DefaultCountry,
	}
}

// SynthesizeRollNumber builds a deterministic batch-unique secondary
// identifier so blank roll numbers never collide on the store's uniqueness
// constraint.
func SynthesizeRollNumber(now time.Time, originIndex int) string {
	return fmt.Sprintf("AUTO_%d_%d", now.UnixMilli(), originIndex)
}

type studentProcessor struct {
	svc *student.Service
	now func() time.Time
}

func NewStudentProcessor(svc *student.Service) Processor {
	return &studentProcessor{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

func (p *studentProcessor) Kind() EntityKind { return EntityStudents }

func (p *studentProcessor) Process(ctx context.Context, rec RawRecord, src SourceKind, actor string) (Outcome, error) {
	now := p.now()
	f := Adapt(rec, EntityStudents, src)
	d := NewStudentDefaults(now)

	ns := student.NewStudent{
		FirstName:          f.Get("firstName").AsString(),
		LastName:           f.Get("lastName").AsString(),
		Email:              f.Get("email").AsString(),
		Phone:              f.Get("phone").AsString(),
		DateOfBirth:        timeOr(f.Get("dateOfBirth"), d.DateOfBirth),
		Gender:             student.CoerceGender(f.Get("gender").AsString()),
		Course:             stringOr(f.Get("course"), d.Course),
		Department:         stringOr(f.Get("department"), d.Department),
		Batch:              stringOr(f.Get("batch"), d.Batch),
		Semester:           intOr(f.Get("semester"), d.Semester),
		RollNumber:         stringOr(f.Get("rollNumber"), SynthesizeRollNumber(now, rec.Index)),
		AdmissionDate:      timeOr(f.Get("admissionDate"), d.AdmissionDate),
		ExpectedGraduation: timeOr(f.Get("expectedGraduation"), d.ExpectedGraduation),
		FatherName:         f.Get("fatherName").AsString(),
		FatherOccupation:   f.Get("fatherOccupation").AsString(),
		FatherEducation:    student.CoerceEducation(f.Get("fatherEducation").AsString()),
		MotherName:         f.Get("motherName").AsString(),
		MotherOccupation:   f.Get("motherOccupation").AsString(),
		MotherEducation:    student.CoerceEducation(f.Get("motherEducation").AsString()),
		TotalFees:          floatOr(f.Get("totalFees"), d.TotalFees),
		FeeStatus:          student.CoerceFeeStatus(f.Get("feeStatus").AsString()),
		Address: student.Address{
			Street:  f.Get("street").AsString(),
			City:    f.Get("city").AsString(),
			State:   f.Get("state").AsString(),
			Pincode: f.Get("pincode").AsString(),
			Country: stringOr(f.Get("country"), d.Country),
		},
	}

	if err := ns.Validate(); err != nil {
		return Rejected(rec.Index, ns.FirstName+" "+ns.LastName, studentRejection(err)), nil
	}

	s := ns.Student(actor, now)
	reconciled, created, err := p.svc.Reconcile(ctx, s)
	if err != nil {
		return reconcileOutcome(rec.Index, s.FullName(), err, student.ErrDuplicateKey)
	}
	if created {
		return Created(rec.Index, reconciled.FullName()), nil
	}
	return Updated(rec.Index, reconciled.FullName()), nil
}

// studentRejection maps a validation failure to its outbound reason, keeping
// missing-fields distinct from format failures.
func studentRejection(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, fe := range vErrs {
			if fe.Tag() == "required" {
				return reasonStudentMissing
			}
		}
		for _, fe := range vErrs {
			if fe.Tag() == "email" {
				return reasonInvalidEmail
			}
		}
		return translate(vErrs)
	}
	return err.Error()
}

type attendanceProcessor struct {
	svc *attendance.Service
	now func() time.Time
}

func NewAttendanceProcessor(svc *attendance.Service) Processor {
	return &attendanceProcessor{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

func (p *attendanceProcessor) Kind() EntityKind { return EntityAttendance }

func (p *attendanceProcessor) Process(ctx context.Context, rec RawRecord, src SourceKind, actor string) (Outcome, error) {
	now := p.now()
	f := Adapt(rec, EntityAttendance, src)

	studentRef := f.Get("studentId").AsString()
	rawStatus := f.Get("status").AsString()
	if studentRef == "" || rawStatus == "" {
		return Rejected(rec.Index, studentRef, reasonAttendanceMissing), nil
	}
	status, ok := attendance.ParseStatus(rawStatus)
	if !ok {
		return Rejected(rec.Index, studentRef, reasonInvalidStatus), nil
	}

	period := intOr(f.Get("period"), attendance.DefaultPeriod)
	if period < attendance.MinPeriod || period > attendance.MaxPeriod {
		period = attendance.DefaultPeriod
	}

	nm := attendance.NewMark{
		StudentRef: studentRef,
		Date:       timeOr(f.Get("date"), now).Truncate(24 * time.Hour),
		Subject:    stringOr(f.Get("subject"), "General"),
		Status:     status,
		Period:     period,
		Remarks:    f.Get("remarks").AsString(),
	}
	if err := nm.Validate(); err != nil {
		return Rejected(rec.Index, studentRef, rejection(err)), nil
	}

	m := nm.Mark(actor, now)
	display := m.StudentRef + " @ " + m.Date.Format("2006-01-02")
	_, created, err := p.svc.Reconcile(ctx, m)
	if err != nil {
		return reconcileOutcome(rec.Index, display, err, attendance.ErrDuplicateKey)
	}
	if created {
		return Created(rec.Index, display), nil
	}
	return Updated(rec.Index, display), nil
}

type gradeProcessor struct {
	svc *grade.Service
	now func() time.Time
}

func NewGradeProcessor(svc *grade.Service) Processor {
	return &gradeProcessor{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

func (p *gradeProcessor) Kind() EntityKind { return EntityGrades }

func (p *gradeProcessor) Process(ctx context.Context, rec RawRecord, src SourceKind, actor string) (Outcome, error) {
	now := p.now()
	f := Adapt(rec, EntityGrades, src)

	studentRef := f.Get("studentId").AsString()
	subject := f.Get("subject").AsString()
	subjectCode := f.Get("subjectCode").AsString()
	if studentRef == "" || subject == "" || subjectCode == "" {
		return Rejected(rec.Index, studentRef, reasonGradeMissing), nil
	}

	maxMarks := floatOr(f.Get("maxMarks"), grade.DefaultMaxMarks)
	if maxMarks <= 0 {
		maxMarks = grade.DefaultMaxMarks
	}
	semester := intOr(f.Get("semester"), 1)
	if semester < 1 || semester > 8 {
		semester = 1
	}

	nm := grade.NewMark{
		StudentRef:     studentRef,
		Subject:        subject,
		SubjectCode:    subjectCode,
		Semester:       semester,
		AcademicYear:   stringOr(f.Get("academicYear"), grade.AcademicYearFor(now)),
		AssessmentType: grade.CoerceAssessmentType(f.Get("assessmentType").AsString()),
		MaxMarks:       maxMarks,
		ObtainedMarks:  floatOr(f.Get("obtainedMarks"), 0),
		AssessmentDate: timeOr(f.Get("assessmentDate"), now),
	}
	if err := nm.Validate(); err != nil {
		return Rejected(rec.Index, studentRef, rejection(err)), nil
	}

	m := nm.Mark(actor, now)
	display := m.StudentRef + " / " + m.SubjectCode
	_, created, err := p.svc.Reconcile(ctx, m)
	if err != nil {
		return reconcileOutcome(rec.Index, display, err, grade.ErrDuplicateKey)
	}
	if created {
		return Created(rec.Index, display), nil
	}
	return Updated(rec.Index, display), nil
}

// reconcileOutcome sorts reconciliation failures: duplicate-key races and
// ambiguous matches reject the record, anything else is systemic and aborts
// the batch.
func reconcileOutcome(idx int, display string, err error, dupSentinel error) (Outcome, error) {
	if errors.Is(err, dupSentinel) {
		return Rejected(idx, display, reasonDuplicateKey), nil
	}
	var ambiguous *student.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		return Rejected(idx, display, err.Error()), nil
	}
	return Outcome{}, err
}

func rejection(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return translate(vErrs)
	}
	var cvErr *core.ValidationError
	if errors.As(err, &cvErr) && len(cvErr.Fields) > 0 {
		return cvErr.Fields[0].Field + ": " + cvErr.Fields[0].Error
	}
	return err.Error()
}

func translate(vErrs validator.ValidationErrors) string {
	msg := ""
	for _, fe := range vErrs {
		if msg != "" {
			msg += "; "
		}
		msg += fe.Field() + ": " + fe.Translate(core.Translator)
	}
	return msg
}
