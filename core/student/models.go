package student

import (
	"strings"
	"time"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	DefaultGender = GenderOther
)

// Parent education levels
const (
	EducationBelow10th    = "Below 10th"
	Education10thPass     = "10th Pass"
	Education12thPass     = "12th Pass"
	EducationGraduate     = "Graduate"
	EducationPostGraduate = "Post Graduate"
	EducationProfessional = "Professional"

	DefaultEducation = EducationGraduate
)

// Fee statuses
const (
	FeeStatusPaid    = "Paid"
	FeeStatusPending = "Pending"
	FeeStatusOverdue = "Overdue"

	DefaultFeeStatus = FeeStatusPending
)

// Enrollment statuses
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusGraduated = "Graduated"
	StatusDropped   = "Dropped"
)

// Risk levels, owned by the downstream prediction model; imports only seed them.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

const (
	DefaultCourse     = "General"
	DefaultDepartment = "General"
	DefaultCountry    = "India"
)

var (
	genders     = []string{GenderMale, GenderFemale, GenderOther}
	educations  = []string{EducationBelow10th, Education10thPass, Education12thPass, EducationGraduate, EducationPostGraduate, EducationProfessional}
	feeStatuses = []string{FeeStatusPaid, FeeStatusPending, FeeStatusOverdue}
)

type Address struct {
	Street  string `json:"street" bson:"street" db:"street"`
	City    string `json:"city" bson:"city" db:"city"`
	State   string `json:"state" bson:"state" db:"state"`
	Pincode string `json:"pincode" bson:"pincode" db:"pincode"`
	Country string `json:"country" bson:"country" db:"country"`
}

type Student struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	FirstName   string    `json:"firstName" bson:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" bson:"lastName" db:"last_name"`
	Email       string    `json:"email" bson:"email" db:"email"`
	Phone       string    `json:"phone" bson:"phone" db:"phone"`
	DateOfBirth time.Time `json:"dateOfBirth" bson:"dateOfBirth" db:"date_of_birth"`
	Gender      string    `json:"gender" bson:"gender" db:"gender"`

	Course             string    `json:"course" bson:"course" db:"course"`
	Department         string    `json:"department" bson:"department" db:"department"`
	Batch              string    `json:"batch" bson:"batch" db:"batch"`
	Semester           int       `json:"semester" bson:"semester" db:"semester"`
	RollNumber         string    `json:"rollNumber" bson:"rollNumber" db:"roll_number"`
	AdmissionDate      time.Time `json:"admissionDate" bson:"admissionDate" db:"admission_date"`
	ExpectedGraduation time.Time `json:"expectedGraduation" bson:"expectedGraduation" db:"expected_graduation"`

	FatherName       string `json:"fatherName" bson:"fatherName" db:"father_name"`
	FatherOccupation string `json:"fatherOccupation" bson:"fatherOccupation" db:"father_occupation"`
	FatherEducation  string `json:"fatherEducation" bson:"fatherEducation" db:"father_education"`
	MotherName       string `json:"motherName" bson:"motherName" db:"mother_name"`
	MotherOccupation string `json:"motherOccupation" bson:"motherOccupation" db:"mother_occupation"`
	MotherEducation  string `json:"motherEducation" bson:"motherEducation" db:"mother_education"`

	TotalFees float64 `json:"totalFees" bson:"totalFees" db:"total_fees"`
	FeeStatus string  `json:"feeStatus" bson:"feeStatus" db:"fee_status"`

	Address Address `json:"address" bson:"address" db:"address"`

	Status    string  `json:"status" bson:"status" db:"status"`
	RiskLevel string  `json:"riskLevel" bson:"riskLevel" db:"risk_level"`
	RiskScore float64 `json:"riskScore" bson:"riskScore" db:"risk_score"`

	CreatedBy     string    `json:"createdBy" bson:"createdBy" db:"created_by"`
	LastUpdatedBy string    `json:"lastUpdatedBy" bson:"lastUpdatedBy" db:"last_updated_by"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"` // UTC
}

func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// NewStudent contains normalized, fully defaulted information needed to persist a Student.
type NewStudent struct {
	FirstName   string    `json:"firstName" validate:"required"`
	LastName    string    `json:"lastName" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      string    `json:"gender"`

	Course             string    `json:"course"`
	Department         string    `json:"department"`
	Batch              string    `json:"batch"`
	Semester           int       `json:"semester"`
	RollNumber         string    `json:"rollNumber" validate:"required,alphanum_"`
	AdmissionDate      time.Time `json:"admissionDate"`
	ExpectedGraduation time.Time `json:"expectedGraduation"`

	FatherName       string `json:"fatherName"`
	FatherOccupation string `json:"fatherOccupation"`
	FatherEducation  string `json:"fatherEducation"`
	MotherName       string `json:"motherName"`
	MotherOccupation string `json:"motherOccupation"`
	MotherEducation  string `json:"motherEducation"`

	TotalFees float64 `json:"totalFees"`
	FeeStatus string  `json:"feeStatus"`

	Address Address `json:"address"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	return core.Validate.Struct(ns)
}

// Student builds the canonical record, stamping audit fields and seeding the
// risk fields the prediction model owns.
func (ns NewStudent) Student(actor string, now time.Time) Student {
	now = now.UTC()
	return Student{
		FirstName:          ns.FirstName,
		LastName:           ns.LastName,
		Email:              ns.Email,
		Phone:              ns.Phone,
		DateOfBirth:        ns.DateOfBirth,
		Gender:             ns.Gender,
		Course:             ns.Course,
		Department:         ns.Department,
		Batch:              ns.Batch,
		Semester:           ns.Semester,
		RollNumber:         ns.RollNumber,
		AdmissionDate:      ns.AdmissionDate,
		ExpectedGraduation: ns.ExpectedGraduation,
		FatherName:         ns.FatherName,
		FatherOccupation:   ns.FatherOccupation,
		FatherEducation:    ns.FatherEducation,
		MotherName:         ns.MotherName,
		MotherOccupation:   ns.MotherOccupation,
		MotherEducation:    ns.MotherEducation,
		TotalFees:          ns.TotalFees,
		FeeStatus:          ns.FeeStatus,
		Address:            ns.Address,
		Status:             StatusActive,
		RiskLevel:          RiskLow,
		RiskScore:          0,
		CreatedBy:          actor,
		LastUpdatedBy:      actor,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func coerceEnum(val string, allowed []string, def string) string {
	val = core.CleanString(val)
	for _, a := range allowed {
		if strings.EqualFold(val, a) {
			return a
		}
	}
	return def
}

// CoerceGender maps any unrecognized gender value to the documented default
// rather than rejecting the record.
func CoerceGender(val string) string { return coerceEnum(val, genders, DefaultGender) }

// CoerceEducation maps any unrecognized education level to the documented default.
func CoerceEducation(val string) string { return coerceEnum(val, educations, DefaultEducation) }

// CoerceFeeStatus maps any unrecognized fee status to the documented default.
func CoerceFeeStatus(val string) string { return coerceEnum(val, feeStatuses, DefaultFeeStatus) }
