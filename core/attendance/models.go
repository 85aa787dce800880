package attendance

import (
	"strings"
	"time"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
)

// Attendance statuses. Unlike the defaulted student enums, an unrecognized
// status rejects the record: fabricating a Present/Absent value would invent
// facts the device never reported.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
	StatusExcused = "Excused"
)

const (
	MinPeriod     = 1
	MaxPeriod     = 8
	DefaultPeriod = 1
)

var statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// ParseStatus normalizes a raw status value; ok is false when unrecognized.
func ParseStatus(val string) (string, bool) {
	val = core.CleanString(val)
	for _, s := range statuses {
		if strings.EqualFold(val, s) {
			return s, true
		}
	}
	return "", false
}

// Mark is one attendance event for a student on a date/subject/period.
type Mark struct {
	ID         string    `json:"id" bson:"_id" db:"id"`
	StudentRef string    `json:"studentId" bson:"studentId" db:"student_ref"`
	Date       time.Time `json:"date" bson:"date" db:"date"`
	Subject    string    `json:"subject" bson:"subject" db:"subject"`
	Status     string    `json:"status" bson:"status" db:"status"`
	Period     int       `json:"period" bson:"period" db:"period"`
	Remarks    string    `json:"remarks" bson:"remarks" db:"remarks"`

	MarkedBy      string    `json:"markedBy" bson:"markedBy" db:"marked_by"`
	LastUpdatedBy string    `json:"lastUpdatedBy" bson:"lastUpdatedBy" db:"last_updated_by"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"` // UTC
}

// Key identifies a mark uniquely: one mark per student per subject per period per day.
type Key struct {
	StudentRef string
	Date       time.Time
	Subject    string
	Period     int
}

func (m Mark) Key() Key {
	return Key{StudentRef: m.StudentRef, Date: m.Date, Subject: m.Subject, Period: m.Period}
}

// NewMark contains normalized information needed to persist a Mark.
type NewMark struct {
	StudentRef string    `json:"studentId" validate:"required"`
	Date       time.Time `json:"date"`
	Subject    string    `json:"subject" validate:"required"`
	Status     string    `json:"status" validate:"required"`
	Period     int       `json:"period" validate:"min=1,max=8"`
	Remarks    string    `json:"remarks"`
}

func (nm *NewMark) Validate() error {
	nm.StudentRef = core.CleanString(nm.StudentRef)
	nm.Subject = core.CleanString(nm.Subject)
	return core.Validate.Struct(nm)
}

func (nm NewMark) Mark(actor string, now time.Time) Mark {
	now = now.UTC()
	return Mark{
		StudentRef:    nm.StudentRef,
		Date:          nm.Date,
		Subject:       nm.Subject,
		Status:        nm.Status,
		Period:        nm.Period,
		Remarks:       nm.Remarks,
		MarkedBy:      actor,
		LastUpdatedBy: actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
