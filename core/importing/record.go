package importing

import (
	"strconv"
	"strings"
	"time"
)

// EntityKind determines which adapter and validation rule set applies.
type EntityKind string

const (
	EntityStudents   EntityKind = "students"
	EntityAttendance EntityKind = "attendance"
	EntityGrades     EntityKind = "grades"
)

func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(strings.ToLower(strings.TrimSpace(s))) {
	case EntityStudents:
		return EntityStudents, true
	case EntityAttendance:
		return EntityAttendance, true
	case EntityGrades:
		return EntityGrades, true
	}
	return "", false
}

// SourceKind selects the adapter mapping for a record's native field names.
type SourceKind string

const (
	SourceFile      SourceKind = "file"
	SourceSIS       SourceKind = "sis"
	SourceClassroom SourceKind = "classroom"
	SourceBiometric SourceKind = "biometric"
	SourceRFID      SourceKind = "rfid"
	SourceLMS       SourceKind = "lms"
)

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueTime
)

// Value is the closed variant a raw field may hold: string, number, bool,
// time or absent. Decoders and connectors produce nothing else, so the
// normalizer can coerce exhaustively.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	t    time.Time
}

var Absent = Value{}

func StringValue(s string) Value  { return Value{kind: ValueString, str: s} }
func NumberValue(f float64) Value { return Value{kind: ValueNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: ValueBool, b: b} }
func TimeValue(t time.Time) Value { return Value{kind: ValueTime, t: t} }

// ValueOf converts a JSON-decoded scalar into a Value. Non-scalar values
// (objects, arrays) map to Absent; connectors flatten nested shapes themselves.
func ValueOf(v interface{}) Value {
	switch tv := v.(type) {
	case nil:
		return Absent
	case string:
		return StringValue(tv)
	case float64:
		return NumberValue(tv)
	case int:
		return NumberValue(float64(tv))
	case bool:
		return BoolValue(tv)
	case time.Time:
		return TimeValue(tv)
	}
	return Absent
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsAbsent() bool {
	return v.kind == ValueAbsent || (v.kind == ValueString && strings.TrimSpace(v.str) == "")
}

// AsString renders the value in its usual textual form; Absent renders empty.
func (v Value) AsString() string {
	switch v.kind {
	case ValueString:
		return strings.TrimSpace(v.str)
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueTime:
		return v.t.Format(time.RFC3339)
	}
	return ""
}

func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case ValueNumber:
		return v.num, true
	case ValueString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		return f, err == nil
	case ValueBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// dateLayouts are tried in order when coercing string values to dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case ValueTime:
		return v.t, true
	case ValueString:
		s := strings.TrimSpace(v.str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// RawRecord is an ordered mapping of source-native field names to loosely
// typed values, plus the 1-based origin index used for error reporting.
type RawRecord struct {
	Index  int
	Fields map[string]Value
}

func (r RawRecord) Get(name string) Value {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return Absent
}

// RecordIter is a lazy, finite sequence of raw records. Err reports the first
// error encountered while producing records; it must be checked after Next
// returns false.
type RecordIter interface {
	Next() (RawRecord, bool)
	Err() error
}

type sliceIter struct {
	recs []RawRecord
	pos  int
}

func IterSlice(recs []RawRecord) RecordIter { return &sliceIter{recs: recs} }

func (it *sliceIter) Next() (RawRecord, bool) {
	if it.pos >= len(it.recs) {
		return RawRecord{}, false
	}
	rec := it.recs[it.pos]
	it.pos++
	return rec, true
}

func (it *sliceIter) Err() error { return nil }

// Collect drains an iterator; used by the orchestrator to learn the batch size
// before dispatching workers.
func Collect(it RecordIter) ([]RawRecord, error) {
	var recs []RawRecord
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		recs = append(recs, rec)
	}
	return recs, it.Err()
}
