package importing

import "time"

type Action int

const (
	ActionNone Action = iota // record never reached an outcome (cancelled batch)
	ActionCreated
	ActionUpdated
	ActionRejected
)

// Outcome is the tagged per-record result; rejected outcomes carry the origin
// index and a human-readable reason. Never silently dropped.
type Outcome struct {
	Index  int
	Entity string // display name, used for connector records with no row number
	Action Action
	Reason string
}

func Created(idx int, entity string) Outcome {
	return Outcome{Index: idx, Entity: entity, Action: ActionCreated}
}

func Updated(idx int, entity string) Outcome {
	return Outcome{Index: idx, Entity: entity, Action: ActionUpdated}
}

func Rejected(idx int, entity, reason string) Outcome {
	return Outcome{Index: idx, Entity: entity, Action: ActionRejected, Reason: reason}
}

// RowError is the outbound rejection shape: {row, error} for file imports,
// {entity, error} for connector records.
type RowError struct {
	Row    int    `json:"row,omitempty" bson:"row,omitempty"`
	Entity string `json:"entity,omitempty" bson:"entity,omitempty"`
	Error  string `json:"error" bson:"error"`
}

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// Report aggregates all record outcomes of one batch invocation; immutable
// once the batch completes.
type Report struct {
	ID     string     `json:"id" bson:"_id"`
	Kind   EntityKind `json:"kind" bson:"kind"`
	Source SourceKind `json:"source" bson:"source"`
	Actor  string     `json:"actor" bson:"actor"`

	Created int `json:"created" bson:"created"`
	Updated int `json:"updated" bson:"updated"`
	Failed  int `json:"failed" bson:"failed"`
	Total   int `json:"total" bson:"total"`

	Errors        []RowError     `json:"errors" bson:"errors"`
	ScopeFailures []ScopeFailure `json:"scopeFailures,omitempty" bson:"scopeFailures,omitempty"`

	Status    Status `json:"status" bson:"status"`
	Cancelled bool   `json:"cancelled,omitempty" bson:"cancelled,omitempty"`

	StartedAt  time.Time `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" bson:"finishedAt"`
}

// Imported is the created+updated count exposed at the outbound boundary.
func (r *Report) Imported() int { return r.Created + r.Updated }

func (r *Report) add(out Outcome) {
	switch out.Action {
	case ActionCreated:
		r.Created++
	case ActionUpdated:
		r.Updated++
	case ActionRejected:
		r.Failed++
		r.Errors = append(r.Errors, RowError{Row: out.Index, Entity: out.Entity, Error: out.Reason})
	}
}
