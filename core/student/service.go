package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrNotFound is returned by repositories when no student matches a key field.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateKey is returned when the store's uniqueness constraints reject a write.
	ErrDuplicateKey = errors.New("a student with this email or roll number already exists")
)

// AmbiguousMatchError indicates a split identity: the record matched one stored
// student by email and a different one by roll number. Never auto-merged.
type AmbiguousMatchError struct {
	EmailMatchID      string
	RollNumberMatchID string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("record matches student %s by email and student %s by roll number", e.EmailMatchID, e.RollNumberMatchID)
}

type (
	// Repository is the canonical-store boundary: key lookups plus create/update.
	Repository interface {
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		GetStudentByRollNumber(ctx context.Context, rollNumber string) (Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, email)
}

// Reconcile decides create-vs-update against the dedup key set (email, roll
// number); a match on either field counts as found. The returned bool reports
// whether a new student was created.
//
// Uniqueness is enforced by the store, not by locks here: a concurrent import
// racing this create surfaces as ErrDuplicateKey and is left to the caller.
func (svc *Service) Reconcile(ctx context.Context, s Student) (Student, bool, error) {
	byEmail, err := svc.repo.GetStudentByEmail(ctx, s.Email)
	emailHit := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Student{}, false, pkgerrors.Wrap(err, "looking up student by email")
	}

	byRoll, err := svc.repo.GetStudentByRollNumber(ctx, s.RollNumber)
	rollHit := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Student{}, false, pkgerrors.Wrap(err, "looking up student by roll number")
	}

	if emailHit && rollHit && byEmail.ID != byRoll.ID {
		return Student{}, false, &AmbiguousMatchError{EmailMatchID: byEmail.ID, RollNumberMatchID: byRoll.ID}
	}

	if !emailHit && !rollHit {
		created, err := svc.repo.CreateStudent(ctx, s)
		if err != nil {
			return Student{}, false, err
		}
		return created, true, nil
	}

	existing := byEmail
	if !emailHit {
		existing = byRoll
	}

	// Full-field update; fields never carried by imports (risk scoring,
	// creation audit) keep their stored values.
	s.ID = existing.ID
	s.Status = existing.Status
	s.RiskLevel = existing.RiskLevel
	s.RiskScore = existing.RiskScore
	s.CreatedBy = existing.CreatedBy
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()

	updated, err := svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, false, err
	}
	return updated, false, nil
}
