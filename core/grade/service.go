package grade

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("grade mark not found")
	ErrDuplicateKey = errors.New("a grade for this student, subject, assessment, semester and year already exists")
)

type (
	Repository interface {
		GetMarkByKey(ctx context.Context, key Key) (Mark, error)
		CreateMark(ctx context.Context, m Mark) (Mark, error)
		UpdateMark(ctx context.Context, m Mark) (Mark, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Reconcile creates or updates the mark matching the composite key.
func (svc *Service) Reconcile(ctx context.Context, m Mark) (Mark, bool, error) {
	existing, err := svc.repo.GetMarkByKey(ctx, m.Key())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Mark{}, false, pkgerrors.Wrap(err, "looking up grade mark")
		}
		created, err := svc.repo.CreateMark(ctx, m)
		if err != nil {
			return Mark{}, false, err
		}
		return created, true, nil
	}

	m.ID = existing.ID
	m.RecordedBy = existing.RecordedBy
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	updated, err := svc.repo.UpdateMark(ctx, m)
	if err != nil {
		return Mark{}, false, err
	}
	return updated, false, nil
}
