package attendance

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("attendance mark not found")
	ErrDuplicateKey = errors.New("an attendance mark for this student, date, subject and period already exists")
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

// Reconcile creates or updates the mark matching the composite key. The key is
// a single composite, so no split-identity conflict is possible for marks.
func (svc *Service) Reconcile(ctx context.Context, m Mark) (Mark, bool, error) {
	existing, err := svc.repo.GetMarkByKey(ctx, m.Key())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Mark{}, false, pkgerrors.Wrap(err, "looking up attendance mark")
		}
		created, err := svc.repo.CreateMark(ctx, m)
		if err != nil {
			return Mark{}, false, err
		}
		return created, true, nil
	}

	m.ID = existing.ID
	m.MarkedBy = existing.MarkedBy
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	updated, err := svc.repo.UpdateMark(ctx, m)
	if err != nil {
		return Mark{}, false, err
	}
	return updated, false, nil
}
