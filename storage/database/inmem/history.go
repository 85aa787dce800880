package inmemdb

import (
	"context"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

type historyRepository struct {
	db *reportTable
}

func NewHistoryRepository(db *DB) importing.HistoryRepository {
	return &historyRepository{db: db.report}
}

func (repo *historyRepository) SaveReport(_ context.Context, r *importing.Report) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows = append(repo.db.rows, *r)
	return nil
}

func (repo *historyRepository) ListReports(_ context.Context) ([]importing.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	reports := make([]importing.Report, 0, len(repo.db.rows))
	for i := len(repo.db.rows) - 1; i >= 0; i-- {
		reports = append(reports, repo.db.rows[i])
	}
	return reports, nil
}
