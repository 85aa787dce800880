package importing

import "context"

type (
	// HistoryRepository persists finished batch reports for audit listing.
	HistoryRepository interface {
		SaveReport(ctx context.Context, r *Report) error
		ListReports(ctx context.Context) ([]Report, error)
	}

	HistoryService struct {
		repo HistoryRepository
	}
)

func NewHistoryService(repo HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

func (svc *HistoryService) Record(ctx context.Context, r *Report) error {
	return svc.repo.SaveReport(ctx, r)
}

func (svc *HistoryService) List(ctx context.Context) ([]Report, error) {
	return svc.repo.ListReports(ctx)
}
