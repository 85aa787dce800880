package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

type historyRepository struct {
	coll *mongo.Collection
}

func NewHistoryRepository(db *DB) importing.HistoryRepository {
	return &historyRepository{coll: db.db.Collection(reportCollection)}
}

func (repo *historyRepository) SaveReport(ctx context.Context, r *importing.Report) error {
	if _, err := repo.coll.InsertOne(ctx, r); err != nil {
		return errors.Wrap(err, "inserting import report")
	}
	return nil
}

func (repo *historyRepository) ListReports(ctx context.Context) ([]importing.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	cur, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying import reports")
	}
	defer func() { _ = cur.Close(ctx) }()

	var reports []importing.Report
	if err = cur.All(ctx, &reports); err != nil {
		return nil, errors.Wrap(err, "decoding import reports")
	}
	return reports, nil
}
