package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
)

type attendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{coll: db.db.Collection(attendanceCollection)}
}

func (repo *attendanceRepository) GetMarkByKey(ctx context.Context, key attendance.Key) (attendance.Mark, error) {
	filter := bson.M{
		"studentId": key.StudentRef,
		"date":      key.Date,
		"subject":   key.Subject,
		"period":    key.Period,
	}
	var m attendance.Mark
	if err := repo.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Mark{}, attendance.ErrNotFound
		}
		return attendance.Mark{}, errors.Wrap(err, "querying attendance mark")
	}
	return m, nil
}

func (repo *attendanceRepository) CreateMark(ctx context.Context, m attendance.Mark) (attendance.Mark, error) {
	m.ID = uuid.NewString()
	if _, err := repo.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Mark{}, attendance.ErrDuplicateKey
		}
		return attendance.Mark{}, errors.Wrap(err, "inserting attendance mark")
	}
	return m, nil
}

func (repo *attendanceRepository) UpdateMark(ctx context.Context, m attendance.Mark) (attendance.Mark, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return attendance.Mark{}, errors.Wrap(err, "updating attendance mark")
	}
	if res.MatchedCount == 0 {
		return attendance.Mark{}, attendance.ErrNotFound
	}
	return m, nil
}
