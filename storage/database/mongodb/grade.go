package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
)

type gradeRepository struct {
	coll *mongo.Collection
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{coll: db.db.Collection(gradeCollection)}
}

func (repo *gradeRepository) GetMarkByKey(ctx context.Context, key grade.Key) (grade.Mark, error) {
	filter := bson.M{
		"studentId":      key.StudentRef,
		"subjectCode":    key.SubjectCode,
		"semester":       key.Semester,
		"academicYear":   key.AcademicYear,
		"assessmentType": key.AssessmentType,
	}
	var m grade.Mark
	if err := repo.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return grade.Mark{}, grade.ErrNotFound
		}
		return grade.Mark{}, errors.Wrap(err, "querying grade mark")
	}
	return m, nil
}

func (repo *gradeRepository) CreateMark(ctx context.Context, m grade.Mark) (grade.Mark, error) {
	m.ID = uuid.NewString()
	if _, err := repo.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return grade.Mark{}, grade.ErrDuplicateKey
		}
		return grade.Mark{}, errors.Wrap(err, "inserting grade mark")
	}
	return m, nil
}

func (repo *gradeRepository) UpdateMark(ctx context.Context, m grade.Mark) (grade.Mark, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return grade.Mark{}, errors.Wrap(err, "updating grade mark")
	}
	if res.MatchedCount == 0 {
		return grade.Mark{}, grade.ErrNotFound
	}
	return m, nil
}
