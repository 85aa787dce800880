package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
)

type studentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{coll: db.db.Collection(studentCollection)}
}

func (repo *studentRepository) getBy(ctx context.Context, filter bson.M) (student.Student, error) {
	var s student.Student
	if err := repo.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "querying student")
	}
	return s, nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.getBy(ctx, bson.M{"email": email})
}

func (repo *studentRepository) GetStudentByRollNumber(ctx context.Context, rollNumber string) (student.Student, error) {
	return repo.getBy(ctx, bson.M{"rollNumber": rollNumber})
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = uuid.NewString()
	if _, err := repo.coll.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrDuplicateKey
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrDuplicateKey
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}
