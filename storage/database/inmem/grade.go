package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
)

type gradeRepository struct {
	db *gradeTable
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) GetMarkByKey(_ context.Context, key grade.Key) (grade.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, m := range repo.db.table {
		if m.Key() == key {
			return *m, nil
		}
	}
	return grade.Mark{}, grade.ErrNotFound
}

func (repo *gradeRepository) CreateMark(_ context.Context, m grade.Mark) (grade.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.table {
		if existing.Key() == m.Key() {
			return grade.Mark{}, grade.ErrDuplicateKey
		}
	}
	m.ID = uuid.NewString()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *gradeRepository) UpdateMark(_ context.Context, m grade.Mark) (grade.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[m.ID]; !ok {
		return grade.Mark{}, grade.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}
