package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.table {
		if strings.EqualFold(s.Email, email) {
			return *s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByRollNumber(_ context.Context, rollNumber string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.table {
		if s.RollNumber == rollNumber {
			return *s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.table {
		if strings.EqualFold(existing.Email, s.Email) || existing.RollNumber == s.RollNumber {
			return student.Student{}, student.ErrDuplicateKey
		}
	}
	s.ID = uuid.NewString()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	for id, existing := range repo.db.table {
		if id == s.ID {
			continue
		}
		if strings.EqualFold(existing.Email, s.Email) || existing.RollNumber == s.RollNumber {
			return student.Student{}, student.ErrDuplicateKey
		}
	}
	repo.db.table[s.ID] = &s
	return s, nil
}
