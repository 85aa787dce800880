package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) GetMarkByKey(_ context.Context, key attendance.Key) (attendance.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, m := range repo.db.table {
		if m.Key() == key {
			return *m, nil
		}
	}
	return attendance.Mark{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) CreateMark(_ context.Context, m attendance.Mark) (attendance.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.table {
		if existing.Key() == m.Key() {
			return attendance.Mark{}, attendance.ErrDuplicateKey
		}
	}
	m.ID = uuid.NewString()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *attendanceRepository) UpdateMark(_ context.Context, m attendance.Mark) (attendance.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[m.ID]; !ok {
		return attendance.Mark{}, attendance.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}
