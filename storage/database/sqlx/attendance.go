package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) GetMarkByKey(ctx context.Context, key attendance.Key) (attendance.Mark, error) {
	var m attendance.Mark
	q := `
	SELECT id, student_ref, date, subject, status, period, remarks,
	       marked_by, last_updated_by, created_at, updated_at
	FROM attendance_mark
	WHERE student_ref = $1 AND date = $2 AND subject = $3 AND period = $4`
	if err := repo.db.GetContext(ctx, &m, q, key.StudentRef, key.Date, key.Subject, key.Period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Mark{}, attendance.ErrNotFound
		}
		return attendance.Mark{}, errors.Wrap(err, "querying attendance mark")
	}
	return m, nil
}

func (repo *attendanceRepository) CreateMark(ctx context.Context, m attendance.Mark) (attendance.Mark, error) {
	m.ID = uuid.NewString()
	q := `
	INSERT INTO attendance_mark (
		id, student_ref, date, subject, status, period, remarks,
		marked_by, last_updated_by, created_at, updated_at
	) VALUES (
		:id, :student_ref, :date, :subject, :status, :period, :remarks,
		:marked_by, :last_updated_by, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, m); err != nil {
		if isDuplicate(err) {
			return attendance.Mark{}, attendance.ErrDuplicateKey
		}
		return attendance.Mark{}, errors.Wrap(err, "inserting attendance mark")
	}
	return m, nil
}

func (repo *attendanceRepository) UpdateMark(ctx context.Context, m attendance.Mark) (attendance.Mark, error) {
	q := `
	UPDATE attendance_mark SET
		status = :status, remarks = :remarks,
		last_updated_by = :last_updated_by, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return attendance.Mark{}, errors.Wrap(err, "updating attendance mark")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.Mark{}, attendance.ErrNotFound
	}
	return m, nil
}
