package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
)

type gradeRepository struct {
	db *sqlx.DB
}

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) GetMarkByKey(ctx context.Context, key grade.Key) (grade.Mark, error) {
	var m grade.Mark
	q := `
	SELECT id, student_ref, subject, subject_code, semester, academic_year,
	       assessment_type, max_marks, obtained_marks, percentage, grade, grade_points,
	       assessment_date, recorded_by, last_updated_by, created_at, updated_at
	FROM grade_mark
	WHERE student_ref = $1 AND subject_code = $2 AND semester = $3
	  AND academic_year = $4 AND assessment_type = $5`
	err := repo.db.GetContext(ctx, &m, q,
		key.StudentRef, key.SubjectCode, key.Semester, key.AcademicYear, key.AssessmentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grade.Mark{}, grade.ErrNotFound
		}
		return grade.Mark{}, errors.Wrap(err, "querying grade mark")
	}
	return m, nil
}

func (repo *gradeRepository) CreateMark(ctx context.Context, m grade.Mark) (grade.Mark, error) {
	m.ID = uuid.NewString()
	q := `
	INSERT INTO grade_mark (
		id, student_ref, subject, subject_code, semester, academic_year,
		assessment_type, max_marks, obtained_marks, percentage, grade, grade_points,
		assessment_date, recorded_by, last_updated_by, created_at, updated_at
	) VALUES (
		:id, :student_ref, :subject, :subject_code, :semester, :academic_year,
		:assessment_type, :max_marks, :obtained_marks, :percentage, :grade, :grade_points,
		:assessment_date, :recorded_by, :last_updated_by, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, m); err != nil {
		if isDuplicate(err) {
			return grade.Mark{}, grade.ErrDuplicateKey
		}
		return grade.Mark{}, errors.Wrap(err, "inserting grade mark")
	}
	return m, nil
}

func (repo *gradeRepository) UpdateMark(ctx context.Context, m grade.Mark) (grade.Mark, error) {
	q := `
	UPDATE grade_mark SET
		subject = :subject, max_marks = :max_marks, obtained_marks = :obtained_marks,
		percentage = :percentage, grade = :grade, grade_points = :grade_points,
		assessment_date = :assessment_date,
		last_updated_by = :last_updated_by, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return grade.Mark{}, errors.Wrap(err, "updating grade mark")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.Mark{}, grade.ErrNotFound
	}
	return m, nil
}
