package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
)

const uniqueViolation = "23505"

// isDuplicate reports whether err is a unique constraint violation.
func isDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const studentColumns = `
	id, first_name, last_name, email, phone, date_of_birth, gender,
	course, department, batch, semester, roll_number, admission_date, expected_graduation,
	father_name, father_occupation, father_education, mother_name, mother_occupation, mother_education,
	total_fees, fee_status,
	street AS "address.street", city AS "address.city", state AS "address.state",
	pincode AS "address.pincode", country AS "address.country",
	status, risk_level, risk_score, created_by, last_updated_by, created_at, updated_at`

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) getBy(ctx context.Context, field, val string) (student.Student, error) {
	var s student.Student
	q := `SELECT` + studentColumns + ` FROM student WHERE ` + field + ` = $1`
	if err := repo.db.GetContext(ctx, &s, q, val); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "querying student")
	}
	return s, nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.getBy(ctx, "email", email)
}

func (repo *studentRepository) GetStudentByRollNumber(ctx context.Context, rollNumber string) (student.Student, error) {
	return repo.getBy(ctx, "roll_number", rollNumber)
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = uuid.NewString()
	q := `
	INSERT INTO student (
		id, first_name, last_name, email, phone, date_of_birth, gender,
		course, department, batch, semester, roll_number, admission_date, expected_graduation,
		father_name, father_occupation, father_education, mother_name, mother_occupation, mother_education,
		total_fees, fee_status,
		street, city, state, pincode, country,
		status, risk_level, risk_score, created_by, last_updated_by, created_at, updated_at
	) VALUES (
		:id, :first_name, :last_name, :email, :phone, :date_of_birth, :gender,
		:course, :department, :batch, :semester, :roll_number, :admission_date, :expected_graduation,
		:father_name, :father_occupation, :father_education, :mother_name, :mother_occupation, :mother_education,
		:total_fees, :fee_status,
		:address.street, :address.city, :address.state, :address.pincode, :address.country,
		:status, :risk_level, :risk_score, :created_by, :last_updated_by, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		if isDuplicate(err) {
			return student.Student{}, student.ErrDuplicateKey
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := `
	UPDATE student SET
		first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		date_of_birth = :date_of_birth, gender = :gender,
		course = :course, department = :department, batch = :batch, semester = :semester,
		roll_number = :roll_number, admission_date = :admission_date, expected_graduation = :expected_graduation,
		father_name = :father_name, father_occupation = :father_occupation, father_education = :father_education,
		mother_name = :mother_name, mother_occupation = :mother_occupation, mother_education = :mother_education,
		total_fees = :total_fees, fee_status = :fee_status,
		street = :address.street, city = :address.city, state = :address.state,
		pincode = :address.pincode, country = :address.country,
		last_updated_by = :last_updated_by, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, s)
	if err != nil {
		if isDuplicate(err) {
			return student.Student{}, student.ErrDuplicateKey
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}
