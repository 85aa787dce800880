package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// schema holds the DDL for the canonical store. The unique constraints back
// the reconciler's duplicate detection under concurrent batches.
const schema = `
CREATE TABLE IF NOT EXISTS student (
	id                   UUID PRIMARY KEY,
	first_name           TEXT NOT NULL,
	last_name            TEXT NOT NULL,
	email                TEXT NOT NULL UNIQUE,
	phone                TEXT NOT NULL DEFAULT '',
	date_of_birth        TIMESTAMPTZ NOT NULL,
	gender               TEXT NOT NULL,
	course               TEXT NOT NULL,
	department           TEXT NOT NULL,
	batch                TEXT NOT NULL,
	semester             INT NOT NULL,
	roll_number          TEXT NOT NULL UNIQUE,
	admission_date       TIMESTAMPTZ NOT NULL,
	expected_graduation  TIMESTAMPTZ NOT NULL,
	father_name          TEXT NOT NULL DEFAULT '',
	father_occupation    TEXT NOT NULL DEFAULT '',
	father_education     TEXT NOT NULL DEFAULT '',
	mother_name          TEXT NOT NULL DEFAULT '',
	mother_occupation    TEXT NOT NULL DEFAULT '',
	mother_education     TEXT NOT NULL DEFAULT '',
	total_fees           DOUBLE PRECISION NOT NULL DEFAULT 0,
	fee_status           TEXT NOT NULL,
	street               TEXT NOT NULL DEFAULT '',
	city                 TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL DEFAULT '',
	pincode              TEXT NOT NULL DEFAULT '',
	country              TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL,
	risk_level           TEXT NOT NULL,
	risk_score           DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_by           TEXT NOT NULL,
	last_updated_by      TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance_mark (
	id               UUID PRIMARY KEY,
	student_ref      TEXT NOT NULL,
	date             TIMESTAMPTZ NOT NULL,
	subject          TEXT NOT NULL,
	status           TEXT NOT NULL,
	period           INT NOT NULL,
	remarks          TEXT NOT NULL DEFAULT '',
	marked_by        TEXT NOT NULL,
	last_updated_by  TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	UNIQUE (student_ref, date, subject, period)
);

CREATE TABLE IF NOT EXISTS grade_mark (
	id               UUID PRIMARY KEY,
	student_ref      TEXT NOT NULL,
	subject          TEXT NOT NULL,
	subject_code     TEXT NOT NULL,
	semester         INT NOT NULL,
	academic_year    TEXT NOT NULL,
	assessment_type  TEXT NOT NULL,
	max_marks        DOUBLE PRECISION NOT NULL,
	obtained_marks   DOUBLE PRECISION NOT NULL,
	percentage       DOUBLE PRECISION NOT NULL,
	grade            TEXT NOT NULL,
	grade_points     DOUBLE PRECISION NOT NULL,
	assessment_date  TIMESTAMPTZ NOT NULL,
	recorded_by      TEXT NOT NULL,
	last_updated_by  TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	UNIQUE (student_ref, subject_code, semester, academic_year, assessment_type)
);

CREATE TABLE IF NOT EXISTS import_report (
	id              UUID PRIMARY KEY,
	kind            TEXT NOT NULL,
	source          TEXT NOT NULL,
	actor           TEXT NOT NULL,
	created         INT NOT NULL,
	updated         INT NOT NULL,
	failed          INT NOT NULL,
	total           INT NOT NULL,
	errors          JSONB NOT NULL DEFAULT '[]',
	scope_failures  JSONB NOT NULL DEFAULT '[]',
	status          TEXT NOT NULL,
	cancelled       BOOLEAN NOT NULL DEFAULT FALSE,
	started_at      TIMESTAMPTZ NOT NULL,
	finished_at     TIMESTAMPTZ NOT NULL
);
`

// Migrate applies the schema, idempotently.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
