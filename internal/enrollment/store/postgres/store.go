// Package postgres persists submissions in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"matricula/internal/enrollment/models"
)

// Schema creates the enrollments table. Applied by deploy tooling and by the
// integration tests; the service itself never runs DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS enrollments (
	id                   UUID PRIMARY KEY,
	student_name         TEXT NOT NULL,
	father_name          TEXT NOT NULL,
	mother_name          TEXT NOT NULL,
	other_guardian       TEXT NOT NULL,
	father_email         TEXT NOT NULL,
	mother_email         TEXT NOT NULL,
	grade                TEXT NOT NULL,
	address              TEXT NOT NULL,
	municipio            TEXT NOT NULL,
	sector               TEXT NOT NULL,
	urbanizacion         TEXT NOT NULL,
	bloque               TEXT NOT NULL,
	father_phone         TEXT NOT NULL,
	father_office_phone  TEXT NOT NULL,
	mother_phone         TEXT NOT NULL,
	mother_office_phone  TEXT NOT NULL,
	other_guardian_phone TEXT NOT NULL,
	responsible_id       TEXT NOT NULL,
	observaciones        TEXT NOT NULL,
	service_options      TEXT[] NOT NULL,
	client_id            TEXT NOT NULL,
	submitted_at         TIMESTAMPTZ NOT NULL
)`

// Store implements store.Store on database/sql with the pq driver.
type Store struct {
	db *sql.DB
}

// New creates a postgres-backed store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert writes one submission. A single attempt: duplicate IDs or connection
// failures surface as errors for the service to classify.
func (s *Store) Insert(ctx context.Context, submission models.Submission) error {
	const query = `
		INSERT INTO enrollments (
			id, student_name, father_name, mother_name, other_guardian,
			father_email, mother_email, grade, address, municipio, sector,
			urbanizacion, bloque, father_phone, father_office_phone,
			mother_phone, mother_office_phone, other_guardian_phone,
			responsible_id, observaciones, service_options, client_id,
			submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23
		)`

	_, err := s.db.ExecContext(ctx, query,
		submission.ID,
		submission.Field("student_name"),
		submission.Field("father_name"),
		submission.Field("mother_name"),
		submission.Field("other_guardian"),
		submission.Field("father_email"),
		submission.Field("mother_email"),
		submission.Field("grade"),
		submission.Field("address"),
		submission.Field("municipio"),
		submission.Field("sector"),
		submission.Field("urbanizacion"),
		submission.Field("bloque"),
		submission.Field("father_phone"),
		submission.Field("father_office_phone"),
		submission.Field("mother_phone"),
		submission.Field("mother_office_phone"),
		submission.Field("other_guardian_phone"),
		submission.Field("responsible_id"),
		submission.Field("observaciones"),
		pq.Array(submission.ServiceOptions),
		submission.ClientID,
		submission.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert enrollment %s: %w", submission.ID, err)
	}
	return nil
}

// Health verifies the database connection.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
