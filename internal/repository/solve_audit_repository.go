package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/schedule-sensei/internal/models"
)

// SolveAuditRepository appends solve run metadata. The trail is
// insert-only; models are never stored.
type SolveAuditRepository struct {
	db *sqlx.DB
}

// NewSolveAuditRepository instantiates the audit repository.
func NewSolveAuditRepository(db *sqlx.DB) *SolveAuditRepository {
	return &SolveAuditRepository{db: db}
}

// Record inserts one audit row.
func (r *SolveAuditRepository) Record(ctx context.Context, rec models.SolveRecord) error {
	query := `INSERT INTO solve_audit (id, test_case, student_count, variables, clauses, outcome, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.TestCase,
		rec.StudentCount,
		rec.Variables,
		rec.Clauses,
		rec.Outcome,
		rec.DurationMS,
		time.Now().UTC(),
	)
	return err
}

// RecentByTestCase lists the latest audit rows for a test case.
func (r *SolveAuditRepository) RecentByTestCase(ctx context.Context, testCase, limit int) ([]models.SolveRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT id, test_case, student_count, variables, clauses, outcome, duration_ms
		FROM solve_audit WHERE test_case = $1 ORDER BY created_at DESC LIMIT $2`
	var rows []models.SolveRecord
	if err := r.db.SelectContext(ctx, &rows, query, testCase, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
