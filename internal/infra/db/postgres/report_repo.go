package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/verilens/verilens/internal/domain/reports"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// Save insert share record dengan view counter 0
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO public_reports
(share_token, analysis_id, view_count, created_at)
VALUES ($1,$2,$3,$4);`
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, rep.Token, rep.AnalysisID, rep.ViewCount, created)
	return err
}

// FindByToken lookup share record by token
func (r *ReportRepository) FindByToken(ctx context.Context, token domain.ShareToken) (*domain.Report, error) {
	const q = `
SELECT share_token, analysis_id, view_count, created_at
FROM public_reports
WHERE share_token=$1
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, token)

	var rep domain.Report
	if err := row.Scan(&rep.Token, &rep.AnalysisID, &rep.ViewCount, &rep.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// IncrementViews bumps the counter at the backend; the row lock serializes
// concurrent resolutions of the same token.
func (r *ReportRepository) IncrementViews(ctx context.Context, token domain.ShareToken) error {
	const q = `
UPDATE public_reports
SET view_count = view_count + 1
WHERE share_token = $1;`
	res, err := r.db.ExecContext(ctx, q, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
