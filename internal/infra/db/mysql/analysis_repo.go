package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/verilens/verilens/internal/domain/analyses"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save insert Analysis record. Records are immutable: no upsert, a duplicate
// id is a constraint violation surfaced to the caller.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
(id, user_id, file_name, file_type, file_hash,
 authenticity_score, status, ai_explanation, detected_signals,
 confidence_level, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?);
`
	signals, err := json.Marshal(a.DetectedSignals)
	if err != nil {
		return fmt.Errorf("encoding signals: %w", err)
	}

	// user_id column is nullable; anonymous records store NULL, not a sentinel
	var user sql.NullString
	if a.UserID != "" {
		user = sql.NullString{String: a.UserID, Valid: true}
	}

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		a.ID, user, a.FileName, a.FileType, a.FileHash,
		a.Score, a.Status, a.Explanation, signals,
		a.Confidence, created,
	)
	return err
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, file_name, file_type, file_hash,
       authenticity_score, status, ai_explanation, detected_signals,
       confidence_level, created_at
FROM analyses
WHERE id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, id)

	var a domain.Analysis
	var user sql.NullString
	var signals []byte
	if err := row.Scan(
		&a.ID, &user, &a.FileName, &a.FileType, &a.FileHash,
		&a.Score, &a.Status, &a.Explanation, &signals,
		&a.Confidence, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	a.UserID = user.String
	if len(signals) > 0 {
		if err := json.Unmarshal(signals, &a.DetectedSignals); err != nil {
			return nil, fmt.Errorf("decoding signals: %w", err)
		}
	}
	return &a, nil
}
