package reports

import (
	"context"
	"fmt"
	"time"

	analysesdomain "github.com/verilens/verilens/internal/domain/analyses"
	domain "github.com/verilens/verilens/internal/domain/reports"
)

// Service implements use-cases untuk public reports: issuing share tokens
// and resolving them back to the stored analysis.
type Service struct {
	Analyses analysesdomain.Repository
	Reports  domain.Repository
	Clock    Clock
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// Issue mints a fresh share token for an existing analysis and persists the
// linkage with a zeroed view counter. Two issues for the same analysis yield
// two unrelated tokens.
func (s *Service) Issue(ctx context.Context, analysisID analysesdomain.AnalysisID) (*domain.Report, error) {
	if _, err := s.Analyses.Get(ctx, analysisID); err != nil {
		return nil, err
	}

	token, err := domain.NewShareToken()
	if err != nil {
		return nil, fmt.Errorf("minting share token: %w", err)
	}

	r := &domain.Report{
		Token:      token,
		AnalysisID: analysisID,
		ViewCount:  0,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Reports.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}
	return r, nil
}

// Resolve looks up the share record, loads the linked analysis and bumps the
// view counter. The increment is durable before the result is returned; when
// it fails the whole resolution fails.
func (s *Service) Resolve(ctx context.Context, token domain.ShareToken) (*analysesdomain.Analysis, error) {
	r, err := s.Reports.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// A dangling link is a data-integrity failure, surfaced with the
	// analysis sentinel so the handler can word the 404 accordingly.
	a, err := s.Analyses.Get(ctx, r.AnalysisID)
	if err != nil {
		return nil, err
	}

	if err := s.Reports.IncrementViews(ctx, token); err != nil {
		return nil, fmt.Errorf("recording view: %w", err)
	}
	return a, nil
}
