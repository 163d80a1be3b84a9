package analyses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/analyzer"
)

// Service implements use-cases untuk Analysis
// Safe for concurrent use; all state lives behind the ports.
type Service struct {
	Repo     domain.Repository
	Analyzer analyzer.Client
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

// Analyze asks the wired provider for a verdict on the described file.
// No retry: provider failures surface immediately so the caller can resubmit.
func (s *Service) Analyze(ctx context.Context, req analyzer.Request) (*domain.Analysis, error) {
	a, err := s.Analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}
	return a, nil
}

// Save persists a result record. The identity may be empty: anonymous
// records are permitted. Assigns an id and creation time when absent.
func (s *Service) Save(ctx context.Context, a *domain.Analysis, identity string) (*domain.Analysis, error) {
	if a.ID == "" {
		a.ID = domain.AnalysisID(uuid.New().String())
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Clock.Now()
	}
	a.UserID = identity

	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return a, nil
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, id)
}
