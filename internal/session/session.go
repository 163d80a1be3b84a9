// Package session models the viewer's page flow as an explicit state object
// instead of ambient globals: landing → analysis → report, with the allowed
// back transitions and nothing else.
package session

import (
	"errors"
	"fmt"

	"github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/reports"
)

// Page enum
type Page string

const (
	PageLanding  Page = "landing"
	PageAnalysis Page = "analysis"
	PageReport   Page = "report"
)

var ErrInvalidTransition = errors.New("invalid page transition")

// Session holds the current page plus whatever result and share token the
// flow has produced so far. Not safe for concurrent use; one per viewer.
type Session struct {
	page   Page
	result *analyses.Analysis
	token  reports.ShareToken
}

func New() *Session {
	return &Session{page: PageLanding}
}

func (s *Session) Page() Page                 { return s.page }
func (s *Session) Result() *analyses.Analysis { return s.result }
func (s *Session) Token() reports.ShareToken  { return s.token }

// ShowAnalysis moves landing → analysis with a fresh result. Any previous
// share token is stale and dropped.
func (s *Session) ShowAnalysis(result *analyses.Analysis) error {
	if s.page != PageLanding {
		return fmt.Errorf("%w: %s → analysis", ErrInvalidTransition, s.page)
	}
	if result == nil {
		return errors.New("analysis result is required")
	}
	s.page = PageAnalysis
	s.result = result
	s.token = ""
	return nil
}

// ShowReport moves analysis → report once a share token exists.
func (s *Session) ShowReport(token reports.ShareToken) error {
	if s.page != PageAnalysis {
		return fmt.Errorf("%w: %s → report", ErrInvalidTransition, s.page)
	}
	if token == "" {
		return errors.New("share token is required")
	}
	s.page = PageReport
	s.token = token
	return nil
}

// BackToAnalysis moves report → analysis, keeping the result and token.
func (s *Session) BackToAnalysis() error {
	if s.page != PageReport {
		return fmt.Errorf("%w: %s → analysis", ErrInvalidTransition, s.page)
	}
	s.page = PageAnalysis
	return nil
}

// Reset returns to the landing page from anywhere and clears all state.
func (s *Session) Reset() {
	s.page = PageLanding
	s.result = nil
	s.token = ""
}
