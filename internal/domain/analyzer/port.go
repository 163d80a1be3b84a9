package analyzer

import (
	"context"

	"github.com/verilens/verilens/internal/domain/analyses"
)

// Request carries the file metadata sent for analysis. The raw bytes never
// leave the caller; only the fingerprint travels.
type Request struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileHash string `json:"fileHash"`
}

// Client is the analysis-provider port. Implementations may fabricate a
// verdict, call a remote endpoint, or ask a real model; the sharing flow
// never depends on which one is wired in.
type Client interface {
	Analyze(ctx context.Context, req Request) (*analyses.Analysis, error)
}
