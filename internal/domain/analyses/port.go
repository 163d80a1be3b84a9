package analyses

import "context"

// Repository port (interface untuk persistence)
// Insert-only: records are never updated or deleted.
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
}
