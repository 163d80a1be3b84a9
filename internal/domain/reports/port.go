package reports

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Report) error
	FindByToken(ctx context.Context, token ShareToken) (*Report, error)

	// IncrementViews bumps the view counter by exactly 1 at the backend,
	// so concurrent resolutions never lose an update. Returns ErrNotFound
	// when no report matches the token.
	IncrementViews(ctx context.Context, token ShareToken) error
}
