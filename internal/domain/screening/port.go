package screening

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *Screening) error
	Get(ctx context.Context, id ID) (*Screening, error)
	ListByChild(ctx context.Context, childID string) ([]*Screening, error)
	ListByParent(ctx context.Context, parentID string) ([]*Screening, error)
	// Paginate lists every screening, newest submission first.
	Paginate(ctx context.Context, page, pageSize int) ([]*Screening, int64, error)
	Ping(ctx context.Context) error
}

// VideoSource resolves a reference into readable media.
type VideoSource interface {
	Open(ctx context.Context, ref VideoReference) (Content, error)
}
