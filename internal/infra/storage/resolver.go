package storage

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// ObjectStore is the bucket-backed half of the resolver.
type ObjectStore interface {
	screening.VideoSource
	Owns(rawURL string) bool
}

// Resolver sends bucket references to the object store and everything else over HTTP.
type Resolver struct {
	Objects ObjectStore
	HTTP    screening.VideoSource
}

func (r *Resolver) Open(ctx context.Context, ref screening.VideoReference) (screening.Content, error) {
	if r.Objects != nil && r.Objects.Owns(ref.URL) {
		return r.Objects.Open(ctx, ref)
	}
	if _, _, ok := ParseObjectURL(ref.URL); ok {
		return screening.Content{}, eris.Wrapf(screening.ErrInvalidVideo, "no store configured for %s", ref.URL)
	}
	if r.HTTP == nil {
		return screening.Content{}, eris.Wrapf(screening.ErrInvalidVideo, "no fetcher for %s", ref.URL)
	}
	return r.HTTP.Open(ctx, ref)
}
