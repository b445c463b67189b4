package storage

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// DefaultMaxBytes caps inline video payloads sent to the model.
const DefaultMaxBytes int64 = 20 << 20

// HTTPFetcher downloads videos from public URLs.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
	// Cloudinary asks the CDN for a downscaled mp4 before download.
	Cloudinary bool
}

// NewHTTPFetcher only connects to public addresses.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, cloudinary bool) *HTTPFetcher {
	return newHTTPFetcher(timeout, maxBytes, cloudinary, publicOnly)
}

func newHTTPFetcher(timeout time.Duration, maxBytes int64, cloudinary bool, allow func(netip.AddrPort) bool) *HTTPFetcher {
	return &HTTPFetcher{
		Client:     guardedClient(timeout, allow),
		MaxBytes:   maxBytes,
		Cloudinary: cloudinary,
	}
}

const cloudinaryTransform = "w_640,h_480,q_60,f_mp4"

// CompressedURL rewrites a Cloudinary delivery URL to request a smaller rendition.
func CompressedURL(rawURL string) string {
	if !strings.Contains(rawURL, "/upload/") || strings.Contains(rawURL, "/upload/"+cloudinaryTransform+"/") {
		return rawURL
	}
	return strings.Replace(rawURL, "/upload/", "/upload/"+cloudinaryTransform+"/", 1)
}

func (f *HTTPFetcher) Open(ctx context.Context, ref screening.VideoReference) (screening.Content, error) {
	target := ref.URL
	if f.Cloudinary {
		target = CompressedURL(target)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return screening.Content{}, eris.Wrapf(screening.ErrInvalidVideo, "bad url %q: %v", ref.URL, err)
	}
	client := f.Client
	if client == nil {
		client = guardedClient(0, publicOnly)
	}
	resp, err := client.Do(req)
	if err != nil {
		return screening.Content{}, eris.Wrapf(err, "storage: fetch %s", target)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return screening.Content{}, eris.Errorf("storage: fetch %s: status %d", target, resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if resp.ContentLength > limit {
		resp.Body.Close()
		return screening.Content{}, eris.Wrapf(screening.ErrVideoTooLarge, "%s is %d bytes", target, resp.ContentLength)
	}

	mt := "video/mp4"
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if parsed, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(parsed, "video/") {
			mt = parsed
		}
	}
	return screening.Content{
		Body:     &cappedBody{rc: resp.Body, left: limit},
		MIMEType: mt,
		Size:     resp.ContentLength,
	}, nil
}

// cappedBody fails instead of truncating once more than left bytes arrive.
type cappedBody struct {
	rc   io.ReadCloser
	left int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, screening.ErrVideoTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.rc.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return 0, screening.ErrVideoTooLarge
	}
	return n, err
}

func (c *cappedBody) Close() error { return c.rc.Close() }
