package middleware

import (
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/infra/storage"
)

// Input validation and sanitization utilities

// ErrValidation marks request input that failed validation.
var ErrValidation = eris.New("validation failed")

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// ValidateID validates child, parent, reviewer and screening ids.
func ValidateID(field, id string) error {
	if id == "" {
		return eris.Wrapf(ErrValidation, "%s cannot be empty", field)
	}
	if !idPattern.MatchString(id) {
		return eris.Wrapf(ErrValidation, "invalid %s format (alphanumeric, dash, underscore only, max 128 chars)", field)
	}
	return nil
}

// ValidateVideoURL accepts public http(s) URLs and minio:// object references.
func ValidateVideoURL(rawURL string) error {
	if rawURL == "" {
		return nil // a missing URL just means the video is skipped
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return eris.Wrapf(ErrValidation, "invalid URL format: %v", err)
	}
	if u.Scheme == "minio" {
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return eris.Wrap(ErrValidation, "object reference needs bucket and key")
		}
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return eris.Wrapf(ErrValidation, "invalid URL scheme: %s (allowed: http, https, minio)", u.Scheme)
	}

	// SSRF protection: IP literals are checked here, names again at dial time
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return eris.Wrap(ErrValidation, "URL has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return eris.Wrap(ErrValidation, "localhost/internal hosts are not allowed")
	}
	if addr, err := netip.ParseAddr(host); err == nil && !storage.PublicAddr(addr) {
		return eris.Wrapf(ErrValidation, "address %s is not publicly routable", addr)
	}

	return nil
}

// ParseDate reads a YYYY-MM-DD date as midnight UTC.
func ParseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, eris.Wrapf(ErrValidation, "%s is required", field)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(ErrValidation, "%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
