package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/depexplorer/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the repository has no such resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for timeouts, connection errors and unexpected
	// status codes.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient returns an HTTP client with the repository request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache returns a cache in dir (the default directory when empty),
// scoped to namespace.
func NewCache(dir, namespace string, ttl time.Duration) (*httputil.Cache, error) {
	c, err := httputil.NewCache(dir, ttl)
	if err != nil {
		return nil, err
	}
	return c.Namespace(namespace), nil
}

// JoinURL appends path segments to base with exactly one slash between
// each.
func JoinURL(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		out += "/" + s
	}
	return out
}
