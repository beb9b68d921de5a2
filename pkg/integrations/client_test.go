package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/depexplorer/pkg/httputil"
)

func newTestClient(t *testing.T, server *httptest.Server, headers map[string]string) *Client {
	t.Helper()
	c, err := NewCache(t.TempDir(), "test:", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	return NewClient(c, headers).WithHTTPClient(server.Client())
}

func TestClientGetBytes(t *testing.T) {
	var method, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		w.Write([]byte("<metadata/>"))
	}))
	defer server.Close()

	client := newTestClient(t, server, map[string]string{"Authorization": "Bearer token"})
	data, err := client.GetBytes(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBytes() error: %v", err)
	}
	if string(data) != "<metadata/>" {
		t.Errorf("GetBytes() = %q", data)
	}
	if method != http.MethodGet {
		t.Errorf("expected GET, got %s", method)
	}
	if auth != "Bearer token" {
		t.Errorf("Authorization header = %q", auth)
	}
}

func TestClientStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
		{"server error", http.StatusBadGateway, ErrNetwork, true},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkStatus(%d) = %v, want %v", tt.status, err, tt.wantErr)
			}
			var re *httputil.RetryableError
			if got := errors.As(err, &re); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	client := newTestClient(t, server, nil)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(v *[]string) func() error {
		return func() error {
			calls.Add(1)
			*v = []string{"1.0", "2.0"}
			return nil
		}
	}

	var first []string
	if err := client.Cached(ctx, "a:b", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second []string
	if err := client.Cached(ctx, "a:b", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1", calls.Load())
	}
	if len(second) != 2 || second[1] != "2.0" {
		t.Errorf("cached value = %v", second)
	}

	var third []string
	if err := client.Cached(ctx, "a:b", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh should bypass the cache, fetch called %d times", calls.Load())
	}
}

func TestClientCachedNotFound(t *testing.T) {
	client := NewClient(nil, nil)
	var v string
	err := client.Cached(context.Background(), "k", false, &v, func() error { return ErrNotFound })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() = %v, want ErrNotFound", err)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://repo.maven.apache.org/maven2", []string{"junit", "junit"}, "https://repo.maven.apache.org/maven2/junit/junit"},
		{"https://repo.example.com/", []string{"/org/", "", "a"}, "https://repo.example.com/org/a"},
		{"http://localhost", nil, "http://localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := JoinURL(tt.base, tt.segments...); got != tt.want {
				t.Errorf("JoinURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
