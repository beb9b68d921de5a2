// Package integrations holds the HTTP clients used to reach remote
// artifact repositories.
//
// [Client] carries the shared behavior: default headers, retries with
// backoff for network errors and 5xx or 429 responses, and a file cache
// (see package httputil). Repository-specific clients embed it; the Maven
// repository client lives in subpackage maven.
//
//	cache, _ := integrations.NewCache("", "central:", 24*time.Hour)
//	c := integrations.NewClient(cache, nil)
//	err := c.Cached(ctx, key, false, &out, func() error {
//	    data, err := c.GetBytes(ctx, url)
//	    ...
//	})
//
// A missing resource is reported as [ErrNotFound]; every other failure
// wraps [ErrNetwork].
package integrations
