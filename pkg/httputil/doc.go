// Package httputil holds the plumbing shared by the remote repository
// clients: a file [Cache] for fetched metadata and [Retry] for transient
// failures.
//
// # Caching
//
// Entries live under ~/.cache/depexplorer by default, one JSON file per
// key, and expire after the cache TTL (24 hours unless configured):
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	meta := cache.Namespace("metadata:")
//	if ok, _ := meta.Get("junit:junit", &versions); !ok {
//	    versions = fetch()
//	    meta.Set("junit:junit", versions)
//	}
//
// `depexplorer cache clear` empties the directory.
//
// # Retry
//
// [Retry] repeats an operation while it fails with a [RetryableError],
// doubling the delay between attempts. Clients wrap network failures and
// 5xx responses; a 404 is returned at once.
package httputil
