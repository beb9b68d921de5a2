package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	tests := []struct {
		name  string
		key   string
		value []string
	}{
		{"versions", "org.slf4j:slf4j-api", []string{"1.7.36", "2.0.9"}},
		{"licenses", "junit:junit:4.13.2", []string{"Eclipse Public License 1.0"}},
		{"empty", "com.example:none", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.Set(tt.key, tt.value)
			if err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			if n == 0 {
				t.Error("Set() reported an empty entry")
			}

			var got []string
			ok, err := c.Get(tt.key, &got)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
			}
			if len(got) != len(tt.value) {
				t.Fatalf("Get() = %v, want %v", got, tt.value)
			}
			for i := range got {
				if got[i] != tt.value[i] {
					t.Errorf("Get()[%d] = %q, want %q", i, got[i], tt.value[i])
				}
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if _, err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get("key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err = c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.keyPath("test") != c.keyPath("test") {
		t.Error("path should be deterministic")
	}
	if c.keyPath("test") == c.keyPath("other") {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	want := filepath.Join(home, ".cache", AppName)
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if c.TTL() != time.Hour {
		t.Errorf("got TTL = %v, want 1h", c.TTL())
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("isolation", func(t *testing.T) {
		meta := c.Namespace("metadata:")
		poms := c.Namespace("pom:")

		if _, err := meta.Set("junit:junit", "meta"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		if _, err := poms.Set("junit:junit", "pom"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var a, b string
		if ok, err := meta.Get("junit:junit", &a); !ok || err != nil || a != "meta" {
			t.Errorf("meta.Get() = %v, %v, %q", ok, err, a)
		}
		if ok, err := poms.Get("junit:junit", &b); !ok || err != nil || b != "pom" {
			t.Errorf("poms.Get() = %v, %v, %q", ok, err, b)
		}
	})

	t.Run("chained", func(t *testing.T) {
		remote := c.Namespace("central:")
		meta := remote.Namespace("metadata:")
		if meta.Prefix() != "central:metadata:" {
			t.Errorf("Prefix() = %q", meta.Prefix())
		}
		if _, err := meta.Set("k", "v"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		var got string
		if found, _ := remote.Get("k", &got); found {
			t.Error("value accessible without full namespace chain")
		}
	})
}

func TestCache_LenClear(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	for _, k := range []string{"a", "b", "c"} {
		if _, err := c.Namespace("x:").Set(k, k); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
	}

	if n, err := c.Len(); err != nil || n != 3 {
		t.Fatalf("Len() = %d, %v; want 3, nil", n, err)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3, nil", n, err)
	}
	if n, _ := c.Len(); n != 0 {
		t.Errorf("Len() after Clear = %d, want 0", n)
	}
}
