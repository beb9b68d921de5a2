package filter

import (
	"testing"

	"github.com/matzehuels/depexplorer/pkg/errors"
)

const exclusions = "org:art:3.4.5,ib*:date:3.4.5,*ib:date:3.4.5,i*i:date:3.4.5,org:date:*,net::"

func TestListMatch(t *testing.T) {
	l, err := ParseList(exclusions)
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}

	tests := []struct {
		g, a, v string
		want    bool
	}{
		{"com", "truc", "5.0.1", false},
		{"org1", "art", "3.4.5", false},
		{"org", "art1", "3.4.5", false},
		{"org", "art", "3.4.4", false},
		{"org", "art", "3.4.5", true},

		{"ibm", "date", "3.4.5", true},
		{"imm", "date", "3.4.5", false},
		{"ibm", "date1", "3.4.5", false},
		{"ibm", "date", "3.4.6", false},

		{"aib", "date", "3.4.5", true},
		{"ain", "date", "3.4.5", false},
		{"aib", "date1", "3.4.5", false},
		{"aib", "date", "3.4.6", false},

		{"iri", "date", "3.4.5", true},
		{"ii", "date", "3.4.5", true},
		{"i", "date", "3.4.5", false},

		{"org", "date", "3.4.5", true},
		{"org", "true", "3.4.5", false},
		{"com", "date", "3.4.5", false},

		{"net", "date", "3.4.5", true},
		{"", "date", "3.4.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.g+":"+tt.a+":"+tt.v, func(t *testing.T) {
			if got := l.Match(tt.g, tt.a, tt.v); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseListErrors(t *testing.T) {
	_, err := ParseList("org:da*te*:*")
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("ParseList() error = %v, want INVALID_PATTERN", err)
	}
}

func TestMatchAll(t *testing.T) {
	l, err := ParseList("::")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Match("com", "truc", "5.0.1") {
		t.Error(`"::" should match everything`)
	}

	var empty List
	if empty.Match("com", "truc", "5.0.1") {
		t.Error("empty list matched")
	}
}

func TestListString(t *testing.T) {
	l, err := ParseList(exclusions)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.String(); got != exclusions {
		t.Errorf("String() = %q, want %q", got, exclusions)
	}
}

func TestParseWildcardKinds(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", KindAny},
		{"abc", KindPlain},
		{"abc*", KindStart},
		{"*abc", KindEnd},
		{"a*c", KindSplit},
		{"*", KindEnd},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, err := ParseWildcard(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if w.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", w.Kind(), tt.want)
			}
			if w.String() != tt.in {
				t.Errorf("String() = %q, want %q", w.String(), tt.in)
			}
		})
	}
}

func TestParseStrings(t *testing.T) {
	l, err := ParseStrings([]string{"g:a:*", "f:h:2.1.3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(l) != 2 || !l.Match("g", "a", "9") || !l.Match("f", "h", "2.1.3") || l.Match("f", "h", "2.1.4") {
		t.Errorf("ParseStrings() = %v", l)
	}
}
