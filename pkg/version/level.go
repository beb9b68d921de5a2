package version

// Level classifies how far apart two versions are.
type Level int

// Levels ordered by weight.
const (
	None Level = iota
	Patch
	Minor
	Major
)

var levelNames = [...]string{"NONE", "PATCH", "MINOR", "MAJOR"}

// String returns the upper-case level name.
func (l Level) String() string {
	if l < None || l > Major {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Weight returns the numeric weight used for max-reduction.
func (l Level) Weight() int { return int(l) }

// Max returns the higher-weighted of l and o.
func (l Level) Max(o Level) Level {
	if o.Weight() > l.Weight() {
		return o
	}
	return l
}

// Diff classifies the first tier at which b is ahead of a.
//
// Only increases are inspected: a lower major in b with a higher minor
// still reports [Minor]. Any difference in qualifiers reports [Patch].
func Diff(a, b Version) Level {
	if a.Major < b.Major {
		return Major
	}
	if a.Minor < b.Minor {
		return Minor
	}
	if a.Patch < b.Patch || a.Snap != b.Snap || a.Other != b.Other {
		return Patch
	}
	return None
}

// DiffStrings parses a and b and returns [Diff].
func DiffStrings(a, b string) Level {
	return Diff(Parse(a), Parse(b))
}
