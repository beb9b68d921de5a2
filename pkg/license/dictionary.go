package license

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// matchThreshold is the score a fuzzy candidate must exceed.
const matchThreshold = 0.5

// Dictionary maps license labels to identities. Lookups are safe for
// concurrent use.
type Dictionary struct {
	mu         sync.Mutex
	labels     map[string][]Identity
	identities []Identity
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{labels: make(map[string][]Identity)}
}

// Add registers label, case-insensitively, as a name of id.
func (d *Dictionary) Add(label string, id Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(label, id)
}

func (d *Dictionary) add(label string, id Identity) {
	if i := slices.IndexFunc(d.identities, func(o Identity) bool { return o.Name == id.Name }); i >= 0 {
		id = d.identities[i]
	} else {
		d.identities = append(d.identities, id)
	}
	key := strings.ToLower(label)
	d.labels[key] = append(d.labels[key], id)
}

// Identities returns every registered identity in registration order.
func (d *Dictionary) Identities() []Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.identities)
}

// Lookup returns the identities known under name. Unknown names are
// matched approximately against every label and identity name; a match is
// remembered for later lookups. Nil means the license is unknown.
func (d *Dictionary) Lookup(name string) []Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	low := strings.ToLower(name)
	if ids, ok := d.labels[low]; ok {
		return slices.Clone(ids)
	}
	id, ok := d.fuzzy(low)
	if !ok {
		return nil
	}
	d.add(low, id)
	return []Identity{id}
}

func (d *Dictionary) fuzzy(query string) (Identity, bool) {
	q := normalize(query)
	var (
		best  Identity
		score float64
		found bool
	)
	for _, label := range slices.Sorted(maps.Keys(d.labels)) {
		nl := normalize(label)
		for _, id := range d.labels[label] {
			s := max(similarity(nl, q), similarity(normalize(id.Name), q))
			// Later candidates win ties.
			if !found || s >= score {
				best, score, found = id, s, true
			}
		}
	}
	if !found || score <= matchThreshold {
		return Identity{}, false
	}
	return best, true
}

var normalizer = strings.NewReplacer("-", " ", "/", " ")

// normalize strips filler words and folds " vN" into "N", so that
// "GNU General Public License v3" and "gnu general 3" compare well.
func normalize(s string) string {
	s = strings.ToLower(s)
	for _, w := range []string{"license", "version", "public", "the"} {
		s = strings.ReplaceAll(s, w, "")
	}
	s = normalizer.Replace(s)
	for n := '0'; n <= '9'; n++ {
		s = strings.ReplaceAll(s, " v"+string(n), string(n))
	}
	return strings.ReplaceAll(s, "  ", " ")
}

// similarity scores how well query covers candidate: the number of query
// tokens found in candidate, weighted by the ratio of token counts.
func similarity(candidate, query string) float64 {
	ct := strings.Fields(candidate)
	qt := strings.Fields(query)
	if len(ct) == 0 || len(qt) == 0 {
		return 0
	}
	k := 0
	for _, t := range qt {
		if slices.Contains(ct, t) {
			k++
		}
	}
	return float64(k) * float64(len(qt)) / float64(len(ct))
}
