package xmlpath

import (
	"slices"
	"strconv"
	"strings"
)

// Value is a captured text or attribute value and where it came from.
type Value struct {
	Text  string
	Range Range
}

func (v Value) merge(o Value) Value {
	return Value{Text: v.Text + o.Text, Range: v.Range.span(o.Range)}
}

// Record is the snapshot of one matched element. It is never modified after
// delivery.
type Record struct {
	data map[string]Value
}

// NewRecord builds a record from explicit values, mainly for tests.
func NewRecord(values map[string]Value) Record {
	return Record{data: values}
}

// Get returns the text stored under key, or "" if absent.
func (r Record) Get(key string) string {
	return r.data[key].Text
}

// Lookup returns the value stored under key.
func (r Record) Lookup(key string) (Value, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Range returns the source range of the value stored under key.
func (r Record) Range(key string) (Range, bool) {
	v, ok := r.data[key]
	return v.Range, ok
}

// Keys returns all keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.data))
	for k := range r.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of captured values.
func (r Record) Len() int { return len(r.data) }

// ForEach calls fn once per repeated element under prefix, in document
// order. Keys of each group have the prefix and the "(n)" index removed, so
// a group's own text is under "" and its children under "/child".
//
//	r.ForEach("/licenses/license", func(l xmlpath.Record) {
//	    fmt.Println(l.Get("/name"))
//	})
func (r Record) ForEach(prefix string, fn func(Record)) {
	groups := make(map[int]map[string]Value)
	for key, v := range r.data {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		idx := 0
		if strings.HasPrefix(rest, "(") {
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				continue
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil {
				continue
			}
			idx, rest = n, rest[end+1:]
		}
		// "/date" must not capture "/dates".
		if rest != "" && rest[0] != '/' && rest[0] != ':' {
			continue
		}
		g, ok := groups[idx]
		if !ok {
			g = make(map[string]Value)
			groups[idx] = g
		}
		g[rest] = v
	}

	indexes := make([]int, 0, len(groups))
	for i := range groups {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	for _, i := range indexes {
		fn(Record{data: groups[i]})
	}
}
