package xmlpath

import (
	"strconv"
	"strings"
)

// Matcher collects one [Record] per element found at an absolute path.
// A Matcher keeps traversal state and must not be shared by concurrent
// [Parse] calls.
type Matcher struct {
	path string
	fn   func(Record)

	active   bool
	depth    int
	rel      []string
	counters map[string]int
	data     map[string]Value
}

// Match returns a matcher calling fn for every element whose un-indexed
// absolute path equals path, ignoring case. The record is delivered when
// the element closes.
func Match(path string, fn func(Record)) *Matcher {
	return &Matcher{path: path, fn: fn}
}

// Path returns the absolute element path the matcher listens on.
func (m *Matcher) Path() string { return m.path }

func (m *Matcher) reset() {
	m.active = false
	m.depth = 0
	m.rel = m.rel[:0]
	m.counters = nil
	m.data = nil
}

func (m *Matcher) relPath() string {
	return strings.Join(m.rel, "")
}

func (m *Matcher) start(absPath string, depth int, name string, attrs []attribute) {
	switch {
	case m.active:
		key := m.relPath() + "/" + name
		i := m.counters[key]
		seg := "/" + name
		if i > 0 {
			seg += "(" + strconv.Itoa(i) + ")"
		}
		m.rel = append(m.rel, seg)
	case strings.EqualFold(absPath, m.path):
		m.active = true
		m.depth = depth
		m.rel = m.rel[:0]
		m.counters = make(map[string]int)
		m.data = make(map[string]Value)
	default:
		return
	}
	prefix := m.relPath()
	for _, a := range attrs {
		m.data[prefix+":"+a.name] = a.value
	}
}

func (m *Matcher) text(v Value) {
	if !m.active {
		return
	}
	key := m.relPath()
	if prev, ok := m.data[key]; ok {
		v = prev.merge(v)
	}
	m.data[key] = v
}

func (m *Matcher) end(depth int, name string) {
	if !m.active {
		return
	}
	if depth == m.depth {
		rec := Record{data: m.data}
		m.active = false
		m.data = nil
		m.counters = nil
		m.fn(rec)
		return
	}
	m.rel = m.rel[:len(m.rel)-1]
	m.counters[m.relPath()+"/"+name]++
}

type attribute struct {
	name  string
	value Value
}
