package xmlpath

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/matzehuels/depexplorer/pkg/errors"
)

const inputName = "<input>"

// Parse reads r to the end and feeds every matcher in a single traversal.
// The document is held in memory while it is tokenized: ranges are
// computed from byte offsets into it, and legacy charsets are transcoded
// up front. A malformed document returns an error with code
// INVALID_DOCUMENT; read failures are returned unchanged.
func Parse(r io.Reader, matchers ...*Matcher) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return parse(inputName, data, matchers)
}

// ParseFile parses the file at path. A missing file returns an error with
// code FILE_NOT_FOUND.
func ParseFile(path string, matchers ...*Matcher) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return err
	}
	return parse(path, data, matchers)
}

// ParseBytes parses data already in memory. source names the document in
// error messages.
func ParseBytes(source string, data []byte, matchers ...*Matcher) error {
	if source == "" {
		source = inputName
	}
	return parse(source, data, matchers)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	cdataOpen  = []byte("<![CDATA[")
	cdataClose = []byte("]]>")
)

func parse(source string, data []byte, matchers []*Matcher) error {
	data, err := toUTF8(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return malformed(source, 0, err)
	}
	for _, m := range matchers {
		m.reset()
	}

	p := &parser{source: source, data: data, matchers: matchers, lines: lineStarts(data)}
	return p.run()
}

type parser struct {
	source   string
	data     []byte
	lines    []int
	matchers []*Matcher
	stack    []string
}

func (p *parser) run() error {
	d := xml.NewDecoder(bytes.NewReader(p.data))
	d.Strict = true
	// Non UTF-8 input was transcoded up front.
	d.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) { return in, nil }

	for {
		start := int(d.InputOffset())
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			if se, ok := err.(*xml.SyntaxError); ok {
				return malformed(p.source, se.Line, se)
			}
			return malformed(p.source, p.line(start), err)
		}
		end := int(d.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t, start, end)
		case xml.EndElement:
			if err := p.endElement(t); err != nil {
				return malformed(p.source, p.line(start), err)
			}
		case xml.CharData:
			p.charData(t, start, end)
		case xml.Directive:
			if isDoctype(t) {
				return malformed(p.source, p.line(start), fmt.Errorf("DOCTYPE declarations are not supported"))
			}
		}
	}

	if n := len(p.stack); n > 0 {
		return malformed(p.source, len(p.lines), fmt.Errorf("unexpected end of document: <%s> not closed", p.stack[n-1]))
	}
	return nil
}

func (p *parser) startElement(t xml.StartElement, start, end int) {
	name := qualified(t.Name)
	p.stack = append(p.stack, name)
	abs := "/" + strings.Join(p.stack, "/")

	var attrs []attribute
	if len(t.Attr) > 0 {
		spans := attrSpans(p.data[start:end])
		attrs = make([]attribute, 0, len(t.Attr))
		for _, a := range t.Attr {
			qn := qualified(a.Name)
			v := Value{Text: a.Value}
			if s, ok := spans[qn]; ok {
				v.Range = p.rangeOf(start+s[0], start+s[1])
			}
			attrs = append(attrs, attribute{name: qn, value: v})
		}
	}
	for _, m := range p.matchers {
		m.start(abs, len(p.stack), name, attrs)
	}
}

func (p *parser) endElement(t xml.EndElement) error {
	name := qualified(t.Name)
	n := len(p.stack)
	if n == 0 {
		return fmt.Errorf("unexpected </%s>", name)
	}
	if p.stack[n-1] != name {
		return fmt.Errorf("element <%s> closed by </%s>", p.stack[n-1], name)
	}
	for _, m := range p.matchers {
		m.end(n, name)
	}
	p.stack = p.stack[:n-1]
	return nil
}

func (p *parser) charData(t xml.CharData, start, end int) {
	if len(p.stack) == 0 {
		return
	}
	text := strings.TrimSpace(string(t))
	if text == "" {
		return
	}
	raw := p.data[start:end]
	// A CDATA section spans its content only.
	if bytes.HasPrefix(raw, cdataOpen) && bytes.HasSuffix(raw, cdataClose) {
		start += len(cdataOpen)
		raw = raw[len(cdataOpen) : len(raw)-len(cdataClose)]
	}
	lo := len(raw) - len(bytes.TrimLeft(raw, " \t\r\n"))
	hi := len(bytes.TrimRight(raw, " \t\r\n"))
	v := Value{Text: text, Range: p.rangeOf(start+lo, start+hi)}
	for _, m := range p.matchers {
		m.text(v)
	}
}

// rangeOf converts the byte span [from, to) into a Range.
func (p *parser) rangeOf(from, to int) Range {
	ls, cs := p.position(from)
	le, ce := p.position(to)
	return Range{LineStart: ls, ColStart: cs, LineStop: le, ColStop: ce}
}

// position returns the 1-based line and character column of a byte offset.
func (p *parser) position(off int) (int, int) {
	line := p.line(off)
	col := utf8.RuneCount(p.data[p.lines[line-1]:off]) + 1
	return line, col
}

func (p *parser) line(off int) int {
	return sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > off })
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func isDoctype(d xml.Directive) bool {
	s := bytes.TrimSpace(d)
	return len(s) >= 7 && strings.EqualFold(string(s[:7]), "DOCTYPE")
}

// attrSpans scans a raw start tag and returns, per attribute name, the
// byte span of its value between the quotes.
func attrSpans(tag []byte) map[string][2]int {
	spans := make(map[string][2]int)
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	for i < len(tag) {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		if i == nameStart {
			break
		}
		name := string(tag[nameStart:i])
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			break
		}
		i++
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			break
		}
		quote := tag[i]
		i++
		valStart := i
		for i < len(tag) && tag[i] != quote {
			i++
		}
		spans[name] = [2]int{valStart, i}
		i++
	}
	return spans
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

var declEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:\-]+)["']`)

// toUTF8 transcodes data according to the encoding named in its XML
// declaration.
func toUTF8(data []byte) ([]byte, error) {
	m := declEncoding.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" || label == "us-ascii" || label == "ascii" {
		return data, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", m[1])
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return data, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", m[1], err)
	}
	return out, nil
}

func malformed(source string, line int, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidDocument,
		&errors.DocumentError{Source: source, Line: line, Err: err},
		"malformed document")
}
