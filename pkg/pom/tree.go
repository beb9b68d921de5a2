package pom

import (
	"bufio"
	"io"
	"strings"
)

// Rule is the separator line framing report sections.
var Rule = strings.Repeat("-", 80)

// WriteSection writes a section title framed by [Rule] lines.
func WriteSection(w io.Writer, title string) error {
	_, err := io.WriteString(w, Rule+"\n "+title+"\n"+Rule+"\n")
	return err
}

// PrintTree writes the dependency tree in the layout of
// "mvn dependency:tree":
//
//	com.example:app:1.0.0
//	+- junit:junit:4.11
//	|  \- org.hamcrest:hamcrest-core:1.3
//	\- org.slf4j:slf4j-api:1.7.26
func (p *Pom) PrintTree(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := WriteSection(bw, "DEPENDENCY TREE"); err != nil {
		return err
	}
	printNode(bw, 0, p.root, "", "")
	bw.WriteString("\n")
	return bw.Flush()
}

func printNode(w *bufio.Writer, depth int, d *Dependency, prefix, marker string) {
	w.WriteString(prefix + marker + d.GAV() + "\n")
	next := "|  "
	switch {
	case depth == 0:
		next = ""
	case strings.HasPrefix(marker, `\`):
		next = "   "
	}
	for i, child := range d.children {
		m := "+- "
		if i == len(d.children)-1 {
			m = `\- `
		}
		printNode(w, depth+1, child, prefix+next, m)
	}
}
