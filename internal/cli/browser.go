package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/depexplorer/pkg/rules"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// issueBrowser is the bubbletea model of analyze --interactive: a
// scrolling issue list with the selected issue detailed below it.
type issueBrowser struct {
	all     []rules.Issue
	visible []rules.Issue
	min     rules.Severity // lowest severity shown, 0 for all
	cursor  int
	offset  int
	height  int
}

func newIssueBrowser(issues []rules.Issue) issueBrowser {
	m := issueBrowser{all: issues, height: 15}
	m.applyFilter()
	return m
}

func (m *issueBrowser) applyFilter() {
	m.visible = nil
	for _, i := range m.all {
		if i.Severity >= m.min {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m issueBrowser) Init() tea.Cmd { return nil }

func (m issueBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "s":
			// Cycle the minimum severity: all, MINOR, ..., BLOCKER, all.
			switch {
			case m.min == 0:
				m.min = rules.SeverityMinor
			case m.min >= rules.SeverityBlocker:
				m.min = 0
			default:
				m.min++
			}
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m issueBrowser) selected() (rules.Issue, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return rules.Issue{}, false
	}
	return m.visible[m.cursor], true
}

func (m issueBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Issues"))
	filter := "all"
	if m.min > 0 {
		filter = m.min.String() + "+"
	}
	b.WriteString(" " + listDimStyle.Render(fmt.Sprintf("(%s)", filter)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s severity  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(StyleSuccess.Render("No issues"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.visible))
	for i := m.offset; i < end; i++ {
		issue := m.visible[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		sev := severityStyle(issue.Severity).Render(fmt.Sprintf("%-8s", issue.Severity))
		b.WriteString(cursor + sev + " " + style.Render(fmt.Sprintf("%-20s %s", issue.Module, issue.GA)))
		b.WriteString("\n")
	}

	if issue, ok := m.selected(); ok {
		var d strings.Builder
		fmt.Fprintf(&d, "%s\n", StyleHighlight.Render(issue.RuleKey))
		fmt.Fprintf(&d, "%s\n", issue.Description)
		if issue.Location != nil {
			r := issue.Location.Range
			fmt.Fprintf(&d, "%s", listDimStyle.Render(fmt.Sprintf("%s:%d:%d", issue.Location.File, r.LineStart, r.ColStart)))
		}
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(strings.TrimRight(d.String(), "\n")))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.visible))))
	return b.String()
}
