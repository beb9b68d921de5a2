package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/rules"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

func browserIssues() []rules.Issue {
	return []rules.Issue{
		{RuleKey: rules.TransitiveRuleKey, Module: "app", GA: "group:d", Severity: rules.SeverityMinor, Description: "undeclared"},
		{RuleKey: "LicenseIncompatibility", Module: "app", GA: "group:e", Severity: rules.SeverityBlocker, Description: "incompatible",
			Location: &pom.FiledRange{File: "pom.xml", Range: xmlpath.Range{LineStart: 7, ColStart: 5}}},
		{RuleKey: "Updates", Module: "core", GA: "group:f", Severity: rules.SeverityInfo, Description: "patch available"},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestIssueBrowserNavigation(t *testing.T) {
	m := press(newIssueBrowser(browserIssues()), "down", "j", "j", "up")
	b := m.(issueBrowser)
	if b.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", b.cursor)
	}
	issue, ok := b.selected()
	if !ok || issue.GA != "group:e" {
		t.Errorf("selected() = %v, %v", issue.GA, ok)
	}

	view := b.View()
	for _, want := range []string{"LicenseIncompatibility", "pom.xml:7:5", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	b = press(b, "k", "k", "k").(issueBrowser)
	if b.cursor != 0 {
		t.Errorf("cursor = %d after moving past the top", b.cursor)
	}
}

func TestIssueBrowserSeverityFilter(t *testing.T) {
	tests := []struct {
		presses int
		min     rules.Severity
		visible int
	}{
		{0, 0, 3},
		{1, rules.SeverityMinor, 2},
		{2, rules.SeverityMajor, 1},
		{4, rules.SeverityBlocker, 1},
		{5, 0, 3},
	}
	for _, tt := range tests {
		var m tea.Model = newIssueBrowser(browserIssues())
		for range tt.presses {
			m = press(m, "s")
		}
		b := m.(issueBrowser)
		if b.min != tt.min || len(b.visible) != tt.visible {
			t.Errorf("after %d presses: min = %s, visible = %d, want %s, %d",
				tt.presses, b.min, len(b.visible), tt.min, tt.visible)
		}
	}
}

func TestIssueBrowserScroll(t *testing.T) {
	var m tea.Model = newIssueBrowser(browserIssues())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	b := m.(issueBrowser)
	if b.height != 5 {
		t.Fatalf("height = %d, want the minimum 5", b.height)
	}

	b.height = 2
	b = press(b, "j", "j").(issueBrowser)
	if b.offset != 1 {
		t.Errorf("offset = %d, want 1", b.offset)
	}
}

func TestIssueBrowserEmpty(t *testing.T) {
	b := newIssueBrowser(nil)
	if _, ok := b.selected(); ok {
		t.Error("selected() on an empty list")
	}
	if !strings.Contains(b.View(), "No issues") {
		t.Errorf("View() = %q", b.View())
	}
}

func TestIssueBrowserQuit(t *testing.T) {
	_, cmd := newIssueBrowser(nil).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
