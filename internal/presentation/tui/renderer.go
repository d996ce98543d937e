package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/macrokit/maestro/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// It auto-detects light/dark backgrounds; callers fall back to the plain
// markdown when stdout is not a terminal.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// MacroTable formats macro records as a markdown table.
func MacroTable(macros []domain.MacroRecord) string {
	var b strings.Builder
	b.WriteString("| Name | UID | Enabled | Group |\n")
	b.WriteString("|------|-----|---------|-------|\n")
	for _, m := range macros {
		fmt.Fprintf(&b, "| %s | %s | %t | %s |\n", cell(m.Name), m.UID, m.Enabled, cell(m.Group))
	}
	return b.String()
}

// GroupTable formats group records as a markdown table.
func GroupTable(groups []domain.GroupRecord) string {
	var b strings.Builder
	b.WriteString("| Name | UID | Macros |\n")
	b.WriteString("|------|-----|--------|\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", cell(g.Name), g.UID, g.MacroCount)
	}
	return b.String()
}

// ActionTable formats action records as a markdown table. Indices are
// valid only until the macro mutates.
func ActionTable(actions []domain.ActionRecord) string {
	var b strings.Builder
	b.WriteString("| # | Action |\n")
	b.WriteString("|---|--------|\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "| %d | %s |\n", a.Index, cell(a.Name))
	}
	return b.String()
}

// TriggerTable formats trigger records as a markdown table.
func TriggerTable(triggers []domain.TriggerRecord) string {
	var b strings.Builder
	b.WriteString("| # | Trigger |\n")
	b.WriteString("|---|---------|\n")
	for _, t := range triggers {
		fmt.Fprintf(&b, "| %d | %s |\n", t.Index, cell(t.Description))
	}
	return b.String()
}

// cell keeps user-controlled names from breaking table layout.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
