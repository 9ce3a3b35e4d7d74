package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top bar: logo, counts and persistence state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("snipbox", styles.Logo),
		bg.Render("Snippets:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d", m.engine.Total()), styles.Text),
	}

	if q := m.engine.Query(); q != "" {
		parts = append(parts,
			bg.Render("Matches:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.engine.CurrentFilteredView())), styles.AccentText))
	}

	if err := m.engine.PersistError(); err != nil {
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("NOT SAVED", styles.DangerText)+bg.Space()+
				bg.Render(truncate(err.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderSearchBar renders the query input on its own line.
func (m Model) renderSearchBar() string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		MaxWidth(m.width).
		Padding(0, 1)
	return style.Render(m.searchInput.View())
}

// renderStatusLine shows the current toast, or the command bar when there is none.
func (m Model) renderStatusLine() string {
	if msg := m.engine.LastToastMessage(); msg != "" {
		styles := m.theme.Styles().WithBackground(m.theme.Surface)
		bg := NewBgStyle(m.theme.Surface)
		style := styles.SuccessText
		if strings.Contains(strings.ToLower(msg), "failed") || strings.HasPrefix(msg, "Not saved") {
			style = styles.DangerText
		}
		return styles.Header.Width(m.width).Render(bg.Render(truncate(msg, max(m.width-2, 1)), style))
	}
	return m.renderCommandBar()
}

// renderCommandBar renders the key hints for the current mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.mode {
	case modeSearch:
		commands = []cmd{
			{"enter", "Keep"},
			{"esc", "Clear"},
			{"↑/↓", "Navigate"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"j/k", "Navigate"},
			{"c", "Copy"},
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"i", "Import"},
			{"x", "Export"},
			{"?", "More"},
		}
		if m.width < 100 {
			commands = []cmd{
				{"/", "Search"},
				{"c", "Copy"},
				{"n", "New"},
				{"?", "More"},
			}
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
