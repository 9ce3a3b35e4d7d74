package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDeleteModal asks before a snippet is removed.
type confirmDeleteModal struct {
	id        string
	title     string
	confirmed bool
}

func newConfirmDeleteModal(id, title string) confirmDeleteModal {
	return confirmDeleteModal{id: id, title: title}
}

func (c confirmDeleteModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		c.confirmed = true
		return c, nil, true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDeleteModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.DangerText.Render("Delete snippet?") + "\n\n" +
		styles.Text.Render(truncate(c.title, 40)) + "\n\n" +
		styles.AccentText.Render("y") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" keep")
	return placeModal(theme, width, height, body, theme.Danger)
}

// promptModal reads a single line, used for the import file path.
type promptModal struct {
	title     string
	input     textinput.Model
	submitted bool
}

func newPromptModal(title, placeholder string) promptModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Width = 50
	ti.Focus()
	return promptModal{title: title, input: ti}
}

func (p promptModal) Value() string {
	return strings.TrimSpace(p.input.Value())
}

func (p promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Confirm):
			if p.Value() == "" {
				return p, nil, false
			}
			p.submitted = true
			p.input.Blur()
			return p, nil, true
		case key.Matches(km, keys.Escape):
			p.input.Blur()
			return p, nil, true
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.AccentText.Bold(true).Render(p.title) + "\n\n" +
		p.input.View() + "\n\n" +
		styles.FaintText.Render("enter import   esc cancel")
	return placeModal(theme, width, height, body, theme.Accent)
}

func placeModal(theme Theme, width, height int, body, border string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(min(60, max(width-4, 20))).
		Render(body)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
