package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

const (
	fieldTitle = iota
	fieldContent
	fieldTags
	fieldCount
)

// formState backs the create and edit form.
type formState struct {
	editingID string // empty when creating
	title     textinput.Model
	content   textarea.Model
	tags      textinput.Model
	focus     int
	err       string
	errField  string
}

func newForm(width, height int) formState {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Paste or type the snippet..."
	content.ShowLineNumbers = true
	content.CharLimit = 0
	content.MaxHeight = 0

	tags := textinput.New()
	tags.Placeholder = "Tags (comma separated)"
	tags.Prompt = ""
	tags.CharLimit = 200

	f := formState{title: title, content: content, tags: tags}
	f.resize(width, height)
	f.setFocus(fieldTitle)
	return f
}

// newEditForm pre-fills the form from an existing snippet.
func newEditForm(s snippet.Snippet, width, height int) formState {
	f := newForm(width, height)
	f.editingID = s.ID
	f.title.SetValue(s.Title)
	f.content.SetValue(s.Content)
	f.tags.SetValue(snippet.JoinTags(s.Tags))
	return f
}

func (f *formState) resize(width, height int) {
	inner := max(width-8, 20)
	f.title.Width = inner
	f.tags.Width = inner
	f.content.SetWidth(inner)
	f.content.SetHeight(max(height-14, 3))
}

func (f *formState) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	f.title.Blur()
	f.content.Blur()
	f.tags.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldContent:
		f.content.Focus()
	case fieldTags:
		f.tags.Focus()
	}
}

// draft collects the form values. Tags are split on commas; empty entries drop.
func (f formState) draft() snippet.Draft {
	return snippet.Draft{
		Title:   f.title.Value(),
		Content: f.content.Value(),
		Tags:    snippet.ParseTags(f.tags.Value()),
	}
}

// setError shows err inline and moves focus to the offending field.
func (f *formState) setError(err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		f.err = appErr.Message
		f.errField = appErr.Field
	} else {
		f.err = err.Error()
		f.errField = ""
	}
	switch f.errField {
	case "title":
		f.setFocus(fieldTitle)
	case "content":
		f.setFocus(fieldContent)
	}
}

// formAction is what the model should do after a form key.
type formAction int

const (
	formContinue formAction = iota
	formSubmit
	formCancel
)

func (f formState) update(msg tea.Msg, keys keyMap) (formState, tea.Cmd, formAction) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Submit):
			return f, nil, formSubmit
		case key.Matches(km, keys.Escape):
			return f, nil, formCancel
		case key.Matches(km, keys.NextField):
			f.setFocus(f.focus + 1)
			return f, nil, formContinue
		case key.Matches(km, keys.PrevField):
			f.setFocus(f.focus - 1)
			return f, nil, formContinue
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	}
	return f, cmd, formContinue
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	heading := "New Snippet"
	if f.editingID != "" {
		heading = "Edit Snippet"
	}

	label := func(name string, field int) string {
		style := styles.MutedText
		if f.focus == field {
			style = styles.AccentText.Bold(true)
		}
		return style.Render(name)
	}

	var parts []string
	parts = append(parts,
		styles.Text.Bold(true).Render(heading),
		"",
		label("Title", fieldTitle),
		f.title.View(),
		"",
		label("Content", fieldContent),
		f.content.View(),
		"",
		label("Tags", fieldTags),
		f.tags.View(),
		"",
	)
	if f.err != "" {
		parts = append(parts, styles.DangerText.Render(f.err))
	}
	parts = append(parts, styles.FaintText.Render("ctrl+s save   tab next field   esc cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 2).
		Width(max(m.width-2, 24)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return box
}
