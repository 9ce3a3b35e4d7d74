package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/snipbox/internal/search"
	"github.com/five82/snipbox/internal/selection"
	"github.com/five82/snipbox/internal/snippet"
)

// Vertical chrome around the panes: header, search bar and status line.
const chromeHeight = 3

// paneSizes splits the screen between the list and the preview.
func (m Model) paneSizes() (listWidth, detailWidth, height int) {
	height = max(m.height-chromeHeight, 3)
	if !m.showPreview {
		return m.width, 0, height
	}
	if m.width >= 160 {
		listWidth = m.width * 30 / 100
	} else {
		listWidth = m.width * 40 / 100
	}
	return listWidth, m.width - listWidth, height
}

// renderMain renders the browse screen: header, search, panes, status line.
func (m Model) renderMain() string {
	listWidth, detailWidth, height := m.paneSizes()

	list := m.renderTitledBox(m.listTitle(), m.renderList(listWidth-2, height-2), listWidth, height, true)
	panes := list
	if detailWidth > 0 {
		detail := m.renderTitledBox("Preview", m.detail.View(), detailWidth, height, false)
		panes = lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSearchBar(),
		panes,
		m.renderStatusLine(),
	)
}

func (m Model) listTitle() string {
	shown := len(m.engine.CurrentFilteredView())
	total := m.engine.Total()
	if m.engine.Query() == "" {
		return fmt.Sprintf("Snippets (%d)", total)
	}
	return fmt.Sprintf("Snippets (%d/%d)", shown, total)
}

// renderList renders the visible window of the filtered view.
func (m Model) renderList(width, height int) string {
	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	view := m.engine.CurrentFilteredView()
	if len(view) == 0 {
		msg := "No snippets yet"
		hint := "press n to add one or i to import"
		if m.engine.Total() > 0 {
			msg = "No matches"
			hint = "esc clears the search"
		}
		return bg.Render(msg, styles.MutedText) + "\n" + bg.Render(hint, styles.FaintText)
	}

	selected := m.engine.CurrentSelectionIndex()
	offset := scrollOffset(selected, len(view), height)
	end := min(offset+height, len(view))

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, m.formatListRow(view[i], width, i == selected))
	}
	return strings.Join(lines, "\n")
}

// formatListRow renders one snippet as "title  #tag #tag" with matches highlighted.
func (m Model) formatListRow(s snippet.Snippet, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	query := m.engine.Query()

	titleStyle := styles.Text
	if selected {
		titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Background(lipgloss.Color(bgColor)).
			Bold(true)
	}

	marker := bg.Space()
	if selected {
		marker = bg.Render("▌", styles.AccentText)
	}

	avail := width - 2
	tags := formatTags(s.Tags)
	tagWidth := 0
	if tags != "" && avail > 24 {
		tagWidth = min(lipgloss.Width(tags), avail/3)
	}
	titleWidth := avail
	if tagWidth > 0 {
		titleWidth = avail - tagWidth - 2
	}

	title := truncate(displayLine(s.Title), titleWidth)
	row := marker + bg.Space() + bg.Highlight(search.Highlight(title, query), titleStyle, styles.Match)

	if tagWidth > 0 {
		pad := titleWidth - lipgloss.Width(title) + 2
		row += bg.Spaces(pad) + bg.Highlight(search.Highlight(truncate(tags, tagWidth), query), styles.TagText, styles.Match)
	}
	return bg.FillLine(row, width)
}

// scrollOffset returns the first visible row so that selected stays on screen.
func scrollOffset(selected, total, height int) int {
	if height <= 0 || total <= height || selected == selection.None {
		return 0
	}
	offset := selected - height + 1
	if offset < 0 {
		return 0
	}
	return min(offset, total-height)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, "#"+t)
	}
	return strings.Join(parts, " ")
}

// renderTitledBox draws a bordered pane with the title set into its top edge.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
