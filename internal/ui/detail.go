package ui

import (
	"strings"

	"github.com/five82/snipbox/internal/search"
	"github.com/five82/snipbox/internal/snippet"
)

// syncDetail resizes the preview viewport and refreshes its content for the
// current selection. Scrolling resets when the selection changes.
func (m *Model) syncDetail() {
	_, detailWidth, height := m.paneSizes()
	if detailWidth == 0 {
		return
	}
	m.detail.Width = max(detailWidth-2, 1)
	m.detail.Height = max(height-2, 1)

	s, ok := m.engine.Selected()
	if !ok {
		m.detailID = ""
		m.detail.SetContent(m.renderEmptyDetail())
		m.detail.GotoTop()
		return
	}

	m.detail.SetContent(m.renderDetailContent(s, m.detail.Width))
	if s.ID != m.detailID {
		m.detailID = s.ID
		m.detail.GotoTop()
	}
}

func (m Model) renderEmptyDetail() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	if m.engine.Total() == 0 {
		return bg.Render("No snippets yet", styles.MutedText)
	}
	return bg.Render("Select a snippet", styles.MutedText)
}

// renderDetailContent renders title, metadata and the full content of s,
// highlighting the current query everywhere it occurs.
func (m Model) renderDetailContent(s snippet.Snippet, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	query := m.engine.Query()
	inner := max(width-1, 1)

	var lines []string
	lines = append(lines, bg.Space()+bg.Highlight(search.Highlight(truncate(displayLine(s.Title), inner), query), styles.Text.Bold(true), styles.Match))

	meta := bg.Render("Created", styles.FaintText) + bg.Space() + bg.Render(s.CreatedAt, styles.MutedText)
	lines = append(lines, bg.Space()+meta)

	if len(s.Tags) > 0 {
		tags := make([]string, 0, len(s.Tags))
		for _, t := range s.Tags {
			tags = append(tags, bg.Highlight(search.Highlight("#"+t, query), styles.TagText, styles.Match))
		}
		lines = append(lines, bg.Space()+bg.Render("Tags", styles.FaintText)+bg.Space()+bg.Join(tags, " "))
	}

	lines = append(lines, bg.Render(strings.Repeat("─", inner), styles.FaintText))

	for _, line := range strings.Split(s.Content, "\n") {
		line = fitRunes(displayLine(line), inner)
		lines = append(lines, bg.Space()+bg.Highlight(search.Highlight(line, query), styles.Text, styles.Match))
	}
	return strings.Join(lines, "\n")
}
