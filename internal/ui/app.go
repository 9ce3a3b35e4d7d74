// Package ui provides the Bubble Tea terminal interface for snipbox.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/snipbox/internal/clipboard"
	"github.com/five82/snipbox/internal/engine"
	"github.com/five82/snipbox/internal/prefs"
	"github.com/five82/snipbox/internal/selection"
	"github.com/five82/snipbox/internal/snippet"
)

// searchPlaceholder is shown in the empty search box.
const searchPlaceholder = "Search snippets by title, content or tag..."

// mode is the component that currently receives keys.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeModal
	modeHelp
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Engine      *engine.Engine
	Logger      *slog.Logger
	ThemeName   string
	HidePreview bool
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    *engine.Engine
	logger    *slog.Logger
	prefsPath string
	keys      keyMap

	// UI state
	theme       Theme
	mode        mode
	width       int
	height      int
	ready       bool
	showPreview bool

	searchInput textinput.Model
	detail      viewport.Model
	detailID    string
	form        formState
	modal       Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = searchPlaceholder
	search.Prompt = "/ "
	search.CharLimit = 256

	return Model{
		ctx:         ctx,
		engine:      opts.Engine,
		logger:      logger,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		showPreview: !opts.HidePreview,
		searchInput: search,
		detail:      viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if err := m.engine.PersistError(); err != nil {
		cmds = append(cmds, m.notify(fmt.Sprintf("Not saved: %v", err)))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.mode == modeForm {
			m.form.resize(m.width, m.height)
		}
		m.searchInput.Width = max(m.width-6, 10)
		m.syncDetail()
		return m, nil

	case copyResultMsg:
		gen, ok := m.engine.AckCopy(msg.err, msg.size)
		if !ok {
			return m, nil
		}
		return m, clearToastCmd(gen, clipboard.AckDuration)

	case importFileMsg:
		return m.handleImportFile(msg)

	case clearToastMsg:
		m.engine.ClearToast(msg.gen)
		return m, nil
	}

	// Cursor blink and other component messages.
	return m.forwardToFocused(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case modeHelp:
		return m.renderHelp()
	case modeModal:
		if m.modal != nil {
			return m.modal.View(m.theme, m.width, m.height)
		}
	case modeForm:
		return m.renderForm()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to whatever currently has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeHelp:
		// Any key closes help
		m.mode = modeBrowse
		return m, nil
	case modeModal:
		return m.handleModalKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.syncDetail()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		m.savePrefs()
		m.syncDetail()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.engine.Query() != "" {
			m.searchInput.SetValue("")
			m.engine.OnQueryChange("")
			m.syncDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		return m.navigate(selection.Next)
	case key.Matches(msg, m.keys.Up):
		return m.navigate(selection.Prev)
	case key.Matches(msg, m.keys.Top):
		return m.navigate(selection.Home)
	case key.Matches(msg, m.keys.Bottom):
		return m.navigate(selection.End)

	case key.Matches(msg, m.keys.HalfPageDown):
		m.detail.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detail.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()

	case key.Matches(msg, m.keys.New):
		m.form = newForm(m.width, m.height)
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		s, ok := m.engine.Selected()
		if !ok {
			return m, m.notify("Select a snippet to edit")
		}
		m.form = newEditForm(s, m.width, m.height)
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		s, ok := m.engine.Selected()
		if !ok {
			return m, m.notify("Select a snippet to delete")
		}
		m.modal = newConfirmDeleteModal(s.ID, s.Title)
		m.mode = modeModal
		return m, nil

	case key.Matches(msg, m.keys.Import):
		m.modal = newPromptModal("Import snippets from file", "path/to/snippets.json")
		m.mode = modeModal
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Export):
		path, err := m.engine.OnExportRequested()
		if err != nil {
			return m, m.notify(fmt.Sprintf("Export failed: %v", err))
		}
		m.logger.Debug("export written", slog.String("path", path))
		return m, clearToastCmd(m.engine.ToastGeneration(), engine.StatusDuration)
	}

	return m, nil
}

// handleSearchKey updates the query live while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.engine.OnQueryChange("")
		m.syncDetail()
		return m, nil

	case msg.Type == tea.KeyDown:
		return m.navigate(selection.Next)
	case msg.Type == tea.KeyUp:
		return m.navigate(selection.Prev)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.engine.Query() {
		m.engine.OnQueryChange(q)
		m.syncDetail()
	}
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, action := m.form.update(msg, m.keys)
	m.form = form

	switch action {
	case formCancel:
		m.mode = modeBrowse
		return m, nil

	case formSubmit:
		var err error
		if m.form.editingID == "" {
			_, err = m.engine.OnCreate(m.form.draft())
		} else {
			d := m.form.draft()
			_, err = m.engine.OnUpdate(m.form.editingID, snippet.Snippet{Title: d.Title, Content: d.Content, Tags: d.Tags})
		}
		if err != nil {
			m.form.setError(err)
			return m, nil
		}
		m.mode = modeBrowse
		m.syncDetail()
		return m, m.notify("Snippet saved")
	}

	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd, done := m.modal.Update(msg, m.keys)
	m.modal = modal
	if !done {
		return m, cmd
	}

	m.mode = modeBrowse
	m.modal = nil

	switch md := modal.(type) {
	case confirmDeleteModal:
		if !md.confirmed {
			return m, nil
		}
		if m.engine.OnDelete(md.id) {
			m.syncDetail()
			return m, m.notify("Snippet deleted")
		}
	case promptModal:
		if md.submitted {
			return m, readImportFileCmd(md.Value())
		}
	}
	return m, nil
}

func (m Model) handleImportFile(msg importFileMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("import file unreadable", slog.String("path", msg.path), slog.Any("error", msg.err))
		return m, m.notify(fmt.Sprintf("Import failed: %v", msg.err))
	}
	if _, err := m.engine.OnImportFileSelected(msg.data); err != nil {
		return m, m.notify(fmt.Sprintf("Import failed: %v", err))
	}
	m.syncDetail()
	return m, clearToastCmd(m.engine.ToastGeneration(), engine.StatusDuration)
}

// forwardToFocused passes non-key messages (cursor blink) to the focused input.
func (m Model) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case modeForm:
		m.form, cmd, _ = m.form.update(msg, m.keys)
	case modeModal:
		if m.modal != nil {
			m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		}
	}
	return m, cmd
}

func (m Model) navigate(d selection.Direction) (tea.Model, tea.Cmd) {
	m.engine.OnNavigate(d)
	m.syncDetail()
	return m, nil
}

// copySelected resolves the copy target and writes it off the update loop.
func (m Model) copySelected() tea.Cmd {
	content, ok := m.engine.ResolveCopy()
	if !ok {
		return nil
	}
	return copyCmd(m.engine.CopyWriter(), content)
}

// notify shows msg and schedules its removal.
func (m Model) notify(msg string) tea.Cmd {
	gen := m.engine.Notify(msg)
	return clearToastCmd(gen, engine.StatusDuration)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HidePreview: !m.showPreview}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", slog.Any("error", err))
	}
}

// Messages

type copyResultMsg struct {
	err  error
	size int
}

type importFileMsg struct {
	path string
	data []byte
	err  error
}

type clearToastMsg struct {
	gen uint64
}

// Commands

func copyCmd(write func(string) error, content string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: write(content), size: len(content)}
	}
}

func readImportFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		path = expandHome(path)
		data, err := os.ReadFile(path)
		if err != nil && errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%s does not exist", path)
		}
		return importFileMsg{path: path, data: data, err: err}
	}
}

func clearToastCmd(gen uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearToastMsg{gen: gen}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
