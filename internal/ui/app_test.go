package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/snipbox/internal/clipboard"
	"github.com/five82/snipbox/internal/engine"
	"github.com/five82/snipbox/internal/prefs"
	"github.com/five82/snipbox/internal/snippet"
	"github.com/five82/snipbox/internal/state"
	"github.com/five82/snipbox/internal/storage"
)

type fakeClipboard struct {
	got []string
	err error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, text)
	return nil
}

type testEnv struct {
	model     Model
	engine    *engine.Engine
	clip      *fakeClipboard
	exportDir string
	prefsPath string
}

func seedSnippets() []snippet.Snippet {
	return []snippet.Snippet{
		{ID: "1", Title: "React Hook Boilerplate", Content: "useEffect(() => {}, [])", Tags: []string{"react"}, CreatedAt: "2024-01-01T00:00:00.000Z"},
		{ID: "2", Title: "Vue Component", Content: "export default {}", Tags: []string{"vue"}, CreatedAt: "2024-01-02T00:00:00.000Z"},
		{ID: "3", Title: "Go error wrap", Content: "fmt.Errorf(\"x: %w\", err)", Tags: []string{"go"}, CreatedAt: "2024-01-03T00:00:00.000Z"},
		{ID: "4", Title: "Bash loop", Content: "for f in *; do :; done", Tags: []string{}, CreatedAt: "2024-01-04T00:00:00.000Z"},
		{ID: "5", Title: "SQL upsert", Content: "INSERT ... ON CONFLICT", Tags: []string{"sql"}, CreatedAt: "2024-01-05T00:00:00.000Z"},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := state.New(storage.NewAdapter(storage.NewMemorySlot()), nil)
	store.Restore(seedSnippets())

	clip := &fakeClipboard{}
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	eng, err := engine.New(engine.Options{
		Store:     store,
		Copier:    clipboard.NewCopier(clip, nil),
		ExportDir: filepath.Join(dir, "exports"),
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	env := &testEnv{
		engine:    eng,
		clip:      clip,
		exportDir: filepath.Join(dir, "exports"),
		prefsPath: filepath.Join(dir, "prefs.toml"),
	}
	env.model = New(Options{Engine: eng, PrefsPath: env.prefsPath})
	env.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return env
}

// send feeds msg through Update and returns the resulting command.
func (e *testEnv) send(msg tea.Msg) tea.Cmd {
	next, cmd := e.model.Update(msg)
	e.model = next.(Model)
	return cmd
}

// press sends each key in turn and returns the last command.
func (e *testEnv) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = e.send(keyMsg(k))
	}
	return cmd
}

// typeText sends s as a single rune burst, like a paste.
func (e *testEnv) typeText(s string) {
	e.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestNavigationClampsWithoutWrapping(t *testing.T) {
	env := newTestEnv(t)

	if got := env.engine.CurrentSelectionIndex(); got != -1 {
		t.Fatalf("initial selection = %d, want -1", got)
	}

	env.press("j", "j", "j")
	if got := env.engine.CurrentSelectionIndex(); got != 2 {
		t.Fatalf("selection after 3 downs = %d, want 2", got)
	}

	env.press("G", "j")
	if got := env.engine.CurrentSelectionIndex(); got != 4 {
		t.Fatalf("selection past end = %d, want 4", got)
	}

	env.press("g", "k")
	if got := env.engine.CurrentSelectionIndex(); got != 0 {
		t.Fatalf("selection before start = %d, want 0", got)
	}
}

func TestSearchFiltersLiveAndEscClears(t *testing.T) {
	env := newTestEnv(t)
	env.press("j", "j")

	env.press("/")
	if env.model.mode != modeSearch {
		t.Fatalf("mode = %v, want search", env.model.mode)
	}
	env.typeText("vue")

	if got := env.engine.Query(); got != "vue" {
		t.Fatalf("query = %q, want vue", got)
	}
	view := env.engine.CurrentFilteredView()
	if len(view) != 1 || view[0].ID != "2" {
		t.Fatalf("filtered view = %+v, want only snippet 2", view)
	}
	if got := env.engine.CurrentSelectionIndex(); got != -1 {
		t.Fatalf("selection after query change = %d, want -1", got)
	}

	env.press("esc")
	if env.model.mode != modeBrowse {
		t.Fatalf("mode after esc = %v, want browse", env.model.mode)
	}
	if got := env.engine.Query(); got != "" {
		t.Fatalf("query after esc = %q, want empty", got)
	}
	if got := len(env.engine.CurrentFilteredView()); got != 5 {
		t.Fatalf("view after esc = %d entries, want 5", got)
	}
}

func TestSearchEnterKeepsQuery(t *testing.T) {
	env := newTestEnv(t)

	env.press("/")
	env.typeText("REACT")
	env.press("enter")

	if env.model.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse", env.model.mode)
	}
	if got := env.engine.Query(); got != "REACT" {
		t.Fatalf("query = %q, want REACT", got)
	}

	// j navigates again instead of typing.
	env.press("j")
	if got := env.engine.CurrentSelectionIndex(); got != 0 {
		t.Fatalf("selection = %d, want 0", got)
	}
}

func TestCopyWritesSelectedContentAndAcknowledges(t *testing.T) {
	env := newTestEnv(t)
	env.press("j", "j", "j")

	cmd := env.press("c")
	if cmd == nil {
		t.Fatal("copy returned no command")
	}
	msg := cmd()
	result, ok := msg.(copyResultMsg)
	if !ok {
		t.Fatalf("copy command produced %T, want copyResultMsg", msg)
	}

	if clear := env.send(result); clear == nil {
		t.Fatal("successful copy should schedule the toast clear")
	}
	if len(env.clip.got) != 1 || env.clip.got[0] != "fmt.Errorf(\"x: %w\", err)" {
		t.Fatalf("clipboard = %q, want snippet 3 content", env.clip.got)
	}
	if got := env.engine.LastToastMessage(); got != clipboard.CopiedMessage {
		t.Fatalf("toast = %q, want %q", got, clipboard.CopiedMessage)
	}

	env.send(clearToastMsg{gen: env.engine.ToastGeneration()})
	if got := env.engine.LastToastMessage(); got != "" {
		t.Fatalf("toast after clear = %q, want empty", got)
	}
}

func TestCopyWithoutTargetDoesNothing(t *testing.T) {
	env := newTestEnv(t)

	if cmd := env.press("c"); cmd != nil {
		t.Fatal("copy with no selection should not produce a command")
	}
	if len(env.clip.got) != 0 {
		t.Fatalf("clipboard written: %q", env.clip.got)
	}
}

func TestCopySingleMatchWithoutSelection(t *testing.T) {
	env := newTestEnv(t)
	env.press("/")
	env.typeText("upsert")
	env.press("enter")

	cmd := env.press("c")
	if cmd == nil {
		t.Fatal("single match should be copyable")
	}
	env.send(cmd())
	if len(env.clip.got) != 1 || env.clip.got[0] != "INSERT ... ON CONFLICT" {
		t.Fatalf("clipboard = %q", env.clip.got)
	}
}

func TestCopyFailureShowsNoAcknowledgment(t *testing.T) {
	env := newTestEnv(t)
	env.clip.err = errors.New("no display")
	env.press("j")

	cmd := env.press("c")
	if clear := env.send(cmd()); clear != nil {
		t.Fatal("failed copy should not schedule a toast")
	}
	if got := env.engine.LastToastMessage(); got != "" {
		t.Fatalf("toast = %q, want empty", got)
	}
}

func TestCreateSnippetThroughForm(t *testing.T) {
	env := newTestEnv(t)

	env.press("n")
	if env.model.mode != modeForm {
		t.Fatalf("mode = %v, want form", env.model.mode)
	}
	env.typeText("Hello")
	env.press("tab")
	env.typeText("fmt.Println(1)")
	env.press("tab")
	env.typeText("go, demo")
	env.press("ctrl+s")

	if env.model.mode != modeBrowse {
		t.Fatalf("mode after save = %v, want browse (form error %q)", env.model.mode, env.model.form.err)
	}
	view := env.engine.CurrentFilteredView()
	if len(view) != 6 {
		t.Fatalf("total = %d, want 6", len(view))
	}
	if view[0].Title != "Hello" || view[0].Content != "fmt.Println(1)" {
		t.Fatalf("first snippet = %+v", view[0])
	}
	if len(view[0].Tags) != 2 || view[0].Tags[0] != "go" || view[0].Tags[1] != "demo" {
		t.Fatalf("tags = %q, want [go demo]", view[0].Tags)
	}
}

func TestFormRejectsBlankFields(t *testing.T) {
	env := newTestEnv(t)

	env.press("n")
	env.typeText("   ")
	env.press("ctrl+s")

	if env.model.mode != modeForm {
		t.Fatalf("mode = %v, want form to stay open", env.model.mode)
	}
	if env.model.form.err == "" {
		t.Fatal("expected an inline validation error")
	}
	if env.model.form.focus != fieldTitle {
		t.Fatalf("focus = %d, want title", env.model.form.focus)
	}
	if got := env.engine.Total(); got != 5 {
		t.Fatalf("total = %d, want 5", got)
	}

	env.press("esc")
	if env.model.mode != modeBrowse {
		t.Fatalf("mode after esc = %v, want browse", env.model.mode)
	}
}

func TestEditKeepsPositionAndIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.press("j", "j", "j")

	env.press("e")
	if env.model.form.editingID != "3" {
		t.Fatalf("editing id = %q, want 3", env.model.form.editingID)
	}
	env.typeText(" v2")
	env.press("ctrl+s")

	view := env.engine.CurrentFilteredView()
	if view[2].ID != "3" || view[2].Title != "Go error wrap v2" {
		t.Fatalf("edited snippet = %+v", view[2])
	}
	if view[2].CreatedAt != "2024-01-03T00:00:00.000Z" {
		t.Fatalf("createdAt changed to %q", view[2].CreatedAt)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.press("j")

	env.press("d", "n")
	if got := env.engine.Total(); got != 5 {
		t.Fatalf("total after declining = %d, want 5", got)
	}

	env.press("d")
	if env.model.mode != modeModal {
		t.Fatalf("mode = %v, want modal", env.model.mode)
	}
	env.press("y")
	if got := env.engine.Total(); got != 4 {
		t.Fatalf("total after confirming = %d, want 4", got)
	}
	if _, ok := findByID(env.engine.CurrentFilteredView(), "1"); ok {
		t.Fatal("snippet 1 still present")
	}
}

func TestImportPromptReadsFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(`[{"id":"x","title":"Imported","content":"body","tags":["a"],"createdAt":"2024-02-02T00:00:00.000Z"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	env.press("i")
	env.typeText(path)
	cmd := env.press("enter")
	if cmd == nil {
		t.Fatal("submitting the prompt should read the file")
	}
	env.send(cmd())

	view := env.engine.CurrentFilteredView()
	if len(view) != 6 || view[5].ID != "x" {
		t.Fatalf("imported snippet not appended: %+v", view)
	}
	if got := env.engine.LastToastMessage(); got != "Imported 1 snippet" {
		t.Fatalf("toast = %q", got)
	}
}

func TestImportFailureLeavesCollection(t *testing.T) {
	env := newTestEnv(t)

	env.send(importFileMsg{path: "bad.json", data: []byte(`{"not":"an array"}`)})
	if got := env.engine.Total(); got != 5 {
		t.Fatalf("total = %d, want 5", got)
	}
	if got := env.engine.LastToastMessage(); !strings.HasPrefix(got, "Import failed") {
		t.Fatalf("toast = %q, want import failure", got)
	}

	env.send(importFileMsg{path: "missing.json", err: os.ErrNotExist})
	if got := env.engine.LastToastMessage(); !strings.HasPrefix(got, "Import failed") {
		t.Fatalf("toast = %q, want import failure", got)
	}
}

func TestExportWritesFile(t *testing.T) {
	env := newTestEnv(t)

	env.press("x")

	data, err := os.ReadFile(filepath.Join(env.exportDir, storage.ExportFileName))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want, _ := storage.Export(seedSnippets())
	if string(data) != string(want) {
		t.Fatalf("export content mismatch:\n%s", data)
	}
	if got := env.engine.LastToastMessage(); !strings.HasPrefix(got, "Exported 5 snippets") {
		t.Fatalf("toast = %q", got)
	}
}

func TestThemeAndPreviewPersistPrefs(t *testing.T) {
	env := newTestEnv(t)

	env.press("T")
	if env.model.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", env.model.theme.Name)
	}
	env.press("p")
	if env.model.showPreview {
		t.Fatal("preview should be hidden")
	}

	p, err := prefs.Load(env.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" || !p.HidePreview {
		t.Fatalf("prefs = %+v, want Kanagawa with preview hidden", p)
	}
}

func TestViewRendersStates(t *testing.T) {
	env := newTestEnv(t)

	if out := env.model.View(); !strings.Contains(out, "snipbox") || !strings.Contains(out, "Vue Component") {
		t.Fatalf("main view missing header or rows:\n%s", out)
	}

	env.press("/")
	env.typeText("zzz-none")
	if out := env.model.View(); !strings.Contains(out, "No matches") {
		t.Fatalf("view should show the no-match state:\n%s", out)
	}

	env.press("esc", "?")
	if out := env.model.View(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered:\n%s", out)
	}
}

func TestEmptyCollectionView(t *testing.T) {
	store := state.New(nil, nil)
	eng, err := engine.New(engine.Options{Store: store})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	m := New(Options{Engine: eng, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if out := next.View(); !strings.Contains(out, "No snippets yet") {
		t.Fatalf("empty view missing placeholder:\n%s", out)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		env := newTestEnv(t)
		cmd := env.press(k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}

func findByID(items []snippet.Snippet, id string) (snippet.Snippet, bool) {
	for _, s := range items {
		if s.ID == id {
			return s, true
		}
	}
	return snippet.Snippet{}, false
}
