// Package engine wires the snippet store, search, selection, clipboard and
// import components behind the callbacks a presentation layer drives.
//
// All methods are meant to be called from one goroutine (the UI update
// loop). Subscribers run synchronously after every state change.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/snipbox/internal/clipboard"
	"github.com/five82/snipbox/internal/importer"
	"github.com/five82/snipbox/internal/search"
	"github.com/five82/snipbox/internal/selection"
	"github.com/five82/snipbox/internal/snippet"
	"github.com/five82/snipbox/internal/state"
	"github.com/five82/snipbox/internal/storage"
)

// StatusDuration is how long import, export and error notices stay visible.
const StatusDuration = 4 * time.Second

// Options configures an Engine. Store is required.
type Options struct {
	Store        *state.Store
	Search       *search.Engine
	Copier       *clipboard.Copier
	Logger       *slog.Logger
	StrictImport bool
	ExportDir    string
	Now          func() time.Time
}

type Engine struct {
	store     *state.Store
	search    *search.Engine
	sel       *selection.Controller
	copier    *clipboard.Copier
	toast     clipboard.Toast
	logger    *slog.Logger
	strict    bool
	exportDir string
	now       func() time.Time

	query     string
	listeners map[int]func()
	nextSub   int
}

// New builds an Engine from opts, filling in defaults for optional parts.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Search == nil {
		se, err := search.NewEngine(search.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("engine: search cache: %w", err)
		}
		opts.Search = se
	}
	if opts.Copier == nil {
		opts.Copier = clipboard.NewCopier(nil, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		store:     opts.Store,
		search:    opts.Search,
		sel:       selection.New(),
		copier:    opts.Copier,
		logger:    opts.Logger,
		strict:    opts.StrictImport,
		exportDir: opts.ExportDir,
		now:       opts.Now,
		listeners: make(map[int]func()),
	}, nil
}

// OnCreate adds a snippet built from d at the front of the collection.
func (e *Engine) OnCreate(d snippet.Draft) (snippet.Snippet, error) {
	created, err := e.store.Create(snippet.New(d, e.now()))
	if err != nil {
		return snippet.Snippet{}, err
	}
	e.logger.Info("snippet created", slog.String("id", created.ID))
	e.notify()
	return created, nil
}

// OnUpdate replaces the snippet with the given id.
func (e *Engine) OnUpdate(id string, s snippet.Snippet) (snippet.Snippet, error) {
	updated, err := e.store.Update(id, s)
	if err != nil {
		return snippet.Snippet{}, err
	}
	e.logger.Info("snippet updated", slog.String("id", id))
	e.notify()
	return updated, nil
}

// OnDelete removes the snippet with the given id; unknown ids are ignored.
func (e *Engine) OnDelete(id string) bool {
	if !e.store.Delete(id) {
		return false
	}
	e.logger.Info("snippet deleted", slog.String("id", id))
	e.notify()
	return true
}

// OnQueryChange sets the search query and clears the selection.
func (e *Engine) OnQueryChange(text string) {
	e.query = text
	e.sel.Reset()
	e.notify()
}

// OnNavigate moves the selection within the current view.
func (e *Engine) OnNavigate(d selection.Direction) {
	before := e.sel.Index()
	e.sel.Move(d, len(e.CurrentFilteredView()))
	if e.sel.Index() != before {
		e.notify()
	}
}

// OnCopyIntent copies the targeted snippet synchronously. It reports
// whether anything reached the clipboard.
func (e *Engine) OnCopyIntent() bool {
	content, ok := e.ResolveCopy()
	if !ok {
		return false
	}
	_, copied := e.AckCopy(e.copier.Write(content), len(content))
	return copied
}

// ResolveCopy returns the content a copy intent targets, if any.
func (e *Engine) ResolveCopy() (string, bool) {
	return clipboard.Resolve(e.CurrentFilteredView(), e.sel.Index())
}

// CopyWriter exposes the clipboard writer for asynchronous copies.
func (e *Engine) CopyWriter() func(string) error {
	return e.copier.Write
}

// AckCopy records the result of a clipboard write. On success it shows the
// acknowledgment and returns its toast generation.
func (e *Engine) AckCopy(err error, size int) (uint64, bool) {
	if !e.copier.Report(err, size) {
		return 0, false
	}
	gen := e.toast.Show(clipboard.CopiedMessage, e.now())
	e.notify()
	return gen, true
}

// OnImportFileSelected merges raw into the collection and returns the number
// of imported snippets.
func (e *Engine) OnImportFileSelected(raw []byte) (int, error) {
	n, err := importer.Merge(e.store, raw, importer.Options{Strict: e.strict, Now: e.now})
	if err != nil {
		e.logger.Warn("import rejected", slog.Any("error", err), slog.Bool("strict", e.strict))
		return 0, err
	}
	e.logger.Info("snippets imported", slog.Int("count", n), slog.Bool("strict", e.strict))
	e.Notify(fmt.Sprintf("Imported %s", plural(n)))
	return n, nil
}

// OnExportRequested writes the collection to the export directory and
// returns the file path.
func (e *Engine) OnExportRequested() (string, error) {
	items := e.store.All()
	path, err := storage.ExportFile(e.exportDir, items)
	if err != nil {
		e.logger.Error("export failed", slog.Any("error", err))
		return "", err
	}
	e.logger.Info("snippets exported", slog.String("path", path), slog.Int("count", len(items)))
	e.Notify(fmt.Sprintf("Exported %s to %s", plural(len(items)), path))
	return path, nil
}

// Export renders the collection without writing it anywhere.
func (e *Engine) Export() ([]byte, error) {
	return storage.Export(e.store.All())
}

// Notify shows a status message for StatusDuration and returns its toast
// generation.
func (e *Engine) Notify(msg string) uint64 {
	gen := e.toast.ShowFor(msg, e.now(), StatusDuration)
	e.notify()
	return gen
}

// ClearToast clears the toast shown with gen unless a newer one replaced it.
func (e *Engine) ClearToast(gen uint64) {
	if e.toast.Clear(gen) {
		e.notify()
	}
}

// ToastGeneration identifies the latest toast for scheduling its clear.
func (e *Engine) ToastGeneration() uint64 {
	return e.toast.Generation()
}

// CurrentFilteredView returns the snippets matching the current query.
func (e *Engine) CurrentFilteredView() []snippet.Snippet {
	return e.search.View(e.store.Version(), e.query, e.store.All)
}

// CurrentSelectionIndex returns the selected index in the current view, or
// selection.None.
func (e *Engine) CurrentSelectionIndex() int {
	return e.sel.Current(len(e.CurrentFilteredView()))
}

// Selected returns the selected snippet, or the only snippet of a
// single-entry view.
func (e *Engine) Selected() (snippet.Snippet, bool) {
	view := e.CurrentFilteredView()
	if idx := e.sel.Current(len(view)); idx != selection.None {
		return view[idx], true
	}
	if len(view) == 1 {
		return view[0], true
	}
	return snippet.Snippet{}, false
}

// LastToastMessage returns the visible toast text, or "".
func (e *Engine) LastToastMessage() string {
	return e.toast.Message(e.now())
}

func (e *Engine) Query() string {
	return e.query
}

// Total is the size of the whole collection.
func (e *Engine) Total() int {
	return e.store.Len()
}

// PersistError returns the last persistence failure, or nil after a
// successful write.
func (e *Engine) PersistError() error {
	return e.store.Snapshot().LastPersistError
}

// Subscribe registers fn to run after every state change and returns a
// function that removes it.
func (e *Engine) Subscribe(fn func()) func() {
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Engine) notify() {
	for _, fn := range e.listeners {
		fn()
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 snippet"
	}
	return fmt.Sprintf("%d snippets", n)
}
