package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/snipbox/internal/config"
	"github.com/five82/snipbox/internal/engine"
	"github.com/five82/snipbox/internal/logtail"
	"github.com/five82/snipbox/internal/prefs"
	"github.com/five82/snipbox/internal/snippet"
	"github.com/five82/snipbox/internal/state"
	"github.com/five82/snipbox/internal/storage"
	"github.com/five82/snipbox/internal/ui"
)

// Options configure the snipbox application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/snipbox/prefs.toml
	EnvFile    string // empty uses ./.env when present
	Ephemeral  bool   // keep snippets in memory only
	Strict     bool   // validate imports; also enabled by strict_import
}

// Session is an opened collection with its engine. Close it when done.
type Session struct {
	Config config.Config
	Store  *state.Store
	Engine *engine.Engine
	Logger *slog.Logger

	adapter *storage.Adapter
	closers []io.Closer
}

// Open loads configuration, opens the storage slot and restores the stored
// collection. Logs go to the config's log file at its level.
func Open(opts Options) (*Session, error) {
	if err := config.LoadDotenv(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Ephemeral {
		cfg.Backend = config.BackendMemory
	}
	if opts.Strict {
		cfg.StrictImport = true
	}

	s := &Session{Config: cfg}
	logger, logFile, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}
	s.Logger = logger
	s.closers = append(s.closers, logFile)

	slot, err := storage.Open(cfg.Backend, cfg.SlotPath())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	s.adapter = storage.NewAdapter(slot)

	items, err := s.adapter.Load()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load snippets: %w", err)
	}

	s.Store = state.New(s.adapter, logger)
	s.Store.Restore(items)

	s.Engine, err = engine.New(engine.Options{
		Store:        s.Store,
		Logger:       logger,
		StrictImport: cfg.StrictImport,
		ExportDir:    cfg.ExportDir,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	logger.Info("session opened",
		slog.String("backend", cfg.Backend),
		slog.String("path", cfg.SlotPath()),
		slog.Int("snippets", len(items)),
		slog.Bool("strict_import", cfg.StrictImport),
	)
	return s, nil
}

// Close releases the storage slot and the log file.
func (s *Session) Close() error {
	var errs []error
	if s.adapter != nil {
		if err := s.adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
		s.adapter = nil
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Run boots the snipbox TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		s.Logger.Warn("prefs unreadable, using defaults", slog.Any("error", err))
	}

	return ui.Run(ui.Options{
		Context:     ctx,
		Engine:      s.Engine,
		Logger:      s.Logger,
		ThemeName:   userPrefs.Theme,
		HidePreview: userPrefs.HidePreview,
		PrefsPath:   opts.PrefsPath,
	})
}

// Export writes the pretty-printed collection to path, or to w when path is "-".
func Export(opts Options, path string, w io.Writer) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := s.Engine.Export()
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	s.Logger.Info("snippets exported", slog.String("path", path), slog.Int("count", s.Store.Len()))
	return nil
}

// Import merges the exported file at path into the collection and returns
// how many snippets were added.
func Import(opts Options, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}

	s, err := Open(opts)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	n, err := s.Engine.OnImportFileSelected(raw)
	if err != nil {
		return 0, err
	}
	if err := s.Engine.PersistError(); err != nil {
		return n, fmt.Errorf("imported %d snippets but could not save them: %w", n, err)
	}
	return n, nil
}

// List prints the snippets matching query, one per line as
// "id<TAB>title<TAB>tags".
func List(opts Options, query string, w io.Writer) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Engine.OnQueryChange(query)
	for _, item := range s.Engine.CurrentFilteredView() {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, oneLine(item.Title), snippet.JoinTags(item.Tags)); err != nil {
			return err
		}
	}
	return nil
}

// Logs prints the last n lines of the log file at or above the configured level.
func Logs(opts Options, n int, w io.Writer) error {
	if err := config.LoadDotenv(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lines, err := logtail.Read(cfg.LogPath(), n)
	if err != nil {
		return err
	}
	for _, line := range logtail.AtLeast(lines, cfg.Level()) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func openLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(handler), f, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
