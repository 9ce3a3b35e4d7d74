package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/snipbox/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/snipbox/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	envFile := flag.String("env", "", "load environment overrides from this file (optional, defaults to ./.env)")
	ephemeral := flag.Bool("ephemeral", false, "keep snippets in memory only")
	strict := flag.Bool("strict", false, "validate imported snippets and reject duplicate ids")
	exportPath := flag.String("export", "", "write the collection as JSON to this path (- for stdout) and exit")
	importPath := flag.String("import", "", "merge snippets from this exported JSON file and exit")
	list := flag.Bool("list", false, "print snippets as id, title and tags and exit")
	query := flag.String("query", "", "filter -list output by this search text")
	logLines := flag.Int("logs", 0, "print the last N log lines and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		EnvFile:    *envFile,
		Ephemeral:  *ephemeral,
		Strict:     *strict,
	}

	var err error
	switch {
	case *importPath != "":
		var n int
		n, err = app.Import(opts, *importPath)
		if err == nil {
			fmt.Printf("imported %d snippet(s)\n", n)
		}
	case *exportPath != "":
		err = app.Export(opts, *exportPath, os.Stdout)
	case *list:
		err = app.List(opts, *query, os.Stdout)
	case *logLines > 0:
		err = app.Logs(opts, *logLines, os.Stdout)
	default:
		err = app.Run(ctx, opts)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "snipbox: %v\n", err)
		return 1
	}
	return 0
}
