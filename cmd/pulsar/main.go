package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/pulsar/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (default ~/.config/pulsar/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (default ~/.config/pulsar/prefs.toml)")
	pollSeconds := flag.Int("poll", 0, "relay poll interval in seconds (optional, defaults to 2s)")
	importPath := flag.String("import", "", "load entities from an NDJSON file, optionally gzip or zstd compressed")
	demo := flag.Bool("demo", false, "seed a sample session")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		ImportPath: *importPath,
		Demo:       *demo,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pulsar: %v\n", err)
		return 1
	}
	return 0
}
