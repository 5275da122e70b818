package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mentions"
	"github.com/iw2rmb/mentions/config"
	"github.com/iw2rmb/mentions/editor"
	"github.com/iw2rmb/mentions/internal/directory"
	"github.com/iw2rmb/mentions/internal/tui"
	"github.com/iw2rmb/mentions/mention"
	"github.com/iw2rmb/mentions/reconcile"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

var people = []mention.Entity{
	{EntityID: 1, Full: "Ada Lovelace"},
	{EntityID: 2, Full: "Alan Turing"},
	{EntityID: 3, Full: "Alice Smith"},
	{EntityID: 4, Full: "Barbara Liskov"},
	{EntityID: 5, Full: "Edsger Dijkstra"},
	{EntityID: 6, Full: "Grace Hopper"},
	{EntityID: 7, Full: "Ken Thompson"},
	{EntityID: 8, Full: "Rob Pike"},
}

var cities = []mention.Entity{
	{EntityID: 101, Full: "Alexandria"},
	{EntityID: 102, Full: "Amsterdam"},
	{EntityID: 103, Full: "Berlin"},
	{EntityID: 104, Full: "Boston"},
	{EntityID: 105, Full: "San Francisco"},
	{EntityID: 106, Full: "Santiago"},
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		dbPath     = flag.String("db", ":memory:", "people directory database")
		logPath    = flag.String("log", "", "write debug logs to this file")
		latency    = flag.Duration("city-latency", 300*time.Millisecond, "simulated latency of the city bucket")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("mentions-demo", mentions.VersionTag())
		return
	}
	if err := run(*configPath, *dbPath, *logPath, *latency); err != nil {
		fmt.Fprintln(os.Stderr, "mentions-demo:", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, logPath string, latency time.Duration) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	log := slog.New(slog.DiscardHandler)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	ctx := context.Background()
	dir, err := directory.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer dir.Close()
	if err := dir.Add(ctx, people...); err != nil {
		return err
	}

	m := tui.New(tui.Config{
		Editor: cfg.Apply(editor.Config{
			Text:    "Type @ or a name to mention someone. ",
			Watcher: watchLogger(log),
		}),
		Buckets: []tui.Bucket{dir, cityBucket(latency)},
		Timeout: cfg.Suggestions.LookupTimeout,
		Logger:  log,
	})

	log.Info("start", "version", mentions.VersionTag(), "db", dbPath)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// cityBucket answers after latency from a fixed list, the way a remote
// source would.
func cityBucket(latency time.Duration) tui.Bucket {
	return tui.BucketFunc{
		BucketName: "city-network",
		Fn: func(ctx context.Context, token tokenizer.QueryToken) ([]suggestions.Suggestible, error) {
			select {
			case <-time.After(latency):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			kw := strings.ToLower(token.Keywords())
			var out []suggestions.Suggestible
			for _, c := range cities {
				c.Kind = "city"
				if strings.HasPrefix(strings.ToLower(c.Full), kw) {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
}

func watchLogger(log *slog.Logger) reconcile.Watcher {
	entry := func(msg string) func(m mention.Mentionable, text string, start, end int) {
		return func(m mention.Mentionable, text string, start, end int) {
			log.Debug(msg, "id", m.ID(), "text", text, "start", start, "end", end)
		}
	}
	return reconcile.WatcherFuncs{
		Added:            entry("mention added"),
		Deleted:          entry("mention deleted"),
		PartiallyDeleted: entry("mention partially deleted"),
	}
}
