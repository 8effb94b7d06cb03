// Copyright 2026 The SentServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the sentence completion server and CLI application.

SentServe suggests sentence completions for a partially typed prefix, drawn
from a corpus of plain text files. Matching is approximate: up to one edit
(substitution, insertion or deletion) is tolerated between the query and the
aligned window of a candidate sentence, with earlier edits penalized harder.
An optional inverted n-gram index prunes candidates on large corpora without
changing ranked results.

# Usage

Build a corpus from one or more folders of *.txt files and persist it:

	sentserve build -root ./books -snapshot corpus.snap

Query it interactively, or one-shot:

	sentserve query -snapshot corpus.snap
	sentserve query -snapshot corpus.snap -q "hello wo" -limit 5

Serve completions over msgpack IPC on stdin/stdout:

	sentserve serve -snapshot corpus.snap

# Configuration

Runtime configuration lives in a TOML file, created with defaults when
missing:

	[engine]
	top_k = 5
	gram_size = 3
	index_enabled = false
	encoding = "utf-8"

	[server]
	max_limit = 64
	max_query = 120

Engine settings are captured at build time; a snapshot carries them and a
load restores them, so query-time processes never need the original flags.

# Storage

Sentences live behind a small CRUD store selected by DSN: "memory://" keeps
everything in-process, "sqlite:///path" persists the corpus in a SQLite
file. Snapshots are versioned, checksummed msgpack blobs; loading one with a
wrong version or checksum fails loudly instead of guessing.
*/
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	clihandler "github.com/sentserve/sentserve/internal/cli"
	"github.com/sentserve/sentserve/internal/ingest"
	"github.com/sentserve/sentserve/pkg/config"
	"github.com/sentserve/sentserve/pkg/server"
	"github.com/sentserve/sentserve/pkg/snapshot"
	"github.com/sentserve/sentserve/pkg/store"
	"github.com/sentserve/sentserve/pkg/suggest"
)

func main() {
	app := &cli.App{
		Name:  "sentserve",
		Usage: "approximate sentence completion over text corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config.toml"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			buildCommand(),
			queryCommand(),
			serveCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "ingest text roots and build a corpus snapshot",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "root", Usage: "corpus root folder (repeatable)", Required: true},
			&cli.StringFlag{Name: "snapshot", Usage: "snapshot output path", Required: true},
			&cli.StringFlag{Name: "db", Value: "memory://", Usage: "sentence store DSN (memory:// or sqlite:///path)"},
			&cli.StringFlag{Name: "unit", Value: "line", Usage: "sentence unit: line, paragraph or window"},
			&cli.IntFlag{Name: "window-size", Value: 3, Usage: "lines per window (unit=window)"},
			&cli.IntFlag{Name: "window-step", Value: 1, Usage: "window slide step (unit=window)"},
			&cli.BoolFlag{Name: "index", Usage: "build the n-gram index"},
			&cli.IntFlag{Name: "gram", Usage: "n-gram length override"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, _ := config.LoadConfigWithPriority(c.String("config"))
			if c.Bool("index") {
				cfg.Engine.IndexEnabled = true
			}
			if g := c.Int("gram"); g > 0 {
				cfg.Engine.GramSize = g
			}

			raws, stats, err := ingest.Load(c.StringSlice("root"), ingest.Options{
				Unit:       ingest.Unit(c.String("unit")),
				WindowSize: c.Int("window-size"),
				WindowStep: c.Int("window-step"),
			})
			if err != nil {
				return err
			}
			log.Infof("ingested %d sentences from %d files (%d skipped)",
				stats.Sentences, stats.Files, stats.SkippedFiles)

			st, err := store.Open(c.String("db"))
			if err != nil {
				return err
			}
			engine := suggest.NewEngine(cfg.Engine, st)
			defer engine.Close()
			if err := engine.Build(raws); err != nil {
				return err
			}

			blob, err := engine.Snapshot()
			if err != nil {
				return err
			}
			out := c.String("snapshot")
			if err := snapshot.WriteFile(blob, out); err != nil {
				return err
			}
			log.Infof("snapshot written: %s (%d bytes)", out, len(blob))
			return nil
		},
	}
}

// loadEngine reconstructs an engine from a snapshot file and store DSN.
func loadEngine(c *cli.Context) (*suggest.Engine, *config.Config, error) {
	cfg, _, _ := config.LoadConfigWithPriority(c.String("config"))
	st, err := store.Open(c.String("db"))
	if err != nil {
		return nil, nil, err
	}
	blob, err := snapshot.ReadFile(c.String("snapshot"))
	if err != nil {
		return nil, nil, err
	}
	engine := suggest.NewEngine(cfg.Engine, st)
	if err := engine.Load(blob); err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "run completions against a snapshot, one-shot or interactive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Usage: "snapshot path", Required: true},
			&cli.StringFlag{Name: "db", Value: "memory://", Usage: "sentence store DSN"},
			&cli.StringFlag{Name: "q", Usage: "one-shot query (interactive when absent)"},
			&cli.IntFlag{Name: "limit", Usage: "max results (default from config)"},
		},
		Action: func(c *cli.Context) error {
			engine, cfg, err := loadEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()

			limit := c.Int("limit")
			if limit <= 0 {
				limit = cfg.CLI.DefaultLimit
			}

			if q := c.String("q"); q != "" {
				results, err := engine.Complete(q, limit)
				if err != nil {
					return err
				}
				for i, r := range results {
					fmt.Printf("%2d. [%3d] %s  (%s:%d)\n", i+1, r.Score, r.Sentence, r.Source, r.Offset)
				}
				return nil
			}
			return clihandler.NewInputHandler(engine, limit).Start()
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve completions over msgpack IPC on stdin/stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Usage: "snapshot path", Required: true},
			&cli.StringFlag{Name: "db", Value: "memory://", Usage: "sentence store DSN"},
		},
		Action: func(c *cli.Context) error {
			engine, cfg, err := loadEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()
			return server.NewServer(engine, cfg.Server).Start()
		},
	}
}
