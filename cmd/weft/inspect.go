package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft"
	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/pkg/inspector"
	"github.com/vango-dev/weft/pkg/scheduler"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		addr     string
		interval time.Duration
		loop     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [scenario]",
		Short: "Serve a live scenario's fiber tree",
		Long: `Run a demo scenario on a time-sliced loop and serve its fiber tree.

The scenario's interactions are replayed every interval. Each commit is
captured as a snapshot and streamed to websocket clients.

Endpoints:
  /tree      latest snapshot (JSON, or ?format=table)
  /ws        snapshot stream
  /metrics   Prometheus metrics
  /healthz   liveness

When weft.json configures inspector.archive, the last snapshot is stored
in S3 on exit.

Examples:
  weft inspect
  weft inspect counter --interval=500ms
  weft inspect --addr=0.0.0.0:7070`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "todo"
			if len(args) == 1 {
				name = args[0]
			}
			return runInspect(flags, name, addr, interval, loop)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from weft.json)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Delay between scripted interactions")
	cmd.Flags().BoolVar(&loop, "loop", true, "Replay the scenario's steps when they run out")

	return cmd
}

func runInspect(flags *globalFlags, name, addr string, interval time.Duration, loop bool) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Inspector.Addr = addr
	}
	scenario, err := demo.Lookup(name)
	if err != nil {
		errorMsg("Unknown scenario %q", name)
		return err
	}
	logger := newLogger(cfg)

	registry := prometheus.NewRegistry()
	metrics := scheduler.NewMetrics(
		scheduler.WithNamespace(cfg.Metrics.Namespace),
		scheduler.WithRegistry(registry),
	)

	doc := htmldom.New()
	app := weft.New(weft.Config{
		Adapter:    doc,
		Host:       scheduler.NewLoopHost(cfg.Slice(), cfg.IdleSleep()),
		EnoughTime: cfg.EnoughTime(),
		Logger:     logger,
		Metrics:    metrics,
	})

	in := inspector.Attach(inspector.Config{Name: "cli", Logger: logger})
	defer in.Detach()

	server := inspector.NewServer(inspector.ServerConfig{
		Addr:      cfg.Inspector.Addr,
		Inspector: in,
		Gatherer:  registry,
		Logger:    logger,
	})

	if err := app.Mount("body", scenario.Root()); err != nil {
		return err
	}

	printBanner()
	fmt.Printf("  inspect: %s\n\n", scenario.Name)
	success("Serving http://%s/tree", cfg.Inspector.Addr)
	info("websocket  ws://%s/ws", cfg.Inspector.Addr)
	info("metrics    http://%s/metrics", cfg.Inspector.Addr)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	fail := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() { runErr = err })
		stop()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		fail(server.ListenAndServe(ctx))
	}()
	go func() {
		defer wg.Done()
		fail(app.Run(ctx))
	}()
	go func() {
		defer wg.Done()
		replay(ctx, app, doc, scenario, interval, loop)
	}()
	wg.Wait()

	fmt.Println("\n\n  Shutting down...")
	if cfg.ArchiveEnabled() {
		if err := archive(cfg, in.Latest()); err != nil {
			warn("Archive failed: %v", err)
		}
	}
	info("%s commits, %s snapshots, %s websocket clients",
		humanize.Comma(int64(app.Scheduler().Commits())),
		humanize.Comma(int64(in.Count())),
		humanize.Comma(int64(server.Hub().ClientCount())))
	return runErr
}

// replay posts the scenario's steps to the app loop, one per interval.
func replay(ctx context.Context, app *weft.App, doc *htmldom.Document, s demo.Scenario, interval time.Duration, loop bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if next == len(s.Steps) {
			if !loop {
				return
			}
			next = 0
		}

		step := s.Steps[next]
		next++
		app.Post(func() {
			if err := step.Apply(doc); err != nil {
				warn("Step %q: %v", step.Name, err)
			}
		})
	}
}

func archive(cfg *config.Config, s *inspector.Snapshot) error {
	if s == nil {
		warn("No snapshot to archive")
		return nil
	}
	a := cfg.Inspector.Archive
	archiver := inspector.NewS3Archiver(inspector.S3Options{
		Bucket:   a.Bucket,
		Prefix:   a.Prefix,
		Region:   a.Region,
		Endpoint: a.Endpoint,
	}, os.Getenv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	key, err := archiver.Archive(ctx, s)
	if err != nil {
		return err
	}
	success("Archived snapshot #%d to s3://%s/%s", s.Sequence, a.Bucket, key)
	return nil
}
