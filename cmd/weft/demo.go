package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft"
	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/inspector"
	"github.com/vango-dev/weft/pkg/scheduler"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		showTree bool
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "demo [scenario]",
		Short: "Run a scripted scenario",
		Long: `Mount a demo component tree into an in-memory HTML document, apply
its scripted interactions and print the markup after each one.

Examples:
  weft demo
  weft demo counter
  weft demo todo --tree
  weft demo --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range demo.Names() {
					s, _ := demo.Lookup(name)
					info("%-10s %s", name, s.Description)
				}
				return nil
			}
			name := "todo"
			if len(args) == 1 {
				name = args[0]
			}
			return runDemo(flags, name, showTree)
		},
	}

	cmd.Flags().BoolVarP(&showTree, "tree", "t", false, "Print the fiber tree after each step")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available scenarios")

	return cmd
}

func runDemo(flags *globalFlags, name string, showTree bool) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	scenario, err := demo.Lookup(name)
	if err != nil {
		errorMsg("Unknown scenario %q", name)
		return err
	}
	logger := newLogger(cfg)

	bus := channel.New()
	registry := prometheus.NewRegistry()
	metrics := scheduler.NewMetrics(
		scheduler.WithNamespace(cfg.Metrics.Namespace),
		scheduler.WithRegistry(registry),
	)
	app := weft.New(weft.Config{
		Adapter:    htmldom.New(),
		EnoughTime: cfg.EnoughTime(),
		Bus:        bus,
		Logger:     logger,
		Metrics:    metrics,
	})
	in := inspector.Attach(inspector.Config{Bus: bus, Name: "demo", Logger: logger})
	defer in.Detach()

	printBanner()
	fmt.Printf("  demo: %s\n\n", scenario.Name)

	err = scenario.Run(app, func(step demo.Step, markup string) {
		title := "mount"
		if step.Name != "" {
			title = step.Name
		}
		success("%s", title)
		fmt.Println(markup)
		if showTree {
			if s := in.Latest(); s != nil {
				fmt.Println(inspector.Table(s))
			}
		}
		fmt.Println()
	})
	if err != nil {
		return err
	}

	info("%s commits, %s snapshots", humanize.Comma(int64(app.Scheduler().Commits())), humanize.Comma(int64(in.Count())))
	return nil
}
