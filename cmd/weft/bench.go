package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft"
	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

// benchCase mounts a tree and returns the mutation measured on each
// iteration.
type benchCase struct {
	name  string
	setup func(rows int) (root *weft.Element, mutate func(i int))
}

var benchCases = []benchCase{
	{
		name: "text patch",
		setup: func(int) (*weft.Element, func(int)) {
			count := weft.NewField(0)
			root := weft.P(nil, func() any { return count.Get() })
			return root, func(i int) { count.Set(i + 1) }
		},
	},
	{
		name: "attribute patch",
		setup: func(int) (*weft.Element, func(int)) {
			active := weft.NewField(false)
			root := weft.Div(func() weft.Props {
				return weft.Props{"class": map[string]bool{"active": active.Get()}}
			}, "item")
			return root, func(i int) { active.Set(i%2 == 0) }
		},
	},
	{
		name: "tag switch",
		setup: func(int) (*weft.Element, func(int)) {
			big := weft.NewField(true)
			root := weft.H(func() string {
				if big.Get() {
					return "h1"
				}
				return "h3"
			}, nil, "title")
			return root, func(i int) { big.Set(i%2 == 1) }
		},
	},
	{
		name: "list push",
		setup: func(rows int) (*weft.Element, func(int)) {
			items := weft.NewList()
			for i := 0; i < rows; i++ {
				items.Push(i)
			}
			root := weft.Ul(nil, func() any {
				var out []any
				for _, v := range items.Values() {
					out = append(out, weft.Li(nil, v))
				}
				return out
			})
			return root, func(i int) { items.Push(rows + i) }
		},
	},
	{
		name: "list edit",
		setup: func(rows int) (*weft.Element, func(int)) {
			items := weft.NewList()
			for i := 0; i < rows; i++ {
				items.Push(i)
			}
			root := weft.Ul(nil, func() any {
				var out []any
				for _, v := range items.Values() {
					out = append(out, weft.Li(nil, v))
				}
				return out
			})
			return root, func(i int) { items.Splice(i%rows, 1, -i) }
		},
	},
}

func benchCmd(flags *globalFlags) *cobra.Command {
	var (
		iterations int
		rows       int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure update to commit latency",
		Long: `Mount small trees and time each state change until its commit lands.

Each case runs on an in-memory HTML document driven synchronously, so
the numbers cover evaluation, reconciliation and commit only.

Examples:
  weft bench
  weft bench --iterations=10000 --rows=500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(flags, iterations, rows)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Updates per case")
	cmd.Flags().IntVarP(&rows, "rows", "r", 100, "Rows in list cases")

	return cmd
}

func runBench(flags *globalFlags, iterations, rows int) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	if iterations <= 0 || rows <= 0 {
		return fmt.Errorf("iterations and rows must be positive")
	}

	printBanner()
	fmt.Printf("  bench: %s updates, %s rows\n\n", humanize.Comma(int64(iterations)), humanize.Comma(int64(rows)))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"case", "updates", "commits", "avg", "min", "p75", "p99", "max", "updates/s"})

	for _, bc := range benchCases {
		doc := htmldom.New()
		app := weft.New(weft.Config{
			Adapter:    doc,
			EnoughTime: cfg.EnoughTime(),
			Bus:        channel.New(),
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		})

		root, mutate := bc.setup(rows)
		if err := app.Mount("body", root); err != nil {
			return err
		}
		app.Flush()
		before := app.Scheduler().Commits()

		tach := tachymeter.New(&tachymeter.Config{Size: iterations})
		start := time.Now()
		for i := 0; i < iterations; i++ {
			t := time.Now()
			mutate(i)
			app.Flush()
			tach.AddTime(time.Since(t))
		}
		elapsed := time.Since(start)

		calc := tach.Calc()
		rate := float64(iterations) / elapsed.Seconds()
		table.Append([]string{
			bc.name,
			humanize.Comma(int64(iterations)),
			humanize.Comma(int64(app.Scheduler().Commits() - before)),
			fmt.Sprint(calc.Time.Avg),
			fmt.Sprint(calc.Time.Min),
			fmt.Sprint(calc.Time.P75),
			fmt.Sprint(calc.Time.P99),
			fmt.Sprint(calc.Time.Max),
			humanize.Comma(int64(rate)),
		})
	}

	table.Render()
	return nil
}
