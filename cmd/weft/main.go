package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/config"
	werrors "github.com/vango-dev/weft/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌─┐┌┬┐
  ║║║├┤ ├┤  │
  ╚╩╝└─┘└   ┴
`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "A time-sliced reactive UI reconciler",
		Long: `Weft builds and patches a UI tree from reactive components.

Observable state is tracked per element, so a change re-evaluates only
the type, properties or children that read it. Reconciliation runs in
time slices and commits a finished tree in one pass.

Commands:
  • demo     run a scripted scenario and print the tree after each step
  • inspect  serve the live fiber tree over HTTP and websocket
  • bench    measure update to commit latency`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to weft.json (default: nearest in working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if flags.noColor {
			werrors.DisableColors()
		}
	}

	rootCmd.AddCommand(
		demoCmd(flags),
		inspectCmd(flags),
		benchCmd(flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		werrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads weft.json. A missing file yields the defaults.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}

	var werr *werrors.Error
	if err != nil && errors.As(err, &werr) && werr.Code == "E025" && f.configPath == "" {
		cfg, err = config.New(), nil
	}
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

// printBanner prints the Weft ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
