package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Module  string `json:"module,omitempty"`
	Go      string `json:"go"`
	OSArch  string `json:"osArch"`
}

func currentBuild() buildInfo {
	b := buildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		OSArch:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b.Module = bi.Main.Path
		if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			b.Version = bi.Main.Version
		}
	}
	return b
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit and toolchain the Weft CLI was built with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			switch {
			case short:
				fmt.Println(b.Version)
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			default:
				printBanner()
				fmt.Println()
				for _, row := range [][2]string{
					{"Version", b.Version},
					{"Commit", b.Commit},
					{"Built", b.Date},
					{"Module", b.Module},
					{"Go", b.Go},
					{"OS/Arch", b.OSArch},
				} {
					if row[1] != "" {
						fmt.Printf("  %-9s %s\n", row[0]+":", row[1])
					}
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}
