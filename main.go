package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ByteMirror/swarmgrep/app"
	"github.com/ByteMirror/swarmgrep/config"
	"github.com/ByteMirror/swarmgrep/log"
)

var summaryStyle = lipgloss.NewStyle().Bold(true)

var (
	version     = "1.0.0"
	workersFlag int
	extFlag     []string
	noColorFlag bool
	quietFlag   bool

	rootCmd = &cobra.Command{
		Use:   "swarmgrep <keyword> [path]",
		Short: "Swarmgrep - parallel recursive keyword search",
		Long: "Swarmgrep searches a directory tree for a keyword, fanning the " +
			"per-file work out across a pool of workers. Matching lines are " +
			"reported with the keyword highlighted, grep style.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg := config.LoadConfig()

			keyword := args[0]
			root := "."
			if len(args) > 1 {
				root = args[1]
			}

			// Flags override config
			workers := cfg.Workers
			if workersFlag > 0 {
				workers = workersFlag
			}
			extensions := cfg.Extensions
			if len(extFlag) > 0 {
				extensions = extFlag
			}
			color := cfg.Color && !noColorFlag && term.IsTerminal(int(os.Stdout.Fd()))
			if color {
				lipgloss.SetColorProfile(termenv.ColorProfile())
			} else {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			log.InfoLog.Printf("searching %s for %q with %d workers", root, keyword, workers)

			summary, err := app.Run(app.Options{
				Root:       root,
				Keyword:    keyword,
				Workers:    workers,
				Extensions: extensions,
				Color:      color,
				Quiet:      quietFlag,
				Out:        os.Stdout,
			})
			if err != nil {
				return err
			}

			banner := fmt.Sprintf("%d files scanned, %d files matched in %.3fs (%d workers)",
				summary.Scanned, summary.Matched, summary.Elapsed.Seconds(), summary.Workers)
			fmt.Printf("\n%s\n", summaryStyle.Render(banner))
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of swarmgrep",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("swarmgrep version %s\n", version)
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)

			return nil
		},
	}
)

func init() {
	rootCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0,
		"Number of search workers (default: from config, then one per CPU)")
	rootCmd.Flags().StringSliceVarP(&extFlag, "ext", "e", nil,
		"File extensions to search (e.g. -e go -e md); overrides config")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false,
		"Disable keyword highlighting")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress per-file reports, print totals only")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(debugCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
