package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/bigscroll/bigscroll/internal/fsext"
	"github.com/bigscroll/bigscroll/internal/log"
	"github.com/bigscroll/bigscroll/internal/source"
	"github.com/bigscroll/bigscroll/internal/tui"
	"github.com/bigscroll/bigscroll/internal/tui/components/biglist"
	"github.com/bigscroll/bigscroll/internal/tui/util"
	"github.com/bigscroll/bigscroll/internal/version"
)

const appName = "bigscroll"

func init() {
	rootCmd.Flags().BoolP("debug", "d", false, "Debug logging")
	rootCmd.Flags().BoolP("follow", "f", false, "Keep reading the file as it grows")
	rootCmd.Flags().IntP("items", "n", 1000000, "Number of generated demo items when no file is given")
	rootCmd.Flags().Float64("default-height", 1, "Estimated rows per unmeasured item")
	rootCmd.Flags().BoolP("help", "h", false, "Help")
}

var rootCmd = &cobra.Command{
	Use:   "bigscroll [file]",
	Short: "Scroll through lists of millions of items in the terminal",
	Long: `Bigscroll is a terminal viewer for very large lists. It keeps only the
handful of items inside the viewport materialized and estimates the rest,
so files and feeds with millions of entries scroll at interactive speed.`,
	Example: `
# Browse a million generated demo items
bigscroll

# View a large file
bigscroll /var/log/syslog

# Follow a file as it grows, like tail -f
bigscroll -f /var/log/syslog

# Debug logging
bigscroll -d
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		follow, _ := cmd.Flags().GetBool("follow")
		items, _ := cmd.Flags().GetInt("items")
		defaultHeight, _ := cmd.Flags().GetFloat64("default-height")

		log.Setup(filepath.Join(dataDir(), "logs", appName+".log"), debug)

		var (
			src  *source.List
			path string
			err  error
		)
		if len(args) > 0 {
			path, err = fsext.Expand(args[0])
			if err != nil {
				return fmt.Errorf("failed to expand %s: %w", args[0], err)
			}
			src, err = source.FromFile(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else {
			src = source.Generate(items)
		}

		model := tui.New(biglist.New(src, biglist.WithDefaultHeight(defaultHeight)))
		program := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
			tea.WithMouseCellMotion(), // Use cell motion instead of all motion to reduce event flooding
		)

		cancel := model.Subscribe(program.Send)
		defer cancel()

		if follow && path != "" {
			go func() {
				defer log.RecoverPanic("follow", nil)
				err := src.Follow(cmd.Context(), path, func(total int) {
					program.Send(tui.SourceGrewMsg{Total: total})
				})
				if err != nil && cmd.Context().Err() == nil {
					slog.Error("Follow failed", "path", path, "error", err)
					program.Send(util.InfoMsg{Type: util.InfoTypeError, Msg: err.Error()})
				}
			}()
		}

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute(ctx context.Context) {
	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// dataDir resolves the per-user data directory, honoring XDG overrides
// on unix and LOCALAPPDATA on windows.
func dataDir() string {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName)
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName)
	}

	return filepath.Join(os.Getenv("HOME"), ".local", "share", appName)
}
