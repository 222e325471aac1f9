package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jvscan/internal/config"
	"jvscan/internal/java"
	"jvscan/internal/platform"
	"jvscan/internal/theme"
)

func (a *app) newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show the directories jvscan looks in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Fprintln(a.out, theme.Title.Render("Java Search Paths"))
			fmt.Fprintln(a.out)

			if dir := a.runtimeDir(cfg); dir != "" {
				writePathTable(a.out, "Runtime Directory:", []string{dir}, java.IsValidSearchPath)
			}

			launchers := a.finder(cmd.Context(), cfg).LauncherDirectories(cmd.Context())
			writePathTable(a.out, "Launcher Directories:", launchers, java.IsValidSearchPath)

			if len(cfg.SearchPaths) == 0 {
				fmt.Fprintln(a.out, theme.InfoStyle.Render("No custom search paths configured."))
				fmt.Fprintln(a.out, theme.Faint.Render("Use 'jvscan add-path <directory>' to add one."))
				fmt.Fprintln(a.out)
			} else {
				writePathTable(a.out, "Custom Search Paths:", cfg.SearchPaths, java.IsValidSearchPath)
			}

			if len(cfg.CustomPaths) > 0 {
				exe := a.kind.Executable()
				writePathTable(a.out, "Custom Installations:", cfg.CustomPaths, func(p string) bool {
					return java.IsValidJavaPath(p, exe)
				})
			}
			fmt.Fprintf(a.out, "%s %s\n", theme.LabelStyle.Render("Config:"), theme.PathStyle.Render(cfg.File()))
			return nil
		},
	}
}

// runtimeDir is the configured app-private runtime directory or the
// platform default
func (a *app) runtimeDir(cfg *config.Config) string {
	if cfg.RuntimeDir != "" {
		return cfg.RuntimeDir
	}
	return platform.DefaultRuntimeDir(a.kind, platform.SystemEnv())
}

// writePathTable renders paths with an existence column
func writePathTable(w io.Writer, title string, paths []string, valid func(string) bool) {
	fmt.Fprintln(w, theme.LabelStyle.Render(title))
	fmt.Fprintln(w)
	if len(paths) == 0 {
		fmt.Fprintln(w, "  "+theme.Faint.Render("none found"))
		fmt.Fprintln(w)
		return
	}

	width := 0
	for _, p := range paths {
		width = max(width, lipgloss.Width(p))
	}
	width += 2

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Left,
		theme.TableHeader.Width(width+2).Render("Path"),
		theme.TableHeader.Render("Status"),
	)}
	for _, p := range paths {
		status := theme.SuccessStyle.Padding(0, 1).Render("✓ Exists")
		if !valid(p) {
			status = theme.ErrorStyle.Padding(0, 1).Render("✗ Not found")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			theme.TableCell.Width(width+2).Render(p),
			status,
		))
	}

	fmt.Fprintln(w, theme.TableStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	fmt.Fprintln(w)
}
