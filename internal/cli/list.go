package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jvscan/internal/config"
	"jvscan/internal/discovery"
	"jvscan/internal/java"
	"jvscan/internal/theme"
	"jvscan/internal/ui"
)

// runtimeView is the serialized form of a runtime
type runtimeView struct {
	Path          string `json:"path" yaml:"path"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	Major         int    `json:"major,omitempty" yaml:"major,omitempty"`
	Is64Bit       bool   `json:"is_64_bit" yaml:"is_64_bit"`
	VendorBundled bool   `json:"vendor_bundled" yaml:"vendor_bundled"`
	Source        string `json:"source" yaml:"source"`
}

func newRuntimeView(r java.Runtime) runtimeView {
	major, _ := r.Major()
	return runtimeView{
		Path:          r.Root,
		Version:       r.Version,
		Major:         major,
		Is64Bit:       r.Is64Bit,
		VendorBundled: r.VendorBundled,
		Source:        string(r.Source),
	}
}

func (a *app) newListCmd() *cobra.Command {
	var (
		format    string
		noSpinner bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every Java runtime found, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			spin := format == "table" && !noSpinner
			runtimes, err := a.scan(cmd.Context(), cfg, spin)
			if err != nil {
				return err
			}
			return writeRuntimes(a.out, format, runtimes)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "do not animate while scanning")
	return cmd
}

func (a *app) newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <major>",
		Short: "Print the newest runtime for a major version",
		Example: "  jvscan find 17\n" +
			"  JAVA_HOME=$(jvscan find 21)",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := parseMajor(args[0])
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			r, ok := a.finder(cmd.Context(), cfg).ResolveBest(cmd.Context(), major)
			if !ok {
				return fmt.Errorf("%w for major version %d", discovery.ErrNotFound, major)
			}
			fmt.Fprintln(a.out, r.Root)
			return nil
		},
	}
}

func (a *app) newAnyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "any",
		Short: "Print the newest runtime of any version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			r, ok := a.finder(cmd.Context(), cfg).ResolveAny(cmd.Context())
			if !ok {
				return discovery.ErrNotFound
			}
			fmt.Fprintln(a.out, r.Root)
			return nil
		},
	}
}

// scan lists runtimes, showing a spinner on terminals when spin is set
func (a *app) scan(ctx context.Context, cfg *config.Config, spin bool) ([]java.Runtime, error) {
	finder := a.finder(ctx, cfg)
	if !spin || !a.interactive() {
		return finder.List(ctx), nil
	}

	var runtimes []java.Runtime
	err := ui.Spin(a.errOut, "Scanning for Java installations...", func() error {
		runtimes = finder.List(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runtimes, nil
}

func parseMajor(arg string) (int, error) {
	major, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || major <= 0 {
		return 0, fmt.Errorf("invalid major version %q", arg)
	}
	return major, nil
}

func writeRuntimes(w io.Writer, format string, runtimes []java.Runtime) error {
	views := make([]runtimeView, 0, len(runtimes))
	for _, r := range runtimes {
		views = append(views, newRuntimeView(r))
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "table":
		writeTable(w, runtimes, os.Getenv("JAVA_HOME"))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// writeTable prints one aligned line per runtime and marks the one
// JAVA_HOME points at
func writeTable(w io.Writer, runtimes []java.Runtime, javaHome string) {
	if len(runtimes) == 0 {
		fmt.Fprintln(w, theme.WarningMessage("No Java installations found."))
		fmt.Fprintln(w, theme.Faint.Render("Use ")+theme.Code.Render("jvscan add-path <directory>")+theme.Faint.Render(" to scan more places"))
		return
	}

	current := ""
	if javaHome != "" {
		current = java.RootKey(javaHome)
	}

	fmt.Fprintln(w, theme.Title.Render("Available Java Versions:"))
	fmt.Fprintln(w)
	for _, r := range runtimes {
		marker := "  "
		ver := r.DisplayVersion()
		if !r.HasVersion() {
			ver = theme.Faint.Render(ver)
		}
		if current != "" && r.ID() == current {
			marker = "→ "
			ver = theme.CurrentStyle.Render(r.DisplayVersion())
		}
		fmt.Fprintf(w, "%s%s %s %s\n", marker, padRight(ver, 15), r.Root, runtimeTags(r))
	}
	fmt.Fprintln(w)
}

func runtimeTags(r java.Runtime) string {
	tags := []string{theme.Faint.Render("(" + string(r.Source) + ")")}
	if r.VendorBundled {
		tags = append(tags, theme.InfoStyle.Render("[bundled]"))
	}
	if !r.Is64Bit {
		tags = append(tags, theme.WarningStyle.Render("[32-bit]"))
	}
	return strings.Join(tags, " ")
}

// padRight pads s to width columns, measuring the rendered width
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
