package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"jvscan/internal/discovery"
	"jvscan/internal/java"
	"jvscan/internal/theme"
)

var errNotInteractive = errors.New("this command needs an interactive terminal")

func (a *app) newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick [major]",
		Short: "Choose a runtime interactively and print its path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return errNotInteractive
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			runtimes, err := a.scan(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				major, err := parseMajor(args[0])
				if err != nil {
					return err
				}
				runtimes = filterMajor(runtimes, major)
			}
			if len(runtimes) == 0 {
				return discovery.ErrNotFound
			}

			r, err := selectRuntime(runtimes)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, r.Root)
			return nil
		},
	}
}

func filterMajor(runtimes []java.Runtime, major int) []java.Runtime {
	var out []java.Runtime
	for _, r := range runtimes {
		if m, ok := r.Major(); ok && m == major {
			out = append(out, r)
		}
	}
	return out
}

func selectRuntime(runtimes []java.Runtime) (java.Runtime, error) {
	options := make([]huh.Option[int], len(runtimes))
	for i, r := range runtimes {
		label := fmt.Sprintf("%s %s %s", padRight(theme.CurrentStyle.Render(r.DisplayVersion()), 15), r.Root, runtimeTags(r))
		options[i] = huh.NewOption(label, i)
	}

	var selected int
	err := huh.NewSelect[int]().
		Title(theme.Subtitle.Render("Select Java Version")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return java.Runtime{}, err
	}
	return runtimes[selected], nil
}

// confirmAction shows a yes/no prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()
	return confirmed, err
}
