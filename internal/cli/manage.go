package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"jvscan/internal/config"
	"jvscan/internal/java"
	"jvscan/internal/theme"
)

// confirm asks the user unless yes is set. Without a terminal the user must
// pass --yes.
func (a *app) confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("%w; pass --yes to confirm", errNotInteractive)
	}
	return confirmAction(title, description)
}

// updateConfig applies fn to the stored configuration under the config
// lock, so concurrent invocations keep each other's edits
func (a *app) updateConfig(fn func(*config.Config) error) error {
	if _, err := config.Update(a.configFile(), fn); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (a *app) newAddCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "add <path>",
		Short:   "Add a Java installation that scans do not find",
		Example: "  jvscan add /opt/custom/jdk-21",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := java.FromPath(args[0], a.kind.Executable())
			if !ok {
				return fmt.Errorf("%w: %s has no bin/%s", config.ErrInvalidPath, args[0], a.kind.Executable())
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.HasCustomPath(r.Root) {
				fmt.Fprintln(a.out, theme.WarningMessage("This path is already in the custom paths list."))
				return nil
			}

			ok, err = a.confirm(yes, fmt.Sprintf("Add Java %s?", r.DisplayVersion()), "Path: "+r.Root)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, theme.WarningStyle.Render("Operation cancelled."))
				return nil
			}

			if err := a.updateConfig(func(c *config.Config) error { return c.AddCustomPath(r.Root) }); err != nil {
				return err
			}
			fmt.Fprintln(a.out, theme.SuccessMessage(fmt.Sprintf("Added Java %s to custom paths.", r.DisplayVersion())))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) newRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove [path]",
		Short: "Remove a custom Java installation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if len(cfg.CustomPaths) == 0 {
				fmt.Fprintln(a.out, theme.InfoMessage("No custom Java installations to remove"))
				return nil
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				if !a.interactive() {
					return errNotInteractive
				}
				if path, err = a.selectCustomPath(cfg); err != nil {
					return err
				}
			}
			if !cfg.HasCustomPath(path) {
				fmt.Fprintln(a.out, theme.WarningMessage("This path is not in the custom paths list."))
				return nil
			}

			ok, err := a.confirm(yes, "Remove Java installation?", "Path: "+path)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, theme.WarningStyle.Render("Operation cancelled."))
				return nil
			}

			err = a.updateConfig(func(c *config.Config) error {
				c.RemoveCustomPath(path)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, theme.SuccessMessage("Removed from custom paths."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) newAddPathCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "add-path <directory>",
		Short:   "Scan an extra parent directory for Java installations",
		Example: "  jvscan add-path ~/tools/java",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !java.IsValidSearchPath(path) {
				return fmt.Errorf("%w: %s is not a directory", config.ErrInvalidPath, path)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.HasSearchPath(path) {
				fmt.Fprintln(a.out, theme.WarningMessage("This search path is already configured."))
				return nil
			}

			ok, err := a.confirm(yes, "Add search path?", fmt.Sprintf("Path: %s\n\nEvery scan will look for Java installations in this directory.", path))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, theme.WarningStyle.Render("Operation cancelled."))
				return nil
			}

			if err := a.updateConfig(func(c *config.Config) error { return c.AddSearchPath(path) }); err != nil {
				return err
			}
			fmt.Fprintln(a.out, theme.SuccessMessage("Added search path:"))
			fmt.Fprintln(a.out, "  "+theme.PathStyle.Render(path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) newRemovePathCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove-path [directory]",
		Short: "Stop scanning a search path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if len(cfg.SearchPaths) == 0 {
				fmt.Fprintln(a.out, theme.InfoMessage("No custom search paths to remove"))
				return nil
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				if !a.interactive() {
					return errNotInteractive
				}
				if path, err = selectSearchPath(cfg); err != nil {
					return err
				}
			}
			if !cfg.HasSearchPath(path) {
				fmt.Fprintln(a.out, theme.WarningMessage("This path is not in the search paths list."))
				return nil
			}

			ok, err := a.confirm(yes, "Remove search path?", "Path: "+path)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, theme.WarningStyle.Render("Operation cancelled."))
				return nil
			}

			err = a.updateConfig(func(c *config.Config) error {
				c.RemoveSearchPath(path)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, theme.SuccessMessage("Removed search path."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) selectCustomPath(cfg *config.Config) (string, error) {
	options := make([]huh.Option[string], len(cfg.CustomPaths))
	for i, p := range cfg.CustomPaths {
		ver := "unknown"
		if r, ok := java.FromPath(p, a.kind.Executable()); ok {
			ver = r.DisplayVersion()
		}
		label := fmt.Sprintf("%s %s", padRight(theme.CurrentStyle.Render(ver), 15), p)
		options[i] = huh.NewOption(label, p)
	}
	return selectPath("Select Java Installation to Remove", options)
}

func selectSearchPath(cfg *config.Config) (string, error) {
	options := make([]huh.Option[string], len(cfg.SearchPaths))
	for i, p := range cfg.SearchPaths {
		options[i] = huh.NewOption(fmt.Sprintf("%s  %s", p, existsTag(java.IsValidSearchPath(p))), p)
	}
	return selectPath("Select Search Path to Remove", options)
}

func selectPath(title string, options []huh.Option[string]) (string, error) {
	var selected string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	return selected, err
}

func existsTag(exists bool) string {
	if exists {
		return theme.SuccessStyle.Render("✓ Exists")
	}
	return theme.Faint.Render("Not found")
}
