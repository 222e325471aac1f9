package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jvscan/internal/theme"
	"jvscan/internal/updater"
)

func (a *app) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update jvscan to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.UpdateConfig.Enabled {
				fmt.Fprintln(a.out, theme.WarningMessage("Updates are disabled in configuration."))
				fmt.Fprintln(a.out, theme.Faint.Render("Set update_config.enabled to true in "+cfg.File()+" to enable them."))
				return nil
			}

			upd, err := updater.NewUpdater(cfg, a.version, loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, theme.InfoStyle.Render("Checking for updates..."))
			ctx, cancel := context.WithTimeout(cmd.Context(), updater.UpdateTimeout)
			defer cancel()

			release, err := upd.CheckForUpdate(ctx)
			if err != nil {
				return err
			}
			if release == nil {
				updater.ShowAlreadyUpToDate(a.out, upd.CurrentVersion())
				return nil
			}

			if !a.interactive() {
				fmt.Fprintln(a.out, theme.InfoMessage(fmt.Sprintf("Version %s is available", release.Version())))
				return errors.New("run 'jvscan update' from a terminal to install it")
			}
			action, err := upd.PromptForUpdate(release)
			if err != nil {
				fmt.Fprintln(a.out, theme.WarningStyle.Render("Update cancelled."))
				return nil
			}
			switch action {
			case updater.ActionSkip:
				fmt.Fprintln(a.out, theme.InfoMessage("Skipped version "+release.Version()))
				return nil
			case updater.ActionLater:
				fmt.Fprintln(a.out, theme.InfoMessage("Update postponed"))
				return nil
			}

			updater.ShowDownloadingUpdate(a.out, release.Version())
			if err := upd.PerformUpdate(ctx, release); err != nil {
				return err
			}
			updater.ShowUpdateSuccess(a.out, release.Version())
			return nil
		},
	}
}
