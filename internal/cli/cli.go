// Package cli implements the jvscan command line.
//
// Every command that needs runtimes goes through one discovery.Finder built
// from the user's configuration; the interactive pieces (spinner, pickers,
// confirmations) only run when the output is a terminal or the command asks
// for them.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"jvscan/internal/config"
	"jvscan/internal/discovery"
	"jvscan/internal/platform"
	"jvscan/internal/updater"
)

// app carries what every command needs. Tests swap the writers and the
// probe factory.
type app struct {
	version  string
	out      io.Writer
	errOut   io.Writer
	kind     platform.Kind
	newProbe func(platform.Kind, platform.Options) platform.Probe
	// interactive reports whether prompts and spinners may be shown
	interactive func() bool

	verbose    bool
	configPath string
}

func newApp(version string, out, errOut io.Writer) *app {
	return &app{
		version:     version,
		out:         out,
		errOut:      errOut,
		kind:        platform.Current(),
		newProbe:    platform.New,
		interactive: stderrIsTerminal,
	}
}

// Execute runs the CLI with the build's version string
func Execute(ctx context.Context, version string) error {
	return newApp(version, os.Stdout, os.Stderr).rootCommand().ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "jvscan",
		Short:         "Find installed Java runtimes and pick the right one",
		Long:          "jvscan discovers the Java runtimes installed on this machine, including launcher-bundled and registry-registered ones, and resolves the newest runtime for a major version.",
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(a.errOut, level)))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() != "update" {
				a.notifyUpdate(cmd.Context())
			}
		},
	}

	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(
		a.newListCmd(),
		a.newFindCmd(),
		a.newAnyCmd(),
		a.newPickCmd(),
		a.newPathsCmd(),
		a.newAddCmd(),
		a.newRemoveCmd(),
		a.newAddPathCmd(),
		a.newRemovePathCmd(),
		a.newUpdateCmd(),
		a.newVersionCmd(),
	)
	return root
}

func (a *app) configFile() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.Path()
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.LoadFrom(a.configFile())
}

// finder builds a Finder honouring the configured paths and timeout
func (a *app) finder(ctx context.Context, cfg *config.Config) *discovery.Finder {
	logger := loggerFromContext(ctx)
	probe := a.newProbe(a.kind, platform.Options{
		Logger:      logger,
		SearchPaths: cfg.SearchPaths,
		CustomPaths: cfg.CustomPaths,
		RuntimeDir:  cfg.RuntimeDir,
	})
	return discovery.New(
		discovery.WithKind(a.kind),
		discovery.WithProbe(probe),
		discovery.WithLogger(logger),
		discovery.WithTimeout(cfg.Timeout()),
	)
}

// notifyUpdate prints a hint when a newer release exists. It is rate
// limited by the updater and never fails the command.
func (a *app) notifyUpdate(ctx context.Context) {
	if !a.interactive() {
		return
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return
	}
	logger := loggerFromContext(ctx)
	upd, err := updater.NewUpdater(cfg, a.version, logger)
	if err != nil || !upd.ShouldCheckForUpdate() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		logger.Debug("background update check failed", "err", err)
		return
	}
	if release != nil {
		updater.ShowUpdateNotification(a.errOut, upd.CurrentVersion(), release.Version())
	}
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
