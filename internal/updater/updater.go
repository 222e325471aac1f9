package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"

	"jvscan/internal/config"
)

const (
	// DefaultRepository is the GitHub slug releases are published under
	DefaultRepository = "jvscan/jvscan"

	// CheckInterval is minimum time between background update checks
	CheckInterval = 24 * time.Hour

	// UpdateTimeout is maximum time for update operations
	UpdateTimeout = 5 * time.Minute

	devVersion = "dev"
)

// ErrNoReleases is returned when the repository has no matching release
var ErrNoReleases = errors.New("no releases found")

// Updater checks for and applies new releases of the binary
type Updater struct {
	config         *config.Config
	currentVersion string
	repository     string
	logger         *log.Logger
	selfUpdater    *selfupdate.Updater
	now            func() time.Time
}

// NewUpdater creates an Updater for the running version
func NewUpdater(cfg *config.Config, version string, logger *log.Logger) (*Updater, error) {
	// release assets are verified against SHA256SUMS.txt
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: "SHA256SUMS.txt",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	repository := cfg.UpdateConfig.Repository
	if repository == "" {
		repository = DefaultRepository
	}

	return &Updater{
		config:         cfg,
		currentVersion: cleanVersion(version),
		repository:     repository,
		logger:         logger,
		selfUpdater:    su,
		now:            time.Now,
	}, nil
}

// CurrentVersion returns the running version without a v prefix
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// ShouldCheckForUpdate reports whether a background check is due. Dev
// builds never check.
func (u *Updater) ShouldCheckForUpdate() bool {
	if u.currentVersion == devVersion || u.currentVersion == "" {
		return false
	}
	if !u.config.UpdateConfig.Enabled || !u.config.UpdateConfig.AutoCheck {
		return false
	}
	return u.now().Sub(u.config.UpdateConfig.LastCheck) >= CheckInterval
}

// CheckForUpdate queries GitHub for the latest release. It returns nil when
// the running version is current or the user skipped the latest release.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.selfUpdater.DetectLatest(ctx, selfupdate.ParseSlug(u.repository))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, ErrNoReleases
	}

	checked := u.now()
	err = u.config.Update(func(c *config.Config) error {
		c.UpdateConfig.LastCheck = checked
		return nil
	})
	if err != nil {
		u.config.UpdateConfig.LastCheck = checked
		u.logger.Warn("failed to record update check", "err", err)
	}

	if u.currentVersion != devVersion && latest.LessOrEqual(u.currentVersion) {
		return nil, nil
	}
	if u.config.UpdateConfig.SkipVersion == latest.Version() {
		u.logger.Debug("latest release was skipped", "version", latest.Version())
		return nil, nil
	}
	return latest, nil
}

// PerformUpdate replaces the running executable, restoring a backup when
// the replacement fails
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	backup := exe + ".backup"
	if err := copyFile(exe, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rollbackErr := os.Rename(backup, exe); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	if err := os.Remove(backup); err != nil {
		u.logger.Debug("failed to remove backup", "path", backup, "err", err)
	}
	return nil
}

// SkipVersion marks a version as skipped by the user
func (u *Updater) SkipVersion(version string) error {
	return u.config.Update(func(c *config.Config) error {
		c.UpdateConfig.SkipVersion = version
		return nil
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o755)
}

func cleanVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
