package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// DefaultScanTimeout bounds a discovery pass when scan_timeout is unset
const DefaultScanTimeout = 15 * time.Second

const lockTimeout = 5 * time.Second

// ErrInvalidPath is returned when a path is empty after cleaning
var ErrInvalidPath = errors.New("invalid path")

// Config holds the application configuration
type Config struct {
	CustomPaths  []string     `json:"custom_paths"`           // Individual Java installations
	SearchPaths  []string     `json:"search_paths"`           // Parent directories to scan
	ScanTimeout  string       `json:"scan_timeout,omitempty"` // Go duration, e.g. "15s"
	RuntimeDir   string       `json:"runtime_dir,omitempty"`  // Runtimes kept for jvscan itself, scanned first
	UpdateConfig UpdateConfig `json:"update_config"`          // Self-update settings
	configPath   string
}

// UpdateConfig holds settings for the self-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`              // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`           // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`           // Last time update check was performed
	SkipVersion string    `json:"skip_version"`         // Version user chose to skip
	Repository  string    `json:"repository,omitempty"` // GitHub owner/name, empty for the default
}

// LoadFrom reads the configuration at configPath. A missing file yields the
// defaults.
func LoadFrom(configPath string) (*Config, error) {
	cfg := &Config{
		CustomPaths: make([]string, 0),
		SearchPaths: make([]string, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Files written by PowerShell's Set-Content -Encoding UTF8 start with a BOM
	data = trimBOM(data)
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	cfg.CustomPaths = cleanPaths(cfg.CustomPaths)
	cfg.SearchPaths = cleanPaths(cfg.SearchPaths)
	cfg.RuntimeDir = normalize(cfg.RuntimeDir)
	cfg.configPath = configPath
	return cfg, nil
}

// Path returns where the configuration is stored, following the XDG Base
// Directory layout
func Path() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "jvscan", "jvscan.json")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "jvscan", "jvscan.json")
}

// File returns the path this configuration was loaded from
func (c *Config) File() string {
	return c.configPath
}

// Update applies fn to the configuration stored at configPath and writes the
// result. The lock is held from the read to the write, so concurrent
// invocations never drop each other's changes. Nothing is written when fn
// fails.
func Update(configPath string, fn func(*Config) error) (*Config, error) {
	unlock, err := lockConfig(configPath)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := cfg.write(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update reloads c from its file, applies fn and saves, replacing c with
// the stored result
func (c *Config) Update(fn func(*Config) error) error {
	fresh, err := Update(c.configPath, fn)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

func lockConfig(configPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	lock := flock.New(configPath + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to lock config: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock config: timed out after %s", lockTimeout)
	}
	return func() { _ = lock.Unlock() }, nil
}

// write replaces the file atomically; callers hold the lock
func (c *Config) write() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.configPath), filepath.Base(c.configPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.configPath); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Timeout returns the configured scan timeout, or DefaultScanTimeout when it
// is unset or unparsable
func (c *Config) Timeout() time.Duration {
	if c.ScanTimeout == "" {
		return DefaultScanTimeout
	}
	d, err := time.ParseDuration(c.ScanTimeout)
	if err != nil || d <= 0 {
		return DefaultScanTimeout
	}
	return d
}

// AddCustomPath adds a Java installation path
func (c *Config) AddCustomPath(path string) error {
	return addPath(&c.CustomPaths, path)
}

// RemoveCustomPath removes a Java installation path and reports whether it
// was present
func (c *Config) RemoveCustomPath(path string) bool {
	return removePath(&c.CustomPaths, path)
}

// HasCustomPath checks if a path exists in custom paths
func (c *Config) HasCustomPath(path string) bool {
	return indexOf(c.CustomPaths, path) >= 0
}

// AddSearchPath adds a parent directory to scan
func (c *Config) AddSearchPath(path string) error {
	return addPath(&c.SearchPaths, path)
}

// RemoveSearchPath removes a search path and reports whether it was present
func (c *Config) RemoveSearchPath(path string) bool {
	return removePath(&c.SearchPaths, path)
}

// HasSearchPath checks if a path exists in search paths
func (c *Config) HasSearchPath(path string) bool {
	return indexOf(c.SearchPaths, path) >= 0
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if path == "." {
		return ""
	}
	return path
}

func addPath(paths *[]string, path string) error {
	path = normalize(path)
	if path == "" {
		return ErrInvalidPath
	}
	if indexOf(*paths, path) < 0 {
		*paths = append(*paths, path)
	}
	return nil
}

func removePath(paths *[]string, path string) bool {
	i := indexOf(*paths, path)
	if i < 0 {
		return false
	}
	*paths = append((*paths)[:i], (*paths)[i+1:]...)
	return true
}

// indexOf compares case-insensitively; the list is shared between hosts
// with different filesystem rules
func indexOf(paths []string, path string) int {
	path = normalize(path)
	if path == "" {
		return -1
	}
	for i, p := range paths {
		if strings.EqualFold(p, path) {
			return i
		}
	}
	return -1
}

// cleanPaths drops empty entries and duplicates
func cleanPaths(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		_ = addPath(&cleaned, p)
	}
	return cleaned
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
