// Package platform supplies the host-specific places where Java runtimes
// live. Each supported operating system has one Probe; the set is closed
// and selected once from runtime.GOOS.
package platform

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"jvscan/internal/java"
)

// Kind identifies a supported host platform
type Kind int

const (
	Unknown Kind = iota
	Windows
	MacOS
	Linux
)

// Detect maps a GOOS value to a Kind
func Detect(goos string) Kind {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// Current returns the Kind of the running host
func Current() Kind {
	return Detect(runtime.GOOS)
}

func (k Kind) String() string {
	switch k {
	case Windows:
		return "windows"
	case MacOS:
		return "darwin"
	case Linux:
		return "linux"
	default:
		return "unknown"
	}
}

// Executable returns the java launcher name on this platform
func (k Kind) Executable() string {
	return java.ExecutableName(k.String())
}

// Probe knows where a platform keeps Java runtimes. Implementations never
// fail: an unreadable source is logged and left out.
type Probe interface {
	// LauncherDirectories returns install directories of game launchers
	// that ship their own runtimes.
	LauncherDirectories(ctx context.Context) []string
	// CandidateJavaRoots returns install roots found by shallow scans of
	// conventional parent directories.
	CandidateJavaRoots(ctx context.Context) []string
	// ExtraRuntimes returns runtimes known only to a platform registry or
	// metadata store, plus user-configured installs.
	ExtraRuntimes(ctx context.Context) []java.Runtime
}

// Env looks up the environment a probe derives its paths from
type Env struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
}

// SystemEnv reads the real process environment
func SystemEnv() Env {
	return Env{Getenv: os.Getenv, HomeDir: os.UserHomeDir}
}

func (e Env) get(name string) string {
	if e.Getenv == nil {
		return ""
	}
	return strings.TrimSpace(e.Getenv(name))
}

func (e Env) home() string {
	if e.HomeDir == nil {
		return ""
	}
	home, err := e.HomeDir()
	if err != nil {
		return ""
	}
	return home
}

// Options configures a Probe
type Options struct {
	Env         Env
	Logger      *log.Logger
	SearchPaths []string      // extra parent directories to scan
	CustomPaths []string      // individual installs to include as-is
	RuntimeDir  string        // runtimes kept for jvscan itself, defaults to DefaultRuntimeDir
	Registry    Registry      // Windows only, defaults to SystemRegistry
	Runner      CommandRunner // macOS only, defaults to ExecRunner
}

func (o Options) withDefaults() Options {
	if o.Env.Getenv == nil && o.Env.HomeDir == nil {
		o.Env = SystemEnv()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Registry == nil {
		o.Registry = SystemRegistry()
	}
	if o.Runner == nil {
		o.Runner = ExecRunner
	}
	return o
}

// New returns the probe for kind, or nil when the platform is unsupported
func New(kind Kind, opts Options) Probe {
	opts = opts.withDefaults()
	base := configured{
		exe:         kind.Executable(),
		logger:      opts.Logger,
		searchPaths: opts.SearchPaths,
		customPaths: opts.CustomPaths,
		runtimeDir:  opts.RuntimeDir,
	}
	if base.runtimeDir == "" {
		base.runtimeDir = DefaultRuntimeDir(kind, opts.Env)
	}

	switch kind {
	case Windows:
		return newWindowsProbe(base, opts)
	case MacOS:
		return newMacProbe(base, opts)
	case Linux:
		return newLinuxProbe(base, opts)
	default:
		return nil
	}
}

// DefaultRuntimeDir is where jvscan keeps runtimes it manages itself. It is
// scanned before any other location. Empty when the platform is unknown or
// the environment gives no base directory.
func DefaultRuntimeDir(kind Kind, env Env) string {
	switch kind {
	case Windows:
		if appData := env.get("APPDATA"); appData != "" {
			return filepath.Join(appData, ".jvscan", "java")
		}
	case MacOS:
		if home := env.home(); home != "" {
			return filepath.Join(home, "Library", "Application Support", "jvscan", "java")
		}
	case Linux:
		if data := env.get("XDG_DATA_HOME"); data != "" {
			return filepath.Join(data, "jvscan", "java")
		}
		if home := env.home(); home != "" {
			return filepath.Join(home, ".local", "share", "jvscan", "java")
		}
	}
	return ""
}

// configured carries the user-supplied paths every probe honours
type configured struct {
	exe         string
	logger      *log.Logger
	searchPaths []string
	customPaths []string
	runtimeDir  string
}

// scan shallow-scans each parent and returns the union of install roots
func (c configured) scan(scans ...java.CandidateScan) []string {
	var roots []string
	for _, s := range scans {
		if s.Dir == "" {
			continue
		}
		s.Executable = c.exe
		found := s.Run()
		if len(found) == 0 {
			c.logger.Debug("no java installations", "dir", s.Dir)
			continue
		}
		for _, f := range found {
			c.logger.Debug("found java installation", "path", f)
		}
		roots = append(roots, found...)
	}
	return roots
}

// runtimeDirScans lists the app-private runtime directory ahead of every
// conventional location
func (c configured) runtimeDirScans() []java.CandidateScan {
	if c.runtimeDir == "" {
		return nil
	}
	return []java.CandidateScan{{Dir: c.runtimeDir}}
}

func (c configured) searchPathScans() []java.CandidateScan {
	scans := make([]java.CandidateScan, 0, len(c.searchPaths))
	for _, p := range c.searchPaths {
		scans = append(scans, java.CandidateScan{Dir: p})
	}
	return scans
}

func (c configured) customRuntimes() []java.Runtime {
	var runtimes []java.Runtime
	for _, p := range c.customPaths {
		r, ok := java.FromPath(p, c.exe)
		if !ok {
			c.logger.Debug("custom path is not a java installation", "path", p)
			continue
		}
		r.Source = java.SourceCustom
		runtimes = append(runtimes, r)
	}
	return runtimes
}

// directorySet collects existing directories without duplicates and
// returns them in a stable order
type directorySet struct {
	logger *log.Logger
	seen   map[string]string
}

func newDirectorySet(logger *log.Logger) *directorySet {
	return &directorySet{logger: logger, seen: make(map[string]string)}
}

func (s *directorySet) addIfExists(dir string) {
	if dir == "" {
		return
	}
	dir = filepath.Clean(dir)
	if !java.IsValidSearchPath(dir) {
		s.logger.Debug("directory not found", "dir", dir)
		return
	}
	s.logger.Debug("found directory", "dir", dir)
	s.seen[java.RootKey(dir)] = dir
}

func (s *directorySet) list() []string {
	dirs := make([]string, 0, len(s.seen))
	for _, d := range s.seen {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}
