package platform

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"jvscan/internal/java"
)

const javaHomeTool = "/usr/libexec/java_home"

// CommandRunner runs an external command and returns its stdout
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}

// jvmEntry is one dict of the plist printed by `java_home -X`
type jvmEntry struct {
	HomePath string `plist:"JVMHomePath"`
	Version  string `plist:"JVMVersion"`
	Arch     string `plist:"JVMArch"`
	Name     string `plist:"JVMName"`
}

type macProbe struct {
	configured
	env    Env
	runner CommandRunner
	// prefixes are Homebrew installation prefixes
	prefixes []string
	// systemVMs is the machine-wide JavaVirtualMachines directory
	systemVMs string
}

func newMacProbe(base configured, opts Options) *macProbe {
	return &macProbe{
		configured: base,
		env:        opts.Env,
		runner:     opts.Runner,
		prefixes:   []string{"/opt/homebrew", "/usr/local"},
		systemVMs:  "/Library/Java/JavaVirtualMachines",
	}
}

func (p *macProbe) LauncherDirectories(ctx context.Context) []string {
	dirs := newDirectorySet(p.logger)
	if home := p.env.home(); home != "" {
		dirs.addIfExists(filepath.Join(home, "Library", "Application Support", "minecraft"))
	}
	return dirs.list()
}

func (p *macProbe) CandidateJavaRoots(ctx context.Context) []string {
	scans := append(p.runtimeDirScans(), java.CandidateScan{Dir: p.systemVMs, Home: "Contents/Home"})
	for _, prefix := range p.prefixes {
		scans = append(scans, java.CandidateScan{
			Dir:    filepath.Join(prefix, "opt"),
			Prefix: "openjdk",
			Home:   "libexec/openjdk.jdk/Contents/Home",
		})
	}
	if home := p.env.home(); home != "" {
		scans = append(scans,
			java.CandidateScan{Dir: filepath.Join(home, "Library", "Java", "JavaVirtualMachines"), Home: "Contents/Home"},
			java.CandidateScan{Dir: filepath.Join(home, ".sdkman", "candidates", "java"), Skip: []string{"current"}},
			java.CandidateScan{Dir: filepath.Join(home, ".jdks")},
		)
	}
	scans = append(scans, p.searchPathScans()...)
	return p.scan(scans...)
}

func (p *macProbe) ExtraRuntimes(ctx context.Context) []java.Runtime {
	return append(p.javaHomeRuntimes(ctx), p.customRuntimes()...)
}

// javaHomeRuntimes asks the system java_home tool for every registered JVM
func (p *macProbe) javaHomeRuntimes(ctx context.Context) []java.Runtime {
	out, err := p.runner(ctx, javaHomeTool, "-X")
	if err != nil {
		p.logger.Debug("java_home is not available", "err", err)
		return nil
	}

	entries, err := parseJavaHomeXML(out)
	if err != nil {
		p.logger.Debug("failed to parse java_home output", "err", err)
		return nil
	}

	var runtimes []java.Runtime
	for _, e := range entries {
		if e.HomePath == "" || !java.IsValidJavaPath(e.HomePath, p.exe) {
			continue
		}
		ver, is64Bit := e.Version, is64BitArch(e.Arch)
		if release, ok := java.ReadRelease(e.HomePath); ok {
			ver, is64Bit = release.Version, release.Is64Bit
		}
		r := java.NewRuntime(e.HomePath, ver, is64Bit)
		r.Source = java.SourceJavaHome
		runtimes = append(runtimes, r)
	}
	return runtimes
}

func parseJavaHomeXML(data []byte) ([]jvmEntry, error) {
	var entries []jvmEntry
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode plist: %w", err)
	}
	return entries, nil
}

func is64BitArch(arch string) bool {
	switch strings.ToLower(arch) {
	case "x86_64", "amd64", "arm64", "aarch64":
		return true
	default:
		return false
	}
}

var _ Probe = (*macProbe)(nil)
