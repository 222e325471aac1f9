package platform

import (
	"context"
	"path/filepath"

	"jvscan/internal/java"
)

type linuxProbe struct {
	configured
	env Env
	// systemDirs are the distribution-managed parents of JVM installs
	systemDirs []string
}

func newLinuxProbe(base configured, opts Options) *linuxProbe {
	return &linuxProbe{
		configured: base,
		env:        opts.Env,
		systemDirs: []string{"/usr/lib/jvm", "/usr/lib64/jvm", "/usr/java", "/opt/java", "/opt/jdk"},
	}
}

func (p *linuxProbe) LauncherDirectories(ctx context.Context) []string {
	dirs := newDirectorySet(p.logger)
	if home := p.env.home(); home != "" {
		dirs.addIfExists(filepath.Join(home, ".minecraft"))
		dirs.addIfExists(filepath.Join(home, ".var", "app", "com.mojang.Minecraft", ".minecraft"))
	}
	return dirs.list()
}

func (p *linuxProbe) CandidateJavaRoots(ctx context.Context) []string {
	scans := p.runtimeDirScans()
	for _, dir := range p.systemDirs {
		// default-java and similar are symlinks to siblings
		scans = append(scans, java.CandidateScan{Dir: dir, Skip: []string{"default-java", "default-runtime"}})
	}
	if home := p.env.home(); home != "" {
		scans = append(scans,
			java.CandidateScan{Dir: filepath.Join(home, ".sdkman", "candidates", "java"), Skip: []string{"current"}},
			java.CandidateScan{Dir: filepath.Join(home, ".jdks")},
		)
	}
	scans = append(scans, p.searchPathScans()...)
	return p.scan(scans...)
}

// ExtraRuntimes has no registry to consult on Linux; only configured
// installs are returned
func (p *linuxProbe) ExtraRuntimes(ctx context.Context) []java.Runtime {
	return p.customRuntimes()
}

var _ Probe = (*linuxProbe)(nil)
