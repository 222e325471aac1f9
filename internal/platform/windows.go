package platform

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"jvscan/internal/java"
)

const (
	mojangLauncherKey = `SOFTWARE\Mojang\InstalledProducts\Minecraft Launcher`
	systemEnvKey      = `System\CurrentControlSet\Control\Session Manager\Environment`
	storePackageDir   = "Microsoft.4297127D64EC6_8wekyb3d8bbwe"
)

// javaSoftKeys are the HKLM trees where JRE and JDK installers register
// a JavaHome value per version sub key
var javaSoftKeys = []string{
	`SOFTWARE\JavaSoft\Java Runtime Environment`,
	`SOFTWARE\JavaSoft\Java Development Kit`,
	`SOFTWARE\JavaSoft\JDK`,
}

// vendorDirs are Program Files children used by common OpenJDK builds
var vendorDirs = []string{
	"Java",
	"Eclipse Adoptium",
	"Eclipse Foundation",
	"Zulu",
	"Amazon Corretto",
	"Microsoft",
	"BellSoft",
	"Semeru",
}

type windowsProbe struct {
	configured
	env      Env
	registry Registry
	cache    *registryCache
	is64Bit  bool
}

func newWindowsProbe(base configured, opts Options) *windowsProbe {
	return &windowsProbe{
		configured: base,
		env:        opts.Env,
		registry:   opts.Registry,
		cache:      newRegistryCache(),
		is64Bit:    opts.Env.get("ProgramFiles(x86)") != "",
	}
}

func (p *windowsProbe) LauncherDirectories(ctx context.Context) []string {
	dirs := newDirectorySet(p.logger)

	if appData := p.env.get("APPDATA"); appData != "" {
		dirs.addIfExists(filepath.Join(appData, ".minecraft"))
	}

	launcherPath, err := p.registry.ReadString(CurrentUser, mojangLauncherKey, "InstallLocation")
	switch {
	case err != nil:
		p.logger.Debug("failed to read launcher location from registry", "err", err)
	case strings.TrimSpace(launcherPath) == "":
		p.logger.Debug("launcher installation not found in the registry")
	default:
		dirs.addIfExists(launcherPath)
	}

	programFiles := p.env.get("ProgramFiles")
	if p.is64Bit {
		programFiles = p.env.get("ProgramFiles(x86)")
	}
	if programFiles != "" {
		// the launcher moves its runtime directory between releases
		dirs.addIfExists(filepath.Join(programFiles, "Minecraft"))
		dirs.addIfExists(filepath.Join(programFiles, "Minecraft Launcher"))
	}

	if local := p.env.get("LOCALAPPDATA"); local != "" {
		dirs.addIfExists(filepath.Join(local, "Packages", storePackageDir, "LocalCache", "Local"))
	}

	return dirs.list()
}

func (p *windowsProbe) CandidateJavaRoots(ctx context.Context) []string {
	scans := p.runtimeDirScans()
	for _, env := range []string{"ProgramFiles", "ProgramW6432", "ProgramFiles(x86)"} {
		root := p.env.get(env)
		if root == "" {
			continue
		}
		for _, vendor := range vendorDirs {
			scans = append(scans, java.CandidateScan{Dir: filepath.Join(root, vendor)})
		}
		scans = append(scans, java.CandidateScan{Dir: root, Prefix: "jdk"})
	}
	if profile := p.env.get("USERPROFILE"); profile != "" {
		scans = append(scans, java.CandidateScan{Dir: filepath.Join(profile, ".jdks")})
	}
	scans = append(scans, p.searchPathScans()...)

	return p.scan(dedupScans(scans)...)
}

func (p *windowsProbe) ExtraRuntimes(ctx context.Context) []java.Runtime {
	results := make([][]java.Runtime, len(javaSoftKeys))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(len(javaSoftKeys))
	for i, basePath := range javaSoftKeys {
		g.Go(func() error {
			results[i] = p.registryRuntimes(basePath)
			return nil
		})
	}
	_ = g.Wait()

	var runtimes []java.Runtime
	for _, r := range results {
		runtimes = append(runtimes, r...)
	}
	if r, ok := p.systemJavaHome(); ok {
		runtimes = append(runtimes, r)
	}
	return append(runtimes, p.customRuntimes()...)
}

// registryRuntimes lists the runtimes registered under basePath, using the
// probe's cache after the first successful read
func (p *windowsProbe) registryRuntimes(basePath string) []java.Runtime {
	if cached, ok := p.cache.get(basePath); ok {
		return cached
	}

	versions, err := p.registry.ReadSubKeys(LocalMachine, basePath)
	if err != nil {
		p.logger.Debug("failed to read java locations from registry", "path", basePath, "err", err)
		return nil
	}

	var runtimes []java.Runtime
	for _, v := range versions {
		r, ok := p.registryEntry(basePath, v)
		if !ok {
			continue
		}
		runtimes = append(runtimes, r)
	}
	p.cache.put(basePath, runtimes)
	return runtimes
}

func (p *windowsProbe) registryEntry(basePath, ver string) (java.Runtime, bool) {
	home, err := p.registry.ReadString(LocalMachine, basePath+`\`+ver, "JavaHome")
	if err != nil || home == "" {
		return java.Runtime{}, false
	}
	if !java.IsValidJavaPath(home, p.exe) {
		p.logger.Debug("registered JavaHome has no java executable", "path", home, "version", ver)
		return java.Runtime{}, false
	}

	// "1.8" and "1.8.0_301" usually share a JavaHome; the release file
	// gives both the same precise version
	if release, ok := java.ReadRelease(home); ok {
		ver = release.Version
	}
	r := java.NewRuntime(home, ver, p.guess64Bit(home))
	r.Source = java.SourceRegistry
	return r, true
}

// systemJavaHome offers the machine-wide JAVA_HOME as a runtime
func (p *windowsProbe) systemJavaHome() (java.Runtime, bool) {
	home, err := p.registry.ReadString(LocalMachine, systemEnvKey, "JAVA_HOME")
	if err != nil || home == "" {
		return java.Runtime{}, false
	}
	r, ok := java.FromPath(home, p.exe)
	if !ok {
		return java.Runtime{}, false
	}
	r.Source = java.SourceJavaHome
	return r, true
}

// guess64Bit assumes everything outside Program Files (x86) is 64-bit
func (p *windowsProbe) guess64Bit(home string) bool {
	x86 := p.env.get("ProgramFiles(x86)")
	if x86 == "" {
		return true
	}
	return !strings.HasPrefix(strings.ToLower(filepath.Clean(home)), strings.ToLower(filepath.Clean(x86)))
}

func dedupScans(scans []java.CandidateScan) []java.CandidateScan {
	seen := make(map[string]bool, len(scans))
	out := scans[:0]
	for _, s := range scans {
		key := strings.ToLower(filepath.Clean(s.Dir)) + "|" + s.Prefix
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

var _ Probe = (*windowsProbe)(nil)
