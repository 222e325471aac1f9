package java

import (
	"path/filepath"
	"runtime"
	"strings"

	"jvscan/internal/version"
)

// Source records where a runtime was discovered
type Source string

const (
	SourceBundle   Source = "bundle"   // launcher-private runtime cache
	SourceSystem   Source = "system"   // conventional install directory
	SourceRegistry Source = "registry" // Windows registry JavaSoft keys
	SourceJavaHome Source = "java_home"
	SourceCustom   Source = "custom" // user-configured path
)

// Runtime represents a Java installation
type Runtime struct {
	Root          string       // Directory containing bin/java
	Version       string       // Version string (e.g., "17.0.1", "1.8.0_322"), empty if unknown
	Key           *version.Key // Parsed Version, nil if unknown
	Is64Bit       bool         // Best effort
	VendorBundled bool         // Installed privately by a launcher
	Source        Source       // Informational, not part of identity

	id string
}

// NewRuntime creates a runtime rooted at root. An empty ver leaves the
// runtime unversioned.
func NewRuntime(root, ver string, is64Bit bool) Runtime {
	r := Runtime{
		Root:    NormalizeRoot(root),
		Version: strings.TrimSpace(ver),
		Is64Bit: is64Bit,
	}
	r.id = foldRoot(r.Root)
	if r.Version != "" {
		k := version.Parse(r.Version)
		r.Key = &k
	}
	return r
}

// ID is the identity used to deduplicate runtimes found by several sources.
// It is fixed when the runtime is created and never touches the filesystem.
func (r Runtime) ID() string {
	if r.id == "" {
		return foldRoot(filepath.Clean(r.Root))
	}
	return r.id
}

// HasVersion reports whether release metadata was available
func (r Runtime) HasVersion() bool {
	return r.Key != nil
}

// Major returns the runtime's major version
func (r Runtime) Major() (int, bool) {
	if r.Key == nil {
		return 0, false
	}
	return r.Key.Major()
}

// DisplayVersion returns the version or a placeholder when unknown
func (r Runtime) DisplayVersion() string {
	if r.Version == "" {
		return "unknown"
	}
	return r.Version
}

// CompareRuntimes orders runtimes newest first. Unversioned runtimes sort
// after every versioned one; ties fall back to the root so the order never
// depends on discovery order.
func CompareRuntimes(a, b Runtime) int {
	switch {
	case a.Key != nil && b.Key != nil:
		if c := version.Compare(*b.Key, *a.Key); c != 0 {
			return c
		}
	case a.Key != nil:
		return -1
	case b.Key != nil:
		return 1
	}
	return strings.Compare(a.ID(), b.ID())
}

func hostIs64Bit() bool {
	return strings.Contains(runtime.GOARCH, "64") || runtime.GOARCH == "s390x"
}
