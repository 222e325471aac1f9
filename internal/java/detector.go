package java

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExecutableName returns the java launcher file name for goos
func ExecutableName(goos string) string {
	if goos == "windows" {
		return "java.exe"
	}
	return "java"
}

// caseInsensitiveFS is true on hosts whose default filesystem ignores case
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// NormalizeRoot maps any form a candidate is discovered in to the runtime's
// install root: the java executable walks up two levels, a bin directory
// walks up one.
func NormalizeRoot(path string) string {
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if isFile(path) {
		// Probably referring directly to bin/java
		return filepath.Dir(filepath.Dir(path))
	}
	if strings.EqualFold(filepath.Base(path), "bin") {
		return filepath.Dir(path)
	}
	return path
}

// RootKey is the deduplication key for a candidate path
func RootKey(path string) string {
	return foldRoot(NormalizeRoot(path))
}

// foldRoot turns an already normalized root into its key
func foldRoot(root string) string {
	if caseInsensitiveFS {
		return strings.ToLower(root)
	}
	return root
}

// IsValidJavaPath checks if a path is a valid Java installation
func IsValidJavaPath(path, exe string) bool {
	return isFile(filepath.Join(path, "bin", exe))
}

// IsValidSearchPath checks if a path is a valid directory to search for Java installations
func IsValidSearchPath(path string) bool {
	return isDir(path)
}

// FromPath converts a candidate path into a Runtime. The path may point at
// the install root, its bin directory or the java executable. Candidates
// without bin/<exe>, directly or under jre/, are rejected; a missing
// release file only leaves the version unset.
func FromPath(path, exe string) (Runtime, bool) {
	target := NormalizeRoot(path)
	if target == "" {
		return Runtime{}, false
	}

	home := target
	if !IsValidJavaPath(home, exe) {
		home = filepath.Join(target, "jre")
		if !IsValidJavaPath(home, exe) {
			return Runtime{}, false
		}
	}

	release, ok := ReadRelease(target)
	if !ok {
		return NewRuntime(home, "", hostIs64Bit()), true
	}
	return NewRuntime(home, release.Version, release.Is64Bit), true
}

// CandidateScan describes a shallow scan of a parent directory whose
// children are Java installs
type CandidateScan struct {
	Dir        string   // parent directory to list
	Executable string   // java launcher name
	Prefix     string   // keep only children starting with Prefix (case-insensitive)
	Home       string   // path from a child to its install root, e.g. Contents/Home
	Skip       []string // child names to ignore
}

// Run lists the matching install roots. A missing or unreadable parent
// yields nil.
func (s CandidateScan) Run() []string {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil
	}

	var found []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if s.Prefix != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(s.Prefix)) {
			continue
		}
		if s.skipped(name) {
			continue
		}

		home := filepath.Join(s.Dir, name, filepath.FromSlash(s.Home))
		if IsValidJavaPath(home, s.Executable) || IsValidJavaPath(filepath.Join(home, "jre"), s.Executable) {
			found = append(found, home)
		}
	}
	return found
}

func (s CandidateScan) skipped(name string) bool {
	for _, skip := range s.Skip {
		if strings.EqualFold(skip, name) {
			return true
		}
	}
	return false
}
