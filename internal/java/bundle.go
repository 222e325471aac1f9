package java

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// BundleScanner finds runtimes a game launcher installed for its own use
// under <launcher>/runtime/<name>. Two layouts exist:
//
//	runtime/jre-x64/{bin,release}                        flat, bitness from the name
//	runtime/<name>/<platform-tag>/<name>/{bin,release}   nested, one tag only
//
// macOS packagings add jre.bundle/Contents/Home below the nested layout.
type BundleScanner struct {
	MacOS  bool
	Logger *log.Logger
}

// Scan returns every bundled runtime below dirs. Results are flagged
// VendorBundled.
func (s BundleScanner) Scan(dirs []string) []Runtime {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var found []Runtime
	for _, dir := range dirs {
		runtimes := filepath.Join(dir, "runtime")
		entries, err := os.ReadDir(runtimes)
		if err != nil {
			logger.Debug("no launcher runtimes", "dir", runtimes, "err", err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			r, ok := s.scanEntry(filepath.Join(runtimes, entry.Name()))
			if !ok {
				logger.Debug("skipping launcher runtime", "path", filepath.Join(runtimes, entry.Name()))
				continue
			}
			found = append(found, r)
		}
	}
	return found
}

func (s BundleScanner) scanEntry(potential string) (Runtime, bool) {
	name := filepath.Base(potential)

	if strings.HasPrefix(name, "jre-x") {
		is64Bit := name == "jre-x64"
		ver := ""
		if release, ok := ReadRelease(potential); ok {
			ver = release.Version
		}
		r := NewRuntime(potential, ver, is64Bit)
		r.VendorBundled = true
		r.Source = SourceBundle
		return r, true
	}

	entries, err := os.ReadDir(potential)
	if err != nil {
		return Runtime{}, false
	}
	var tags []string
	for _, e := range entries {
		if e.IsDir() {
			tags = append(tags, e.Name())
		}
	}
	if len(tags) != 1 {
		// ambiguous platform layout
		return Runtime{}, false
	}

	javaDir := filepath.Join(potential, tags[0], name)
	if s.MacOS {
		javaDir = filepath.Join(javaDir, "jre.bundle", "Contents", "Home")
	}

	release, ok := ReadRelease(javaDir)
	if !ok {
		return Runtime{}, false
	}
	r := NewRuntime(javaDir, release.Version, release.Is64Bit)
	r.VendorBundled = true
	r.Source = SourceBundle
	return r, true
}
