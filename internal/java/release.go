package java

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ReleaseFileName is the vendor metadata file at the root of a JDK or JRE
const ReleaseFileName = "release"

// ReleaseInfo holds the fields read from a release file
type ReleaseInfo struct {
	Version string
	Is64Bit bool
}

var arch64 = map[string]bool{
	"x86_64":  true,
	"amd64":   true,
	"aarch64": true,
	"arm64":   true,
	"ppc64":   true,
	"ppc64le": true,
	"s390x":   true,
	"sparcv9": true,
	"riscv64": true,
}

// ReadRelease reads the release file under root, or under root/jre for
// JDKs that embed a legacy JRE. It returns false when neither file exists
// or the file cannot be parsed.
func ReadRelease(root string) (ReleaseInfo, bool) {
	path := filepath.Join(root, ReleaseFileName)
	if !isFile(path) {
		path = filepath.Join(root, "jre", ReleaseFileName)
		if !isFile(path) {
			return ReleaseInfo{}, false
		}
	}
	return parseReleaseFile(path)
}

func parseReleaseFile(path string) (ReleaseInfo, bool) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return ReleaseInfo{}, false
	}

	sec := f.Section(ini.DefaultSection)
	value := func(name string) string {
		if !sec.HasKey(name) {
			return ""
		}
		return strings.Trim(strings.TrimSpace(sec.Key(name).String()), `"`)
	}

	info := ReleaseInfo{Version: value("JAVA_VERSION")}
	if info.Version == "" {
		info.Version = value("JAVA_RUNTIME_VERSION")
	}
	if info.Version == "" {
		return ReleaseInfo{}, false
	}

	if osArch := strings.ToLower(value("OS_ARCH")); osArch != "" {
		info.Is64Bit = arch64[osArch]
	} else {
		info.Is64Bit = value("SUN_ARCH_DATA_MODEL") == "64"
	}

	return info, true
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
