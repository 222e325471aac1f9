package java

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExe = ExecutableName(runtime.GOOS)

// installJava creates bin/<exe> under root and, when release is non-empty,
// a release file with that content.
func installJava(t *testing.T, root, release string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", testExe), []byte("#!/bin/sh\n"), 0o755))
	if release != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, ReleaseFileName), []byte(release), 0o644))
	}
	return root
}

func releaseFile(ver, arch string) string {
	return "IMPLEMENTOR=\"Eclipse Adoptium\"\n" +
		"JAVA_VERSION=\"" + ver + "\"\n" +
		"JAVA_VERSION_DATE=\"2024-01-16\"\n" +
		"MODULES=\"java.base java.compiler java.datatransfer\"\n" +
		"OS_ARCH=\"" + arch + "\"\n" +
		"OS_NAME=\"Linux\"\n"
}

func TestReadRelease(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ReleaseInfo
		wantOK  bool
	}{
		{"64 bit", releaseFile("17.0.10", "x86_64"), ReleaseInfo{Version: "17.0.10", Is64Bit: true}, true},
		{"arm", releaseFile("21.0.2", "aarch64"), ReleaseInfo{Version: "21.0.2", Is64Bit: true}, true},
		{"32 bit", releaseFile("1.8.0_392", "i386"), ReleaseInfo{Version: "1.8.0_392", Is64Bit: false}, true},
		{"runtime version fallback", "JAVA_RUNTIME_VERSION=\"11.0.22+7\"\nSUN_ARCH_DATA_MODEL=\"64\"\n", ReleaseInfo{Version: "11.0.22+7", Is64Bit: true}, true},
		{"unquoted", "JAVA_VERSION=1.8.0_91\nOS_ARCH=amd64\n", ReleaseInfo{Version: "1.8.0_91", Is64Bit: true}, true},
		{"no version", "OS_ARCH=\"x86_64\"\n", ReleaseInfo{}, false},
		{"empty", "", ReleaseInfo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ReleaseFileName), []byte(tt.content), 0o644))

			got, ok := ReadRelease(dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadReleaseMissing(t *testing.T) {
	_, ok := ReadRelease(t.TempDir())
	assert.False(t, ok)

	_, ok = ReadRelease(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.False(t, ok)
}

func TestReadReleaseFromEmbeddedJRE(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jre"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jre", ReleaseFileName), []byte(releaseFile("1.8.0_202", "amd64")), 0o644))

	got, ok := ReadRelease(dir)
	require.True(t, ok)
	assert.Equal(t, "1.8.0_202", got.Version)
}

func TestNormalizeRoot(t *testing.T) {
	root := installJava(t, filepath.Join(t.TempDir(), "jdk-17"), releaseFile("17.0.10", "x86_64"))

	forms := []string{
		root,
		filepath.Join(root, "bin"),
		filepath.Join(root, "bin", testExe),
		root + string(filepath.Separator),
	}
	for _, form := range forms {
		assert.Equal(t, root, NormalizeRoot(form), form)
		assert.Equal(t, RootKey(root), RootKey(form), form)
	}
	assert.Equal(t, "", NormalizeRoot(""))
}

func TestFromPath(t *testing.T) {
	base := t.TempDir()

	t.Run("all path forms give one runtime", func(t *testing.T) {
		root := installJava(t, filepath.Join(base, "jdk-21"), releaseFile("21.0.2", "x86_64"))
		var ids []string
		for _, form := range []string{root, filepath.Join(root, "bin"), filepath.Join(root, "bin", testExe)} {
			r, ok := FromPath(form, testExe)
			require.True(t, ok, form)
			assert.Equal(t, root, r.Root)
			assert.Equal(t, "21.0.2", r.Version)
			assert.True(t, r.Is64Bit)
			assert.False(t, r.VendorBundled)
			ids = append(ids, r.ID())
		}
		assert.Len(t, slices.Compact(ids), 1)
	})

	t.Run("missing release keeps the runtime", func(t *testing.T) {
		root := installJava(t, filepath.Join(base, "jdk-unknown"), "")
		r, ok := FromPath(root, testExe)
		require.True(t, ok)
		assert.False(t, r.HasVersion())
		assert.Equal(t, "unknown", r.DisplayVersion())
	})

	t.Run("legacy jdk with embedded jre", func(t *testing.T) {
		root := filepath.Join(base, "jdk1.8.0_202")
		installJava(t, filepath.Join(root, "jre"), "")
		require.NoError(t, os.WriteFile(filepath.Join(root, ReleaseFileName), []byte(releaseFile("1.8.0_202", "amd64")), 0o644))

		r, ok := FromPath(root, testExe)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "jre"), r.Root)
		assert.Equal(t, "1.8.0_202", r.Version)
		major, ok := r.Major()
		assert.True(t, ok)
		assert.Equal(t, 8, major)
	})

	t.Run("no executable", func(t *testing.T) {
		root := filepath.Join(base, "not-java")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
		_, ok := FromPath(root, testExe)
		assert.False(t, ok)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, ok := FromPath(filepath.Join(base, "nope"), testExe)
		assert.False(t, ok)
	})
}

func TestCompareRuntimes(t *testing.T) {
	runtimes := []Runtime{
		NewRuntime("/opt/b-unknown", "", true),
		NewRuntime("/opt/jdk8", "1.8.0_392", true),
		NewRuntime("/opt/jdk21", "21.0.2", true),
		NewRuntime("/opt/a-unknown", "", true),
		NewRuntime("/opt/jdk17", "17.0.10", true),
		NewRuntime("/opt/jdk11", "11.0.22", true),
	}
	slices.SortFunc(runtimes, CompareRuntimes)

	var roots []string
	for _, r := range runtimes {
		roots = append(roots, filepath.Base(r.Root))
	}
	assert.Equal(t, []string{"jdk21", "jdk17", "jdk11", "jdk8", "a-unknown", "b-unknown"}, roots)
}

func TestRuntimeIDIsFixedAtCreation(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "jdk-17")
	r := NewRuntime(root, "17.0.10", true)
	id := r.ID()
	assert.Equal(t, RootKey(root), id)

	// the root turning into a file later must not move the runtime
	require.NoError(t, os.WriteFile(root, nil, 0o644))
	assert.Equal(t, id, r.ID())
	assert.NotEqual(t, RootKey(root), r.ID())

	other := NewRuntime(filepath.Join(dir, "jdk-17b"), "17.0.10", true)
	assert.Equal(t, -1, CompareRuntimes(r, other))
	assert.Equal(t, 1, CompareRuntimes(other, r))
}

func TestRuntimeIDWithoutConstructor(t *testing.T) {
	r := Runtime{Root: filepath.Join("opt", "jdk-17", ".")}
	assert.Equal(t, foldRoot(filepath.Join("opt", "jdk-17")), r.ID())
}

func TestCandidateScan(t *testing.T) {
	parent := t.TempDir()
	installJava(t, filepath.Join(parent, "jdk-17.0.10"), releaseFile("17.0.10", "x86_64"))
	installJava(t, filepath.Join(parent, "jdk-21"), "")
	installJava(t, filepath.Join(parent, "jre-8"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "jdk-empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "jdk-file"), nil, 0o644))

	t.Run("prefix", func(t *testing.T) {
		got := CandidateScan{Dir: parent, Executable: testExe, Prefix: "jdk"}.Run()
		assert.ElementsMatch(t, []string{
			filepath.Join(parent, "jdk-17.0.10"),
			filepath.Join(parent, "jdk-21"),
		}, got)
	})

	t.Run("all children with skip", func(t *testing.T) {
		got := CandidateScan{Dir: parent, Executable: testExe, Skip: []string{"JRE-8"}}.Run()
		assert.Len(t, got, 2)
	})

	t.Run("nested home", func(t *testing.T) {
		vms := t.TempDir()
		installJava(t, filepath.Join(vms, "temurin-21.jdk", "Contents", "Home"), releaseFile("21.0.2", "aarch64"))
		got := CandidateScan{Dir: vms, Executable: testExe, Home: "Contents/Home"}.Run()
		assert.Equal(t, []string{filepath.Join(vms, "temurin-21.jdk", "Contents", "Home")}, got)
	})

	t.Run("missing parent", func(t *testing.T) {
		assert.Empty(t, CandidateScan{Dir: filepath.Join(parent, "nope"), Executable: testExe}.Run())
	})
}
