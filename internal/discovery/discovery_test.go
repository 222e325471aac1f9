package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jvscan/internal/java"
	"jvscan/internal/platform"
)

type fakeProbe struct {
	launchers  []string
	candidates []string
	extra      []java.Runtime
	// block, when set, holds CandidateJavaRoots until it is closed or the
	// context ends
	block chan struct{}
	panic bool
}

func (p *fakeProbe) LauncherDirectories(context.Context) []string { return p.launchers }

func (p *fakeProbe) CandidateJavaRoots(ctx context.Context) []string {
	if p.panic {
		panic("candidate scan exploded")
	}
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil
		}
	}
	return p.candidates
}

func (p *fakeProbe) ExtraRuntimes(context.Context) []java.Runtime { return p.extra }

func newTestFinder(p platform.Probe, opts ...Option) *Finder {
	base := []Option{WithProbe(p), WithKind(platform.Linux), WithExecutable("java")}
	return New(append(base, opts...)...)
}

func installJava(t *testing.T, root, ver string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "java"), []byte("#!/bin/sh\n"), 0o755))
	if ver != "" {
		release := "JAVA_VERSION=\"" + ver + "\"\nOS_ARCH=\"x86_64\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, java.ReleaseFileName), []byte(release), 0o644))
	}
	return root
}

func versions(runtimes []java.Runtime) []string {
	out := make([]string, 0, len(runtimes))
	for _, r := range runtimes {
		out = append(out, r.Version)
	}
	return out
}

func TestListSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	probe := &fakeProbe{candidates: []string{
		installJava(t, filepath.Join(dir, "jdk-11.0.2"), "11.0.2"),
		installJava(t, filepath.Join(dir, "mystery"), ""),
		installJava(t, filepath.Join(dir, "jdk-17.0.9"), "17.0.9"),
		installJava(t, filepath.Join(dir, "jdk8"), "1.8.0_322"),
		installJava(t, filepath.Join(dir, "jdk-11.0.20"), "11.0.20"),
	}}

	runtimes := newTestFinder(probe).List(context.Background())
	assert.Equal(t, []string{"17.0.9", "11.0.20", "11.0.2", "1.8.0_322", ""}, versions(runtimes))
	for _, r := range runtimes {
		assert.Equal(t, java.SourceSystem, r.Source)
	}
}

func TestListDeduplicatesAcrossSources(t *testing.T) {
	launcher := t.TempDir()
	root := filepath.Join(launcher, "runtime", "jre-x64")
	installJava(t, root, "1.8.0_51")

	probe := &fakeProbe{
		launchers:  []string{launcher},
		candidates: []string{root, filepath.Join(root, "bin")},
		extra:      []java.Runtime{java.NewRuntime(filepath.Join(root, "bin", "java"), "1.8.0_51", true)},
	}

	runtimes := newTestFinder(probe).List(context.Background())
	require.Len(t, runtimes, 1)
	assert.True(t, runtimes[0].VendorBundled, "bundle entry should win the dedup")
	assert.Equal(t, java.SourceBundle, runtimes[0].Source)
}

func TestListNormalizesCandidatePaths(t *testing.T) {
	root := installJava(t, filepath.Join(t.TempDir(), "jdk-21"), "21.0.1")
	probe := &fakeProbe{candidates: []string{
		filepath.Join(root, "bin", "java"),
		filepath.Join(root, "bin"),
		root,
		root + string(filepath.Separator),
	}}

	runtimes := newTestFinder(probe).List(context.Background())
	require.Len(t, runtimes, 1)
	assert.Equal(t, java.NormalizeRoot(root), runtimes[0].Root)
}

func TestListMissingRoots(t *testing.T) {
	dir := t.TempDir()
	probe := &fakeProbe{
		launchers:  []string{filepath.Join(dir, "no-launcher")},
		candidates: []string{filepath.Join(dir, "no-jdk"), filepath.Join(dir, "no-jdk", "bin", "java")},
	}

	runtimes := newTestFinder(probe).List(context.Background())
	assert.NotNil(t, runtimes)
	assert.Empty(t, runtimes)
}

func TestListWithoutProbe(t *testing.T) {
	f := New(WithKind(platform.Unknown))
	assert.Empty(t, f.List(context.Background()))

	_, ok := f.ResolveAny(context.Background())
	assert.False(t, ok)
	_, ok = f.ResolveBest(context.Background(), 17)
	assert.False(t, ok)
}

func TestListIncludesExtraRuntimes(t *testing.T) {
	root := installJava(t, filepath.Join(t.TempDir(), "registered"), "")
	extra := java.NewRuntime(root, "17.0.1", true)
	extra.Source = java.SourceRegistry

	runtimes := newTestFinder(&fakeProbe{extra: []java.Runtime{extra}}).List(context.Background())
	require.Len(t, runtimes, 1)
	assert.Equal(t, java.SourceRegistry, runtimes[0].Source)
	assert.Equal(t, "17.0.1", runtimes[0].Version)
}

func TestListTimeout(t *testing.T) {
	launcher := t.TempDir()
	installJava(t, filepath.Join(launcher, "runtime", "jre-x64"), "1.8.0_51")

	block := make(chan struct{})
	defer close(block)
	probe := &fakeProbe{
		launchers:  []string{launcher},
		candidates: []string{installJava(t, filepath.Join(t.TempDir(), "jdk-17"), "17")},
		block:      block,
	}

	start := time.Now()
	runtimes := newTestFinder(probe, WithTimeout(50*time.Millisecond)).List(context.Background())
	assert.Less(t, time.Since(start), 5*time.Second)

	// only the bundle scan reported in time
	require.Len(t, runtimes, 1)
	assert.Equal(t, "1.8.0_51", runtimes[0].Version)
}

func TestListRecoversFromPanickingSource(t *testing.T) {
	launcher := t.TempDir()
	installJava(t, filepath.Join(launcher, "runtime", "jre-x64"), "1.8.0_51")

	probe := &fakeProbe{launchers: []string{launcher}, panic: true}
	runtimes := newTestFinder(probe).List(context.Background())
	require.Len(t, runtimes, 1)
	assert.True(t, runtimes[0].VendorBundled)
}

func TestResolveBest(t *testing.T) {
	dir := t.TempDir()
	probe := &fakeProbe{candidates: []string{
		installJava(t, filepath.Join(dir, "a"), "1.8.0_322"),
		installJava(t, filepath.Join(dir, "b"), "11.0.2"),
		installJava(t, filepath.Join(dir, "c"), "11.0.14"),
		installJava(t, filepath.Join(dir, "d"), "17.0.5"),
	}}
	f := newTestFinder(probe)

	tests := []struct {
		major int
		want  string
		found bool
	}{
		{major: 11, want: "11.0.14", found: true},
		{major: 8, want: "1.8.0_322", found: true},
		{major: 17, want: "17.0.5", found: true},
		{major: 21, found: false},
	}
	for _, tt := range tests {
		r, ok := f.ResolveBest(context.Background(), tt.major)
		assert.Equal(t, tt.found, ok, "major %d", tt.major)
		assert.Equal(t, tt.want, r.Version, "major %d", tt.major)
	}
}

func TestResolveBestSkipsUnversioned(t *testing.T) {
	probe := &fakeProbe{candidates: []string{installJava(t, filepath.Join(t.TempDir(), "jdk-17"), "")}}
	_, ok := newTestFinder(probe).ResolveBest(context.Background(), 17)
	assert.False(t, ok)
}

func TestResolveAny(t *testing.T) {
	dir := t.TempDir()
	probe := &fakeProbe{candidates: []string{
		installJava(t, filepath.Join(dir, "old"), "1.8.0_322"),
		installJava(t, filepath.Join(dir, "unknown"), ""),
		installJava(t, filepath.Join(dir, "new"), "21.0.2"),
	}}

	r, ok := newTestFinder(probe).ResolveAny(context.Background())
	require.True(t, ok)
	assert.Equal(t, "21.0.2", r.Version)
}

func TestListIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	var roots []string
	for _, name := range []string{"x", "y", "z"} {
		roots = append(roots, installJava(t, filepath.Join(dir, name), ""))
	}
	reversed := []string{roots[2], roots[1], roots[0]}

	a := newTestFinder(&fakeProbe{candidates: roots}).List(context.Background())
	b := newTestFinder(&fakeProbe{candidates: reversed}, WithConcurrency(1)).List(context.Background())
	assert.Equal(t, a, b)
}
