// Package discovery finds the Java runtimes installed on this host and
// picks the best one for a requested major version.
//
// A Finder asks its platform probe where runtimes may live, scans the
// launcher-bundled and system locations concurrently, merges in the runtimes
// only the platform registry knows about, and returns them newest first.
// Discovery never fails: unreadable sources are skipped and the worst case
// is an empty list.
package discovery

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"jvscan/internal/java"
	"jvscan/internal/platform"
)

// DefaultTimeout bounds a whole discovery pass
const DefaultTimeout = 15 * time.Second

// ErrNotFound is returned by callers that need an error when no runtime
// matches a query
var ErrNotFound = errors.New("no matching java runtime found")

// Finder discovers runtimes through a platform probe
type Finder struct {
	probe       platform.Probe
	kind        platform.Kind
	exe         string
	logger      *log.Logger
	timeout     time.Duration
	concurrency int
}

// Option configures a Finder
type Option func(*Finder)

// WithProbe uses p instead of the probe for the current platform
func WithProbe(p platform.Probe) Option {
	return func(f *Finder) { f.probe = p }
}

// WithKind selects the platform whose probe and executable name are used
func WithKind(k platform.Kind) Option {
	return func(f *Finder) { f.kind = k }
}

// WithLogger sets the logger for diagnostics
func WithLogger(l *log.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithTimeout bounds how long List waits for the concurrent scans
func WithTimeout(d time.Duration) Option {
	return func(f *Finder) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithConcurrency limits how many scans run at once
func WithConcurrency(n int) Option {
	return func(f *Finder) { f.concurrency = max(n, 1) }
}

// WithExecutable overrides the launcher name a candidate root must contain
func WithExecutable(name string) Option {
	return func(f *Finder) { f.exe = name }
}

// New creates a Finder. Without WithProbe it uses the probe for the
// selected platform with default options.
func New(opts ...Option) *Finder {
	f := &Finder{
		kind:        platform.Current(),
		logger:      log.New(io.Discard),
		timeout:     DefaultTimeout,
		concurrency: 2,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.exe == "" {
		f.exe = f.kind.Executable()
	}
	if f.probe == nil {
		f.probe = platform.New(f.kind, platform.Options{Logger: f.logger})
	}
	return f
}

// List returns every runtime found, newest first, with unversioned runtimes
// last. The result is never nil.
func (f *Finder) List(ctx context.Context) (runtimes []java.Runtime) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("java discovery failed", "panic", r)
			runtimes = []java.Runtime{}
		}
	}()

	if f.probe == nil {
		f.logger.Warn("java discovery is not supported on this platform", "platform", f.kind)
		return []java.Runtime{}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	scanned := f.scan(ctx)
	extra := f.guard("extra", func() []java.Runtime {
		return f.probe.ExtraRuntimes(ctx)
	})

	return merge(scanned[java.SourceBundle], scanned[java.SourceSystem], extra)
}

// ResolveBest returns the newest runtime whose major version is major
func (f *Finder) ResolveBest(ctx context.Context, major int) (java.Runtime, bool) {
	return bestFor(f.List(ctx), major)
}

// ResolveAny returns the newest runtime of any version
func (f *Finder) ResolveAny(ctx context.Context) (java.Runtime, bool) {
	runtimes := f.List(ctx)
	if len(runtimes) == 0 {
		return java.Runtime{}, false
	}
	return runtimes[0], true
}

// LauncherDirectories exposes the probe's launcher directories
func (f *Finder) LauncherDirectories(ctx context.Context) []string {
	if f.probe == nil {
		return nil
	}
	return f.probe.LauncherDirectories(ctx)
}

type scanTask struct {
	source java.Source
	run    func(context.Context) []java.Runtime
}

type scanResult struct {
	source   java.Source
	runtimes []java.Runtime
}

// scan runs the bundle and candidate scans concurrently and collects what
// finished before ctx expired. A source that did not report counts as empty.
func (f *Finder) scan(ctx context.Context) map[java.Source][]java.Runtime {
	tasks := []scanTask{
		{source: java.SourceBundle, run: f.bundled},
		{source: java.SourceSystem, run: f.candidates},
	}

	// buffered so late tasks never block after the collector has gone
	results := make(chan scanResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	go func() {
		for _, t := range tasks {
			g.Go(func() error {
				results <- scanResult{source: t.source, runtimes: f.guard(t.source, func() []java.Runtime {
					return t.run(gctx)
				})}
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	got := make(map[java.Source][]java.Runtime, len(tasks))
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return got
			}
			got[r.source] = r.runtimes
		case <-ctx.Done():
			for _, t := range tasks {
				if _, ok := got[t.source]; !ok {
					f.logger.Warn("java scan did not finish in time", "source", t.source, "timeout", f.timeout)
				}
			}
			return got
		}
	}
}

func (f *Finder) bundled(ctx context.Context) []java.Runtime {
	scanner := java.BundleScanner{MacOS: f.kind == platform.MacOS, Logger: f.logger}
	return scanner.Scan(f.probe.LauncherDirectories(ctx))
}

func (f *Finder) candidates(ctx context.Context) []java.Runtime {
	var runtimes []java.Runtime
	for _, root := range f.probe.CandidateJavaRoots(ctx) {
		if ctx.Err() != nil {
			break
		}
		r, ok := java.FromPath(root, f.exe)
		if !ok {
			f.logger.Debug("dropping candidate without a java executable", "path", root)
			continue
		}
		r.Source = java.SourceSystem
		runtimes = append(runtimes, r)
	}
	return runtimes
}

// guard isolates a source so a panic inside it empties only that source
func (f *Finder) guard(source java.Source, fn func() []java.Runtime) (runtimes []java.Runtime) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("java scan failed", "source", source, "panic", r)
			runtimes = nil
		}
	}()
	return fn()
}

// merge deduplicates by install root, keeping the first occurrence in
// argument order, and sorts the result
func merge(sources ...[]java.Runtime) []java.Runtime {
	seen := make(map[string]bool)
	merged := []java.Runtime{}
	for _, runtimes := range sources {
		for _, r := range runtimes {
			id := r.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, r)
		}
	}
	slices.SortFunc(merged, java.CompareRuntimes)
	return merged
}

func bestFor(sorted []java.Runtime, major int) (java.Runtime, bool) {
	for _, r := range sorted {
		if m, ok := r.Major(); ok && m == major {
			return r, true
		}
	}
	return java.Runtime{}, false
}
