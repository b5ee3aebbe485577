// Package watcher re-runs index generation when source files change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/filelock"
	"github.com/wonseok-han/indexgen/internal/generator"
	"github.com/wonseok-han/indexgen/internal/logger"
	"github.com/wonseok-han/indexgen/internal/pathmatch"
)

// Generator is the generation pipeline the orchestrator re-runs.
type Generator interface {
	Generate(folderPath string, overrides config.Overrides) generator.Report
	GenerateTarget(target config.TargetConfig, path string, overrides config.Overrides) generator.Report
}

// Watch is one watched path.
type Watch struct {
	// Path is the directory or glob as given on the command line or in the config
	Path string
	// Root is the absolute directory observed for events
	Root string
	// Pattern filters events by their directory; empty accepts every event
	Pattern string
	// OutputFile is the index file name whose own events are ignored
	OutputFile string
	// Target is the owning target in config-based mode, nil otherwise
	Target *config.TargetConfig
}

// Plan derives the watches for folderPath, or for every configured target
// path when folderPath is empty.
func Plan(folderPath string, cfg *config.IndexGenConfig, overrides config.Overrides, cwd string, log logger.Logger) ([]Watch, error) {
	if folderPath != "" {
		target := config.Resolve(folderPath, cfg, overrides, cwd, log)
		return []Watch{newWatch(folderPath, cwd, target.OutputFileName(), nil)}, nil
	}

	var watches []Watch
	if cfg != nil {
		for i := range cfg.Targets {
			t := cfg.Targets[i]
			effective := config.Effective(t, overrides)
			for _, p := range t.Paths {
				watches = append(watches, newWatch(p, cwd, effective.OutputFileName(), &t))
			}
		}
	}
	if len(watches) == 0 {
		return nil, generator.ErrNoTargets
	}
	return watches, nil
}

func newWatch(path, cwd, outputFile string, target *config.TargetConfig) Watch {
	root := pathmatch.BaseDir(path)
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}

	w := Watch{
		Path:       path,
		Root:       filepath.Clean(root),
		OutputFile: outputFile,
		Target:     target,
	}
	if pathmatch.IsGlob(path) {
		w.Pattern = path
	}
	return w
}

// Orchestrator owns the file watchers of one watch session.
type Orchestrator struct {
	gen       Generator
	watches   []Watch
	overrides config.Overrides
	cwd       string
	log       logger.Logger
	debounce  time.Duration

	group    singleflight.Group
	mu       sync.Mutex
	dirty    map[string]bool
	inflight sync.WaitGroup

	// passDone runs after the last pass of a flight, before it is released
	passDone func(path string)
}

// New creates an Orchestrator for the planned watches.
func New(gen Generator, watches []Watch, overrides config.Overrides, cwd string, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		gen:       gen,
		watches:   watches,
		overrides: overrides,
		cwd:       cwd,
		log:       log,
		debounce:  DefaultDebounceDelay,
		dirty:     make(map[string]bool),
	}
}

// SetDebounceDelay changes the write coalescing delay for watchers started
// after the call.
func (o *Orchestrator) SetDebounceDelay(d time.Duration) {
	o.debounce = d
}

// Run watches until ctx is cancelled, then closes every watcher and waits
// for in-flight passes. It returns filelock.ErrSessionActive when another
// session holds the lock in the working directory.
func (o *Orchestrator) Run(ctx context.Context) error {
	lock, err := filelock.AcquireSession(o.cwd)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	watchers := make([]*FileWatcher, 0, len(o.watches))
	closeAll := func() {
		for _, fw := range watchers {
			fw.Close()
		}
	}

	for _, w := range o.watches {
		fw, err := NewFileWatcher(w.Root, w.OutputFile)
		if err != nil {
			closeAll()
			return fmt.Errorf("failed to watch %s: %w", w.Root, err)
		}
		fw.SetDebounceDelay(o.debounce)
		watchers = append(watchers, fw)

		if w.Pattern != "" {
			o.log.LogInfo(fmt.Sprintf("Converting to watch glob pattern: %s -> %s", w.Path, w.Root))
		}
		o.log.LogInfo(fmt.Sprintf("Starting file change detection: %s", w.Path))
	}

	var loops sync.WaitGroup
	for i := range watchers {
		loops.Add(1)
		go func(w Watch, fw *FileWatcher) {
			defer loops.Done()
			o.loop(ctx, w, fw)
		}(o.watches[i], watchers[i])
	}

	<-ctx.Done()
	o.log.LogInfo("Stopping watch mode...")

	loops.Wait()
	closeAll()
	o.inflight.Wait()
	return nil
}

func (o *Orchestrator) loop(ctx context.Context, w Watch, fw *FileWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-fw.Events():
			o.handle(w, ev)
		case err := <-fw.Errors():
			o.log.LogWarn(fmt.Sprintf("Watcher error (%s): %v", w.Path, err))
		}
	}
}

func (o *Orchestrator) handle(w Watch, ev FileEvent) {
	if !o.Relevant(w, ev.Path) {
		return
	}

	o.log.LogInfo(fmt.Sprintf("File %s: %s (%s)", ev.Op, filepath.Base(ev.Path), w.Path))

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		o.regenerate(w)
	}()
}

// Relevant reports whether an event at path concerns w. Glob watches only
// accept events whose directory matches the pattern.
func (o *Orchestrator) Relevant(w Watch, path string) bool {
	if filepath.Base(path) == w.OutputFile {
		return false
	}
	if w.Pattern == "" {
		return true
	}
	return pathmatch.Matches(pathmatch.RelativeTo(o.cwd, filepath.Dir(path)), w.Pattern)
}

// regenerate runs a full pass for w. Calls made while a pass for the same
// path is running are folded into a single follow-up pass. A call that
// joins a flight after its last dirty check starts a new flight once the
// joined one is released.
func (o *Orchestrator) regenerate(w Watch) {
	o.markDirty(w.Path)

	for o.isDirty(w.Path) {
		o.group.Do(w.Path, func() (any, error) {
			for o.takeDirty(w.Path) {
				o.generate(w)
			}
			if o.passDone != nil {
				o.passDone(w.Path)
			}
			return nil, nil
		})
	}
}

func (o *Orchestrator) markDirty(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dirty[path] = true
}

func (o *Orchestrator) isDirty(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dirty[path]
}

func (o *Orchestrator) takeDirty(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.dirty[path] {
		return false
	}
	delete(o.dirty, path)
	return true
}

func (o *Orchestrator) generate(w Watch) {
	var report generator.Report
	if w.Target != nil {
		report = o.gen.GenerateTarget(*w.Target, w.Path, o.overrides)
	} else {
		report = o.gen.Generate(w.Path, o.overrides)
	}

	if failed := report.Failed(); len(failed) > 0 {
		o.log.LogWarn(fmt.Sprintf("[%s] %d director(ies) failed for %s: %v",
			report.PassID, len(failed), w.Path, errors.Join(collectErrs(failed)...)))
		return
	}
	o.log.LogDebug(fmt.Sprintf("[%s] %d index file(s) up to date for %s", report.PassID, len(report.Written()), w.Path))
}

func collectErrs(results []generator.DirResult) []error {
	errs := make([]error, 0, len(results))
	for _, r := range results {
		errs = append(errs, r.Err)
	}
	return errs
}
