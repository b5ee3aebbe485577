// Package generator walks directory trees and writes barrel index files.
//
// The entry points never return errors. Every failure is logged and
// recorded in the returned Report, and processing continues with the next
// directory or path.
//
// Generate and GenerateTarget back the CLI and watch mode. GenerateDir is a
// library entry point for callers that hold a directory rather than a
// pattern; it selects directories by the paths of every configured target.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/exports"
	"github.com/wonseok-han/indexgen/internal/logger"
	"github.com/wonseok-han/indexgen/internal/pathmatch"
)

// DirStatus is the outcome for one visited directory.
type DirStatus string

const (
	StatusWritten DirStatus = "written"
	StatusSkipped DirStatus = "skipped"
	StatusFailed  DirStatus = "failed"
)

// Reasons attached to a DirResult.
const (
	ReasonNotSelected = "pattern not matched"
	ReasonEmpty       = "nothing to export"
	ReasonUnchanged   = "unchanged"
	ReasonMissing     = "folder does not exist"
	ReasonError       = "error"
)

// ErrNoTargets is recorded when config-based generation finds no target paths.
var ErrNoTargets = errors.New("no indexgen configuration found in config file")

// DirResult describes what happened to one directory.
type DirResult struct {
	Dir        string
	Status     DirStatus
	Reason     string
	Files      []string
	Subfolders []string
	OutputPath string
	Err        error
}

// Report collects the results of one generation pass in visit order.
type Report struct {
	PassID  string
	Results []DirResult
}

// Written returns the results whose index file is up to date.
func (r Report) Written() []DirResult {
	return r.filter(StatusWritten)
}

// Failed returns the results that hit an error.
func (r Report) Failed() []DirResult {
	return r.filter(StatusFailed)
}

// Result returns the result for dir, if dir was visited.
func (r Report) Result(dir string) (DirResult, bool) {
	for _, res := range r.Results {
		if res.Dir == dir {
			return res, true
		}
	}
	return DirResult{}, false
}

func (r Report) filter(status DirStatus) []DirResult {
	var out []DirResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// Generator runs generation passes against one loaded configuration.
type Generator struct {
	fs    FileSystem
	cfg   *config.IndexGenConfig
	cwd   string
	log   logger.Logger
	synth *exports.Synthesizer
}

// New creates a Generator on the local disk. cfg may be nil when no config
// file was found. Relative paths are resolved against cwd.
func New(cfg *config.IndexGenConfig, cwd string, log logger.Logger) *Generator {
	return NewWithFileSystem(OSFileSystem{}, cfg, cwd, log)
}

// NewWithFileSystem creates a Generator on fsys.
func NewWithFileSystem(fsys FileSystem, cfg *config.IndexGenConfig, cwd string, log logger.Logger) *Generator {
	return &Generator{
		fs:    fsys,
		cfg:   cfg,
		cwd:   cwd,
		log:   log,
		synth: exports.NewSynthesizer(fsys, log),
	}
}

// Generate writes index files for folderPath, an exact directory or a glob.
//
// The concrete base directory of folderPath is walked and every directory
// matching folderPath gets an index file. With an empty folderPath every
// path of every configured target is generated with its own target.
func (g *Generator) Generate(folderPath string, overrides config.Overrides) Report {
	report := Report{PassID: newPassID()}

	if folderPath != "" {
		target := config.Resolve(folderPath, g.cfg, overrides, g.cwd, g.log)
		if g.cfg == nil {
			g.log.LogInfo("No config file, running with defaults + CLI options")
		}
		g.generatePath(&report, folderPath, target)
		return report
	}

	if !g.hasTargetPaths() {
		g.log.LogError("No indexgen configuration found in config file.")
		report.Results = append(report.Results, DirResult{Status: StatusFailed, Reason: ReasonError, Err: ErrNoTargets})
		return report
	}

	g.log.LogInfo("Generating index file with config file...")
	for _, t := range g.cfg.Targets {
		for _, watchPath := range t.Paths {
			g.log.LogInfo(fmt.Sprintf("Processing: %s", watchPath))
			g.generatePath(&report, watchPath, config.Effective(t, overrides))
		}
	}
	return report
}

// GenerateTarget writes index files for one path of a configured target,
// applying that target rather than resolving one by path.
func (g *Generator) GenerateTarget(target config.TargetConfig, path string, overrides config.Overrides) Report {
	report := Report{PassID: newPassID()}
	g.generatePath(&report, path, config.Effective(target, overrides))
	return report
}

// GenerateDir regenerates dir and everything below it, selecting
// directories by the paths of all configured targets.
func (g *Generator) GenerateDir(dir string, overrides config.Overrides) Report {
	report := Report{PassID: newPassID()}
	abs := absolute(g.cwd, dir)

	if !g.isDir(abs) {
		g.missing(&report, abs)
		return report
	}

	var targets []config.TargetConfig
	if g.cfg != nil {
		targets = g.cfg.Targets
	}

	target := config.Resolve(abs, g.cfg, overrides, g.cwd, g.log)
	report.Results = g.newWalker(report.PassID, target, TargetSelector{Targets: targets, Cwd: g.cwd}).walk(abs)
	return report
}

func (g *Generator) generatePath(report *Report, folderPath string, target config.TargetConfig) {
	pattern := folderPath
	if !pathmatch.HasRecursiveWildcard(pattern) {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	base := absolute(g.cwd, pathmatch.BaseDir(pattern))
	if !g.isDir(base) {
		g.missing(report, base)
		return
	}

	g.log.LogDebug(fmt.Sprintf("[%s] Walking %s for %s", report.PassID, base, pattern))
	results := g.newWalker(report.PassID, target, PatternSelector{Pattern: pattern, Cwd: g.cwd}).walk(base)
	report.Results = append(report.Results, results...)
}

func (g *Generator) newWalker(passID string, target config.TargetConfig, selector Selector) *walker {
	return &walker{
		fs:       g.fs,
		synth:    g.synth,
		target:   target,
		selector: selector,
		cwd:      g.cwd,
		log:      g.log,
		passID:   passID,
	}
}

func (g *Generator) missing(report *Report, dir string) {
	g.log.LogError(fmt.Sprintf("Folder does not exist: %s", dir))
	report.Results = append(report.Results, DirResult{
		Dir:    dir,
		Status: StatusFailed,
		Reason: ReasonMissing,
		Err:    fmt.Errorf("folder does not exist: %s", dir),
	})
}

func (g *Generator) isDir(path string) bool {
	info, err := g.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (g *Generator) hasTargetPaths() bool {
	if g.cfg == nil {
		return false
	}
	for _, t := range g.cfg.Targets {
		if len(t.Paths) > 0 {
			return true
		}
	}
	return false
}

func newPassID() string {
	return uuid.NewString()[:8]
}
