package generator

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/exports"
	"github.com/wonseok-han/indexgen/internal/logger"
	"github.com/wonseok-han/indexgen/internal/naming"
	"github.com/wonseok-han/indexgen/internal/pathmatch"
)

// entry is one classified directory entry.
type entry struct {
	name    string
	isDir   bool
	symlink bool
}

// frame is a directory on the walk stack. A frame is expanded once, which
// pushes its children, and processed when it is reached again after all of
// them.
type frame struct {
	dir      string
	entries  []entry
	expanded bool
}

// walker generates index files for one tree with one effective target.
type walker struct {
	fs       FileSystem
	synth    *exports.Synthesizer
	target   config.TargetConfig
	selector Selector
	cwd      string
	log      logger.Logger
	passID   string
}

// walk visits root and every non-hidden directory below it in post-order
// and returns one result per visited directory.
func (w *walker) walk(root string) []DirResult {
	var results []DirResult
	stack := []frame{{dir: root}}

	for len(stack) > 0 {
		top := len(stack) - 1

		if !stack[top].expanded {
			stack[top].expanded = true
			entries, err := w.list(stack[top].dir)
			if err != nil {
				results = append(results, w.fail(stack[top].dir, err))
				stack = stack[:top]
				continue
			}
			stack[top].entries = entries

			// reverse push so children are processed in listing order
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				if e.isDir && !e.symlink && !skipDir(e.name) {
					stack = append(stack, frame{dir: filepath.Join(stack[top].dir, e.name)})
				}
			}
			continue
		}

		f := stack[top]
		stack = stack[:top]
		results = append(results, w.process(f.dir, f.entries))
	}

	return results
}

// list reads dir and classifies every entry by following symlinks. An
// entry that cannot be stat'ed, such as a dangling symlink, is skipped.
func (w *walker) list(dir string) ([]entry, error) {
	dirEntries, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		e := entry{name: de.Name(), symlink: de.Type()&fs.ModeSymlink != 0}
		info, err := w.fs.Stat(filepath.Join(dir, de.Name()))
		if err != nil {
			w.log.LogWarn(fmt.Sprintf("Skipping %s: %v", filepath.Join(dir, de.Name()), err))
			continue
		}
		e.isDir = info.IsDir()
		entries = append(entries, e)
	}
	return entries, nil
}

// process writes the index file for dir if the directory is selected and
// has anything to export.
func (w *walker) process(dir string, entries []entry) DirResult {
	var files, subfolders []string
	for _, e := range entries {
		if e.isDir {
			if w.hasIndex(dir, e.name) {
				subfolders = append(subfolders, e.name)
			}
			continue
		}
		if w.shouldProcessFile(dir, e.name) {
			files = append(files, e.name)
		}
	}

	result := DirResult{Dir: dir, Files: files, Subfolders: subfolders}

	if !w.selector.Selected(dir) {
		if len(files) > 0 || len(subfolders) > 0 {
			w.log.LogDebug(fmt.Sprintf("[%s] Pattern not matched, skipping: %s", w.passID, dir))
		}
		result.Status = StatusSkipped
		result.Reason = ReasonNotSelected
		return result
	}

	if len(files) == 0 && len(subfolders) == 0 {
		w.log.LogInfo(fmt.Sprintf("No files or folders to process in %s", dir))
		result.Status = StatusSkipped
		result.Reason = ReasonEmpty
		return result
	}

	w.log.LogInfo(fmt.Sprintf("Pattern matching folder detected: %s", dir))

	var statements []string
	for _, file := range files {
		base := strings.TrimSuffix(file, extname(file))
		from := base
		if w.target.FromWithExtension {
			from = file
		}

		w.log.LogDebug(fmt.Sprintf("[%s] Processing file: %s (exportStyle: %s)", w.passID, file, w.target.ExportStyle))

		statements = append(statements, w.synth.Synthesize(exports.Source{
			File:     file,
			Path:     filepath.Join(dir, file),
			FromPath: from,
			Name:     naming.Transform(base, string(w.target.NamingConvention)),
		}, w.target.ExportStyle)...)
	}
	for _, folder := range subfolders {
		statements = append(statements, fmt.Sprintf("export * from './%s';", folder))
	}

	result.OutputPath = filepath.Join(dir, w.target.OutputFileName())
	content := strings.Join(statements, "\n") + "\n"

	written, err := w.fs.WriteFile(result.OutputPath, []byte(content))
	if err != nil {
		failed := w.fail(dir, fmt.Errorf("failed to write %s: %w", result.OutputPath, err))
		failed.Files, failed.Subfolders, failed.OutputPath = files, subfolders, result.OutputPath
		return failed
	}

	result.Status = StatusWritten
	if !written {
		result.Reason = ReasonUnchanged
		w.log.LogDebug(fmt.Sprintf("[%s] %s unchanged", w.passID, result.OutputPath))
		return result
	}

	w.log.LogInfo(fmt.Sprintf("%s created successfully (%d files, %d folders)",
		result.OutputPath, len(files), len(subfolders)))
	return result
}

func (w *walker) fail(dir string, err error) DirResult {
	w.log.LogError(fmt.Sprintf("Directory processing error (%s): %v", dir, err))
	return DirResult{Dir: dir, Status: StatusFailed, Reason: ReasonError, Err: err}
}

// hasIndex reports whether the subfolder name counts as an export source:
// it must be visible and already contain the output file.
func (w *walker) hasIndex(dir, name string) bool {
	if skipDir(name) {
		return false
	}
	_, err := w.fs.Stat(filepath.Join(dir, name, w.target.OutputFileName()))
	return err == nil
}

// shouldProcessFile applies the exclude rules, the output file
// self-exclusion and the extension filter.
//
// Exclude rules: a rule containing "/" is a doublestar glob matched against
// the file path relative to the working directory; a rule starting with "*"
// matches by suffix; anything else must equal the file name.
func (w *walker) shouldProcessFile(dir, name string) bool {
	for _, rule := range w.target.Excludes {
		switch {
		case strings.Contains(rule, "/"):
			rel := pathmatch.RelativeTo(w.cwd, filepath.Join(dir, name))
			if ok, _ := doublestar.Match(pathmatch.Normalize(rule), rel); ok {
				return false
			}
		case strings.HasPrefix(rule, "*"):
			if strings.HasSuffix(name, rule[1:]) {
				return false
			}
		case name == rule:
			return false
		}
	}

	if name == w.target.OutputFileName() {
		return false
	}

	return slices.Contains(w.target.FileExtensions, extname(name))
}

// skipDir reports whether a directory is never descended into or exported.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// extname returns the extension from the last "." of name. A name whose
// only dot is its first character has no extension.
func extname(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return name[idx:]
}
