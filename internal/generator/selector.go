package generator

import (
	"path/filepath"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/pathmatch"
)

// Selector decides whether a visited directory gets an index file.
type Selector interface {
	Selected(dir string) bool
}

// PatternSelector selects directories matching one explicit pattern.
//
// The directory is matched relative to Cwd first. An absolute pattern is
// also matched against the absolute directory path. Failing both, the
// directory is selected when it resolves to the same absolute path as the
// pattern.
type PatternSelector struct {
	Pattern string
	Cwd     string
}

func (s PatternSelector) Selected(dir string) bool {
	if pathmatch.Matches(pathmatch.RelativeTo(s.Cwd, dir), s.Pattern) {
		return true
	}

	absDir := absolute(s.Cwd, dir)
	if filepath.IsAbs(s.Pattern) && pathmatch.Matches(filepath.ToSlash(absDir), s.Pattern) {
		return true
	}

	return absDir == absolute(s.Cwd, s.Pattern)
}

// TargetSelector selects directories matching any path of any target.
type TargetSelector struct {
	Targets []config.TargetConfig
	Cwd     string
}

func (s TargetSelector) Selected(dir string) bool {
	rel := pathmatch.RelativeTo(s.Cwd, dir)
	for _, target := range s.Targets {
		for _, watchPath := range target.Paths {
			if pathmatch.Matches(rel, watchPath) {
				return true
			}
		}
	}
	return false
}

func absolute(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}
