package config

import (
	"fmt"

	"github.com/wonseok-han/indexgen/internal/logger"
	"github.com/wonseok-han/indexgen/internal/pathmatch"
)

// Resolve produces the effective target for folderPath.
//
// Starting from DefaultTarget, the first configured target with a path
// matching folderPath (relative to cwd) is merged in. With an empty
// folderPath the first target is used unconditionally. Overrides are applied
// last. The result is always fully populated.
func Resolve(folderPath string, cfg *IndexGenConfig, overrides Overrides, cwd string, log logger.Logger) TargetConfig {
	var matched *TargetConfig

	if cfg != nil && len(cfg.Targets) > 0 {
		if folderPath != "" {
			rel := pathmatch.RelativeTo(cwd, folderPath)
			log.LogDebug(fmt.Sprintf("Resolving target for %s", rel))

		search:
			for i := range cfg.Targets {
				for _, watchPath := range cfg.Targets[i].Paths {
					if pathmatch.Matches(rel, watchPath) {
						log.LogDebug(fmt.Sprintf("Matched target %d via %s", i, watchPath))
						matched = &cfg.Targets[i]
						break search
					}
				}
			}
		} else {
			log.LogDebug("Using first configured target")
			matched = &cfg.Targets[0]
		}
	}

	if matched == nil {
		log.LogDebug("Using default target values")
		target := DefaultTarget()
		target.MergeWithFlags(overrides)
		return target
	}

	target := Effective(*matched, overrides)
	log.LogDebug(fmt.Sprintf("Effective exportStyle: %s", target.ExportStyle))
	return target
}

// Effective merges t onto DefaultTarget and applies overrides.
func Effective(t TargetConfig, overrides Overrides) TargetConfig {
	target := overlay(DefaultTarget(), t)
	target.MergeWithFlags(overrides)
	return target
}
