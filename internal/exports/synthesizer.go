package exports

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/logger"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Source identifies one file to re-export.
type Source struct {
	// File is the directory entry name, e.g. "Button.tsx"
	File string
	// Path is the full path used to read the file
	Path string
	// FromPath is the import specifier without "./"
	FromPath string
	// Name is the identifier derived from the file name
	Name string
}

// Synthesizer produces re-export statements for one file at a time.
type Synthesizer struct {
	fsys FileReader
	log  logger.Logger
}

// NewSynthesizer creates a Synthesizer reading sources through fsys.
func NewSynthesizer(fsys FileReader, log logger.Logger) *Synthesizer {
	return &Synthesizer{fsys: fsys, log: log}
}

// Synthesize returns the statements for src in the given style.
// The named, default, star and star-as styles never touch the file; mixed
// runs the analyzer and auto checks the raw text for a default export.
// Unknown styles behave as auto.
func (s *Synthesizer) Synthesize(src Source, style config.ExportStyle) []string {
	from := src.FromPath

	switch style {
	case config.ExportNamed:
		return []string{namedDefault(src.Name, from)}
	case config.ExportDefault:
		return []string{fmt.Sprintf("export { default } from './%s';", from)}
	case config.ExportStar:
		return []string{star(from)}
	case config.ExportStarAs:
		return []string{fmt.Sprintf("export * as %s from './%s';", src.Name, from)}
	case config.ExportMixed:
		s.log.LogInfo(fmt.Sprintf("Processing with mixed style: %s", src.File))
		return Mixed(AnalyzeFile(s.fsys, src.Path, s.log), src.Name, from)
	default:
		return []string{s.auto(src)}
	}
}

// auto re-exports the default under the derived name when the raw text
// mentions a default export, otherwise re-exports everything.
func (s *Synthesizer) auto(src Source) string {
	data, err := s.fsys.ReadFile(src.Path)
	if err != nil {
		s.log.LogError(fmt.Sprintf("Failed to read %s: %v", src.Path, err))
		return star(src.FromPath)
	}

	content := string(data)
	if strings.Contains(content, "export default") || strings.Contains(content, "export { default }") {
		return namedDefault(src.Name, src.FromPath)
	}
	return star(src.FromPath)
}

// Mixed builds explicit value and type re-exports from an analysis.
//
// The default export is aliased to the first recovered default name when
// it is a valid identifier, otherwise to name. Invalid identifiers are
// dropped. When nothing survives the result is a single star re-export.
func Mixed(info ExportInfo, name, from string) []string {
	var values []string
	if info.HasDefaultExport {
		alias := name
		if len(info.DefaultExports) > 0 && identifier.MatchString(info.DefaultExports[0]) {
			alias = info.DefaultExports[0]
		}
		values = append(values, "default as "+alias)
	}
	if info.HasNamedExports {
		values = append(values, validIdentifiers(info.NamedExports)...)
	}

	types := validIdentifiers(info.TypeExports)

	var out []string
	if len(values) > 0 {
		out = append(out, fmt.Sprintf("export { %s } from './%s';", strings.Join(values, ", "), from))
	}
	if len(types) > 0 {
		out = append(out, fmt.Sprintf("export type { %s } from './%s';", strings.Join(types, ", "), from))
	}
	if len(out) == 0 {
		out = append(out, star(from))
	}
	return out
}

// IsIdentifier reports whether name can be emitted as an export binding.
func IsIdentifier(name string) bool {
	return identifier.MatchString(name)
}

func validIdentifiers(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if seen[n] || !identifier.MatchString(n) {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func namedDefault(name, from string) string {
	return fmt.Sprintf("export { default as %s } from './%s';", name, from)
}

func star(from string) string {
	return fmt.Sprintf("export * from './%s';", from)
}
