// Package exports inspects TypeScript/JavaScript source text and turns the
// result into re-export statements for a barrel file.
//
// Detection is a lexical heuristic over surface syntax, not a parse: it can
// miss exports produced by unusual formatting and can be fooled by code
// that only looks like an export. Callers that need exact answers should not
// rely on it.
package exports

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wonseok-han/indexgen/internal/logger"
)

// ExportInfo describes the exported surface of one source file.
// Every list is deduplicated and kept in first-seen order.
type ExportInfo struct {
	HasDefaultExport bool     `json:"hasDefaultExport"`
	HasNamedExports  bool     `json:"hasNamedExports"`
	NamedExports     []string `json:"namedExports"`
	TypeExports      []string `json:"typeExports"`
	DefaultExports   []string `json:"defaultExports"`
}

// FileReader is the read side of the file system the analyzer needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

var (
	templateLiteral = regexp.MustCompile("`(?:\\\\.|[\\s\\S])*?`")
	doubleQuoted    = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
	singleQuoted    = regexp.MustCompile(`'(?:\\.|[^'\\])*'`)

	defaultExportMarker = regexp.MustCompile(`export\s+default\s+`)
	valueExport         = regexp.MustCompile(`export\s+(?:(?:async\s+)?(?:function|const)|class|enum)\s+(\w+)`)
	typeExport          = regexp.MustCompile(`export\s+(?:interface|type)\s+(\w+)`)
	exportGroup         = regexp.MustCompile(`export\s+\{\s*([^}]+)\s*\}`)
	defaultEntry        = regexp.MustCompile(`^default\b`)
	namedDefaultExport  = regexp.MustCompile(`export\s+default\s+(?:async\s+)?(?:function|const|class)\s+(\w+)`)
)

// Analyze scans content and reports its default, named and type exports.
//
// Whole-line comments ("//", "/*", "*") and trailing "//" comments are
// dropped first, then string and template literal contents are removed so
// that keywords inside them are not counted.
func Analyze(content string, log logger.Logger) ExportInfo {
	code := stripLiterals(stripComments(content))

	info := ExportInfo{
		HasDefaultExport: defaultExportMarker.MatchString(code),
		NamedExports:     []string{},
		TypeExports:      []string{},
		DefaultExports:   []string{},
	}

	for _, m := range valueExport.FindAllStringSubmatch(code, -1) {
		info.NamedExports = appendUnique(info.NamedExports, m[1])
	}

	for _, m := range typeExport.FindAllStringSubmatch(code, -1) {
		info.TypeExports = appendUnique(info.TypeExports, m[1])
	}

	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if isCommentLine(trimmed) {
			continue
		}
		for _, m := range exportGroup.FindAllStringSubmatch(trimmed, -1) {
			for _, entry := range strings.Split(m[1], ",") {
				entry = strings.TrimSpace(entry)
				if entry == "" || defaultEntry.MatchString(entry) ||
					strings.Contains(entry, "*") || strings.Contains(entry, " as ") {
					continue
				}
				info.NamedExports = appendUnique(info.NamedExports, entry)
			}
		}
	}

	for _, m := range namedDefaultExport.FindAllStringSubmatch(code, -1) {
		// "export default class extends Base" has no name of its own
		if m[1] == "extends" {
			continue
		}
		info.DefaultExports = appendUnique(info.DefaultExports, m[1])
	}

	info.HasNamedExports = len(info.NamedExports) > 0

	log.LogDebug(fmt.Sprintf("Export analysis: default=%t named=%v types=%v defaultNames=%v",
		info.HasDefaultExport, info.NamedExports, info.TypeExports, info.DefaultExports))

	return info
}

// AnalyzeFile reads path and analyzes it. A read failure is logged and
// yields an empty ExportInfo.
func AnalyzeFile(fsys FileReader, path string, log logger.Logger) ExportInfo {
	data, err := fsys.ReadFile(path)
	if err != nil {
		log.LogError(fmt.Sprintf("Failed to analyze file %s: %v", path, err))
		return ExportInfo{NamedExports: []string{}, TypeExports: []string{}, DefaultExports: []string{}}
	}
	return Analyze(string(data), log)
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

// stripComments removes comment-only lines and cuts each remaining line at
// its first "//".
func stripComments(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isCommentLine(strings.TrimSpace(line)) {
			continue
		}
		if idx := strings.Index(line, "//"); idx != -1 {
			line = strings.TrimSpace(line[:idx])
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func stripLiterals(code string) string {
	code = templateLiteral.ReplaceAllString(code, "")
	code = doubleQuoted.ReplaceAllString(code, "")
	return singleQuoted.ReplaceAllString(code, "")
}

func appendUnique(list []string, name string) []string {
	if name == "" {
		return list
	}
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
