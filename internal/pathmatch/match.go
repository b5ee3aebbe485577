// Package pathmatch decides whether a directory path is selected by a
// target pattern.
//
// Patterns are either exact paths or globs using two wildcards: "**" matches
// any run of characters including "/", and "*" matches any run of characters
// within a single segment. A pattern ending in "/**" also matches its base
// directory. Matching is anchored to the whole path.
package pathmatch

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	repeatedSlashes = regexp.MustCompile(`/+`)
	regexMeta       = regexp.MustCompile(`[.+^${}()|\[\]\\?]`)
)

// Normalize converts backslashes to forward slashes, collapses repeated
// slashes and strips a leading "./".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = repeatedSlashes.ReplaceAllString(p, "/")
	return strings.TrimPrefix(p, "./")
}

// IsGlob reports whether p contains a wildcard.
func IsGlob(p string) bool {
	return strings.Contains(p, "*")
}

// Matches reports whether relativePath is selected by pattern. Both inputs
// are normalized first. A pattern without wildcards matches by equality.
func Matches(relativePath, pattern string) bool {
	rel := Normalize(relativePath)
	watch := Normalize(pattern)

	if !IsGlob(watch) {
		return rel == watch
	}

	return compile(watch).MatchString(rel)
}

// compile converts a normalized glob into an anchored regular expression.
// No caching: patterns are compiled on every call.
func compile(glob string) *regexp.Regexp {
	if glob == "**" {
		return regexp.MustCompile(`^.*$`)
	}

	if base, ok := strings.CutSuffix(glob, "/**"); ok {
		return regexp.MustCompile("^" + translate(base) + "(?:/.*)?$")
	}

	return regexp.MustCompile("^" + translate(glob) + "$")
}

// translate escapes regex metacharacters and rewrites the wildcards.
func translate(glob string) string {
	escaped := regexMeta.ReplaceAllStringFunc(glob, func(s string) string {
		return `\` + s
	})

	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		if escaped[i] != '*' {
			b.WriteByte(escaped[i])
			continue
		}
		if i+1 < len(escaped) && escaped[i+1] == '*' {
			b.WriteString(".*")
			i++
			continue
		}
		b.WriteString("[^/]*")
	}
	return b.String()
}

// BaseDir returns the concrete directory a pattern is rooted at: the pattern
// itself when it has no wildcard (trailing slash trimmed), otherwise the
// longest wildcard-free directory prefix, or "." when the pattern starts with
// a wildcard.
func BaseDir(pattern string) string {
	p := Normalize(pattern)
	if !IsGlob(p) {
		trimmed := strings.TrimRight(p, "/")
		if trimmed == "" {
			if p == "" {
				return "."
			}
			return "/"
		}
		return trimmed
	}

	base, _ := doublestar.SplitPattern(p)
	if base == "" {
		return "."
	}
	return base
}

// HasRecursiveWildcard reports whether the pattern contains "**".
func HasRecursiveWildcard(pattern string) bool {
	return strings.Contains(pattern, "**")
}

// RelativeTo returns target relative to base in slash form. A relative
// target is taken as relative to base already. When no relative form exists
// the target is returned in slash form unchanged.
func RelativeTo(base, target string) string {
	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
