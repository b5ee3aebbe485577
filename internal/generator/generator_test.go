package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/logger"
)

// writeTree creates files under root. Keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// failingFS fails every write whose path contains failOn.
type failingFS struct {
	OSFileSystem
	failOn string
}

func (f failingFS) WriteFile(path string, data []byte) (bool, error) {
	if strings.Contains(filepath.ToSlash(path), f.failOn) {
		return false, errors.New("disk full")
	}
	return f.OSFileSystem.WriteFile(path, data)
}

func TestGenerateExactFolder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/components/Button.tsx": "const Button = () => null\nexport default Button\n",
		"src/components/utils.ts":   "export const clamp = () => 0\n",
		"src/components/types.d.ts": "declare const x: number\n",
		"src/components/styles.css": ".a {}\n",
		"src/components/.eslintrc":  "{}\n",
		"src/components/index.ts":   "stale\n",
	})

	g := New(nil, root, logger.NewNoOpLogger())
	report := g.Generate("src/components/", config.Overrides{})

	require.Empty(t, report.Failed())
	require.Len(t, report.Written(), 1)
	assert.Equal(t, []string{"Button.tsx", "utils.ts"}, report.Written()[0].Files)
	assert.Equal(t,
		"export { default as Button } from './Button';\nexport * from './utils';\n",
		readFile(t, root, "src/components/index.ts"))
}

func TestGenerateNestedTreeInOnePass(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/components/Card.tsx":              "export default function Card() {}\n",
		"src/components/button/Button.tsx":     "export default function Button() {}\n",
		"src/components/button/icons/Icon.tsx": "export const Icon = 1\n",
	})

	g := New(nil, root, logger.NewNoOpLogger())
	first := g.Generate("src/components/**", config.Overrides{})

	require.Empty(t, first.Failed())
	assert.Len(t, first.Written(), 3)
	assert.Equal(t, "export * from './Icon';\n", readFile(t, root, "src/components/button/icons/index.ts"))
	assert.Equal(t,
		"export { default as Button } from './Button';\nexport * from './icons';\n",
		readFile(t, root, "src/components/button/index.ts"))
	assert.Equal(t,
		"export { default as Card } from './Card';\nexport * from './button';\n",
		readFile(t, root, "src/components/index.ts"))

	// children are visited before parents
	assert.Equal(t, filepath.Join(root, "src/components"), first.Results[len(first.Results)-1].Dir)
}

func TestGenerateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a/A.tsx":     "export default 1\n",
		"src/a/b/B.tsx":   "export const b = 1\n",
		"src/c/C.ts":      "export type C = string\n",
		"src/c/d/e/E.tsx": "export default function E() {}\n",
	})

	g := New(nil, root, logger.NewNoOpLogger())
	g.Generate("src/**", config.Overrides{})

	snapshot := map[string]string{}
	for _, rel := range []string{"src/index.ts", "src/a/index.ts", "src/a/b/index.ts", "src/c/index.ts", "src/c/d/index.ts", "src/c/d/e/index.ts"} {
		snapshot[rel] = readFile(t, root, rel)
	}

	second := g.Generate("src/**", config.Overrides{})
	for _, res := range second.Written() {
		assert.Equal(t, ReasonUnchanged, res.Reason, "second pass rewrote %s", res.Dir)
	}
	for rel, content := range snapshot {
		assert.Equal(t, content, readFile(t, root, rel))
	}
}

func TestGenerateGlobSelectsOnlyMatchingDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"entities/kakao/model/user.ts": "export const user = 1\n",
		"entities/kakao/api/fetch.ts":  "export const fetch = 1\n",
		"entities/user/model/store.ts": "export const store = 1\n",
		"entities/root.ts":             "export const root = 1\n",
	})

	g := New(nil, root, logger.NewNoOpLogger())
	report := g.Generate("entities/**/model", config.Overrides{})

	assert.True(t, exists(root, "entities/kakao/model/index.ts"))
	assert.True(t, exists(root, "entities/user/model/index.ts"))
	assert.False(t, exists(root, "entities/kakao/api/index.ts"))
	assert.False(t, exists(root, "entities/kakao/index.ts"))
	assert.False(t, exists(root, "entities/index.ts"))

	res, ok := report.Result(filepath.Join(root, "entities/kakao/api"))
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, ReasonNotSelected, res.Reason)
}

func TestGenerateMissingFolder(t *testing.T) {
	root := t.TempDir()
	buf := &strings.Builder{}
	g := New(nil, root, logger.NewConsoleLogger(buf, true, false))

	report := g.Generate("does/not/exist", config.Overrides{})

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, ReasonMissing, report.Failed()[0].Reason)
	assert.Contains(t, buf.String(), "[ERROR] Folder does not exist")
}

func TestGenerateIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/broken/a.ts": "export const a = 1\n",
		"pkg/ok/b.ts":     "export const b = 1\n",
	})

	g := NewWithFileSystem(failingFS{failOn: "/broken/"}, nil, root, logger.NewNoOpLogger())
	report := g.Generate("pkg/**", config.Overrides{})

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(root, "pkg/broken"), failed[0].Dir)
	assert.Error(t, failed[0].Err)

	assert.True(t, exists(root, "pkg/ok/index.ts"))
	assert.Equal(t, "export * from './ok';\n", readFile(t, root, "pkg/index.ts"))
}

func TestGenerateSkipsDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a/x.ts": "export const x = 1\n",
		"src/y.ts":   "export const y = 1\n",
	})
	if err := os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "src", "zz-broken.ts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	buf := &strings.Builder{}
	g := New(nil, root, logger.NewConsoleLogger(buf, true, false))
	star := config.ExportStar
	report := g.Generate("src/**", config.Overrides{ExportStyle: &star})

	assert.Empty(t, report.Failed())
	assert.Equal(t, "export * from './x';\n", readFile(t, root, "src/a/index.ts"))
	assert.Equal(t, "export * from './y';\nexport * from './a';\n", readFile(t, root, "src/index.ts"))
	assert.Contains(t, buf.String(), "[WARN] Skipping")
}

func TestGenerateOverrides(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/user-profile.ts": "export const x = 1\n",
		"lib/skip.spec.ts":    "export const y = 1\n",
		"lib/legacy/old.ts":   "export const z = 1\n",
	})

	style := config.ExportStarAs
	conv := config.NamingCamelCase
	withExt := true
	out := "barrel.ts"

	g := New(nil, root, logger.NewNoOpLogger())
	g.Generate("lib/**", config.Overrides{
		ExportStyle:       &style,
		NamingConvention:  &conv,
		FromWithExtension: &withExt,
		OutputFile:        &out,
		Excludes:          []string{"*.spec.ts", "lib/legacy/**"},
	})

	assert.Equal(t, "export * as userProfile from './user-profile.ts';\n", readFile(t, root, "lib/barrel.ts"))
	assert.False(t, exists(root, "lib/legacy/barrel.ts"))
	assert.False(t, exists(root, "lib/index.ts"))
}

func TestGenerateSkipsHiddenAndNodeModules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/main.ts":                   "export const main = 1\n",
		"app/.cache/index.ts":           "export const c = 1\n",
		"app/.cache/c.ts":               "export const c = 1\n",
		"app/node_modules/pkg/index.ts": "export const p = 1\n",
	})

	g := New(nil, root, logger.NewNoOpLogger())
	report := g.Generate("app/**", config.Overrides{})

	_, visited := report.Result(filepath.Join(root, "app/.cache"))
	assert.False(t, visited)
	_, visited = report.Result(filepath.Join(root, "app/node_modules"))
	assert.False(t, visited)
	assert.Equal(t, "export * from './main';\n", readFile(t, root, "app/index.ts"))
}

func TestGenerateConfigBased(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/ui/Button.tsx":  "export default function Button() {}\n",
		"src/hooks/use-x.ts": "export default function useX() {}\nexport const helper = 1\n",
		"src/other/thing.ts": "export const thing = 1\n",
	})

	ui := config.TargetConfig{Paths: []string{"src/ui"}, ExportStyle: config.ExportNamed}
	hooks := config.TargetConfig{Paths: []string{"src/hooks"}, ExportStyle: config.ExportMixed, NamingConvention: config.NamingCamelCase}
	cfg := &config.IndexGenConfig{Targets: []config.TargetConfig{ui, hooks}, Log: true}

	g := New(cfg, root, logger.NewNoOpLogger())
	report := g.Generate("", config.Overrides{})

	require.Empty(t, report.Failed())
	assert.Equal(t, "export { default as Button } from './Button';\n", readFile(t, root, "src/ui/index.ts"))
	assert.Equal(t, "export { default as useX, helper } from './use-x';\n", readFile(t, root, "src/hooks/index.ts"))
	assert.False(t, exists(root, "src/other/index.ts"))
}

func TestGenerateWithoutTargets(t *testing.T) {
	g := New(config.DefaultConfig(), t.TempDir(), logger.NewNoOpLogger())

	report := g.Generate("", config.Overrides{})

	require.Len(t, report.Failed(), 1)
	assert.ErrorIs(t, report.Failed()[0].Err, ErrNoTargets)
}

func TestGenerateDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/ui/Button.tsx":  "export default function Button() {}\n",
		"src/lib/helpers.ts": "export const h = 1\n",
	})

	target := config.TargetConfig{Paths: []string{"src/ui"}, ExportStyle: config.ExportStar}
	cfg := &config.IndexGenConfig{Targets: []config.TargetConfig{target}}
	g := New(cfg, root, logger.NewNoOpLogger())

	// "src" itself matches no target, so defaults apply while only src/ui is selected
	report := g.GenerateDir("src", config.Overrides{})
	require.Empty(t, report.Failed())
	assert.Equal(t, "export { default as Button } from './Button';\n", readFile(t, root, "src/ui/index.ts"))
	assert.False(t, exists(root, "src/lib/index.ts"))
	assert.False(t, exists(root, "src/index.ts"))

	report = g.GenerateDir("src/ui", config.Overrides{})
	require.Empty(t, report.Failed())
	assert.Equal(t, "export * from './Button';\n", readFile(t, root, "src/ui/index.ts"))

	missing := g.GenerateDir("nope", config.Overrides{})
	assert.Len(t, missing.Failed(), 1)
}

func TestPassIDsDiffer(t *testing.T) {
	g := New(nil, t.TempDir(), logger.NewNoOpLogger())

	a := g.Generate("x", config.Overrides{})
	b := g.Generate("x", config.Overrides{})

	assert.Len(t, a.PassID, 8)
	assert.NotEqual(t, a.PassID, b.PassID)
}

func TestGenerateTarget(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"entities/user/model/user-store.ts": "export default function userStore() {}\n",
	})

	first := config.TargetConfig{Paths: []string{"entities/**"}, ExportStyle: config.ExportStar}
	second := config.TargetConfig{Paths: []string{"entities/**/model"}, ExportStyle: config.ExportNamed}
	cfg := &config.IndexGenConfig{Targets: []config.TargetConfig{first, second}}

	g := New(cfg, root, logger.NewNoOpLogger())
	report := g.GenerateTarget(second, "entities/**/model", config.Overrides{})

	require.Len(t, report.Written(), 1)
	assert.Equal(t, "export { default as UserStore } from './user-store';\n",
		readFile(t, root, "entities/user/model/index.ts"))
}
