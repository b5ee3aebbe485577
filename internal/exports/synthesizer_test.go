package exports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/logger"
)

func TestSynthesizeFixedStyles(t *testing.T) {
	s := NewSynthesizer(mapFS{}, logger.NewNoOpLogger())
	src := Source{File: "user-profile.tsx", Path: "/x/user-profile.tsx", FromPath: "user-profile", Name: "UserProfile"}

	tests := []struct {
		style config.ExportStyle
		want  []string
	}{
		{config.ExportNamed, []string{"export { default as UserProfile } from './user-profile';"}},
		{config.ExportDefault, []string{"export { default } from './user-profile';"}},
		{config.ExportStar, []string{"export * from './user-profile';"}},
		{config.ExportStarAs, []string{"export * as UserProfile from './user-profile';"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			// files are never read for these styles; mapFS is empty
			assert.Equal(t, tt.want, s.Synthesize(src, tt.style))
		})
	}
}

func TestSynthesizeAuto(t *testing.T) {
	fsys := mapFS{
		"/x/Button.tsx": "const Button = () => null\nexport default Button\n",
		"/x/Braced.tsx": "const B = 1\nexport { default } from './b'\n",
		"/x/utils.ts":   "export const a = 1\n",
	}
	s := NewSynthesizer(fsys, logger.NewNoOpLogger())

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"default marker", Source{Path: "/x/Button.tsx", FromPath: "Button", Name: "Button"}, "export { default as Button } from './Button';"},
		{"braced default marker", Source{Path: "/x/Braced.tsx", FromPath: "Braced", Name: "Braced"}, "export { default as Braced } from './Braced';"},
		{"no default", Source{Path: "/x/utils.ts", FromPath: "utils.ts", Name: "Utils"}, "export * from './utils.ts';"},
		{"unreadable falls back to star", Source{Path: "/x/gone.ts", FromPath: "gone", Name: "Gone"}, "export * from './gone';"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, s.Synthesize(tt.src, config.ExportAuto))
		})
	}
}

func TestSynthesizeUnknownStyleBehavesAsAuto(t *testing.T) {
	fsys := mapFS{"/x/a.ts": "export default 1\n"}
	s := NewSynthesizer(fsys, logger.NewNoOpLogger())

	got := s.Synthesize(Source{Path: "/x/a.ts", FromPath: "a", Name: "A"}, config.ExportStyle("fancy"))

	assert.Equal(t, []string{"export { default as A } from './a';"}, got)
}

func TestSynthesizeMixed(t *testing.T) {
	fsys := mapFS{
		"/x/Button.tsx": `export default function Button() {}
export const SIZE = 3
export interface ButtonProps {}
`,
		"/x/empty.ts": "const local = 1\n",
	}
	s := NewSynthesizer(fsys, logger.NewNoOpLogger())

	got := s.Synthesize(Source{File: "Button.tsx", Path: "/x/Button.tsx", FromPath: "Button", Name: "Button"}, config.ExportMixed)
	assert.Equal(t, []string{
		"export { default as Button, SIZE } from './Button';",
		"export type { ButtonProps } from './Button';",
	}, got)

	got = s.Synthesize(Source{File: "empty.ts", Path: "/x/empty.ts", FromPath: "empty", Name: "Empty"}, config.ExportMixed)
	assert.Equal(t, []string{"export * from './empty';"}, got)

	got = s.Synthesize(Source{File: "gone.ts", Path: "/x/gone.ts", FromPath: "gone", Name: "Gone"}, config.ExportMixed)
	assert.Equal(t, []string{"export * from './gone';"}, got)
}

func TestMixed(t *testing.T) {
	tests := []struct {
		name string
		info ExportInfo
		want []string
	}{
		{
			name: "nothing found",
			info: ExportInfo{},
			want: []string{"export * from './x';"},
		},
		{
			name: "anonymous default uses derived name",
			info: ExportInfo{HasDefaultExport: true},
			want: []string{"export { default as Derived } from './x';"},
		},
		{
			name: "invalid default name falls back",
			info: ExportInfo{HasDefaultExport: true, DefaultExports: []string{"9lives"}},
			want: []string{"export { default as Derived } from './x';"},
		},
		{
			name: "invalid identifiers filtered",
			info: ExportInfo{HasNamedExports: true, NamedExports: []string{"ok", "type Foo", "$also_ok", "ok"}},
			want: []string{"export { ok, $also_ok } from './x';"},
		},
		{
			name: "only invalid names fall back to star",
			info: ExportInfo{HasNamedExports: true, NamedExports: []string{"a-b"}, TypeExports: []string{"1T"}},
			want: []string{"export * from './x';"},
		},
		{
			name: "types only",
			info: ExportInfo{TypeExports: []string{"A", "B"}},
			want: []string{"export type { A, B } from './x';"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mixed(tt.info, "Derived", "x"))
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("_private"))
	assert.True(t, IsIdentifier("$store"))
	assert.False(t, IsIdentifier("9abc"))
	assert.False(t, IsIdentifier("a.b"))
	assert.False(t, IsIdentifier(""))
}
