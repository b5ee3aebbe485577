package config

import (
	"fmt"
	"strings"
)

// Overrides holds CLI values that take precedence over the config file.
// Nil fields were not given on the command line and leave the target untouched.
type Overrides struct {
	Paths             []string
	OutputFile        *string
	FileExtensions    []string
	Excludes          []string
	ExportStyle       *ExportStyle
	NamingConvention  *NamingConvention
	FromWithExtension *bool
}

// IsEmpty reports whether no override was given.
func (o Overrides) IsEmpty() bool {
	return o.Paths == nil && o.OutputFile == nil && o.FileExtensions == nil &&
		o.Excludes == nil && o.ExportStyle == nil && o.NamingConvention == nil &&
		o.FromWithExtension == nil
}

// MergeWithFlags merges CLI overrides into the target
// Non-nil values override configuration values
func (t *TargetConfig) MergeWithFlags(o Overrides) {
	if o.Paths != nil {
		t.Paths = cloneStrings(o.Paths)
	}
	if o.OutputFile != nil {
		t.OutputFile = *o.OutputFile
	}
	if o.FileExtensions != nil {
		t.FileExtensions = cloneStrings(o.FileExtensions)
	}
	if o.Excludes != nil {
		t.Excludes = cloneStrings(o.Excludes)
	}
	if o.ExportStyle != nil {
		t.ExportStyle = *o.ExportStyle
	}
	if o.NamingConvention != nil {
		t.NamingConvention = *o.NamingConvention
	}
	if o.FromWithExtension != nil {
		t.FromWithExtension = *o.FromWithExtension
	}
}

// Validate rejects override values no generation pass could honour.
func (o Overrides) Validate() error {
	if o.ExportStyle != nil && !o.ExportStyle.Valid() {
		return fmt.Errorf("invalid exportStyle %q, must be one of: %s", *o.ExportStyle, joinStyles())
	}
	if o.NamingConvention != nil && !o.NamingConvention.Valid() {
		return fmt.Errorf("invalid namingConvention %q, must be one of: %s", *o.NamingConvention, joinConventions())
	}
	if o.OutputFile != nil && strings.TrimSpace(*o.OutputFile) == "" {
		return fmt.Errorf("outputFile cannot be empty")
	}
	return nil
}

// NormalizeExtensions prefixes every extension with "." when missing.
func NormalizeExtensions(exts []string) []string {
	if exts == nil {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
