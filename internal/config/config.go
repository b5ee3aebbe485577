package config

import (
	"fmt"
	"strings"

	"github.com/wonseok-han/indexgen/internal/naming"
)

// ExportStyle selects the shape of generated re-export statements.
type ExportStyle string

const (
	ExportNamed   ExportStyle = "named"
	ExportDefault ExportStyle = "default"
	ExportStar    ExportStyle = "star"
	ExportStarAs  ExportStyle = "star-as"
	ExportMixed   ExportStyle = "mixed"
	ExportAuto    ExportStyle = "auto"
)

// ExportStyles lists every supported export style in help order.
var ExportStyles = []ExportStyle{ExportDefault, ExportNamed, ExportStar, ExportStarAs, ExportMixed, ExportAuto}

// NamingConvention selects how file names become identifiers.
type NamingConvention string

const (
	NamingCamelCase  NamingConvention = naming.CamelCase
	NamingPascalCase NamingConvention = naming.PascalCase
	NamingOriginal   NamingConvention = naming.Original
)

// NamingConventions lists every supported naming convention.
var NamingConventions = []NamingConvention{NamingCamelCase, NamingOriginal, NamingPascalCase}

// DefaultOutputFile is the index file name used when none is configured.
const DefaultOutputFile = "index.ts"

// TargetConfig is one rule set applied to the directories its paths select.
type TargetConfig struct {
	// Paths are exact directory paths or glob patterns, relative to the working directory
	Paths []string `json:"paths" yaml:"paths" toml:"paths"`

	// OutputFile is the name of the generated index file
	OutputFile string `json:"outputFile" yaml:"outputFile" toml:"outputFile"`

	// FileExtensions lists the extensions (with leading dot) of files to re-export
	FileExtensions []string `json:"fileExtensions" yaml:"fileExtensions" toml:"fileExtensions"`

	// ExportStyle is the shape of each generated statement
	ExportStyle ExportStyle `json:"exportStyle" yaml:"exportStyle" toml:"exportStyle"`

	// NamingConvention controls identifiers derived from file names
	NamingConvention NamingConvention `json:"namingConvention" yaml:"namingConvention" toml:"namingConvention"`

	// FromWithExtension keeps the file extension in the import specifier
	FromWithExtension bool `json:"fromWithExtension" yaml:"fromWithExtension" toml:"fromWithExtension"`

	// Excludes are file name rules ("*.ext", "*suffix", exact name, or a path glob containing "/")
	Excludes []string `json:"excludes" yaml:"excludes" toml:"excludes"`
}

// IndexGenConfig is the content of a config file merged with defaults.
type IndexGenConfig struct {
	Targets []TargetConfig `json:"targets" yaml:"targets" toml:"targets"`
	Log     bool           `json:"log" yaml:"log" toml:"log"`
	Debug   bool           `json:"debug" yaml:"debug" toml:"debug"`

	// Source is the file the configuration was loaded from
	Source string `json:"-" yaml:"-" toml:"-"`
}

// DefaultTarget returns the built-in target every configured target is merged onto.
func DefaultTarget() TargetConfig {
	return TargetConfig{
		Paths:             []string{},
		OutputFile:        DefaultOutputFile,
		FileExtensions:    []string{".tsx", ".ts"},
		ExportStyle:       ExportAuto,
		NamingConvention:  NamingPascalCase,
		FromWithExtension: false,
		Excludes:          []string{"*.d.ts"},
	}
}

// DefaultConfig returns an IndexGenConfig with sensible default values
func DefaultConfig() *IndexGenConfig {
	return &IndexGenConfig{
		Targets: []TargetConfig{DefaultTarget()},
		Log:     true,
		Debug:   false,
	}
}

// HasTargetPaths reports whether the first target declares at least one path.
func (c *IndexGenConfig) HasTargetPaths() bool {
	return c != nil && len(c.Targets) > 0 && len(c.Targets[0].Paths) > 0
}

// Clone returns a deep copy so callers can never mutate a shared target.
func (t TargetConfig) Clone() TargetConfig {
	out := t
	out.Paths = cloneStrings(t.Paths)
	out.FileExtensions = cloneStrings(t.FileExtensions)
	out.Excludes = cloneStrings(t.Excludes)
	return out
}

// OutputFileName returns the configured output file or the default.
func (t TargetConfig) OutputFileName() string {
	if t.OutputFile == "" {
		return DefaultOutputFile
	}
	return t.OutputFile
}

// overlay copies every set field of src onto dst. Empty strings and nil
// slices are treated as unset; FromWithExtension only overrides when true.
func overlay(dst TargetConfig, src TargetConfig) TargetConfig {
	out := dst.Clone()
	if src.Paths != nil {
		out.Paths = cloneStrings(src.Paths)
	}
	if src.OutputFile != "" {
		out.OutputFile = src.OutputFile
	}
	if src.FileExtensions != nil {
		out.FileExtensions = cloneStrings(src.FileExtensions)
	}
	if src.ExportStyle != "" {
		out.ExportStyle = src.ExportStyle
	}
	if src.NamingConvention != "" {
		out.NamingConvention = src.NamingConvention
	}
	if src.FromWithExtension {
		out.FromWithExtension = true
	}
	if src.Excludes != nil {
		out.Excludes = cloneStrings(src.Excludes)
	}
	return out
}

// Validate validates the target values
// Returns an error if any values are invalid
func (t TargetConfig) Validate() error {
	if !t.ExportStyle.Valid() {
		return fmt.Errorf("invalid exportStyle %q, must be one of: %s", t.ExportStyle, joinStyles())
	}
	if !t.NamingConvention.Valid() {
		return fmt.Errorf("invalid namingConvention %q, must be one of: %s", t.NamingConvention, joinConventions())
	}
	if strings.TrimSpace(t.OutputFile) == "" {
		return fmt.Errorf("outputFile cannot be empty")
	}
	return nil
}

// Valid reports whether s is a supported export style.
func (s ExportStyle) Valid() bool {
	for _, known := range ExportStyles {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether n is a supported naming convention.
func (n NamingConvention) Valid() bool {
	for _, known := range NamingConventions {
		if n == known {
			return true
		}
	}
	return false
}

func joinStyles() string {
	parts := make([]string, len(ExportStyles))
	for i, s := range ExportStyles {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinConventions() string {
	parts := make([]string, len(NamingConventions))
	for i, n := range NamingConventions {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
