package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonseok-han/indexgen/internal/config"
)

const (
	flagPaths             = "paths"
	flagOutputFile        = "outputFile"
	flagFileExtensions    = "fileExtensions"
	flagExcludes          = "excludes"
	flagExportStyle       = "exportStyle"
	flagNamingConvention  = "namingConvention"
	flagFromWithExtension = "fromWithExtension"
	flagLog               = "log"
	flagDebug             = "debug"
	flagWatch             = "watch"
)

// configFlags mark an invocation as carrying config options for mode derivation.
var configFlags = []string{
	flagPaths, flagOutputFile, flagFileExtensions, flagExportStyle,
	flagNamingConvention, flagFromWithExtension, flagExcludes, flagLog, flagDebug,
}

// Mode is how CLI paths and config targets combine for one run.
type Mode string

const (
	ModeHybrid      Mode = "hybrid"
	ModeCLIOnly     Mode = "cli-only"
	ModeConfigBased Mode = "config-based"
)

// DeriveMode picks the run mode. hasPackageConfig means the config file's
// first target declares paths.
func DeriveMode(hasPackageConfig, hasPaths, hasConfigOptions bool) Mode {
	switch {
	case hasPackageConfig && hasPaths && hasConfigOptions:
		return ModeHybrid
	case !hasPackageConfig && hasPaths:
		return ModeCLIOnly
	case hasPackageConfig:
		return ModeConfigBased
	default:
		return ModeCLIOnly
	}
}

// options is the parsed command line.
type options struct {
	Overrides        config.Overrides
	Log              *bool
	Debug            *bool
	Watch            bool
	HasConfigOptions bool
}

// parseOptions reads only the flags given on the command line so config
// file values survive for everything else.
func parseOptions(cmd *cobra.Command) (options, error) {
	flags := cmd.Flags()
	var opts options

	for _, name := range configFlags {
		if flags.Changed(name) {
			opts.HasConfigOptions = true
			break
		}
	}

	if flags.Changed(flagPaths) {
		v, _ := flags.GetString(flagPaths)
		opts.Overrides.Paths = ParseCommaSeparated(v)
	}
	if flags.Changed(flagOutputFile) {
		if v, _ := flags.GetString(flagOutputFile); strings.TrimSpace(v) != "" {
			v = strings.TrimSpace(v)
			opts.Overrides.OutputFile = &v
		}
	}
	if flags.Changed(flagFileExtensions) {
		v, _ := flags.GetString(flagFileExtensions)
		opts.Overrides.FileExtensions = config.NormalizeExtensions(ParseCommaSeparated(v))
	}
	if flags.Changed(flagExcludes) {
		v, _ := flags.GetString(flagExcludes)
		opts.Overrides.Excludes = ParseCommaSeparated(v)
	}
	if flags.Changed(flagExportStyle) {
		if v, _ := flags.GetString(flagExportStyle); strings.TrimSpace(v) != "" {
			style := config.ExportStyle(strings.TrimSpace(v))
			opts.Overrides.ExportStyle = &style
		}
	}
	if flags.Changed(flagNamingConvention) {
		if v, _ := flags.GetString(flagNamingConvention); strings.TrimSpace(v) != "" {
			conv := config.NamingConvention(strings.TrimSpace(v))
			opts.Overrides.NamingConvention = &conv
		}
	}
	if flags.Changed(flagFromWithExtension) {
		v, _ := flags.GetBool(flagFromWithExtension)
		opts.Overrides.FromWithExtension = &v
	}
	if flags.Changed(flagLog) {
		v, _ := flags.GetBool(flagLog)
		opts.Log = &v
	}
	if flags.Changed(flagDebug) {
		v, _ := flags.GetBool(flagDebug)
		opts.Debug = &v
	}
	opts.Watch, _ = flags.GetBool(flagWatch)

	if err := opts.Overrides.Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

// ParseCommaSeparated splits value on commas, trims each entry and drops
// empty ones. Returns nil when nothing remains.
func ParseCommaSeparated(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
