package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wonseok-han/indexgen/internal/logger"
)

// ConfigFileNames lists the config files searched in the working directory,
// in priority order. The first existing, readable file wins.
var ConfigFileNames = []string{
	".indexgen-cli",
	".indexgen-cli.json",
	".indexgen-cli.yaml",
	".indexgen-cli.yml",
	".indexgen-cli.toml",
	"indexgen-cli.config.js",
	"indexgen-cli.config.mjs",
	"indexgen-cli.config.ts",
}

// ErrExecutableConfig is returned for script config files, which are never executed.
var ErrExecutableConfig = errors.New("executable config files are not supported; use .indexgen-cli.json, .indexgen-cli.yaml or .indexgen-cli.toml")

// rawTarget mirrors TargetConfig with pointer fields so that keys present in
// the file can be told apart from keys left out.
type rawTarget struct {
	Paths             *[]string `json:"paths" yaml:"paths" toml:"paths"`
	OutputFile        *string   `json:"outputFile" yaml:"outputFile" toml:"outputFile"`
	FileExtensions    *[]string `json:"fileExtensions" yaml:"fileExtensions" toml:"fileExtensions"`
	ExportStyle       *string   `json:"exportStyle" yaml:"exportStyle" toml:"exportStyle"`
	NamingConvention  *string   `json:"namingConvention" yaml:"namingConvention" toml:"namingConvention"`
	FromWithExtension *bool     `json:"fromWithExtension" yaml:"fromWithExtension" toml:"fromWithExtension"`
	Excludes          *[]string `json:"excludes" yaml:"excludes" toml:"excludes"`
}

type rawConfig struct {
	Targets []rawTarget `json:"targets" yaml:"targets" toml:"targets"`
	Log     *bool       `json:"log" yaml:"log" toml:"log"`
	Debug   *bool       `json:"debug" yaml:"debug" toml:"debug"`
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns nil without error: no config is a valid state.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*IndexGenConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	if isScriptConfig(path) {
		return nil, ErrExecutableConfig
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := decode(path, data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := mergeWithDefaults(raw)
	cfg.Source = path
	return cfg, nil
}

// LoadConfigFromDir searches dir for the first config file in ConfigFileNames.
// Unreadable, malformed and executable config files are logged and skipped.
// Returns nil when no usable config file exists.
func LoadConfigFromDir(dir string, log logger.Logger) *IndexGenConfig {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			if errors.Is(err, ErrExecutableConfig) {
				log.LogWarn(fmt.Sprintf("Skipping %s: %v", name, err))
			} else {
				log.LogError(fmt.Sprintf("Failed to read config file %s: %v", name, err))
			}
			continue
		}
		if cfg == nil {
			continue
		}

		for i, target := range cfg.Targets {
			if err := target.Validate(); err != nil {
				log.LogWarn(fmt.Sprintf("%s: target %d: %v", name, i, err))
			}
		}
		log.LogDebug(fmt.Sprintf("Loaded config from %s (%d target(s))", name, len(cfg.Targets)))
		return cfg
	}
	return nil
}

// decode parses data by the file's format. Extensionless files are JSON.
func decode(path string, data []byte, out *rawConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	case ".toml":
		_, err := toml.Decode(string(data), out)
		return err
	default:
		return json.Unmarshal(data, out)
	}
}

func isScriptConfig(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".ts":
		return true
	}
	return false
}

// mergeWithDefaults fills every field the file left out. Each target is
// merged individually against DefaultTarget.
func mergeWithDefaults(raw rawConfig) *IndexGenConfig {
	cfg := DefaultConfig()

	if raw.Targets != nil {
		cfg.Targets = make([]TargetConfig, 0, len(raw.Targets))
		for _, rt := range raw.Targets {
			cfg.Targets = append(cfg.Targets, rt.apply(DefaultTarget()))
		}
	}
	if raw.Log != nil {
		cfg.Log = *raw.Log
	}
	if raw.Debug != nil {
		cfg.Debug = *raw.Debug
	}

	return cfg
}

func (rt rawTarget) apply(t TargetConfig) TargetConfig {
	if rt.Paths != nil {
		t.Paths = cloneStrings(*rt.Paths)
	}
	if rt.OutputFile != nil {
		t.OutputFile = *rt.OutputFile
	}
	if rt.FileExtensions != nil {
		t.FileExtensions = cloneStrings(*rt.FileExtensions)
	}
	if rt.ExportStyle != nil {
		t.ExportStyle = ExportStyle(*rt.ExportStyle)
	}
	if rt.NamingConvention != nil {
		t.NamingConvention = NamingConvention(*rt.NamingConvention)
	}
	if rt.FromWithExtension != nil {
		t.FromWithExtension = *rt.FromWithExtension
	}
	if rt.Excludes != nil {
		t.Excludes = cloneStrings(*rt.Excludes)
	}
	return t
}
