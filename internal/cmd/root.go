package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonseok-han/indexgen/internal/config"
	"github.com/wonseok-han/indexgen/internal/generator"
	"github.com/wonseok-han/indexgen/internal/logger"
	"github.com/wonseok-han/indexgen/internal/watcher"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for indexgen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexgen",
		Short: "Generate barrel index files for TypeScript folders",
		Long: `indexgen scans folders and generates index.ts files that re-export
the modules next to them, optionally regenerating them on file changes.

Configuration is loaded from .indexgen-cli, .indexgen-cli.json,
.indexgen-cli.yaml, .indexgen-cli.yml or .indexgen-cli.toml in the current
directory. CLI flags override configuration file settings.

Paths are exact folders or globs: "*" matches within one path segment and
"**" matches across segments. A pattern ending in "/**" also matches its
base folder.

Named exports are listed in the order they appear in each source file.`,
		Example: `  indexgen --paths=src/components/**
  indexgen --paths=src/components/**,src/**/ui/** --watch --exportStyle=named
  indexgen --paths=src/components/** --log=false --debug=true
  indexgen --watch`,
		Version: Version,
		Args:    cobra.NoArgs,
		// main prints the error; usage is printed only for flag errors
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.Flags().String(flagPaths, "", "Folder paths to process, comma separated (exact paths or globs)")
	cmd.Flags().String(flagOutputFile, "", "Name of the index file to generate (default: index.ts)")
	cmd.Flags().String(flagFileExtensions, "", "File extensions to export, comma separated (e.g. .tsx,.ts)")
	cmd.Flags().String(flagExcludes, "", "File patterns to exclude, comma separated (e.g. *.d.ts,*.png)")
	cmd.Flags().String(flagExportStyle, "", "Export style: default, named, star, star-as, mixed, auto")
	cmd.Flags().String(flagNamingConvention, "", "File name conversion: camelCase, original, PascalCase")
	cmd.Flags().Bool(flagFromWithExtension, false, "Keep the file extension in import paths")
	cmd.Flags().Bool(flagLog, true, "Enable log output")
	cmd.Flags().Bool(flagDebug, false, "Enable debug output")
	cmd.Flags().Bool(flagWatch, false, "Watch for file changes and regenerate")

	// unknown flags print usage and fail
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return err
	})

	return cmd
}

func runRoot(cmd *cobra.Command, _ []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.OutOrStdout(), true, false)
	cfg := config.LoadConfigFromDir(cwd, log)
	applyLogging(log, cfg, opts)

	mode := DeriveMode(cfg.HasTargetPaths(), len(opts.Overrides.Paths) > 0, opts.HasConfigOptions)
	log.LogInfo(fmt.Sprintf("Applied mode: %s", mode))

	folderPath := ""
	switch mode {
	case ModeHybrid:
		folderPath = opts.Overrides.Paths[0]
	case ModeCLIOnly:
		if len(opts.Overrides.Paths) == 0 {
			log.LogError("Folder path must be specified in CLI-only mode.")
			return nil
		}
		folderPath = opts.Overrides.Paths[0]
	case ModeConfigBased:
		if len(opts.Overrides.Paths) > 0 {
			folderPath = opts.Overrides.Paths[0]
		}
	}

	if opts.Watch {
		return runWatch(cmd, folderPath, cfg, opts.Overrides, cwd, log)
	}

	generator.New(cfg, cwd, log).Generate(folderPath, opts.Overrides)
	return nil
}

// runWatch blocks until SIGINT or SIGTERM.
func runWatch(cmd *cobra.Command, folderPath string, cfg *config.IndexGenConfig, overrides config.Overrides, cwd string, log *logger.ConsoleLogger) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watches, err := watcher.Plan(folderPath, cfg, overrides, cwd, log)
	if err != nil {
		if errors.Is(err, generator.ErrNoTargets) {
			log.LogError("No indexgen configuration found in config file.")
			return nil
		}
		return err
	}

	if folderPath == "" {
		log.LogInfo("Starting watch mode with config file...")
	}

	gen := generator.New(cfg, cwd, log)
	return watcher.New(gen, watches, overrides, cwd, log).Run(ctx)
}

// applyLogging sets the toggles from the config file, then from flags.
func applyLogging(log *logger.ConsoleLogger, cfg *config.IndexGenConfig, opts options) {
	logEnabled, debugEnabled := true, false
	if cfg != nil {
		logEnabled, debugEnabled = cfg.Log, cfg.Debug
	}
	if opts.Log != nil {
		logEnabled = *opts.Log
	}
	if opts.Debug != nil {
		debugEnabled = *opts.Debug
	}
	log.SetEnabled(logEnabled, debugEnabled)
}
