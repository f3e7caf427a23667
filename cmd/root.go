package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/itsmostafa/userdocs/internal/build"
	"github.com/itsmostafa/userdocs/internal/config"
	"github.com/itsmostafa/userdocs/internal/version"
	"github.com/spf13/cobra"
)

var configFile string
var verbose bool
var quiet bool

var baseDir string
var outDir string
var replaceExt string
var include []string
var exclude []string
var maxDepth int

var rootCmd = &cobra.Command{
	Use:   "userdocs",
	Short: "Generate tagged user documentation pages from source comments",
	Long: `userdocs extracts the BeginUserDocs ... EndUserDocs blocks embedded in source
files, turns each one into a reStructuredText page and generates index pages
for every combination of the tags the blocks declare.

Settings are read from userdocs.toml (or --config), USERDOCS_* environment
variables and command-line flags, in increasing order of precedence.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("userdocs %s\n", version.String()))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (.toml, .yaml); defaults to "+config.DefaultFile+" if present")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every scanned file and section")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")

	flags.StringVar(&baseDir, "basedir", "", "Directory to scan for sources")
	flags.StringVar(&outDir, "outdir", "", "Directory to write pages and indices to")
	flags.StringVar(&replaceExt, "ext", "", "Extension of generated pages")
	flags.StringSliceVar(&include, "include", nil, "File name patterns to scan (repeatable)")
	flags.StringSliceVar(&exclude, "exclude", nil, "File and directory name patterns to skip (repeatable)")
	flags.IntVar(&maxDepth, "max-depth", 0, "Maximum index depth")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns a leveled logger writing styled output to stderr.
func newLogger() *slog.Logger {
	level := log.InfoLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.WarnLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	return slog.New(handler)
}

// loadConfig layers the config file, the environment and the flags that
// were set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("basedir") {
		cfg.BaseDir = baseDir
	}
	if flags.Changed("outdir") {
		cfg.OutDir = outDir
	}
	if flags.Changed("ext") {
		cfg.ReplaceExt = replaceExt
	}
	if flags.Changed("include") {
		cfg.Include = include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = exclude
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildOptions loads the configuration and turns it into build options.
func buildOptions(cmd *cobra.Command) (build.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return build.Options{}, err
	}
	return build.OptionsFromConfig(cfg, newLogger()), nil
}
