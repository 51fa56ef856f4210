// Package cli implements the slip39 command-line interface.
//
// This package provides two ways to access CLI state:
//  1. Global variables (legacy) - for backwards compatibility
//  2. Context-based access (recommended) - via GetCmdContext(cmd)
//
// The globals are initialized in PersistentPreRunE and cleaned up in
// PersistentPostRun. New code should prefer GetCmdContext(cmd) for better
// testability and explicit dependency passing.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/config"
	"github.com/mrz1836/slip39/internal/output"
	"github.com/mrz1836/slip39/internal/version"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	// Command context for dependency injection
	cmdCtx *CommandContext
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slip39",
	Short: "Split and recover secrets with SLIP-0039 mnemonics",
	Long: `slip39 generates and recovers SLIP-0039 shared-secret mnemonics.

It splits a master secret into group-bucketed mnemonic shares, recovers the
secret from a qualifying set of shares, and manages passphrase-encrypted
backups of a full generated share set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		formatErr(err)
		return err
	}
	return nil
}

// formatErr prints the error with proper formatting.
func formatErr(err error) {
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	if fmtErr := output.FormatError(os.Stderr, err, format); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (formatting failed: %v)\n", err, fmtErr)
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return slip39err.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	configPath := config.Path(home)
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Defaults()
			cfg.Home = home
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
			cfg = config.Defaults()
			cfg.Home = home
		}
	}

	config.ApplyEnvironment(cfg)
	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	if strings.HasPrefix(cfg.Home, "~/") {
		if userHome, homeErr := os.UserHomeDir(); homeErr == nil {
			cfg.Home = filepath.Join(userHome, cfg.Home[2:])
		}
	}

	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)

	cmdCtx = NewCommandContext(cfg, logger, formatter)
	SetCmdContext(cmd, cmdCtx)

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

// Context returns the global command context.
func Context() *CommandContext {
	return cmdCtx
}

// Version information, set at build time.
//
//nolint:gochecknoglobals // Version info set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCheckOwner and versionCheckRepo identify where release checks
// for versionCheckUpdate look for the latest tag.
const (
	versionCheckOwner = "mrz1836"
	versionCheckRepo  = "slip39"
)

// versionCheckUpdate enables an extra GitHub API round trip in versionCmd
// to report whether a newer release is available.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var versionCheckUpdate bool

// versionCmd shows version information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version, build commit, and build date.`,
	Example: `  slip39 version
  slip39 version --check`,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	latest, checkErr := checkLatestRelease(cmd)

	if formatter != nil && formatter.Format() == output.FormatJSON {
		cmd.Println("{")
		cmd.Printf(`  "version": "%s",`+"\n", Version)
		cmd.Printf(`  "commit": "%s",`+"\n", GitCommit)
		cmd.Printf(`  "date": "%s"`, BuildDate)
		if versionCheckUpdate {
			cmd.Println(",")
			if checkErr != nil {
				cmd.Printf(`  "update_check_error": "%s"`+"\n", checkErr.Error())
			} else {
				cmd.Printf(`  "latest": "%s",`+"\n", latest)
				cmd.Printf(`  "update_available": %t`+"\n", version.IsNewerVersion(Version, latest))
			}
		} else {
			cmd.Println()
		}
		cmd.Println("}")
		return nil
	}

	cmd.Printf("slip39 version %s\n", Version)
	cmd.Printf("  commit: %s\n", GitCommit)
	cmd.Printf("  built:  %s\n", BuildDate)
	if versionCheckUpdate {
		switch {
		case checkErr != nil:
			cmd.Printf("  update check failed: %v\n", checkErr)
		case version.IsNewerVersion(Version, latest):
			cmd.Printf("  a newer release is available: %s\n", latest)
		default:
			cmd.Println("  up to date")
		}
	}
	return nil
}

// checkLatestRelease fetches the latest tagged release when
// versionCheckUpdate is set; it is a no-op otherwise.
func checkLatestRelease(cmd *cobra.Command) (string, error) {
	if !versionCheckUpdate {
		return "", nil
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, version.DefaultTimeout)
	defer cancel()

	release, err := version.GetLatestRelease(ctx, versionCheckOwner, versionCheckRepo)
	if err != nil {
		return "", err
	}
	return version.NormalizeVersion(release.TagName), nil
}

// Command group IDs, used to organize the root help output.
const (
	groupCore   = "core"
	groupBackup = "backup"
	groupConfig = "config"
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Secret Sharing:"},
		&cobra.Group{ID: groupBackup, Title: "Backup:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)

	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "slip39 data directory (default: ~/.slip39)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
