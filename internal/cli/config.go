package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/config"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
)

// configCmd groups configuration subcommands.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: groupConfig,
	Short:   "Manage slip39 configuration",
	Long:    `Config reads and writes the slip39 configuration file under the data directory.`,
}

// configInitCmd writes a default configuration file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:     "init",
	Short:   "Write a default configuration file",
	Long:    `Init writes config.Defaults() to the configuration file path, failing if one already exists unless --force is given.`,
	Example: `  slip39 config init`,
	RunE:    runConfigInit,
}

// configShowCmd prints the effective configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the effective configuration",
	Long:    `Show prints the currently loaded configuration, including environment overrides.`,
	Example: `  slip39 config show`,
	RunE:    runConfigShow,
}

// configGetCmd prints a single configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Print a single configuration value",
	Long:    `Get prints the value at a dot-notation configuration key, such as generate.default_extendable.`,
	Example: `  slip39 config get recovery.rate_limit_per_second`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigGet,
}

// configSetCmd sets a single configuration value and saves the file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set a configuration value and save the file",
	Long:    `Set writes value to a dot-notation configuration key, such as backup.identity_file, and saves the file.`,
	Example: `  slip39 config set output.default_format json`,
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func configPath(cmd *cobra.Command) string {
	if cctx := GetCmdContext(cmd); cctx != nil && cctx.Cfg != nil {
		return config.Path(cctx.Cfg.GetHome())
	}
	return config.Path(config.DefaultHome())
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath(cmd)

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return slip39err.WithSuggestion(
				slip39err.ErrConfigInvalid,
				fmt.Sprintf("%s already exists, pass --force to overwrite", path),
			)
		}
	}

	cfg := config.Defaults()
	if err := config.Save(cfg, path); err != nil {
		return slip39err.Wrap(err, "writing configuration")
	}
	cmd.Printf("Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := Config()
	if cfg == nil {
		return slip39err.ErrConfigNotFound
	}

	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		return formatter.Print(cfg)
	}

	cmd.Printf("version: %d\n", cfg.Version)
	cmd.Printf("home: %s\n", cfg.Home)
	cmd.Printf("generate.default_extendable: %t\n", cfg.Generate.DefaultExtendable)
	cmd.Printf("generate.default_iteration_exponent: %d\n", cfg.Generate.DefaultIterationExponent)
	cmd.Printf("recovery.rate_limit_per_second: %g\n", cfg.Recovery.RateLimitPerSecond)
	cmd.Printf("recovery.rate_limit_burst: %d\n", cfg.Recovery.RateLimitBurst)
	cmd.Printf("backup.identity_file: %s\n", cfg.Backup.IdentityFile)
	cmd.Printf("security.memory_lock: %t\n", cfg.Security.MemoryLock)
	cmd.Printf("output.default_format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("output.color: %s\n", cfg.Output.Color)
	cmd.Printf("output.verbose: %t\n", cfg.Output.Verbose)
	cmd.Printf("logging.level: %s\n", cfg.Logging.Level)
	cmd.Printf("logging.file: %s\n", cfg.Logging.File)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := Config()
	if cfg == nil {
		return slip39err.ErrConfigNotFound
	}

	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Defaults()
	}

	if err := setConfigValue(cfg, args[0], args[1]); err != nil {
		return err
	}

	if err := config.Save(cfg, path); err != nil {
		return slip39err.Wrap(err, "writing configuration")
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

// getConfigValue resolves a dot-notation key against cfg.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "home":
		return cfg.Home, nil
	case "generate.default_extendable":
		return strconv.FormatBool(cfg.Generate.DefaultExtendable), nil
	case "generate.default_iteration_exponent":
		return strconv.Itoa(cfg.Generate.DefaultIterationExponent), nil
	case "recovery.rate_limit_per_second":
		return strconv.FormatFloat(cfg.Recovery.RateLimitPerSecond, 'g', -1, 64), nil
	case "recovery.rate_limit_burst":
		return strconv.Itoa(cfg.Recovery.RateLimitBurst), nil
	case "backup.identity_file":
		return cfg.Backup.IdentityFile, nil
	case "security.memory_lock":
		return strconv.FormatBool(cfg.Security.MemoryLock), nil
	case "output.default_format":
		return cfg.Output.DefaultFormat, nil
	case "output.color":
		return cfg.Output.Color, nil
	case "output.verbose":
		return strconv.FormatBool(cfg.Output.Verbose), nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.Logging.File, nil
	default:
		return "", slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("unknown configuration key %q", key))
	}
}

// setConfigValue mutates cfg at a dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "home":
		cfg.Home = value
	case "generate.default_extendable":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidBoolValue(key)
		}
		cfg.Generate.DefaultExtendable = b
	case "generate.default_iteration_exponent":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return invalidIntValue(key)
		}
		cfg.Generate.DefaultIterationExponent = n
	case "recovery.rate_limit_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return invalidNumberValue(key)
		}
		cfg.Recovery.RateLimitPerSecond = f
	case "recovery.rate_limit_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("%s must be a positive integer", key))
		}
		cfg.Recovery.RateLimitBurst = n
	case "backup.identity_file":
		cfg.Backup.IdentityFile = value
	case "security.memory_lock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidBoolValue(key)
		}
		cfg.Security.MemoryLock = b
	case "output.default_format":
		cfg.Output.DefaultFormat = value
	case "output.color":
		cfg.Output.Color = value
	case "output.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidBoolValue(key)
		}
		cfg.Output.Verbose = b
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.file":
		cfg.Logging.File = value
	default:
		return slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("unknown configuration key %q", key))
	}
	return nil
}

func invalidBoolValue(key string) error {
	return slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("%s must be true or false", key))
}

func invalidIntValue(key string) error {
	return slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("%s must be a non-negative integer", key))
}

func invalidNumberValue(key string) error {
	return slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("%s must be a non-negative number", key))
}
