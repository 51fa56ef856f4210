package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome              = "SLIP39_HOME"
	EnvOutputFormat      = "SLIP39_OUTPUT_FORMAT"
	EnvVerbose           = "SLIP39_VERBOSE"
	EnvLogLevel          = "SLIP39_LOG_LEVEL"
	EnvNoColor           = "NO_COLOR"
	EnvIterationExponent = "SLIP39_ITERATION_EXPONENT"
	EnvRecoveryRate      = "SLIP39_RECOVERY_RATE"
	EnvRecoveryBurst     = "SLIP39_RECOVERY_BURST"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration, mutating cfg in place. Malformed numeric overrides are
// silently ignored and, where the mistake is likely to surprise a user,
// recorded in cfg.Warnings.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	if v := os.Getenv(EnvIterationExponent); v != "" {
		if e, err := strconv.Atoi(v); err == nil && e >= 0 {
			cfg.Generate.DefaultIterationExponent = e
		} else {
			cfg.Warnings = append(cfg.Warnings, "SLIP39_ITERATION_EXPONENT: not a non-negative integer, ignoring")
		}
	}

	if v := os.Getenv(EnvRecoveryRate); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 {
			cfg.Recovery.RateLimitPerSecond = r
		} else {
			cfg.Warnings = append(cfg.Warnings, "SLIP39_RECOVERY_RATE: not a non-negative number, ignoring")
		}
	}

	if v := os.Getenv(EnvRecoveryBurst); v != "" {
		if b, err := strconv.Atoi(v); err == nil && b > 0 {
			cfg.Recovery.RateLimitBurst = b
		} else {
			cfg.Warnings = append(cfg.Warnings, "SLIP39_RECOVERY_BURST: not a positive integer, ignoring")
		}
	}
}

// parseBool parses a boolean string value, accepting the same loose
// truthy spellings as the shell scripts that set these variables.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
