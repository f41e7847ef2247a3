package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go.klb.dev/copybuffer/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CB_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CB_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("copybuffer")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/copybuffer/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "copybuffer"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a flag set.
func addLoggingFlags(f *pflag.FlagSet) {
	f.String("log-format", "auto", "log format: auto|text|json")
	f.String("log-level", "", "log level: debug|info|warn|error (default: warn, debug with --debug)")
}

// addConfigFlag adds the --config flag to a flag set.
func addConfigFlag(f *pflag.FlagSet) {
	f.String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	fallback := slog.LevelWarn
	if v.GetBool("debug") {
		fallback = slog.LevelDebug
	}
	logging.Setup(logging.ParseFormat(v.GetString("log-format")), logging.ParseLevel(v.GetString("log-level"), fallback))
}
