package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/attrgrid/internal/app"
)

// flagKeys maps command line flags to their config keys.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"log-format":     "log_format",
	"values":         "values",
	"set":            "set",
	"listen":         "listen",
	"watch":          "watch",
	"debounce":       "debounce",
	"output":         "output",
	"feed-url":       "feed_url",
	"feed-namespace": "feed_namespace",
	"feed-event":     "feed_event",
}

// initConfig binds the flags of the running command, the ATTRGRID_*
// environment and the config file into v.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".attrgrid")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ATTRGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}
	// Sheets come from positional arguments or the config file only.
	if err := v.BindEnv("sheets"); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		// It's fine if no default config file is found; we use flags and defaults.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return usageError(fmt.Errorf("failed to read config file: %w", err))
		}
	}
	return nil
}

// loadConfig resolves the final app configuration. Positional sheet paths
// replace any configured ones.
func loadConfig(v *viper.Viper, sheets []string) (*app.Config, error) {
	if len(sheets) > 0 {
		v.Set("sheets", sheets)
	}

	var raw app.Config
	if err := v.Unmarshal(&raw); err != nil {
		return nil, usageError(fmt.Errorf("invalid configuration: %w", err))
	}
	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}
