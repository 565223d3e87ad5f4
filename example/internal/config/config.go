// Package config loads the handful of knobs the demo server honors,
// reading from environment variables with viper so the defaults can be
// overridden the same way a real deployment would.
package config

import "github.com/spf13/viper"

type Settings struct {
	Addr           string
	LogLevel       string
	GraphOutputDir string
}

// Load reads settings from DEMO_-prefixed environment variables,
// falling back to sane local-dev defaults.
func Load() Settings {
	v := viper.New()
	v.SetEnvPrefix("demo")
	v.AutomaticEnv()
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("graph_output_dir", "")

	return Settings{
		Addr:           v.GetString("addr"),
		LogLevel:       v.GetString("log_level"),
		GraphOutputDir: v.GetString("graph_output_dir"),
	}
}
