// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package config loads the engine's process-wide configuration from CLI
// flags, environment variables and defaults, via viper and pflag.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the engine's process-wide knobs. Per spec §6, the engine
// itself takes no configuration beyond the default occurrence cap; the rest
// is ambient (logging, the demo CLI's listen address, the notification
// topic name).
type Config struct {
	// OccurrenceCap bounds an unbounded occurrence stream absent an
	// explicit time window or COUNT/UNTIL.
	OccurrenceCap int `mapstructure:"occurrence-cap"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// ListenAddr is loaded but not read by cmd/redical-cli, which always
	// takes its commands from stdin or a -f script file.
	ListenAddr string `mapstructure:"listen-addr"`

	// NotifyTopic names the in-memory pub/sub topic keyspace notifications
	// are published on.
	NotifyTopic string `mapstructure:"notify-topic"`
}

// Load parses CLI flags (falling back to environment variables prefixed
// REDICAL_, then defaults) into a Config.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("redical", pflag.ContinueOnError)
	// cmd/redical-cli accepts its own flags (e.g. -f/--file) on the same
	// argv; this flag set only cares about the ones it defines below.
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Int("occurrence-cap", 1000, "default cap on materialized occurrences for an unbounded query")
	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("log-format", "json", "log output format: json or console")
	fs.String("listen-addr", "", "listen address (not read by the demo CLI, which uses a stdin REPL)")
	fs.String("notify-topic", "redical-events", "pub/sub topic keyspace notifications are published on")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("REDICAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.OccurrenceCap <= 0 {
		cfg.OccurrenceCap = 1000
	}
	return &cfg, nil
}
