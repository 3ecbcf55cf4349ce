// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devonmarsh/redical/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.OccurrenceCap)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "redical-events", cfg.NotifyTopic)
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	cfg, err := config.Load([]string{"--occurrence-cap=200", "--log-level=debug", "--log-format=console"})
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.OccurrenceCap)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_RejectsNegativeOccurrenceCap(t *testing.T) {
	cfg, err := config.Load([]string{"--occurrence-cap=-5"})
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.OccurrenceCap, "a non-positive cap falls back to the default")
}

func TestLoad_ToleratesUnknownCLIFlags(t *testing.T) {
	_, err := config.Load([]string{"-f", "script.txt"})
	require.NoError(t, err)
}
