// zinput hub
// Copyright (c) 2026 zinput contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/config"
)

func TestLoader_DefaultsOnlyWhenNoFileFound(t *testing.T) {
	l := config.New("zinputd", t.TempDir())
	require.NoError(t, l.Load())

	var cfg config.Config
	require.NoError(t, l.Scan(&cfg))

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Registry.SweepInterval)
	assert.Equal(t, 1, cfg.Registry.ViewChannelCapacity)
	assert.Equal(t, 64, cfg.Pipeline.DispatchChannelCapacity)
	assert.Empty(t, cfg.VirtualDevices)
}

func TestLoader_ReadsFileAndOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zinputd.yaml", `
log:
  level: debug
registry:
  sweep_interval: 2s
virtual_devices:
  gamepad:
    source: gamepad.zi
    output: merged_pad
    inputs:
      - left_pad
      - right_pad
`)

	l := config.New("zinputd", dir)
	require.NoError(t, l.Load())

	var cfg config.Config
	require.NoError(t, l.Scan(&cfg))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.Registry.SweepInterval)
	// Untouched by the file, still defaulted.
	assert.Equal(t, 64, cfg.Pipeline.DispatchChannelCapacity)

	require.Contains(t, cfg.VirtualDevices, "gamepad")
	vd := cfg.VirtualDevices["gamepad"]
	assert.Equal(t, "gamepad.zi", vd.Source)
	assert.Equal(t, "merged_pad", vd.Output)
	assert.Equal(t, []string{"left_pad", "right_pad"}, vd.Inputs)
}

func TestLoader_SearchPathsTriedInOrder(t *testing.T) {
	empty := t.TempDir()
	populated := t.TempDir()
	writeFile(t, populated, "zinputd.yml", "log:\n  level: warn\n")

	l := config.New("zinputd", empty, populated)
	require.NoError(t, l.Load())

	var cfg config.Config
	require.NoError(t, l.Scan(&cfg))
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvOverrideWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zinputd.yaml", "log:\n  level: debug\n")

	t.Setenv("ZINPUT_LOG_LEVEL", "error")

	l := config.New("zinputd", dir)
	require.NoError(t, l.Load())

	var cfg config.Config
	require.NoError(t, l.Scan(&cfg))
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_EnvConfigOverridePointsAtExactFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", "log:\n  level: warn\n")

	t.Setenv(config.EnvOverride, filepath.Join(dir, "custom.yaml"))

	l := config.New("zinputd", t.TempDir())
	require.NoError(t, l.Load())

	var cfg config.Config
	require.NoError(t, l.Scan(&cfg))
	assert.Equal(t, "warn", cfg.Log.Level)
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}
