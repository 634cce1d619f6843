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

// Package config loads zinputd's runtime configuration from a YAML file
// plus environment overrides and unifies them into a single Config,
// grounded on teacher sdk/config's Loader (search paths, env prefix
// scanning, mergo-merged sources, mapstructure+defaults decoding) but
// trimmed from a directory-of-device-configs loader to a single
// host-config file, since zinputd has one config, not many.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/zinput/hub/logger"
)

// EnvPrefix is the prefix the loader scans the environment for, e.g.
// ZINPUT_LOG_LEVEL overrides log.level. Every underscore after the
// prefix separates two key levels, so a key whose own name contains an
// underscore (such as registry.sweep_interval) cannot be overridden
// from the environment.
const EnvPrefix = "ZINPUT"

// EnvOverride names the environment variable that points the loader at
// an exact config file or directory, bypassing SearchPaths.
const EnvOverride = "ZINPUT_CONFIG"

var validExts = []string{".yml", ".yaml"}

// VirtualDevice binds one compiled program to its output device and the
// ordered input devices it reads (spec §4.4's Pipeline.Insert).
type VirtualDevice struct {
	// Source is the path to the virtual device's language source file.
	Source string `mapstructure:"source"`
	// Output names the registry device the program writes to.
	Output string `mapstructure:"output"`
	// Inputs names the registry devices the program reads from. The
	// order of the compiled program's entries follows the input blocks
	// of the source, not this list.
	Inputs []string `mapstructure:"inputs"`
}

// Config is everything cmd/zinputd needs to stand up a Registry and a
// Pipeline and wire the configured virtual devices into it.
type Config struct {
	Log struct {
		Level string `default:"info" mapstructure:"level"`
	} `mapstructure:"log"`

	Registry struct {
		SweepInterval       time.Duration `default:"5s" mapstructure:"sweep_interval"`
		ViewChannelCapacity int           `default:"1" mapstructure:"view_channel_capacity"`
	} `mapstructure:"registry"`

	Pipeline struct {
		DispatchChannelCapacity int `default:"64" mapstructure:"dispatch_channel_capacity"`
	} `mapstructure:"pipeline"`

	// VirtualDevices is keyed by virtual device name. Loaded as a
	// loosely typed map first (the file's YAML shape), then bound to
	// VirtualDevice via mapstructure, since the set of names is
	// user-defined and can't be a static struct field.
	VirtualDevices map[string]VirtualDevice `mapstructure:"virtual_devices"`
}

// Loader finds, reads, and merges a YAML config file with environment
// overrides. The zero value is usable; set SearchPaths/FileName or call
// New.
type Loader struct {
	// SearchPaths are tried in order until FileName is found in one.
	SearchPaths []string
	// FileName is the file to look for, with or without extension.
	FileName string

	files  []string
	data   []map[string]interface{}
	merged map[string]interface{}
}

// New creates a Loader that searches paths, in order, for a file named
// name.
func New(name string, paths ...string) *Loader {
	return &Loader{FileName: name, SearchPaths: paths}
}

// Load runs the full pipeline: check for an environment override,
// search for the config file, read it, scan the environment for
// prefixed overrides, then merge everything into one map. No config
// file is ever required: an unconfigured host still boots on defaults.
func (l *Loader) Load() error {
	if err := l.checkOverride(); err != nil {
		return err
	}
	l.search()
	if err := l.read(); err != nil {
		return err
	}
	l.loadEnv()
	return l.merge()
}

// Scan sets cfg's field defaults, then decodes the loaded configuration
// on top of them.
func (l *Loader) Scan(cfg *Config) error {
	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("config: setting defaults: %w", err)
	}

	if len(l.merged) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(l.merged)
}

// checkOverride points the loader at EnvOverride's value, if set,
// instead of SearchPaths.
func (l *Loader) checkOverride() error {
	value := os.Getenv(EnvOverride)
	if value == "" {
		return nil
	}

	info, err := os.Stat(value)
	if err != nil {
		return fmt.Errorf("config: stat %q from %s: %w", value, EnvOverride, err)
	}

	if info.IsDir() {
		l.SearchPaths = []string{value}
		return nil
	}

	dir, file := filepath.Split(value)
	if !hasValidExt(file) {
		return fmt.Errorf("config: %s names a file with an unsupported extension: %q", EnvOverride, value)
	}
	l.SearchPaths = []string{dir}
	l.FileName = file
	return nil
}

// search looks through SearchPaths, in order, for the first match;
// unlike teacher's multi-file directory loader, zinputd has exactly one
// config file, so the first path that has it wins.
func (l *Loader) search() {
	for _, path := range l.SearchPaths {
		entries, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !l.matchesFileName(entry.Name()) {
				continue
			}
			l.files = append(l.files, filepath.Join(path, entry.Name()))
			return
		}
	}
}

func (l *Loader) matchesFileName(name string) bool {
	if !hasValidExt(name) {
		return false
	}
	if l.FileName == "" {
		return true
	}
	if filepath.Ext(l.FileName) == "" {
		return strings.TrimSuffix(name, filepath.Ext(name)) == l.FileName
	}
	return name == l.FileName
}

func hasValidExt(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range validExts {
		if e == ext {
			return true
		}
	}
	return false
}

// normalizeYAML recursively rewrites the map[interface{}]interface{}
// nodes yaml.v2 produces for nested mappings into map[string]interface{},
// so every data source mergo merges has the same nested map type.
func normalizeYAML(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// read unmarshals every file search found into a data map, to be merged
// later.
func (l *Loader) read() error {
	for _, path := range l.files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: reading %q: %w", path, err)
		}
		res := map[string]interface{}{}
		if err := yaml.Unmarshal(raw, &res); err != nil {
			return fmt.Errorf("config: parsing %q: %w", path, err)
		}
		logger.WithFields(logger.Fields{"file": path}).Debug("[config] loaded configuration file")
		l.data = append(l.data, normalizeYAML(res).(map[string]interface{}))
	}
	return nil
}

// loadEnv scans the environment for EnvPrefix-prefixed variables and
// builds a nested map from their underscore-separated key path, the
// same way teacher's Loader.loadEnv does.
func (l *Loader) loadEnv() {
	envConfig := make(map[string]interface{})

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix+"_") {
			continue
		}
		pair := strings.SplitN(env, "=", 2)
		if pair[0] == EnvOverride {
			continue
		}

		keys := strings.Split(strings.ToLower(pair[0]), "_")[1:]
		value := pair[1]

		// Reverse so the build below wraps from the innermost (last)
		// key outward, ending on the outermost (first) key.
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}

		tmp := make(map[string]interface{})
		for i, key := range keys {
			if i == 0 {
				tmp[key] = value
				continue
			}
			tmp = map[string]interface{}{key: tmp}
		}

		if err := mergo.Map(&envConfig, tmp, mergo.WithOverride); err != nil {
			logger.WithFields(logger.Fields{"error": err}).Warn("[config] failed to merge environment override")
		}
	}

	if len(envConfig) > 0 {
		l.data = append(l.data, envConfig)
	}
}

// merge folds every data source collected so far into one map. Sources
// appended later (environment) override ones appended earlier (file),
// matching teacher's merge() ordering.
func (l *Loader) merge() error {
	for _, data := range l.data {
		if len(data) == 0 {
			continue
		}
		if err := mergo.Map(&l.merged, data, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return fmt.Errorf("config: merging configuration sources: %w", err)
		}
	}
	return nil
}
