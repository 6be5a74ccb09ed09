/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package config loads the optional .tsh.yaml / .tsh.toml project
// config. Every field has a usable zero value, so both the server and
// `check` run correctly with no config file present at all.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// TSHConfig carries the knobs the original t-linter CLI exposed
// (enable_type_checking / pyright_path / highlight_untyped_templates),
// plus which embedded languages to preload and the check subcommand's
// default report format.
type TSHConfig struct {
	// EnableTypeChecking toggles an inert knob carried over from the
	// original CLI's TLinterConfig; no component consults interpolated
	// expression types (Non-goal), so this only gates a one-line
	// startup log when true.
	EnableTypeChecking bool `mapstructure:"enableTypeChecking" yaml:"enableTypeChecking"`
	// PyrightPath is carried for parity with the original config shape;
	// unused while EnableTypeChecking has no effect.
	PyrightPath string `mapstructure:"pyrightPath" yaml:"pyrightPath"`
	// HighlightUntypedTemplates is carried for parity with the original
	// config shape; unused while EnableTypeChecking has no effect.
	HighlightUntypedTemplates bool `mapstructure:"highlightUntypedTemplates" yaml:"highlightUntypedTemplates"`
	// PreloadLanguages lists embedded grammars expected at startup. Every
	// registered grammar is loaded regardless of this list; `tsh lsp`
	// only warns about entries that name no registered grammar.
	PreloadLanguages []string `mapstructure:"preloadLanguages" yaml:"preloadLanguages"`
	// LogLevel is read from the config file but not consulted by the
	// logger; debug output is controlled by TSH_LOG and $/setTrace.
	LogLevel string `mapstructure:"logLevel" yaml:"logLevel"`
	// CheckFormat is `check`'s default report format when --format is
	// not given: human|json|junit|github.
	CheckFormat string `mapstructure:"checkFormat" yaml:"checkFormat"`
}

// Default returns the zero-config defaults.
func Default() *TSHConfig {
	return &TSHConfig{
		CheckFormat: "human",
		LogLevel:    "info",
	}
}

// Load reads ".tsh" (yaml or toml) from projectDir, falling back to an
// XDG-located global config, and merges it over Default(). A path given
// with the root --config flag is read instead of searching. A missing
// config file at either search location is not an error.
func Load(projectDir string) (*TSHConfig, error) {
	v := viper.New()
	v.SetConfigName(".tsh")
	v.AddConfigPath(projectDir)

	if globalDir, err := xdg.ConfigFile("tsh"); err == nil {
		v.AddConfigPath(filepath.Dir(globalDir))
	}

	if file := viper.GetString("configFile"); file != "" {
		v.SetConfigFile(file)
	}

	cfg := Default()
	v.SetDefault("checkFormat", cfg.CheckFormat)
	v.SetDefault("logLevel", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return cfg, nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
