// Package config resolves the options recognized by stencil. Resolution is
// layered: built-in defaults, then a project-level config file, then
// STENCIL_-prefixed environment variables, later layers overriding earlier
// ones.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
)

// DefaultRootFolderName is the conventional hidden folder holding templates.
const DefaultRootFolderName = ".stencil"

// configFileNames are tried in order; the first that exists wins.
var configFileNames = []string{
	".stencil.toml",
	"stencil.toml",
	".stencil.yaml",
	"stencil.yaml",
}

// Options is the recognized configuration surface.
type Options struct {
	// RootFolderName is the directory name that marks a template root.
	RootFolderName string `koanf:"root_folder_name"`

	// Enabled turns the whole system on or off.
	Enabled bool `koanf:"enabled"`

	// Presets names built-in template collections, stacked in order.
	Presets []string `koanf:"presets"`
}

// Defaults returns the built-in option values.
func Defaults() Options {
	return Options{
		RootFolderName: DefaultRootFolderName,
		Enabled:        true,
	}
}

// Load resolves the effective options for a project root.
func Load(projectRoot string) (Options, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"root_folder_name": defaults.RootFolderName,
		"enabled":          defaults.Enabled,
		"presets":          []string{},
	}, "."), nil); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, name := range configFileNames {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), parserFor(name)); err != nil {
			return Options{}, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config file").
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
		break
	}

	if err := k.Load(env.Provider("STENCIL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STENCIL_"))
	}), nil); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal options")
	}

	if opts.RootFolderName == "" {
		opts.RootFolderName = defaults.RootFolderName
	}

	logger.Debug().
		Str("rootFolder", opts.RootFolderName).
		Bool("enabled", opts.Enabled).
		Strs("presets", opts.Presets).
		Msg("Resolved options")
	return opts, nil
}

func parserFor(name string) koanf.Parser {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return yaml.Parser()
	}
	return toml.Parser()
}
