// Package config loads compmeta.toml, the optional project configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// FileName is the configuration file looked up from the working directory
// upwards.
const FileName = "compmeta.toml"

// Config is the project configuration.
type Config struct {
	// StubSuffix is the stub file extension (default ".goi").
	StubSuffix string `toml:"stub_suffix"`
	// Packages are the default package patterns (default ["./..."]).
	Packages []string `toml:"packages"`
	// Verbosity is the default -v count.
	Verbosity int `toml:"verbosity"`

	Watch WatchConfig `toml:"watch"`
	Log   LogConfig   `toml:"log"`

	// Path is the file the configuration was read from, empty for
	// defaults.
	Path string `toml:"-"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// LogConfig configures logging.
type LogConfig struct {
	JSON bool `toml:"json"`
}

// Duration is a time.Duration decoded from a TOML string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StubSuffix: ".goi",
		Packages:   []string{"./..."},
		Watch:      WatchConfig{Debounce: Duration{300 * time.Millisecond}},
	}
}

// Load reads path, or searches for FileName from dir upwards when path is
// empty. A missing file yields the defaults.
func Load(path, dir string) (Config, error) {
	if path == "" {
		found, ok, err := Find(dir)
		if err != nil {
			return Config{}, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s: parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.WithHint(
			errors.Newf("%s: unknown key %q", path, undecoded[0].String()),
			"valid keys: stub_suffix, packages, verbosity, [watch] debounce, [log] json",
		)
	}
	if cfg.StubSuffix == "" || cfg.StubSuffix == ".go" {
		return Config{}, errors.Newf("%s: stub_suffix must be non-empty and not .go", path)
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = Default().Packages
	}
	cfg.Path = path
	return cfg, nil
}

// Find looks for FileName in dir and its parents.
func Find(dir string) (string, bool, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, errors.Wrap(err, "resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "stat %s", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
