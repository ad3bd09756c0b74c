package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
)

// envPrefix prefixes every environment override, e.g. ANGRY_LEVEL.
const envPrefix = "angry"

var errUnsupportedConfig = errors.New("unsupported config file type")

// Config is the tracing and demo configuration. Values are layered:
// defaults, then the config file, then ANGRY_* environment variables, then
// command-line flags.
type Config struct {
	Level      string            `yaml:"level" toml:"level"`
	Format     string            `yaml:"format" toml:"format"`
	Color      string            `yaml:"color" toml:"color"` // auto, always or never
	Backend    string            `yaml:"backend" toml:"backend"`
	Threads    int               `yaml:"threads" toml:"threads"`
	Seed       int64             `yaml:"seed" toml:"seed"`
	DelayScale float64           `yaml:"delay_scale" toml:"delay_scale" split_words:"true"`
	Loggers    map[string]string `yaml:"loggers" toml:"loggers"` // logger name -> level
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "ANGRY",
		Format:     "text",
		Color:      "auto",
		Backend:    "logrus",
		Threads:    5,
		Seed:       42,
		DelayScale: 1.0,
	}
}

// loadConfig layers the file at path (if any) and the environment over the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := decodeConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func decodeConfigFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		// Strict field checking: typos must cause errors
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse config %s: unknown keys %v", path, undecoded)
		}
	default:
		return fmt.Errorf("config %s: %w %q", path, errUnsupportedConfig, ext)
	}
	return nil
}

// colorEnabled resolves the Color setting for output w.
func (c Config) colorEnabled(w io.Writer) (bool, error) {
	switch strings.ToLower(c.Color) {
	case "always":
		return true, nil
	case "never", "":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid color setting %q (want auto, always or never)", c.Color)
}

// apply configures the sink registry: root backend and level writing to w,
// then the per-logger levels.
func (c Config) apply(w io.Writer) error {
	lvl, err := level.Parse(c.Level)
	if err != nil {
		return err
	}
	colour, err := c.colorEnabled(w)
	if err != nil {
		return err
	}
	if err := sink.Configure(sink.Options{
		Level:   lvl,
		Output:  w,
		Format:  c.Format,
		Color:   colour,
		Backend: c.Backend,
	}); err != nil {
		return err
	}
	for name, s := range c.Loggers {
		l, err := level.Parse(s)
		if err != nil {
			return fmt.Errorf("logger %s: %w", name, err)
		}
		sink.Get(name).SetLevel(l)
	}
	return nil
}
