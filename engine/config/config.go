// Package config loads the engine configuration from YAML.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Display holds the persisted display settings.
type Display struct {
	Width        uint32  `yaml:"width"`
	Height       uint32  `yaml:"height"`
	Refresh      uint32  `yaml:"refresh"`
	AntiAliasing string  `yaml:"anti-aliasing"`
	VSync        bool    `yaml:"vsync"`
	Windowed     bool    `yaml:"windowed"`
	Gamma        float32 `yaml:"gamma"`
}

// Engine holds the loop settings.
type Engine struct {
	// TickRate is the number of FixedUpdate ticks per second.
	TickRate uint32 `yaml:"tick-rate"`
	// FrameLimit caps the frames per second; 0 renders as fast as presentation allows.
	FrameLimit uint32 `yaml:"frame-limit"`
	// UpdateWorkers is the number of goroutines marshaling model buffers; 0 uses every CPU.
	UpdateWorkers int  `yaml:"update-workers"`
	Profiling     bool `yaml:"profiling"`
}

// Log holds the logger settings.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the root of the configuration file.
type Config struct {
	Display Display `yaml:"display"`
	Engine  Engine  `yaml:"engine"`
	Log     Log     `yaml:"log"`
}

var antiAliasingNames = []string{
	"none", "fxaa", "msaa-2x", "msaa-4x", "msaa-8x", "ssaa-2x", "ssaa-3x", "ssaa-4x",
}

// DefaultConfig returns the configuration used when no file is given. Keys missing from a
// loaded file keep these values.
func DefaultConfig() Config {
	return Config{
		Display: Display{
			Width:        800,
			Height:       600,
			Refresh:      60,
			AntiAliasing: "fxaa",
			VSync:        true,
			Windowed:     true,
			Gamma:        2.2,
		},
		Engine: Engine{
			TickRate:   60,
			FrameLimit: 0,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads and validates the configuration file at path.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Config: the configuration, defaults filled in
//   - error: an error if the file cannot be read or is invalid
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML document from r on top of DefaultConfig, rejecting unknown keys.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the configuration
//   - error: an error if the document is malformed or invalid
func Decode(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "config: decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value that has a restricted range.
func (c Config) Validate() error {
	if c.Display.Width == 0 || c.Display.Height == 0 {
		return errors.Errorf("config: display size %dx%d must be positive", c.Display.Width, c.Display.Height)
	}
	if c.Display.Gamma <= 0 {
		return errors.Errorf("config: gamma %g must be positive", c.Display.Gamma)
	}
	if !isAntiAliasing(c.Display.AntiAliasing) {
		return errors.Errorf("config: unknown anti-aliasing %q, expected one of %s",
			c.Display.AntiAliasing, strings.Join(antiAliasingNames, ", "))
	}
	if c.Engine.TickRate == 0 {
		return errors.New("config: tick-rate must be positive")
	}
	if c.Engine.UpdateWorkers < 0 {
		return errors.Errorf("config: update-workers %d must not be negative", c.Engine.UpdateWorkers)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func isAntiAliasing(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range antiAliasingNames {
		if n == name {
			return true
		}
	}
	return false
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "config: log level %q", l.Level)
	}
	return level, nil
}

// Marshal encodes the configuration as YAML with two-space indentation.
func (c Config) Marshal() ([]byte, error) {
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return nil, errors.Wrap(err, "config: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "config: close yaml encoder")
	}
	return buffer.Bytes(), nil
}
