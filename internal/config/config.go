// Package config holds the dashboard configuration: where the data lives,
// how its headers map to the fixed schema, the region colours and the server
// and animation settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"globalsouth/internal/dataset"
)

// DefaultDataFile is resolved against the working directory.
const DefaultDataFile = "global_south_gdp.csv"

// Config is the root configuration.
type Config struct {
	DataPath  string          `yaml:"data_path"`
	Columns   ColumnsConfig   `yaml:"columns"`
	Regions   []RegionConfig  `yaml:"regions"`
	Server    ServerConfig    `yaml:"server"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ColumnsConfig names the year and share headers of the source file.
type ColumnsConfig struct {
	Year  string `yaml:"year"`
	Share string `yaml:"share"`
}

// RegionConfig maps one region to its headers and colour.
type RegionConfig struct {
	Name         string `yaml:"name"`
	Contribution string `yaml:"contribution"`
	ColorColumn  string `yaml:"color_column"`
	Color        string `yaml:"color"`
}

// ServerConfig configures the dashboard listener.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	WatchFiles bool   `yaml:"watch_files"`
}

// AnimationConfig bounds the frame delay, in milliseconds.
type AnimationConfig struct {
	SpeedMS int `yaml:"speed_ms"`
	MinMS   int `yaml:"min_ms"`
	MaxMS   int `yaml:"max_ms"`
	StepMS  int `yaml:"step_ms"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	s := dataset.DefaultSchema()
	cfg := &Config{
		DataPath: DefaultDataFile,
		Columns:  ColumnsConfig{Year: s.Year, Share: s.Share},
		Server:   ServerConfig{Addr: ":8501", WatchFiles: true},
		Animation: AnimationConfig{
			SpeedMS: 500,
			MinMS:   100,
			MaxMS:   2000,
			StepMS:  100,
		},
		Logging: LoggingConfig{Level: "info"},
	}
	for _, rc := range s.Regions {
		cfg.Regions = append(cfg.Regions, RegionConfig{
			Name:         string(rc.Region),
			Contribution: rc.Contribution,
			ColorColumn:  rc.Color,
			Color:        rc.DefaultColor,
		})
	}
	return cfg
}

// Load reads a YAML file over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GSDASH_DATA"); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv("GSDASH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GSDASH_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("data_path is required")
	}
	if c.Columns.Year == "" || c.Columns.Share == "" {
		return errors.New("columns.year and columns.share are required")
	}
	if len(c.Regions) != len(dataset.Regions) {
		return fmt.Errorf("expected %d regions, got %d", len(dataset.Regions), len(c.Regions))
	}
	seen := make(map[dataset.Region]bool)
	for _, rc := range c.Regions {
		r, ok := dataset.ParseRegion(rc.Name)
		if !ok {
			return fmt.Errorf("unknown region %q", rc.Name)
		}
		if seen[r] {
			return fmt.Errorf("region %q configured twice", rc.Name)
		}
		seen[r] = true
		if rc.Contribution == "" {
			return fmt.Errorf("region %q has no contribution column", rc.Name)
		}
	}
	a := c.Animation
	if a.MinMS <= 0 || a.MaxMS < a.MinMS || a.StepMS <= 0 {
		return fmt.Errorf("invalid animation bounds %d..%d step %d", a.MinMS, a.MaxMS, a.StepMS)
	}
	if a.SpeedMS < a.MinMS || a.SpeedMS > a.MaxMS {
		return fmt.Errorf("animation speed %dms outside %d..%d", a.SpeedMS, a.MinMS, a.MaxMS)
	}
	return nil
}

// Schema converts the column configuration for the dataset package.
// Validate must have succeeded.
func (c *Config) Schema() dataset.Schema {
	s := dataset.Schema{Year: c.Columns.Year, Share: c.Columns.Share}
	for _, rc := range c.Regions {
		r, _ := dataset.ParseRegion(rc.Name)
		color := rc.Color
		if color == "" {
			color = dataset.DefaultColors[r]
		}
		s.Regions = append(s.Regions, dataset.RegionColumns{
			Region:       r,
			Contribution: rc.Contribution,
			Color:        rc.ColorColumn,
			DefaultColor: color,
		})
	}
	return s
}

// ClampSpeed bounds ms to the animation range, rounded to the step.
func (a AnimationConfig) ClampSpeed(ms int) int {
	if ms <= 0 {
		return a.SpeedMS
	}
	if ms < a.MinMS {
		ms = a.MinMS
	}
	if ms > a.MaxMS {
		ms = a.MaxMS
	}
	steps := (ms - a.MinMS + a.StepMS/2) / a.StepMS
	ms = a.MinMS + steps*a.StepMS
	if ms > a.MaxMS {
		ms = a.MaxMS
	}
	return ms
}
