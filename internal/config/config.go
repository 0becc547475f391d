package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth       = 800
	DefaultHeight      = 800
	DefaultTitle       = "Solar System Demo"
	DefaultFPS         = 60
	DefaultFOV         = 60.0
	DefaultSphereRings = 48
	DefaultTimeScale   = 1.0
	DefaultDataDir     = ".orrery"
	DefaultRecordDt    = 0.05
	DefaultDuration    = 60.0
)

// envPrefix namespaces environment overrides, e.g. ORRERY_TIME_SCALE.
const envPrefix = "ORRERY_"

type Config struct {
	TimeScale float64        `yaml:"time_scale"`
	DataDir   string         `yaml:"data_dir"`
	LogLevel  string         `yaml:"log_level"`
	Window    WindowConfig   `yaml:"window"`
	Terminal  TerminalConfig `yaml:"terminal"`
	Record    RecordConfig   `yaml:"record"`
}

type WindowConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Title        string  `yaml:"title"`
	FPS          int     `yaml:"fps"`
	FOV          float64 `yaml:"fov"`
	SphereRings  int     `yaml:"sphere_rings"`
	SphereSlices int     `yaml:"sphere_slices"`
	TextureDir   string  `yaml:"texture_dir"`
	ShowOrbits   bool    `yaml:"show_orbits"`
}

type TerminalConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    int     `yaml:"fps"`
	Theme  string  `yaml:"theme"`
	View   string  `yaml:"view"`
	Zoom   float64 `yaml:"zoom"`
	Trails bool    `yaml:"trails"`
}

type RecordConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

func DefaultConfig() *Config {
	return &Config{
		TimeScale: DefaultTimeScale,
		DataDir:   DefaultDataDir,
		LogLevel:  "info",
		Window: WindowConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			Title:        DefaultTitle,
			FPS:          DefaultFPS,
			FOV:          DefaultFOV,
			SphereRings:  DefaultSphereRings,
			SphereSlices: DefaultSphereRings,
			ShowOrbits:   true,
		},
		Terminal: TerminalConfig{
			Width:  80,
			Height: 24,
			FPS:    30,
			Theme:  "minimal",
			View:   "oblique",
			Zoom:   1.0,
			Trails: true,
		},
		Record: RecordConfig{
			Dt:       DefaultRecordDt,
			Duration: DefaultDuration,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings no driver can run with.
func (c *Config) Validate() error {
	switch {
	case c.TimeScale <= 0:
		return fmt.Errorf("time_scale must be positive, got %g", c.TimeScale)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.FPS <= 0 || c.Terminal.FPS <= 0:
		return fmt.Errorf("fps must be positive")
	case c.Window.FOV <= 0 || c.Window.FOV >= 180:
		return fmt.Errorf("fov must be in (0, 180) degrees, got %g", c.Window.FOV)
	case c.Window.SphereRings < 3 || c.Window.SphereSlices < 3:
		return fmt.Errorf("sphere needs at least 3 rings and slices")
	case c.Record.Dt <= 0 || c.Record.Duration <= 0:
		return fmt.Errorf("record dt and duration must be positive")
	}
	return nil
}

// LoadEnv reads .env style files into the process environment. Missing
// files are skipped. With no arguments it reads ./.env.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from ORRERY_* environment variables.
// Unparseable values are reported rather than silently ignored.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("THEME"); ok {
		c.Terminal.Theme = v
	}
	if v, ok := lookup("VIEW"); ok {
		c.Terminal.View = v
	}
	if v, ok := lookup("TEXTURE_DIR"); ok {
		c.Window.TextureDir = v
	}
	if err := envFloat("TIME_SCALE", &c.TimeScale); err != nil {
		return err
	}
	if err := envInt("FPS", &c.Window.FPS); err != nil {
		return err
	}
	return c.Validate()
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	return v, ok && v != ""
}

func envFloat(key string, dst *float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = f
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}
