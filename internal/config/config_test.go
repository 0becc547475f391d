package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Window.Width != 800 || cfg.Window.Height != 800 {
		t.Errorf("expected 800x800 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Window.FOV)
	}
	if cfg.TimeScale <= 0 {
		t.Error("time scale should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")

	cfg := DefaultConfig()
	cfg.TimeScale = 30
	cfg.Terminal.Theme = "ocean"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.TimeScale != 30 {
		t.Errorf("expected time scale 30, got %f", loaded.TimeScale)
	}
	if loaded.Terminal.Theme != "ocean" {
		t.Errorf("expected theme ocean, got %s", loaded.Terminal.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("time_scale: 5\nwindow:\n  width: 1024\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != DefaultHeight {
		t.Errorf("expected default height, got %d", cfg.Window.Height)
	}
	if cfg.Window.SphereRings != DefaultSphereRings {
		t.Errorf("expected default rings, got %d", cfg.Window.SphereRings)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("time_scale: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative time scale")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero fps", func(c *Config) { c.Terminal.FPS = 0 }},
		{"flat fov", func(c *Config) { c.Window.FOV = 180 }},
		{"flat sphere", func(c *Config) { c.Window.SphereRings = 2 }},
		{"zero record dt", func(c *Config) { c.Record.Dt = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ORRERY_TIME_SCALE", "12.5")
	t.Setenv("ORRERY_THEME", "retro")
	t.Setenv("ORRERY_FPS", "30")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.TimeScale != 12.5 {
		t.Errorf("expected time scale 12.5, got %f", cfg.TimeScale)
	}
	if cfg.Terminal.Theme != "retro" {
		t.Errorf("expected theme retro, got %s", cfg.Terminal.Theme)
	}
	if cfg.Window.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.Window.FPS)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	t.Setenv("ORRERY_TIME_SCALE", "fast")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric time scale")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("ORRERY_DATA_DIR=/tmp/orrery-runs\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ORRERY_DATA_DIR", "")
	os.Unsetenv("ORRERY_DATA_DIR")

	if err := LoadEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load env failed: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/tmp/orrery-runs" {
		t.Errorf("expected data dir from env file, got %s", cfg.DataDir)
	}
}

func TestViews(t *testing.T) {
	v, ok := GetView("top")
	if !ok {
		t.Fatal("expected top view")
	}
	if v.Zoom != 1 {
		t.Errorf("expected zoom 1, got %f", v.Zoom)
	}

	if _, ok := GetView("nonexistent"); ok {
		t.Error("expected no view for unknown name")
	}

	names := ListViews()
	if len(names) != len(Views) || names[0] != "close" {
		t.Errorf("unexpected view list %v", names)
	}
}
