package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `planner:
  settings:
    work_start_hour: 8
    work_end_hour: 18
    work_days: [1, 2, 3, 4, 5]
    min_break_minutes: 10
  horizon_days: 7
store:
  backend: sqlite
  path: state.db
api:
  enabled: true
  addr: ":8081"
  token: secret
replan:
  cron: "0 * * * *"
`

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Planner.Settings.WorkStartHour != 8 || cfg.Planner.Settings.WorkEndHour != 18 {
		t.Fatalf("working hours not loaded: %+v", cfg.Planner.Settings)
	}
	if cfg.Planner.HorizonDays != 7 {
		t.Fatalf("horizon %d, want 7", cfg.Planner.HorizonDays)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "state.db" {
		t.Fatalf("store config not loaded: %+v", cfg.Store)
	}
	if !cfg.API.Enabled || cfg.API.Addr != ":8081" || cfg.API.Token != "secret" {
		t.Fatalf("api config not loaded: %+v", cfg.API)
	}
	if cfg.Replan.Cron != "0 * * * *" {
		t.Fatalf("cron not loaded: %q", cfg.Replan.Cron)
	}
	// Untouched sections fall back to defaults.
	if cfg.Planner.Settings.DefaultTaskDurationMinutes != 60 {
		t.Fatalf("default task duration %d, want 60", cfg.Planner.Settings.DefaultTaskDurationMinutes)
	}
	if cfg.Planner.Availability.MinTaskDurationMinutes != 15 {
		t.Fatalf("min task duration %d, want 15", cfg.Planner.Availability.MinTaskDurationMinutes)
	}
	if cfg.Metrics.PrometheusAddr != ":9090" {
		t.Fatalf("metrics addr %q, want :9090", cfg.Metrics.PrometheusAddr)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"planner":{"horizon_days":3},"store":{"backend":"json","path":"s.json"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Planner.HorizonDays != 3 {
		t.Fatalf("horizon %d, want 3", cfg.Planner.HorizonDays)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "planner:\n  settings:\n    work_start_hour: 17\n    work_end_hour: 9\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PF_PLANNER__HORIZON_DAYS", "21")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Planner.HorizonDays != 21 {
		t.Fatalf("env override ignored: horizon %d", cfg.Planner.HorizonDays)
	}
}
