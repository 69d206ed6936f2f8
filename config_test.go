package kepler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kepler.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	for _, dir := range []string{"", t.TempDir()} {
		conf, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("dir=%q: %s", dir, err)
		}
		if conf != DefaultConfig() {
			t.Fatalf("dir=%q: %+v instead of the defaults", dir, conf)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default configuration invalid: %s", err)
	}
	if s := DefaultConfig().KeplerSolver(); s != DefaultKeplerSolver() {
		t.Fatalf("default solver %+v", s)
	}
}

func TestConfigFile(t *testing.T) {
	dir := writeConfig(t, `
tolerance = 1e-6

[solver]
iterations = 20
tolerance = 1e-10
strict = false

[log]
level = "debug"
`)
	conf, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	exp := Config{
		Tolerance: 1e-6,
		Solver:    SolverConfig{Iterations: 20, Tolerance: 1e-10, Strict: false},
		Log:       LogConfig{Level: "debug"},
	}
	if conf != exp {
		t.Fatalf("%+v instead of %+v", conf, exp)
	}

	// Through the environment, with overrides.
	t.Setenv(ConfigDirEnv, dir)
	t.Setenv("KEPLER_SOLVER_ITERATIONS", "30")
	t.Setenv("KEPLER_LOG_LEVEL", "error")
	conf, err = LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	exp.Solver.Iterations = 30
	exp.Log.Level = "error"
	if conf != exp {
		t.Fatalf("%+v instead of %+v", conf, exp)
	}
}

func TestConfigPartialFile(t *testing.T) {
	conf, err := LoadConfig(writeConfig(t, "[solver]\nstrict = false\n"))
	if err != nil {
		t.Fatal(err)
	}
	exp := DefaultConfig()
	exp.Solver.Strict = false
	if conf != exp {
		t.Fatalf("%+v instead of %+v", conf, exp)
	}
}

func TestConfigInvalid(t *testing.T) {
	var verr *ValidationError
	for _, content := range []string{
		"tolerance = 0",
		"tolerance = 0.1",
		"[solver]\niterations = 0",
		"[solver]\ntolerance = -1.0",
		"[log]\nlevel = \"loud\"",
	} {
		if _, err := LoadConfig(writeConfig(t, content)); !errors.As(err, &verr) {
			t.Fatalf("%q: expected a ValidationError, got %v", content, err)
		}
	}
	if _, err := LoadConfig(writeConfig(t, "tolerance = [")); err == nil || errors.As(err, &verr) {
		t.Fatalf("malformed file: got %v", err)
	}
}

func TestLogLevels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "INFO", "warn", "warning", "error", "none"} {
		if _, err := levelOption(lvl); err != nil {
			t.Fatalf("level %q: %s", lvl, err)
		}
	}
	if _, err := NewLogger(os.Stderr, "verbose"); err == nil {
		t.Fatal("unknown level accepted")
	}
}
