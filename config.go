package kepler

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "kepler"
	envPrefix  = "KEPLER"
	// ConfigDirEnv is the environment variable which may point to the directory of kepler.toml.
	ConfigDirEnv = "KEPLER_CONFIG"
)

// Config configures an Engine.
type Config struct {
	// Tolerance is the threshold under which an orbit is treated as circular or equatorial.
	Tolerance float64
	Solver    SolverConfig
	Log       LogConfig
}

// SolverConfig configures the resolution of Kepler's equation.
type SolverConfig struct {
	Iterations int
	Tolerance  float64 // zero disables the convergence check
	Strict     bool    // fail conversions on non convergence instead of logging a warning
}

// LogConfig configures the engine logger.
type LogConfig struct {
	Level string // debug, info, warn, error or none
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	s := DefaultKeplerSolver()
	return Config{
		Tolerance: DefaultTolerance,
		Solver:    SolverConfig{Iterations: s.Iterations, Tolerance: s.Tolerance, Strict: true},
		Log:       LogConfig{Level: "warn"},
	}
}

// KeplerSolver returns the solver described by this configuration.
func (c Config) KeplerSolver() KeplerSolver {
	return KeplerSolver{Iterations: c.Solver.Iterations, Tolerance: c.Solver.Tolerance}
}

// Validate returns an error if any configuration value is out of range.
func (c Config) Validate() error {
	if !finite(c.Tolerance) || c.Tolerance <= 0 || c.Tolerance > 1e-3 {
		return invalid("tolerance", "must be within (0, 1e-3], got %g", c.Tolerance)
	}
	if c.Solver.Iterations <= 0 {
		return invalid("solver.iterations", "must be positive, got %d", c.Solver.Iterations)
	}
	if !finite(c.Solver.Tolerance) || c.Solver.Tolerance < 0 {
		return invalid("solver.tolerance", "must be non negative, got %g", c.Solver.Tolerance)
	}
	if _, err := levelOption(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads kepler.toml from the provided directory, or from the directory in the
// KEPLER_CONFIG environment variable if dir is empty. Values may be overridden with
// KEPLER_-prefixed environment variables, e.g. KEPLER_SOLVER_ITERATIONS.
// A missing file yields the default configuration.
func LoadConfig(dir string) (Config, error) {
	if dir == "" {
		dir = os.Getenv(ConfigDirEnv)
	}
	def := DefaultConfig()
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("tolerance", def.Tolerance)
	v.SetDefault("solver.iterations", def.Solver.Iterations)
	v.SetDefault("solver.tolerance", def.Solver.Tolerance)
	v.SetDefault("solver.strict", def.Solver.Strict)
	v.SetDefault("log.level", def.Log.Level)

	if dir != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("could not read %s/%s.toml: %w", dir, configName, err)
			}
		}
	}

	conf := Config{
		Tolerance: v.GetFloat64("tolerance"),
		Solver: SolverConfig{
			Iterations: v.GetInt("solver.iterations"),
			Tolerance:  v.GetFloat64("solver.tolerance"),
			Strict:     v.GetBool("solver.strict"),
		},
		Log: LogConfig{Level: v.GetString("log.level")},
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}
