package orbsim

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// BodyConfig describes one secondary body of a scenario file.
type BodyConfig struct {
	Name     string
	Mass     float64 // kg
	Radius   float64 // km
	Position [3]float64
	Velocity [3]float64
}

// Config is the explicit configuration object handed to the simulation root.
// Missing a registry or an executor at startup is a fatal configuration error,
// so validation happens here rather than at tick time.
type Config struct {
	G          float64       // gravitational constant, km³/(kg·s²)
	TickStep   float64       // simulated seconds per tick
	Cadence    time.Duration // wall clock tick interval
	Duration   time.Duration // how long the scenario runs
	Executor   string        // "sequential" or "kernel"
	ForecastDT float64       // forecast integration step, seconds
	Central    string        // central body name
	Tracked    string        // body whose trajectory is forecast
	OutputDir  string
	Bodies     []BodyConfig
}

// LoadConfig reads a TOML scenario file into an explicit Config.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("physics.G", G)
	v.SetDefault("simulation.step", TickStep)
	v.SetDefault("simulation.cadence", TickCadence)
	v.SetDefault("simulation.duration", time.Minute)
	v.SetDefault("simulation.central", "Earth")
	v.SetDefault("forecast.executor", "sequential")
	v.SetDefault("forecast.step", TickStep)
	v.SetDefault("general.output_path", ".")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	cfg := &Config{
		G:          v.GetFloat64("physics.G"),
		TickStep:   v.GetFloat64("simulation.step"),
		Cadence:    v.GetDuration("simulation.cadence"),
		Duration:   v.GetDuration("simulation.duration"),
		Executor:   v.GetString("forecast.executor"),
		ForecastDT: v.GetFloat64("forecast.step"),
		Central:    v.GetString("simulation.central"),
		Tracked:    v.GetString("forecast.tracked"),
		OutputDir:  v.GetString("general.output_path"),
	}
	if err := v.UnmarshalKey("bodies", &cfg.Bodies); err != nil {
		return nil, fmt.Errorf("%s: bodies: %s", path, err)
	}
	switch cfg.Executor {
	case "sequential", "kernel":
	default:
		return nil, fmt.Errorf("unknown forecast executor '%s'", cfg.Executor)
	}
	if cfg.TickStep <= 0 || cfg.ForecastDT <= 0 {
		return nil, fmt.Errorf("time steps must be positive")
	}
	return cfg, nil
}

// NewExecutor returns the configured path executor.
func (cfg *Config) NewExecutor(integ *Integrator) PathExecutor {
	if cfg.Executor == "kernel" {
		return NewKernelExecutor(cfg.G)
	}
	return NewSequentialExecutor(integ)
}
