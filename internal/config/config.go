// Package config loads the tunable game, server and logging parameters.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SLIPSTREAM_SIM_OBSTACLES.
const EnvPrefix = "SLIPSTREAM"

// DefaultConfigName is searched for in the working directory when no
// explicit config file is given.
const DefaultConfigName = "slipstream"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Simulation
const (
	DefaultObstacles      = 15
	DefaultVelocity       = 1.0
	DefaultVelocityRamp   = 1.0003
	DefaultScoreInterval  = 100 * time.Millisecond
	DefaultScoreStep      = 0.1
	DefaultTickRate       = 60
	DefaultGeometryPolicy = "table"
)

// Rendering
const (
	DefaultMaxTermWidth  = 160
	DefaultMaxTermHeight = 50
	DefaultFieldOfView   = 100.0 // degrees, vertical
)

// Server
const (
	DefaultHost          = "::"
	DefaultPort          = "2222"
	DefaultHostKeyPath   = "/app/keys/host_key"
	DefaultShutdownGrace = 15 * time.Second
	DefaultLeaderboard   = 5
	DefaultIdleTimeout   = 120 * time.Second
	DefaultWebAddr       = ":8080"
	DefaultDisplayHost   = "localhost"
)

// Config is the full set of runtime parameters.
type Config struct {
	Sim    SimConfig    `mapstructure:"sim" yaml:"sim"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// SimConfig tunes the simulation core.
type SimConfig struct {
	Seed           int64         `mapstructure:"seed" yaml:"seed"`             // 0 picks a time-based seed
	SeedPhrase     string        `mapstructure:"seedPhrase" yaml:"seedPhrase"` // hashed into Seed when Seed is 0
	Obstacles      int           `mapstructure:"obstacles" yaml:"obstacles"`
	GeometryPolicy string        `mapstructure:"geometryPolicy" yaml:"geometryPolicy"` // table or uniform
	Velocity       float64       `mapstructure:"velocity" yaml:"velocity"`
	VelocityRamp   float64       `mapstructure:"velocityRamp" yaml:"velocityRamp"`
	ScoreInterval  time.Duration `mapstructure:"scoreInterval" yaml:"scoreInterval"`
	ScoreStep      float64       `mapstructure:"scoreStep" yaml:"scoreStep"`
	TickRate       int           `mapstructure:"tickRate" yaml:"tickRate"`
}

// TickTime is the frame budget for the configured tick rate.
func (c SimConfig) TickTime() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// InputConfig tunes key decoding.
type InputConfig struct {
	KeyHold time.Duration `mapstructure:"keyHold" yaml:"keyHold"`
}

// RenderConfig tunes the terminal renderer.
type RenderConfig struct {
	MaxTermWidth  int     `mapstructure:"maxTermWidth" yaml:"maxTermWidth"`
	MaxTermHeight int     `mapstructure:"maxTermHeight" yaml:"maxTermHeight"`
	FieldOfView   float64 `mapstructure:"fieldOfView" yaml:"fieldOfView"`
}

// ServerConfig configures the SSH front end.
type ServerConfig struct {
	Host          string        `mapstructure:"host" yaml:"host"`
	Port          string        `mapstructure:"port" yaml:"port"`
	HostKeyPath   string        `mapstructure:"hostKeyPath" yaml:"hostKeyPath"`
	ShutdownGrace time.Duration `mapstructure:"shutdownGrace" yaml:"shutdownGrace"`
	Leaderboard   int           `mapstructure:"leaderboard" yaml:"leaderboard"`
	IdleTimeout   time.Duration `mapstructure:"idleTimeout" yaml:"idleTimeout"` // 0 disables
	WebAddr       string        `mapstructure:"webAddr" yaml:"webAddr"`         // landing page and score feed, empty disables
	DisplayHost   string        `mapstructure:"displayHost" yaml:"displayHost"` // host shown in the ssh hint on the landing page
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
	File   string `mapstructure:"file" yaml:"file"`     // empty: caller decides
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.seedPhrase", "")
	v.SetDefault("sim.obstacles", DefaultObstacles)
	v.SetDefault("sim.geometryPolicy", DefaultGeometryPolicy)
	v.SetDefault("sim.velocity", DefaultVelocity)
	v.SetDefault("sim.velocityRamp", DefaultVelocityRamp)
	v.SetDefault("sim.scoreInterval", DefaultScoreInterval)
	v.SetDefault("sim.scoreStep", DefaultScoreStep)
	v.SetDefault("sim.tickRate", DefaultTickRate)

	v.SetDefault("input.keyHold", 80*time.Millisecond)

	v.SetDefault("render.maxTermWidth", DefaultMaxTermWidth)
	v.SetDefault("render.maxTermHeight", DefaultMaxTermHeight)
	v.SetDefault("render.fieldOfView", DefaultFieldOfView)

	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.hostKeyPath", DefaultHostKeyPath)
	v.SetDefault("server.shutdownGrace", DefaultShutdownGrace)
	v.SetDefault("server.leaderboard", DefaultLeaderboard)
	v.SetDefault("server.idleTimeout", DefaultIdleTimeout)
	v.SetDefault("server.webAddr", DefaultWebAddr)
	v.SetDefault("server.displayHost", DefaultDisplayHost)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Default returns the built-in configuration without reading files or
// the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return &cfg
}

// Load reads configuration from path (YAML, JSON or TOML by extension) and
// the environment on top of the defaults. An empty path looks for
// slipstream.{yaml,json,toml} in the working directory and tolerates its
// absence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Sim.Obstacles < 1:
		return invalid("sim.obstacles", c.Sim.Obstacles)
	case c.Sim.GeometryPolicy != "table" && c.Sim.GeometryPolicy != "uniform":
		return invalid("sim.geometryPolicy", c.Sim.GeometryPolicy)
	case c.Sim.Velocity <= 0:
		return invalid("sim.velocity", c.Sim.Velocity)
	case c.Sim.VelocityRamp < 1:
		return invalid("sim.velocityRamp", c.Sim.VelocityRamp)
	case c.Sim.ScoreInterval <= 0:
		return invalid("sim.scoreInterval", c.Sim.ScoreInterval)
	case c.Sim.ScoreStep <= 0:
		return invalid("sim.scoreStep", c.Sim.ScoreStep)
	case c.Sim.TickRate < 1:
		return invalid("sim.tickRate", c.Sim.TickRate)
	case c.Render.FieldOfView <= 0 || c.Render.FieldOfView >= 180:
		return invalid("render.fieldOfView", c.Render.FieldOfView)
	case c.Render.MaxTermWidth < 20 || c.Render.MaxTermHeight < 10:
		return invalid("render.maxTerm", fmt.Sprintf("%dx%d", c.Render.MaxTermWidth, c.Render.MaxTermHeight))
	case c.Server.Leaderboard < 0:
		return invalid("server.leaderboard", c.Server.Leaderboard)
	case c.Log.Format != "text" && c.Log.Format != "json":
		return invalid("log.format", c.Log.Format)
	}
	return nil
}

// WriteYAML prints the effective configuration in a form Load accepts.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// GetEnv reads a raw environment variable outside the SLIPSTREAM_ namespace,
// such as USER. Unset and empty both yield fallback.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func invalid(key string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, key, value)
}
