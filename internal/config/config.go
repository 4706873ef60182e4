// Package config provides Viper-based configuration loading for the
// skirmish simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig points at the YAML and Lua content directories.
type ContentConfig struct {
	// TemplatesDir holds the pawn template files.
	TemplatesDir string `mapstructure:"templates_dir"`
	// ArenasDir holds the arena definition files.
	ArenasDir string `mapstructure:"arenas_dir"`
	// ModifiersFile optionally overrides the built-in modifier table.
	ModifiersFile string `mapstructure:"modifiers_file"`
	// ScriptInstructionLimit bounds Lua opcodes per hook execution; 0 uses
	// the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// GameConfig holds battle assembly settings.
type GameConfig struct {
	// Arena names the arena definition to play.
	Arena string `mapstructure:"arena"`
	// Seed fixes the random source; 0 selects a crypto-random source.
	Seed uint64 `mapstructure:"seed"`
	// EventBuffer is the per-category event channel capacity.
	EventBuffer int `mapstructure:"event_buffer"`
}

// StandoffConfig tunes the continuous phase.
type StandoffConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	DecisionInterval time.Duration `mapstructure:"decision_interval"`
	TileSize         float64       `mapstructure:"tile_size"`
	MoveSpeed        float64       `mapstructure:"move_speed"`
	ProjectileSpeed  float64       `mapstructure:"projectile_speed"`
	TurnRate         float64       `mapstructure:"turn_rate"`
	TimeScale        float64       `mapstructure:"time_scale"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Game     GameConfig     `mapstructure:"game"`
	Standoff StandoffConfig `mapstructure:"standoff"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStandoff(c.Standoff); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.TemplatesDir == "" {
		errs = append(errs, "content.templates_dir must not be empty")
	}
	if c.ArenasDir == "" {
		errs = append(errs, "content.arenas_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.Arena == "" {
		errs = append(errs, "game.arena must not be empty")
	}
	if g.EventBuffer < 1 {
		errs = append(errs, fmt.Sprintf("game.event_buffer must be >= 1, got %d", g.EventBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStandoff(s StandoffConfig) error {
	var errs []string
	if s.TickInterval < 0 {
		errs = append(errs, "standoff.tick_interval must not be negative")
	}
	if s.DecisionInterval < 0 {
		errs = append(errs, "standoff.decision_interval must not be negative")
	}
	if s.TimeScale < 0 || s.TimeScale > 1 {
		errs = append(errs, fmt.Sprintf("standoff.time_scale must be in [0, 1], got %v", s.TimeScale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.templates_dir", "content/templates")
	v.SetDefault("content.arenas_dir", "content/arenas")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("game.arena", "courtyard")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.event_buffer", 64)

	v.SetDefault("standoff.tick_interval", "16ms")
	v.SetDefault("standoff.decision_interval", "500ms")
	v.SetDefault("standoff.tile_size", 1.0)
	v.SetDefault("standoff.move_speed", 3.0)
	v.SetDefault("standoff.projectile_speed", 8.0)
	v.SetDefault("standoff.turn_rate", 180.0)
	v.SetDefault("standoff.time_scale", 1.0)
}
