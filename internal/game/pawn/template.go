package pawn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

// WeaponSpec is the YAML shape of a weapon definition. Durations are Go
// duration strings.
type WeaponSpec struct {
	FireMode     string  `yaml:"fire_mode"` // manual | on_line_of_sight | track_player | timed
	Geometry     string  `yaml:"geometry"`  // single | spread | beam
	Count        int     `yaml:"count"`     // spread only
	AngleStep    float64 `yaml:"angle_step"`
	Damage       int     `yaml:"damage"`
	Pierce       int     `yaml:"pierce"`
	FireInterval string  `yaml:"fire_interval"`
	FiringDelay  string  `yaml:"firing_delay"`
}

// Validate checks the spec's enumerations and magnitudes.
func (s *WeaponSpec) Validate() error {
	switch s.FireMode {
	case "manual", "on_line_of_sight", "track_player", "timed":
	default:
		return fmt.Errorf("fire_mode %q is not one of [manual, on_line_of_sight, track_player, timed]", s.FireMode)
	}
	switch s.Geometry {
	case "single", "beam":
	case "spread":
		if s.Count < 1 {
			return fmt.Errorf("spread count must be >= 1, got %d", s.Count)
		}
	default:
		return fmt.Errorf("geometry %q is not one of [single, spread, beam]", s.Geometry)
	}
	if s.Damage < 1 {
		return fmt.Errorf("damage must be >= 1, got %d", s.Damage)
	}
	if s.Pierce < 0 {
		return fmt.Errorf("pierce must be >= 0, got %d", s.Pierce)
	}
	for name, raw := range map[string]string{"fire_interval": s.FireInterval, "firing_delay": s.FiringDelay} {
		if raw == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s %q is not a valid duration: %w", name, raw, err)
		}
	}
	return nil
}

// Build constructs a weapon from the spec.
//
// Precondition: s must have passed Validate.
func (s *WeaponSpec) Build() *weapon.Weapon {
	mode := weapon.Manual
	switch s.FireMode {
	case "on_line_of_sight":
		mode = weapon.OnLineOfSight
	case "track_player":
		mode = weapon.TrackPlayer
	case "timed":
		mode = weapon.Timed
	}
	geo := weapon.Geometry{Kind: weapon.Single}
	switch s.Geometry {
	case "spread":
		geo = weapon.Geometry{Kind: weapon.Spread, Count: s.Count, AngleStep: s.AngleStep}
	case "beam":
		geo = weapon.Geometry{Kind: weapon.Beam}
	}
	interval, _ := time.ParseDuration(s.FireInterval)
	delay, _ := time.ParseDuration(s.FiringDelay)
	return &weapon.Weapon{
		Mode:         mode,
		Geometry:     geo,
		Damage:       s.Damage,
		Pierce:       s.Pierce,
		FireInterval: interval,
		FiringDelay:  delay,
	}
}

// Template defines a reusable opponent archetype loaded from YAML.
type Template struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	AIType string      `yaml:"ai_type"`
	MaxHP  int         `yaml:"max_hp"`
	Weapon *WeaponSpec `yaml:"weapon"`

	// ParsedAIType is populated by Validate.
	ParsedAIType AIType `yaml:"-"`
}

// Validate checks the template's invariants and resolves the AI type.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// AIType names a known profile, and any weapon spec validates. On success
// ParsedAIType is set.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("opponent template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("opponent template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("opponent template %q: max_hp must be >= 1", t.ID)
	}
	ai, err := ParseAIType(t.AIType)
	if err != nil {
		return fmt.Errorf("opponent template %q: %w", t.ID, err)
	}
	t.ParsedAIType = ai
	if t.Weapon != nil {
		if err := t.Weapon.Validate(); err != nil {
			return fmt.Errorf("opponent template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses and validates a single template from YAML.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing opponent template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed
// templates keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error the partial result is discarded.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading opponent dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("duplicate opponent template id %q", tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}
