package modifier

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Effects is the full set of numeric and behavioral deltas a modifier
// applies. Identity() is the no-op baseline; a Table entry overrides only
// the fields its modifier touches.
type Effects struct {
	// HPMultiplier scales effective HP at spawn. Tenacious default: 2.
	HPMultiplier int `yaml:"hp_multiplier"`
	// FireIntervalScale scales the weapon fire interval. Confrontational: 0.75.
	FireIntervalScale float64 `yaml:"fire_interval_scale"`
	// FiringDelayScale scales the aim-hold firing delay. Observant: 0.5,
	// Reflexive: 0.25.
	FiringDelayScale float64 `yaml:"firing_delay_scale"`
	// FiresOnSight grants an extra turn-based shot whenever a pawn enters
	// line of sight, independent of turn start. Confrontational.
	FiresOnSight bool `yaml:"fires_on_sight"`
	// ExtraMoves grants additional weighted moves per turn without extra
	// fire. Fleet: 1.
	ExtraMoves int `yaml:"extra_moves"`
	// PlayerOnlyDamage restricts projectile damage targets to the player,
	// suppressing friendly fire. Observant.
	PlayerOnlyDamage bool `yaml:"player_only_damage"`
	// InstantAim locks the gun angle to line of sight immediately instead
	// of tracking continuously. Reflexive.
	InstantAim bool `yaml:"instant_aim"`
	// MoveSpeedScale scales standoff movement speed. Fleet: 1.25.
	MoveSpeedScale float64 `yaml:"move_speed_scale"`
}

// Identity returns the no-op effect record applied to unmodified pawns.
func Identity() Effects {
	return Effects{
		HPMultiplier:      1,
		FireIntervalScale: 1,
		FiringDelayScale:  1,
		MoveSpeedScale:    1,
	}
}

// Table maps each modifier to its effect record. Read-only at combat time.
type Table struct {
	effects map[Modifier]Effects
}

// DefaultTable returns the built-in effect magnitudes.
func DefaultTable() *Table {
	return &Table{effects: map[Modifier]Effects{
		Tenacious: func() Effects {
			e := Identity()
			e.HPMultiplier = 2
			return e
		}(),
		Confrontational: func() Effects {
			e := Identity()
			e.FireIntervalScale = 0.75
			e.FiresOnSight = true
			return e
		}(),
		Fleet: func() Effects {
			e := Identity()
			e.ExtraMoves = 1
			e.MoveSpeedScale = 1.25
			return e
		}(),
		Observant: func() Effects {
			e := Identity()
			e.FiringDelayScale = 0.5
			e.PlayerOnlyDamage = true
			return e
		}(),
		Reflexive: func() Effects {
			e := Identity()
			e.FiringDelayScale = 0.25
			e.InstantAim = true
			return e
		}(),
	}}
}

// Effects returns the effect record for m. None and unregistered modifiers
// yield the identity record.
func (t *Table) Effects(m Modifier) Effects {
	if e, ok := t.effects[m]; ok {
		return e
	}
	return Identity()
}

// tableFile is the YAML document shape: modifier name -> effect overrides.
type tableFile struct {
	Modifiers map[string]Effects `yaml:"modifiers"`
}

// LoadTable reads a YAML effect table. Modifiers absent from the file keep
// their default effects; present entries replace the default record whole.
//
// Precondition: path must reference a readable YAML file.
// Postcondition: Returns a non-nil Table, or an error if the file fails to
// parse or names an unknown modifier.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modifier: reading %q: %w", path, err)
	}
	var f tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("modifier: parsing %q: %w", path, err)
	}

	t := DefaultTable()
	for name, eff := range f.Modifiers {
		m, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("modifier: %q: %w", path, err)
		}
		if m == None {
			return nil, fmt.Errorf("modifier: %q: cannot override effects for none", path)
		}
		if err := validateEffects(name, eff); err != nil {
			return nil, fmt.Errorf("modifier: %q: %w", path, err)
		}
		t.effects[m] = eff
	}
	return t, nil
}

func validateEffects(name string, e Effects) error {
	if e.HPMultiplier < 1 {
		return fmt.Errorf("%s: hp_multiplier must be >= 1, got %d", name, e.HPMultiplier)
	}
	if e.FireIntervalScale <= 0 {
		return fmt.Errorf("%s: fire_interval_scale must be > 0, got %v", name, e.FireIntervalScale)
	}
	if e.FiringDelayScale <= 0 {
		return fmt.Errorf("%s: firing_delay_scale must be > 0, got %v", name, e.FiringDelayScale)
	}
	if e.ExtraMoves < 0 {
		return fmt.Errorf("%s: extra_moves must be >= 0, got %d", name, e.ExtraMoves)
	}
	if e.MoveSpeedScale <= 0 {
		return fmt.Errorf("%s: move_speed_scale must be > 0, got %v", name, e.MoveSpeedScale)
	}
	return nil
}
