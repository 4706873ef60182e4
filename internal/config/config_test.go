package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Content: ContentConfig{
			TemplatesDir: "content/templates",
			ArenasDir:    "content/arenas",
		},
		Game: GameConfig{
			Arena:       "courtyard",
			Seed:        1,
			EventBuffer: 64,
		},
		Standoff: StandoffConfig{
			TickInterval:     16 * time.Millisecond,
			DecisionInterval: 500 * time.Millisecond,
			TileSize:         1,
			MoveSpeed:        3,
			ProjectileSpeed:  8,
			TurnRate:         180,
			TimeScale:        1,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
content:
  templates_dir: testdata/templates
  arenas_dir: testdata/arenas
game:
  arena: rooftop
  seed: 42
standoff:
  tick_interval: 20ms
  time_scale: 0.5
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "testdata/templates", cfg.Content.TemplatesDir)
	assert.Equal(t, "rooftop", cfg.Game.Arena)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
	assert.Equal(t, 20*time.Millisecond, cfg.Standoff.TickInterval)
	assert.Equal(t, 0.5, cfg.Standoff.TimeScale)
	// Defaults fill what the file omits.
	assert.Equal(t, 64, cfg.Game.EventBuffer)
	assert.Equal(t, 500*time.Millisecond, cfg.Standoff.DecisionInterval)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateContentDirs(t *testing.T) {
	cfg := validConfig()
	cfg.Content.TemplatesDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.ArenasDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateGameArenaEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Game.Arena = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateEventBuffer(t *testing.T) {
	cfg := validConfig()
	cfg.Game.EventBuffer = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateTimeScaleRange(t *testing.T) {
	cfg := validConfig()
	cfg.Standoff.TimeScale = 1.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Standoff.TimeScale = -0.1
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidTimeScaleRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		scale := rapid.Float64Range(0, 1).Draw(t, "scale")
		cfg := validConfig()
		cfg.Standoff.TimeScale = scale
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid time scale %v rejected: %v", scale, err)
		}
	})
}

func TestPropertyValidEventBuffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.IntRange(1, 4096).Draw(t, "buffer")
		cfg := validConfig()
		cfg.Game.EventBuffer = buf
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid event buffer %d rejected: %v", buf, err)
		}
	})
}

func TestPropertyNegativeIntervalsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.IntRange(1, 10_000).Draw(t, "ms")
		cfg := validConfig()
		cfg.Standoff.TickInterval = -time.Duration(ms) * time.Millisecond
		if err := cfg.Validate(); err == nil {
			t.Fatalf("negative tick interval %v accepted", cfg.Standoff.TickInterval)
		}
	})
}
