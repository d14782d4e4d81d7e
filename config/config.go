// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Collision CollisionConfig `yaml:"collision"`
	Atoms     AtomsConfig     `yaml:"atoms"`
	Neutrons  NeutronsConfig  `yaml:"neutrons"`
	Player    PlayerConfig    `yaml:"player"`
	Pickups   PickupsConfig   `yaml:"pickups"`
	Emitter   EmitterConfig   `yaml:"emitter"`
	Camera    CameraConfig    `yaml:"camera"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Debug     DebugConfig     `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// CollisionConfig holds broad-phase parameters.
type CollisionConfig struct {
	CellSize  float64 `yaml:"cell_size"`
	TraceLogs bool    `yaml:"trace_logs"` // Debug-log every resolved collider
}

// AtomsConfig holds atom spawning and fission parameters.
type AtomsConfig struct {
	Initial        int     `yaml:"initial"`
	SpawnRate      float64 `yaml:"spawn_rate"` // Probability per second of a new atom outside the screen
	MaxGeneration  uint32  `yaml:"max_generation"`
	Radius         float64 `yaml:"radius"`
	Scale          float64 `yaml:"scale"`
	Damage         float64 `yaml:"damage"`
	ChildCount     int     `yaml:"child_count"`
	NeutronCount   int     `yaml:"neutron_count"`
	ChildSpeed     float64 `yaml:"child_speed"`
	ConeHalfAngle  float64 `yaml:"cone_half_angle"`
	SpinBase       float64 `yaml:"spin_base"`
	SpinJitter     float64 `yaml:"spin_jitter"`
	ShakeIntensity float64 `yaml:"shake_intensity"`
	ShakeDuration  float64 `yaml:"shake_duration"`
}

// NeutronsConfig holds projectile parameters.
type NeutronsConfig struct {
	Radius       float64 `yaml:"radius"`
	OffsetY      float64 `yaml:"offset_y"` // Local collider offset along Y
	Scale        float64 `yaml:"scale"`
	Lifespan     float64 `yaml:"lifespan"`
	Spin         float64 `yaml:"spin"`
	Damage       float64 `yaml:"damage"`
	FissionSpeed float64 `yaml:"fission_speed"`
}

// PlayerConfig holds player parameters.
type PlayerConfig struct {
	Radius       float64 `yaml:"radius"`
	Health       float64 `yaml:"health"`
	Speed        float64 `yaml:"speed"`
	DashStrength float64 `yaml:"dash_strength"`
	DashDuration float64 `yaml:"dash_duration"`
	DashCooldown float64 `yaml:"dash_cooldown"`
	StartBullets int     `yaml:"start_bullets"`
	MaxBullets   int     `yaml:"max_bullets"`
	FireSpeed    float64 `yaml:"fire_speed"`
	FireCooldown float64 `yaml:"fire_cooldown"`
}

// PickupsConfig holds bullet pickup parameters.
type PickupsConfig struct {
	SpawnRate float64 `yaml:"spawn_rate"`
	Radius    float64 `yaml:"radius"`
	Bullets   int     `yaml:"bullets"`
}

// EmitterConfig holds the stationary neutron emitter parameters.
type EmitterConfig struct {
	Enabled bool    `yaml:"enabled"`
	Period  float64 `yaml:"period"`
	Count   int     `yaml:"count"`
	Speed   float64 `yaml:"speed"`
}

// CameraConfig holds camera follow and shake parameters.
type CameraConfig struct {
	MinSmooth    float64 `yaml:"min_smooth"` // Follow rate per second near the target
	MaxSmooth    float64 `yaml:"max_smooth"` // Follow rate per second at MaxDistance
	MaxDistance  float64 `yaml:"max_distance"`
	SnapDistance float64 `yaml:"snap_distance"`
	LeadFactor   float64 `yaml:"lead_factor"`
	ShakeScale   float64 `yaml:"shake_scale"`
	SettingsApp  string  `yaml:"settings_app"` // gdata application name, empty disables persistence
}

// AudioConfig holds audio parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
	ThreatStep int     `yaml:"threat_step"` // Live atoms per extra threat level
	MaxThreat  int     `yaml:"max_threat"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks per perf rolling window
}

// DebugConfig holds debug toggles.
type DebugConfig struct {
	ShowIndicators bool `yaml:"show_indicators"`
	ShowHUD        bool `yaml:"show_hud"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32       float32
	ScreenW32  float32
	ScreenH32  float32
	StatsTicks int32 // Ticks per stats window
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Collision.CellSize <= 0 {
		return fmt.Errorf("collision.cell_size must be positive, got %v", c.Collision.CellSize)
	}
	if c.Atoms.ConeHalfAngle < 0 {
		return fmt.Errorf("atoms.cone_half_angle must not be negative, got %v", c.Atoms.ConeHalfAngle)
	}
	if c.Player.MaxBullets < c.Player.StartBullets {
		return fmt.Errorf("player.max_bullets (%d) below player.start_bullets (%d)",
			c.Player.MaxBullets, c.Player.StartBullets)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	ticks := int32(c.Telemetry.StatsWindow/c.Physics.DT + 0.5)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsTicks = ticks

	if c.Audio.ThreatStep <= 0 {
		c.Audio.ThreatStep = 1
	}
	if c.Audio.MaxThreat <= 0 {
		c.Audio.MaxThreat = 4
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
