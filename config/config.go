// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON string

// Config holds all simulation configuration parameters.
type Config struct {
	Profile   string                   `yaml:"profile"`
	Screen    ScreenConfig             `yaml:"screen"`
	Physics   PhysicsConfig            `yaml:"physics"`
	Parallel  ParallelConfig           `yaml:"parallel"`
	Profiles  map[string]ProfileConfig `yaml:"profiles"`
	Color     ColorConfig              `yaml:"color"`
	Modes     ModesConfig              `yaml:"modes"`
	Pointer   PointerConfig            `yaml:"pointer"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// PhysicsConfig holds tick scheduling parameters.
type PhysicsConfig struct {
	TickRate        float64 `yaml:"tick_rate"`         // ticks per second
	IndexIntervalMS int     `yaml:"index_interval_ms"` // spatial index rebuild cadence
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // inline evaluation below this many boids
}

// ProfileConfig is a named set of flocking defaults.
type ProfileConfig struct {
	Count        int     `yaml:"count"`
	BoidSize     float64 `yaml:"boid_size"`
	BoidSpeed    float64 `yaml:"boid_speed"`
	MaxNeighbors int     `yaml:"max_neighbors"`
	VisRange     float64 `yaml:"vis_range"`
	ProtRange    float64 `yaml:"prot_range"`
	FOVDegrees   float64 `yaml:"fov_degrees"` // half-angle of the perception cone
	Centering    float64 `yaml:"centering"`
	Avoidance    float64 `yaml:"avoidance"`
	Matching     float64 `yaml:"matching"`
	MouseChase   float64 `yaml:"mouse_chase"`
	MinSpeed     float64 `yaml:"min_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	BoundsWidth  float64 `yaml:"bounds_width"`
	BoundsHeight float64 `yaml:"bounds_height"`
	BoundSize    float64 `yaml:"bound_size"` // percent of the half-bounds that is free space
	TurnFactor   float64 `yaml:"turn_factor"`
}

// ColorConfig holds color diffusion parameters.
type ColorConfig struct {
	BlendEnabled bool    `yaml:"blend_enabled"`
	BlendFactor  float64 `yaml:"blend_factor"`
	RevertFactor float64 `yaml:"revert_factor"`
}

// ModesConfig holds the initial mode flags.
type ModesConfig struct {
	Predator bool `yaml:"predator"`
	Toroidal bool `yaml:"toroidal"`
}

// PointerConfig holds pointer target settings.
type PointerConfig struct {
	AlwaysOn bool `yaml:"always_on"` // track the mouse without holding a button
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of simulated time
	PerfWindow  int     `yaml:"perf_window"`  // ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickDT        time.Duration // 1 / Physics.TickRate
	IndexInterval time.Duration // Physics.IndexIntervalMS
	StatsTicks    int           // Telemetry.StatsWindow in ticks
	ScreenW32     float32
	ScreenH32     float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// A non-empty profile overrides the profile named in the file.
// Must be called before Cfg().
func Init(path, profile string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	if profile != "" {
		if err := cfg.SelectProfile(profile); err != nil {
			return err
		}
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path, profile string) {
	if err := Init(path, profile); err != nil {
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
	var user []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		user = data
	}
	return Parse(user)
}

// Parse merges a YAML document over the embedded defaults, validates the
// result and returns the decoded configuration.
func Parse(user []byte) (*Config, error) {
	merged := map[string]interface{}{}
	if err := yaml.Unmarshal(defaultsYAML, &merged); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(user) > 0 {
		var overlay map[string]interface{}
		if err := yaml.Unmarshal(user, &overlay); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		mergeMaps(merged, overlay)
	}

	if err := validate(merged); err != nil {
		return nil, err
	}

	// Re-encode so nested profile overrides keep their sibling defaults.
	data, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("re-encoding merged config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding merged config: %w", err)
	}

	if err := cfg.SelectProfile(cfg.Profile); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// mergeMaps overlays src onto dst. Nested mappings merge key by key;
// everything else is replaced.
func mergeMaps(dst, src map[string]interface{}) {
	for k, v := range src {
		sm, ok := v.(map[string]interface{})
		if !ok {
			dst[k] = v
			continue
		}
		dm, ok := dst[k].(map[string]interface{})
		if !ok {
			dm = map[string]interface{}{}
			dst[k] = dm
		}
		mergeMaps(dm, sm)
	}
}

// validate checks a generic config document against the embedded schema.
func validate(doc map[string]interface{}) error {
	sch, err := jsonschema.CompileString("schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	// The validator expects JSON-decoded values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config for validation: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding config for validation: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// SelectProfile makes name the active profile.
func (c *Config) SelectProfile(name string) error {
	p, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q (have %v)", name, c.ProfileNames())
	}
	if p.MinSpeed > p.MaxSpeed {
		return fmt.Errorf("profile %q: min_speed %v exceeds max_speed %v", name, p.MinSpeed, p.MaxSpeed)
	}
	c.Profile = name
	return nil
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the selected profile.
func (c *Config) Active() ProfileConfig {
	return c.Profiles[c.Profile]
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickDT = time.Duration(float64(time.Second) / c.Physics.TickRate)
	c.Derived.IndexInterval = time.Duration(c.Physics.IndexIntervalMS) * time.Millisecond
	c.Derived.StatsTicks = int(c.Telemetry.StatsWindow * c.Physics.TickRate)
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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
