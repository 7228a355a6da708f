// Package config loads viewport setups from YAML documents.
//
// A document names a schema version, the engine tick rate, one viewport (a camera or a window)
// and any number of keyframe paths. Documents are validated before use and can be watched for
// changes on disk.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the schema version constraint accepted by Validate.
const SupportedVersions = "^1.0.0"

// CurrentVersion is the schema version written by Default.
const CurrentVersion = "1.0.0"

// TypeWindow is the viewport type name selecting a 2D window.
const TypeWindow = "window"

var (
	// ErrUnsupportedVersion is returned when a document's version does not satisfy SupportedVersions.
	ErrUnsupportedVersion = errors.New("unsupported config version")
	// ErrInvalid is returned when a document fails validation.
	ErrInvalid = errors.New("invalid config")
)

// Config is the root of a configuration document.
type Config struct {
	Version  string         `yaml:"version"`
	TickRate int            `yaml:"tick_rate,omitempty"`
	Viewport ViewportConfig `yaml:"viewport"`
	Paths    []PathConfig   `yaml:"paths,omitempty"`
}

// ViewportConfig describes the viewport to build. Zero values keep the viewport defaults.
type ViewportConfig struct {
	// Type is "perspective", "orthographic" or "window".
	Type         string      `yaml:"type"`
	Kind         string      `yaml:"kind,omitempty"`
	FieldOfView  float32     `yaml:"field_of_view,omitempty"`
	ScreenWidth  int         `yaml:"screen_width,omitempty"`
	ScreenHeight int         `yaml:"screen_height,omitempty"`
	SceneCenter  *[3]float32 `yaml:"scene_center,omitempty"`
	SceneRadius  float32     `yaml:"scene_radius,omitempty"`
	Position     *[3]float32 `yaml:"position,omitempty"`
	// Orientation is a quaternion as [w, x, y, z].
	Orientation *[4]float32 `yaml:"orientation,omitempty"`
	ZNear       float32     `yaml:"z_near,omitempty"`
	ZFar        float32     `yaml:"z_far,omitempty"`
	LeftHanded  bool        `yaml:"left_handed,omitempty"`
	// BoundaryEquations keeps frustum planes refreshed on every Update.
	BoundaryEquations bool `yaml:"boundary_equations,omitempty"`
}

// PathConfig is a keyframe path stored under Key.
type PathConfig struct {
	Key       int              `yaml:"key"`
	Loop      bool             `yaml:"loop,omitempty"`
	Speed     float64          `yaml:"speed,omitempty"`
	KeyFrames []KeyFrameConfig `yaml:"keyframes"`
}

// KeyFrameConfig is one keyframe. Without a time the keyframe is appended one second after the previous one.
type KeyFrameConfig struct {
	Time        *float64    `yaml:"time,omitempty"`
	Position    [3]float32  `yaml:"position"`
	Orientation *[4]float32 `yaml:"orientation,omitempty"`
	// Angle is the rotation about Z in radians, used by window paths instead of Orientation.
	Angle     *float32    `yaml:"angle,omitempty"`
	Magnitude *[3]float32 `yaml:"magnitude,omitempty"`
}

// Default returns a document describing a default perspective camera.
//
// Returns:
//   - *Config: the default configuration
func Default() *Config {
	return &Config{
		Version:  CurrentVersion,
		TickRate: 60,
		Viewport: ViewportConfig{Type: "perspective"},
	}
}

// Parse decodes and validates a YAML document.
//
// Parameters:
//   - data: the YAML bytes
//
// Returns:
//   - *Config: the decoded configuration
//   - error: a decode or validation error
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads, decodes and validates the YAML document at path.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Config: the decoded configuration
//   - error: a read, decode or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path as YAML.
//
// Parameters:
//   - cfg: the configuration
//   - path: the file path
//
// Returns:
//   - error: a validation, encode or write error
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the version against SupportedVersions and every field against its range.
//
// Returns:
//   - error: nil, or an error wrapping ErrUnsupportedVersion or ErrInvalid
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}
	if err := checkVersion(c.Version); err != nil {
		return err
	}
	if c.TickRate < 0 {
		return fmt.Errorf("%w: tick_rate %d must not be negative", ErrInvalid, c.TickRate)
	}
	if err := c.Viewport.validate(); err != nil {
		return err
	}

	seen := make(map[int]bool, len(c.Paths))
	for i := range c.Paths {
		p := &c.Paths[i]
		if seen[p.Key] {
			return fmt.Errorf("%w: paths[%d]: duplicate key %d", ErrInvalid, i, p.Key)
		}
		seen[p.Key] = true
		if err := p.validate(); err != nil {
			return fmt.Errorf("paths[%d]: %w", i, err)
		}
	}
	return nil
}

// IsWindow reports whether the viewport type selects a 2D window.
//
// Returns:
//   - bool: true for "window"
func (v ViewportConfig) IsWindow() bool {
	return strings.EqualFold(strings.TrimSpace(v.Type), TypeWindow)
}

func checkVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalid)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrInvalid, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

func (v ViewportConfig) validate() error {
	if !v.IsWindow() {
		if _, err := camera.ParseType(v.Type); err != nil {
			return fmt.Errorf("%w: viewport.type: %v", ErrInvalid, err)
		}
	}
	if v.Kind != "" {
		if _, err := camera.ParseKind(v.Kind); err != nil {
			return fmt.Errorf("%w: viewport.kind: %v", ErrInvalid, err)
		}
	}
	if v.FieldOfView < 0 || v.FieldOfView >= math.Pi {
		return fmt.Errorf("%w: viewport.field_of_view %v must lie in (0, π)", ErrInvalid, v.FieldOfView)
	}
	if v.ScreenWidth < 0 || v.ScreenHeight < 0 {
		return fmt.Errorf("%w: viewport screen size %dx%d must not be negative", ErrInvalid, v.ScreenWidth, v.ScreenHeight)
	}
	if v.SceneRadius < 0 {
		return fmt.Errorf("%w: viewport.scene_radius %v must not be negative", ErrInvalid, v.SceneRadius)
	}
	if v.ZNear != 0 || v.ZFar != 0 {
		if v.ZNear < 0 || v.ZFar <= v.ZNear {
			return fmt.Errorf("%w: viewport clipping range [%v, %v] must satisfy 0 <= z_near < z_far", ErrInvalid, v.ZNear, v.ZFar)
		}
	}
	if v.Orientation != nil && quatNorm(*v.Orientation) == 0 {
		return fmt.Errorf("%w: viewport.orientation must not be zero", ErrInvalid)
	}
	return nil
}

func (p *PathConfig) validate() error {
	if len(p.KeyFrames) == 0 {
		return fmt.Errorf("%w: path %d has no keyframes", ErrInvalid, p.Key)
	}
	times := p.Times()
	for i, kf := range p.KeyFrames {
		if i > 0 && times[i] <= times[i-1] {
			return fmt.Errorf("%w: keyframes[%d]: time %v must be greater than %v", ErrInvalid, i, times[i], times[i-1])
		}
		if kf.Orientation != nil && quatNorm(*kf.Orientation) == 0 {
			return fmt.Errorf("%w: keyframes[%d]: orientation must not be zero", ErrInvalid, i)
		}
		if kf.Magnitude != nil {
			for _, m := range kf.Magnitude {
				if m == 0 {
					return fmt.Errorf("%w: keyframes[%d]: magnitude %v has a zero component", ErrInvalid, i, *kf.Magnitude)
				}
			}
		}
	}
	return nil
}

// Times returns the resolved time of every keyframe. The first untimed keyframe sits at 0 and
// later untimed keyframes one second after their predecessor.
//
// Returns:
//   - []float64: one time per keyframe
func (p *PathConfig) Times() []float64 {
	out := make([]float64, len(p.KeyFrames))
	for i, kf := range p.KeyFrames {
		switch {
		case kf.Time != nil:
			out[i] = *kf.Time
		case i > 0:
			out[i] = out[i-1] + 1
		}
	}
	return out
}

func quatNorm(q [4]float32) float64 {
	var sum float64
	for _, c := range q {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}
