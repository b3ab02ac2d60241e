package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/units"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the decode tuning parameters. Every field is
// optional; the Get* methods fall back to the built-in defaults, so partial
// configs are safe.
type TuningConfig struct {
	// Scoring params
	ConfidenceThreshold    *float64 `json:"confidence_threshold,omitempty" yaml:"confidence_threshold,omitempty"`
	PlaceholderScore       *float64 `json:"placeholder_score,omitempty" yaml:"placeholder_score,omitempty"`
	LowConfidenceThreshold *float64 `json:"low_confidence_threshold,omitempty" yaml:"low_confidence_threshold,omitempty"`

	// Worker params
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Device geometry overrides
	BaseOffset         *int               `json:"base_offset,omitempty" yaml:"base_offset,omitempty"`
	CharGap            *int               `json:"char_gap,omitempty" yaml:"char_gap,omitempty"`
	SecondsDigitX      *int               `json:"seconds_digit_x,omitempty" yaml:"seconds_digit_x,omitempty"`
	GlyphTop           *int               `json:"glyph_top,omitempty" yaml:"glyph_top,omitempty"`
	VerticalCandidates []device.Candidate `json:"vertical_candidates,omitempty" yaml:"vertical_candidates,omitempty"`

	// FFmpegBinary overrides the ffmpeg executable looked up on PATH.
	FFmpegBinary *string `json:"ffmpeg_binary,omitempty" yaml:"ffmpeg_binary,omitempty"`

	// Output params
	OverlayTimezone *string `json:"overlay_timezone,omitempty" yaml:"overlay_timezone,omitempty"`
	SpeedUnits      *string `json:"speed_units,omitempty" yaml:"speed_units,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON or YAML file.
// The file must have a .json, .yaml or .yml extension and be under the max
// file size. Fields omitted from the file keep their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/overlay/*/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	for name, v := range map[string]*float64{
		"confidence_threshold":     c.ConfidenceThreshold,
		"placeholder_score":        c.PlaceholderScore,
		"low_confidence_threshold": c.LowConfidenceThreshold,
	} {
		if v != nil && (*v <= 0 || *v > 1) {
			return fmt.Errorf("%s must be in (0, 1], got %f", name, *v)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	for name, v := range map[string]*int{
		"base_offset":     c.BaseOffset,
		"char_gap":        c.CharGap,
		"seconds_digit_x": c.SecondsDigitX,
		"glyph_top":       c.GlyphTop,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	if c.FFmpegBinary != nil && *c.FFmpegBinary == "" {
		return fmt.Errorf("ffmpeg_binary must not be empty when set")
	}
	if c.OverlayTimezone != nil {
		if _, err := units.LoadLocation(*c.OverlayTimezone); err != nil {
			return fmt.Errorf("overlay_timezone: %w", err)
		}
	}
	if c.SpeedUnits != nil {
		if err := units.ValidateUnit(*c.SpeedUnits); err != nil {
			return fmt.Errorf("speed_units: %w", err)
		}
	}
	return nil
}

// GetConfidenceThreshold returns the confidence_threshold value or the default.
func (c *TuningConfig) GetConfidenceThreshold() float64 {
	if c.ConfidenceThreshold == nil {
		return 0.8
	}
	return *c.ConfidenceThreshold
}

// GetPlaceholderScore returns the placeholder_score value or the default.
func (c *TuningConfig) GetPlaceholderScore() float64 {
	if c.PlaceholderScore == nil {
		return 0.8
	}
	return *c.PlaceholderScore
}

// GetLowConfidenceThreshold returns the low_confidence_threshold value or the default.
func (c *TuningConfig) GetLowConfidenceThreshold() float64 {
	if c.LowConfidenceThreshold == nil {
		return 0.85
	}
	return *c.LowConfidenceThreshold
}

// GetWorkers returns the workers value, or GOMAXPROCS when unset or zero.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}

// GetFFmpegBinary returns the ffmpeg_binary value or the default.
func (c *TuningConfig) GetFFmpegBinary() string {
	if c.FFmpegBinary == nil {
		return "ffmpeg"
	}
	return *c.FFmpegBinary
}

// GetOverlayTimezone returns the overlay_timezone value or the default.
func (c *TuningConfig) GetOverlayTimezone() string {
	if c.OverlayTimezone == nil {
		return "UTC"
	}
	return *c.OverlayTimezone
}

// GetSpeedUnits returns the speed_units value or the default.
func (c *TuningConfig) GetSpeedUnits() string {
	if c.SpeedUnits == nil {
		return units.KPH
	}
	return *c.SpeedUnits
}

// ApplyProfile overlays the geometry overrides on p and validates the
// result.
func (c *TuningConfig) ApplyProfile(p device.Profile) (device.Profile, error) {
	if c.BaseOffset != nil {
		p.BaseOffset = *c.BaseOffset
	}
	if c.CharGap != nil {
		p.CharGap = *c.CharGap
	}
	if c.SecondsDigitX != nil {
		p.SecondsDigitX = *c.SecondsDigitX
	}
	if c.GlyphTop != nil {
		p.GlyphTop = *c.GlyphTop
	}
	if len(c.VerticalCandidates) > 0 {
		p.Candidates = append([]device.Candidate(nil), c.VerticalCandidates...)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
