package cfg

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// InkThreshold is the luminance below which an opaque pixel counts as ink.
// Scanners and cameras vary in contrast, so this is the first knob to turn.
var InkThreshold = 150

// OpaqueAlpha is the minimum alpha for a pixel to be considered at all.
// Anything more transparent is background regardless of its color.
var OpaqueAlpha = 128

// ThinningIterationCap bounds the number of Zhang-Suen passes. It is only a
// circuit breaker for pathological inputs such as a fully inked canvas.
var ThinningIterationCap = 100

var SimplifyEpsilon = 0.8

// SimplifyMinPoints is the point count a polyline must exceed before it is simplified.
var SimplifyMinPoints = 10

// FitError is the maximum allowed distance, in pixels, between a traced point and
// the fitted curve.
var FitError = 2.0

var StrokeWidth = 1.0

// JoinDistance is the largest endpoint gap bridged when joining strokes.
// Zero leaves the traced strokes as they are.
var JoinDistance = 0.0

// CoordinatePrecision is the number of decimals written for SVG coordinates.
var CoordinatePrecision = 3

// Config holds the tunables as read from the environment. Unset variables
// keep the defaults above.
type Config struct {
	Threshold       int     `envconfig:"THRESHOLD" default:"150"`
	StrokeWidth     float64 `envconfig:"STROKE_WIDTH" default:"1"`
	FitError        float64 `envconfig:"FIT_ERROR" default:"2.0"`
	SimplifyEpsilon float64 `envconfig:"SIMPLIFY_EPSILON" default:"0.8"`
	ThinningCap     int     `envconfig:"THINNING_CAP" default:"100"`
	JoinDistance    float64 `envconfig:"JOIN_DISTANCE" default:"0"`
	LogLevel        string  `envconfig:"LOG_LEVEL" default:"info"`
}

// EnvPrefix is the prefix for every environment variable read by Load.
const EnvPrefix = "SIGTRACE"

// Load reads SIGTRACE_* environment variables into a Config.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SlogLevel maps LogLevel onto a slog.Level, falling back to Info for
// unrecognized names.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
