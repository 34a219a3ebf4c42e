package signature

import (
	"sigtrace/pkg/bezier"
	"sigtrace/pkg/cfg"
)

// Options tune a conversion. Zero values take the defaults from pkg/cfg, so
// a literal zero cannot be asked for; use a negative value instead where
// noted.
type Options struct {
	// Threshold is the luminance below which an opaque pixel is ink. A
	// negative threshold makes no pixel ink.
	Threshold int
	// StrokeWidth is written to the SVG root.
	StrokeWidth float64
	// FitError is the largest distance a curve may stray from its polyline.
	// It must be positive; anything else makes every path fall back to lines.
	FitError float64
	// SimplifyEpsilon is the Ramer-Douglas-Peucker tolerance. A negative
	// value drops only points lying exactly on a chord.
	SimplifyEpsilon float64
	// SimplifyMinPoints is the length at or below which a path is not simplified.
	SimplifyMinPoints int
	// ThinningIterationCap bounds the number of thinning passes.
	ThinningIterationCap int
	// JoinDistance bridges gaps between stroke ends up to this distance.
	// Zero leaves traced strokes as they are.
	JoinDistance float64
	// Fitter replaces the default Schneider curve fitter.
	Fitter bezier.Fitter
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = cfg.InkThreshold
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = cfg.StrokeWidth
	}
	if o.FitError == 0 {
		o.FitError = cfg.FitError
	}
	if o.SimplifyEpsilon == 0 {
		o.SimplifyEpsilon = cfg.SimplifyEpsilon
	} else if o.SimplifyEpsilon < 0 {
		o.SimplifyEpsilon = 0
	}
	if o.SimplifyMinPoints == 0 {
		o.SimplifyMinPoints = cfg.SimplifyMinPoints
	}
	if o.ThinningIterationCap == 0 {
		o.ThinningIterationCap = cfg.ThinningIterationCap
	}
	if o.JoinDistance == 0 {
		o.JoinDistance = cfg.JoinDistance
	}
	if o.Fitter == nil {
		o.Fitter = bezier.Schneider{}
	}
	return o
}

// OptionsFromConfig maps loaded configuration onto Options.
func OptionsFromConfig(c *cfg.Config) Options {
	return Options{
		Threshold:            c.Threshold,
		StrokeWidth:          c.StrokeWidth,
		FitError:             c.FitError,
		SimplifyEpsilon:      c.SimplifyEpsilon,
		ThinningIterationCap: c.ThinningCap,
		JoinDistance:         c.JoinDistance,
	}
}
