// Package signature converts raster signature images to SVG stroke paths.
//
// A conversion binarizes the image, thins the ink to a one pixel skeleton,
// traces the skeleton into polylines, simplifies them and fits cubic Bézier
// curves through them. A polyline whose curve fit fails is drawn with
// straight lines instead; that never fails the conversion.
package signature

import (
	"bytes"
	"fmt"
	"image"

	"sigtrace/pkg/bezier"
	"sigtrace/pkg/decode"
	"sigtrace/pkg/geometry"
	"sigtrace/pkg/svgdoc"
	"sigtrace/pkg/svgpath"
	"sigtrace/pkg/vectorize"
)

// Result is a finished conversion.
type Result struct {
	SVG    string
	Width  int
	Height int

	// Skeleton is the thinned ink, kept for debugging output.
	Skeleton *vectorize.Bitmap

	InkPixels      int
	SkeletonPixels int
	ThinningPasses int
	// TracedPaths counts polylines after tracing and joining.
	TracedPaths int
	// Fallbacks counts paths drawn with straight lines after a failed curve fit.
	Fallbacks int
	// Placeholder is set when the document holds a text placeholder
	// instead of paths.
	Placeholder bool
}

// Convert turns a pixel buffer into an SVG document. The only errors are
// for a buffer whose data does not match its size.
func Convert(buf *vectorize.PixelBuffer, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	log := Logger()

	bitmap, err := vectorize.Binarize(buf, opts.Threshold)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	res := &Result{
		Width:     buf.Width,
		Height:    buf.Height,
		InkPixels: bitmap.Count(),
	}
	log.Debug("binarized", "width", buf.Width, "height", buf.Height, "threshold", opts.Threshold, "ink", res.InkPixels)

	res.Skeleton, res.ThinningPasses = vectorize.Thin(bitmap, opts.ThinningIterationCap)
	res.SkeletonPixels = res.Skeleton.Count()
	if res.ThinningPasses >= opts.ThinningIterationCap {
		log.Debug("thinning stopped at the pass limit", "passes", res.ThinningPasses)
	}
	log.Debug("thinned", "passes", res.ThinningPasses, "skeleton", res.SkeletonPixels)

	lines := vectorize.JoinLines(vectorize.Trace(res.Skeleton), opts.JoinDistance)
	res.TracedPaths = len(lines)
	log.Debug("traced", "paths", res.TracedPaths, "joinDistance", opts.JoinDistance)

	paths := make([]*svgpath.SubPath, 0, len(lines))
	for i, line := range lines {
		points := geometry.SimplifyAbove(line.ToPolyline(), opts.SimplifyMinPoints, opts.SimplifyEpsilon)
		curve, err := fitPath(opts.Fitter, points, opts.FitError)
		if err != nil {
			log.Warn("curve fit failed, drawing straight lines", "path", i, "points", len(points), "err", err)
			res.Fallbacks++
			paths = append(paths, svgpath.FromPolyline(points))
			continue
		}
		paths = append(paths, svgpath.FromSegments(curve))
	}

	doc, placeholder := svgdoc.Document(paths, buf.Width, buf.Height, opts.StrokeWidth)
	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal svg: %w", err)
	}
	res.SVG = string(data)
	res.Placeholder = placeholder
	log.Debug("converted", "paths", len(paths), "fallbacks", res.Fallbacks, "placeholder", placeholder, "bytes", len(res.SVG))
	return res, nil
}

// fitPath runs the fitter, treating an empty result or a panic as a failure.
func fitPath(fitter bezier.Fitter, points []geometry.Point, maxError float64) (curve bezier.Path, err error) {
	defer func() {
		if r := recover(); r != nil {
			curve, err = nil, &bezier.CurveFitError{Points: len(points), Reason: fmt.Sprintf("fitter panicked: %v", r)}
		}
	}()
	curve, err = fitter.Fit(points, maxError)
	if err != nil {
		return nil, err
	}
	if len(curve) == 0 {
		return nil, &bezier.CurveFitError{Points: len(points), Reason: "no segments"}
	}
	return curve, nil
}

// ConvertImage converts an already decoded image.
func ConvertImage(img image.Image, opts Options) (*Result, error) {
	buf, err := decode.Image(img)
	if err != nil {
		return nil, err
	}
	return Convert(buf, opts)
}

// ConvertEncoded converts an encoded image, given either as raw bytes in a
// registered format or as a base64 data URI.
func ConvertEncoded(data []byte, opts Options) (*Result, error) {
	var buf *vectorize.PixelBuffer
	var err error
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("data:")) {
		buf, err = decode.DataURI(string(data))
	} else {
		buf, err = decode.Bytes(data)
	}
	if err != nil {
		return nil, err
	}
	return Convert(buf, opts)
}

// ConvertBase64 converts a base64 encoded image, with or without a data URI
// prefix.
func ConvertBase64(s string, opts Options) (*Result, error) {
	buf, err := decode.DataURI(s)
	if err != nil {
		return nil, err
	}
	return Convert(buf, opts)
}

// SVG converts buf and returns just the document.
func SVG(buf *vectorize.PixelBuffer, opts Options) (string, error) {
	res, err := Convert(buf, opts)
	if err != nil {
		return "", err
	}
	return res.SVG, nil
}
