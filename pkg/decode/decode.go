// Package decode turns encoded signature images into pixel buffers.
//
// PNG and JPEG come from the standard library; BMP, TIFF and WebP are
// registered from golang.org/x/image.
package decode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sigtrace/pkg/vectorize"
)

// DecodeError reports input that could not be turned into a pixel buffer.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var ErrEmpty = errors.New("no image data")

// Bytes decodes an encoded image in any registered format.
func Bytes(data []byte) (*vectorize.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Op: "image", Err: ErrEmpty}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Op: "image", Err: err}
	}
	buf, err := Image(img)
	if err != nil {
		return nil, &DecodeError{Op: format, Err: err}
	}
	return buf, nil
}

// DataURI decodes a base64 image, with or without a "data:<mime>;base64,"
// prefix.
func DataURI(s string) (*vectorize.PixelBuffer, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, &DecodeError{Op: "data URI", Err: errors.New("missing ','")}
		}
		header := s[len("data:"):comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, &DecodeError{Op: "data URI", Err: fmt.Errorf("unsupported encoding %q", header)}
		}
		s = s[comma+1:]
	}
	if s == "" {
		return nil, &DecodeError{Op: "data URI", Err: ErrEmpty}
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some producers drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, &DecodeError{Op: "base64", Err: err}
		}
	}
	return Bytes(data)
}

// Image copies a decoded image into a new non-premultiplied RGBA buffer
// whose origin is the image's top left corner.
func Image(img image.Image) (*vectorize.PixelBuffer, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Op: "image", Err: fmt.Errorf("empty bounds %v", b)}
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return vectorize.NewPixelBuffer(b.Dx(), b.Dy(), nrgba.Pix)
}
