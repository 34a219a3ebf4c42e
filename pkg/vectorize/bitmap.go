package vectorize

import (
	"fmt"
	"image"
	"image/color"

	"sigtrace/pkg/cfg"
)

// PixelBuffer is a decoded image: Width*Height pixels of non-premultiplied
// RGBA, row-major with the origin at the top left.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// FormatError reports a pixel buffer whose data does not match its declared size.
type FormatError struct {
	Width  int
	Height int
	Len    int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("pixel buffer is %d bytes, expected %d for %dx%d RGBA",
		e.Len, e.Width*e.Height*4, e.Width, e.Height)
}

// NewPixelBuffer wraps pix as a width x height buffer after checking its length.
func NewPixelBuffer(width, height int, pix []byte) (*PixelBuffer, error) {
	buf := &PixelBuffer{Width: width, Height: height, Pix: pix}
	if err := buf.validate(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (buf *PixelBuffer) validate() error {
	if buf == nil {
		return &FormatError{}
	}
	if buf.Width < 0 || buf.Height < 0 || len(buf.Pix) != buf.Width*buf.Height*4 {
		return &FormatError{Width: buf.Width, Height: buf.Height, Len: len(buf.Pix)}
	}
	return nil
}

// Bitmap is a two-level image: 1 for ink, 0 for background.
// Data is indexed x+y*Width.
type Bitmap struct {
	Width  int
	Height int
	Data   []uint8
}

// NewBitmap returns an all-background bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Data:   make([]uint8, width*height),
	}
}

func (b *Bitmap) ColorModel() color.Model {
	return color.GrayModel
}

func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At renders ink as black on white.
func (b *Bitmap) At(x, y int) color.Color {
	if b.Ink(x, y) {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 0xff}
}

// Ink reports whether (x, y) is an ink pixel. Coordinates outside the bitmap are background.
func (b *Bitmap) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Data[x+y*b.Width] != 0
}

func (b *Bitmap) Set(x, y int, ink bool) {
	var v uint8
	if ink {
		v = 1
	}
	b.Data[x+y*b.Width] = v
}

// Count returns the number of ink pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Data {
		n += int(v)
	}
	return n
}

func (b *Bitmap) Clone() *Bitmap {
	data := make([]uint8, len(b.Data))
	copy(data, b.Data)
	return &Bitmap{Width: b.Width, Height: b.Height, Data: data}
}

// Binarize classifies every pixel of buf as ink or background. Pixels with
// alpha below 128 are always background; opaque pixels are ink when their
// Rec. 709 luminance is below threshold.
func Binarize(buf *PixelBuffer, threshold int) (*Bitmap, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}

	bitmap := NewBitmap(buf.Width, buf.Height)
	t := float64(threshold)
	for i, p := 0, 0; i < len(buf.Pix); i, p = i+4, p+1 {
		if int(buf.Pix[i+3]) < cfg.OpaqueAlpha {
			continue
		}
		r, g, b := float64(buf.Pix[i]), float64(buf.Pix[i+1]), float64(buf.Pix[i+2])
		if 0.2126*r+0.7152*g+0.0722*b < t {
			bitmap.Data[p] = 1
		}
	}
	return bitmap, nil
}
