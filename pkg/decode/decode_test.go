package decode_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"sigtrace/pkg/decode"
)

// signature returns a 4x3 transparent image with one opaque black pixel at (2, 1).
func signature() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(2, 1, color.NRGBA{A: 0xff})
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pixel(pix []byte, width, x, y int) []byte {
	i := 4 * (y*width + x)
	return pix[i : i+4]
}

func TestBytesPNG(t *testing.T) {
	buf, err := decode.Bytes(encodePNG(t, signature()))
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Width)
	assert.Equal(t, 3, buf.Height)
	require.Len(t, buf.Pix, 4*4*3)
	assert.Equal(t, []byte{0, 0, 0, 0xff}, pixel(buf.Pix, 4, 2, 1))
	assert.Equal(t, byte(0), pixel(buf.Pix, 4, 0, 0)[3])
}

func TestBytesBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(0, 1, color.Black)
	img.Set(1, 1, color.White)
	var data bytes.Buffer
	require.NoError(t, bmp.Encode(&data, img))

	buf, err := decode.Bytes(data.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, pixel(buf.Pix, 2, 0, 0))
	assert.Equal(t, []byte{0, 0, 0, 0xff}, pixel(buf.Pix, 2, 1, 0))
}

func TestDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(encodePNG(t, signature()))
	for _, input := range []string{
		"data:image/png;base64," + encoded,
		encoded,
		"  " + encoded + "\n",
	} {
		buf, err := decode.DataURI(input)
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0xff}, pixel(buf.Pix, 4, 2, 1))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"empty bytes", func() error { _, err := decode.Bytes(nil); return err }},
		{"garbage bytes", func() error { _, err := decode.Bytes([]byte("not an image")); return err }},
		{"truncated png", func() error { _, err := decode.Bytes(encodePNG(t, signature())[:20]); return err }},
		{"empty data URI", func() error { _, err := decode.DataURI("data:image/png;base64,"); return err }},
		{"not base64", func() error { _, err := decode.DataURI("data:image/png;base64,@@@"); return err }},
		{"not base64 encoded", func() error { _, err := decode.DataURI("data:image/png,abc"); return err }},
		{"no comma", func() error { _, err := decode.DataURI("data:image/png;base64"); return err }},
	}
	for _, test := range tests {
		err := test.run()
		var decodeErr *decode.DecodeError
		assert.True(t, errors.As(err, &decodeErr), "%s: expected a DecodeError, got %v", test.name, err)
	}

	_, err := decode.Bytes(nil)
	assert.ErrorIs(t, err, decode.ErrEmpty)
}

func TestImageMovesOrigin(t *testing.T) {
	sub := signature().SubImage(image.Rect(1, 1, 4, 3))
	buf, err := decode.Image(sub)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, []byte{0, 0, 0, 0xff}, pixel(buf.Pix, 3, 1, 0))

	_, err = decode.Image(image.NewNRGBA(image.Rect(0, 0, 0, 5)))
	var decodeErr *decode.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}
