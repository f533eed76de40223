package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNoFrame(t *testing.T) {
	e := NewCaptureEncoder(92)
	_, err := e.Encode(&fakeSource{}, time.Now())
	assert.ErrorIs(t, err, ErrEncodeFailed)
}

func TestEncodeDegenerateSize(t *testing.T) {
	e := NewCaptureEncoder(92)
	src := &fakeSource{frame: uniformImage(10, 10, color.RGBA{A: 255})}
	_, err := e.Encode(src, time.Now())
	assert.ErrorIs(t, err, ErrEncodeFailed)
}

func TestEncodeMirrorsFrame(t *testing.T) {
	// Left half red, right half green. The mirrored JPEG must have green
	// on the left.
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			if x < 40 {
				img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
			}
		}
	}

	e := NewCaptureEncoder(92)
	now := time.Now()
	captured, err := e.Encode(&fakeSource{frame: img, w: 80, h: 40}, now)
	require.NoError(t, err)
	require.NotEmpty(t, captured.Data)
	assert.Equal(t, 80, captured.Width)
	assert.Equal(t, 40, captured.Height)
	assert.Equal(t, now, captured.TakenAt)

	decoded, err := jpeg.Decode(bytes.NewReader(captured.Data))
	require.NoError(t, err)
	assert.Equal(t, 80, decoded.Bounds().Dx())
	assert.Equal(t, 40, decoded.Bounds().Dy())

	// Sample away from the seam; JPEG blurs block edges.
	r, g, _, _ := decoded.At(10, 20).RGBA()
	assert.Greater(t, g, r, "left side should be green after mirroring")

	r, g, _, _ = decoded.At(70, 20).RGBA()
	assert.Greater(t, r, g, "right side should be red after mirroring")
}

func TestEncoderQualityDefault(t *testing.T) {
	assert.Equal(t, 92, NewCaptureEncoder(0).quality)
	assert.Equal(t, 92, NewCaptureEncoder(101).quality)
	assert.Equal(t, 75, NewCaptureEncoder(75).quality)
}
