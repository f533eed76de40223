package camera

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"
)

// ErrEncodeFailed signals that still-image encoding produced no data. It is
// retryable and distinct from device acquisition failures: the session stays
// streaming so the user can attempt another capture.
var ErrEncodeFailed = errors.New("capture encoding produced no data")

// CapturedImage is the immutable still-image artifact of one capture.
type CapturedImage struct {
	Data    []byte // JPEG bytes
	Width   int
	Height  int
	TakenAt time.Time
}

// CaptureEncoder turns the current video frame into a mirrored JPEG at the
// source's native resolution. Mirroring keeps the stored image consistent
// with the mirrored live preview the user was looking at.
type CaptureEncoder struct {
	quality int
}

func NewCaptureEncoder(quality int) *CaptureEncoder {
	if quality <= 0 || quality > 100 {
		quality = 92
	}
	return &CaptureEncoder{quality: quality}
}

// Encode snapshots the source's current frame. Fails with ErrEncodeFailed
// when the source has no frame or JPEG encoding yields nothing.
func (e *CaptureEncoder) Encode(src FrameSource, now time.Time) (*CapturedImage, error) {
	frame := src.Frame()
	if frame == nil {
		return nil, fmt.Errorf("no current frame: %w", ErrEncodeFailed)
	}
	w, h := src.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate frame %dx%d: %w", w, h, ErrEncodeFailed)
	}

	mirrored := mirrorHorizontal(frame)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, mirrored, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", ErrEncodeFailed)
	}
	if buf.Len() == 0 {
		return nil, ErrEncodeFailed
	}

	return &CapturedImage{
		Data:    buf.Bytes(),
		Width:   w,
		Height:  h,
		TakenAt: now,
	}, nil
}

func mirrorHorizontal(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, src.At(bounds.Min.X+(w-1-x), bounds.Min.Y+y))
		}
	}
	return dst
}
