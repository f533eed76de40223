package camera

import (
	"image"
	"time"
)

// PixelSample is an immutable RGBA buffer cropped from the center of one
// video frame. Produced and consumed within a single detection tick.
type PixelSample struct {
	Pixels  []uint8 // RGBA, Size*Size*4 bytes
	Size    int
	TakenAt time.Time
}

// At returns the RGBA value of the pixel at (x, y).
func (s *PixelSample) At(x, y int) (r, g, b, a uint8) {
	i := (y*s.Size + x) * 4
	return s.Pixels[i], s.Pixels[i+1], s.Pixels[i+2], s.Pixels[i+3]
}

// FrameSampler extracts fixed-size center crops from a live frame source.
type FrameSampler struct {
	src  FrameSource
	size int
}

func NewFrameSampler(src FrameSource, size int) *FrameSampler {
	return &FrameSampler{src: src, size: size}
}

// Sample grabs the current frame and returns its center crop. Returns false
// when the source has no decoded frame yet or reports a degenerate size;
// such ticks produce no presence update.
func (s *FrameSampler) Sample(now time.Time) (*PixelSample, bool) {
	frame := s.src.Frame()
	if frame == nil {
		return nil, false
	}
	w, h := s.src.Size()
	if w <= 0 || h <= 0 {
		return nil, false
	}

	sample := &PixelSample{
		Pixels:  make([]uint8, s.size*s.size*4),
		Size:    s.size,
		TakenAt: now,
	}

	bounds := frame.Bounds()
	fw := bounds.Dx()
	fh := bounds.Dy()

	if fw >= s.size && fh >= s.size {
		cropPixels(sample, frame, bounds.Min.X+(fw-s.size)/2, bounds.Min.Y+(fh-s.size)/2)
	} else {
		// Frame smaller than the crop window: nearest-neighbour resize of
		// the whole frame instead.
		resizePixels(sample, frame)
	}

	return sample, true
}

func cropPixels(dst *PixelSample, frame image.Image, x0, y0 int) {
	i := 0
	for y := 0; y < dst.Size; y++ {
		for x := 0; x < dst.Size; x++ {
			r, g, b, a := frame.At(x0+x, y0+y).RGBA()

			// Convert from 16-bit to 8-bit
			dst.Pixels[i] = uint8(r >> 8)
			dst.Pixels[i+1] = uint8(g >> 8)
			dst.Pixels[i+2] = uint8(b >> 8)
			dst.Pixels[i+3] = uint8(a >> 8)
			i += 4
		}
	}
}

func resizePixels(dst *PixelSample, frame image.Image) {
	bounds := frame.Bounds()
	fw := bounds.Dx()
	fh := bounds.Dy()

	i := 0
	for y := 0; y < dst.Size; y++ {
		for x := 0; x < dst.Size; x++ {
			srcX := bounds.Min.X + x*fw/dst.Size
			srcY := bounds.Min.Y + y*fh/dst.Size
			r, g, b, a := frame.At(srcX, srcY).RGBA()

			dst.Pixels[i] = uint8(r >> 8)
			dst.Pixels[i+1] = uint8(g >> 8)
			dst.Pixels[i+2] = uint8(b >> 8)
			dst.Pixels[i+3] = uint8(a >> 8)
			i += 4
		}
	}
}
