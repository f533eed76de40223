package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// sampleWithSkin builds a size×size sample whose first skinCount pixels are
// skin-toned and the rest black.
func sampleWithSkin(size, skinCount int) *PixelSample {
	s := &PixelSample{
		Pixels:  make([]uint8, size*size*4),
		Size:    size,
		TakenAt: time.Now(),
	}
	for i := 0; i < skinCount; i++ {
		s.Pixels[i*4] = 200   // R
		s.Pixels[i*4+1] = 120 // G
		s.Pixels[i*4+2] = 90  // B
		s.Pixels[i*4+3] = 255
	}
	return s
}

func TestDetectThresholdBoundary(t *testing.T) {
	d := NewPresenceDetector(DefaultPresenceThreshold)

	// 100×100 sample, 0.15 threshold: exactly 1500 skin pixels is not
	// enough (strictly greater-than), 1501 is.
	assert.False(t, d.Detect(sampleWithSkin(100, 1500)))
	assert.True(t, d.Detect(sampleWithSkin(100, 1501)))
}

func TestDetectIsPure(t *testing.T) {
	d := NewPresenceDetector(DefaultPresenceThreshold)
	sample := sampleWithSkin(100, 3000)

	first := d.Detect(sample)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.Detect(sample))
	}
}

func TestDetectEmptySample(t *testing.T) {
	d := NewPresenceDetector(DefaultPresenceThreshold)
	assert.False(t, d.Detect(&PixelSample{Size: 0}))
}

func TestDetectAllSkin(t *testing.T) {
	d := NewPresenceDetector(DefaultPresenceThreshold)
	assert.True(t, d.Detect(sampleWithSkin(100, 10000)))
}

func TestIsSkinTone(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{"typical skin", 200, 120, 90, true},
		{"too dark", 50, 30, 10, false},
		{"green dominant", 100, 150, 50, false},
		{"blue dominant", 100, 60, 150, false},
		{"red-green gap too small", 100, 90, 40, false},
		{"red-blue gap too small", 100, 60, 90, false},
		{"boundary gaps fail closed", 80, 65, 65, false}, // gaps exactly 15
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSkinTone(tt.r, tt.g, tt.b))
		})
	}
}

func TestNewPresenceDetectorDefault(t *testing.T) {
	d := NewPresenceDetector(0)
	assert.Equal(t, DefaultPresenceThreshold, d.threshold)
}
