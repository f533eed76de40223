package camera

// Skin-tone thresholds for the RGB heuristic. Empirically chosen; kept as-is
// rather than re-derived.
const (
	skinRMin  = 60
	skinGMin  = 40
	skinBMin  = 20
	skinRGGap = 15
	skinRBGap = 15
)

// DefaultPresenceThreshold is the minimum skin-pixel ratio that counts as a
// face being present. Strictly greater-than.
const DefaultPresenceThreshold = 0.15

// PresenceDetector estimates whether a face-like region occupies a pixel
// sample. It is deliberately a cheap heuristic, not a classifier: it counts
// skin-toned pixels and compares the ratio against a threshold. Stateless;
// the same buffer always yields the same answer.
type PresenceDetector struct {
	threshold float64
}

func NewPresenceDetector(threshold float64) *PresenceDetector {
	if threshold <= 0 {
		threshold = DefaultPresenceThreshold
	}
	return &PresenceDetector{threshold: threshold}
}

// Detect reports whether the sample's skin-pixel ratio exceeds the
// threshold.
func (d *PresenceDetector) Detect(sample *PixelSample) bool {
	total := sample.Size * sample.Size
	if total == 0 {
		return false
	}

	skin := 0
	px := sample.Pixels
	for i := 0; i+3 < len(px); i += 4 {
		if isSkinTone(px[i], px[i+1], px[i+2]) {
			skin++
		}
	}

	return float64(skin)/float64(total) > d.threshold
}

func isSkinTone(r, g, b uint8) bool {
	return r > skinRMin && g > skinGMin && b > skinBMin &&
		r > g && r > b &&
		int(r)-int(g) > skinRGGap && int(r)-int(b) > skinRBGap
}
