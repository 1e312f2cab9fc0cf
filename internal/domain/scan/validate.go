package scan

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedFormat rejects extensions that are neither medical
	// imaging nor common photographic formats.
	ErrUnsupportedFormat = errors.New("Unsupported file format")
	// ErrColoredImage rejects photographic uploads flagged as colored.
	ErrColoredImage = errors.New("Invalid image uploaded. Medical scans should be grayscale. Try again with a proper medical scan (CT/MRI/X-Ray).")
)

var (
	medicalExtensions = map[string]bool{".dcm": true, ".dicom": true}
	coloredExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
)

// FileClass is the outcome of the extension gate.
type FileClass struct {
	// Type is "medical" for imaging formats, "image" for photographic ones.
	Type string
	// NeedsValidation marks photographic files that must pass the color gate.
	NeedsValidation bool
}

// ClassifyFilename applies the extension gate. DICOM files are accepted
// unconditionally; photographic formats are accepted provisionally.
func ClassifyFilename(filename string) (FileClass, error) {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}

	if medicalExtensions[ext] {
		return FileClass{Type: "medical"}, nil
	}
	if coloredExtensions[ext] {
		return FileClass{Type: "image", NeedsValidation: true}, nil
	}
	return FileClass{}, ErrUnsupportedFormat
}

// coloredDetectionRate is the simulated classifier's detection probability
// for photographic uploads. The gate is deliberately probabilistic: there is
// no pixel inspection behind it.
const coloredDetectionRate = 0.95

// ColorGate simulates a colored-image classifier over photographic uploads.
type ColorGate struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewColorGate builds a gate over the given randomness source. Tests pass a
// seeded source to pin outcomes.
func NewColorGate(rnd *rand.Rand) *ColorGate {
	return &ColorGate{rnd: rnd}
}

// DetectColored reports whether the upload is flagged as a colored photograph.
// Only photographic extensions are ever flagged.
func (g *ColorGate) DetectColored(filename string) bool {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	if !coloredExtensions[ext] {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64() < coloredDetectionRate
}
