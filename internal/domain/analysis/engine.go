// Package analysis runs the simulated stone detection pipeline. Accepted
// scans are queued as durable jobs and worked by a polling runner; findings
// are synthesized from calibrated distributions rather than pixel data.
package analysis

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Coordinates locate a stone within the normalized scan volume.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Stone is a single detected calculus.
type Stone struct {
	ID          int         `json:"id"`
	Size        float64     `json:"size"`
	Location    string      `json:"location"`
	Probability float64     `json:"probability"`
	Composition string      `json:"composition"`
	Coordinates Coordinates `json:"coordinates"`
}

// Findings is the full analysis output persisted on the scan row.
type Findings struct {
	StonesDetected  int      `json:"stones_detected"`
	Stones          []Stone  `json:"stones"`
	MaxSize         float64  `json:"max_size"`
	Confidence      float64  `json:"confidence"`
	AnalysisTime    int64    `json:"analysis_time"`
	ScanQuality     string   `json:"scan_quality"`
	Recommendations []string `json:"recommendations"`
}

// Engine produces findings for a scan of the given modality.
type Engine interface {
	Analyze(scanType string) *Findings
}

var kidneyLocations = []string{
	"Left kidney, upper pole",
	"Left kidney, middle pole",
	"Left kidney, lower pole",
	"Right kidney, upper pole",
	"Right kidney, middle pole",
	"Right kidney, lower pole",
	"Left ureter, proximal",
	"Right ureter, proximal",
	"Bladder region",
}

var stoneCompositions = []string{
	"Calcium oxalate",
	"Calcium phosphate",
	"Uric acid",
	"Struvite",
	"Cystine",
}

var scanQualities = []string{"Excellent", "Good", "Fair"}

// baseAccuracy is the per-modality confidence baseline. CT resolves stones
// best, plain films worst.
var baseAccuracy = map[string]float64{
	"CT":    0.95,
	"MRI":   0.88,
	"X-Ray": 0.75,
}

const defaultAccuracy = 0.80

// SimulatedEngine draws findings from fixed distributions. Safe for
// concurrent use.
type SimulatedEngine struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewSimulatedEngine builds an engine over the given randomness source.
// Tests pass a seeded source to pin outcomes.
func NewSimulatedEngine(rnd *rand.Rand) *SimulatedEngine {
	return &SimulatedEngine{rnd: rnd, now: time.Now}
}

func (e *SimulatedEngine) Analyze(scanType string) *Findings {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Single stone dominates. 85% one, 10% two, 5% three.
	var count int
	switch r := e.rnd.Float64(); {
	case r < 0.85:
		count = 1
	case r < 0.95:
		count = 2
	default:
		count = 3
	}

	stones := make([]Stone, 0, count)
	maxSize := 0.0
	for i := 0; i < count; i++ {
		size := round1(e.rnd.Float64()*1.2 + 0.4)
		if size > maxSize {
			maxSize = size
		}
		stones = append(stones, Stone{
			ID:          i + 1,
			Size:        size,
			Location:    kidneyLocations[e.rnd.Intn(len(kidneyLocations))],
			Probability: round2(e.rnd.Float64()*0.15 + 0.85),
			Composition: stoneCompositions[e.rnd.Intn(len(stoneCompositions))],
			Coordinates: Coordinates{
				X: e.rnd.Intn(100),
				Y: e.rnd.Intn(100),
				Z: e.rnd.Intn(50),
			},
		})
	}

	base, ok := baseAccuracy[scanType]
	if !ok {
		base = defaultAccuracy
	}
	confidence := base + (e.rnd.Float64()*0.05 - 0.025)
	if confidence > 0.99 {
		confidence = 0.99
	}

	return &Findings{
		StonesDetected:  count,
		Stones:          stones,
		MaxSize:         maxSize,
		Confidence:      confidence,
		AnalysisTime:    e.now().UnixMilli(),
		ScanQuality:     scanQualities[e.rnd.Intn(len(scanQualities))],
		Recommendations: Recommendations(maxSize, count),
	}
}

// RiskLevel stratifies by largest stone diameter in centimeters.
func RiskLevel(maxSize float64) string {
	switch {
	case maxSize > 1.0:
		return "high"
	case maxSize > 0.5:
		return "medium"
	default:
		return "low"
	}
}

// RequiresAppointment reports whether findings warrant urological follow-up.
func RequiresAppointment(maxSize float64, stoneCount int) bool {
	return maxSize > 1.0 || stoneCount > 2
}

// Recommendations returns the clinical guidance tier for the findings.
func Recommendations(maxSize float64, stoneCount int) []string {
	var recs []string
	switch {
	case maxSize > 1.0:
		recs = append(recs,
			"Immediate urological consultation recommended",
			"Consider lithotripsy or surgical intervention")
	case maxSize > 0.5:
		recs = append(recs,
			"Monitor with follow-up imaging in 3-6 months",
			"Increase fluid intake to 2-3 liters daily")
	default:
		recs = append(recs,
			"Conservative management with lifestyle modifications",
			"Dietary counseling for stone prevention")
	}
	if stoneCount > 2 {
		recs = append(recs, "Metabolic evaluation for recurrent stone disease")
	}
	return recs
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
