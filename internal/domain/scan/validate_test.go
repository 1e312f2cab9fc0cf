package scan

import (
	"errors"
	"math/rand"
	"testing"
)

func TestClassifyFilename(t *testing.T) {
	cases := []struct {
		filename string
		typ      string
		validate bool
		err      error
	}{
		{"abdomen.dcm", "medical", false, nil},
		{"ABDOMEN.DICOM", "medical", false, nil},
		{"photo.jpg", "image", true, nil},
		{"photo.jpeg", "image", true, nil},
		{"photo.PNG", "image", true, nil},
		{"report.pdf", "", false, ErrUnsupportedFormat},
		{"noextension", "", false, ErrUnsupportedFormat},
	}
	for _, tc := range cases {
		class, err := ClassifyFilename(tc.filename)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: expected err %v, got %v", tc.filename, tc.err, err)
			continue
		}
		if err != nil {
			continue
		}
		if class.Type != tc.typ || class.NeedsValidation != tc.validate {
			t.Errorf("%s: got %+v", tc.filename, class)
		}
	}
}

func TestColorGateIgnoresMedicalFiles(t *testing.T) {
	gate := NewColorGate(rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		if gate.DetectColored("scan.dcm") {
			t.Fatal("medical file must never be flagged")
		}
	}
}

func TestColorGateDetectionRate(t *testing.T) {
	gate := NewColorGate(rand.New(rand.NewSource(42)))

	flagged := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if gate.DetectColored("photo.jpg") {
			flagged++
		}
	}
	rate := float64(flagged) / n
	if rate < 0.93 || rate > 0.97 {
		t.Errorf("detection rate %.3f outside expected band around 0.95", rate)
	}
}
