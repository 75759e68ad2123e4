package gradebook

import (
	"encoding/json"
	"math"
)

const LetterWithdrawn = "WITHDRAWN"

// Band is a closed-open interval [Min, previous band's Min) of final grades.
type Band struct {
	Letter string
	Min    float64
}

type bandJSON struct {
	Letter string   `json:"letter"`
	Min    *float64 `json:"min,omitempty"`
}

func (b Band) MarshalJSON() ([]byte, error) {
	out := bandJSON{Letter: b.Letter}
	if !math.IsInf(b.Min, -1) {
		out.Min = &b.Min
	}
	return json.Marshal(out)
}

// BandTable lists bands from the highest to the lowest. The last band has no
// lower bound so that every real grade falls into exactly one band.
type BandTable []Band

// DefaultBands is the standard table. Plus grades start at 97, 87 and 77, so
// 86 is a B and 76 a C; policies that want B+ at 85 override the bands.
func DefaultBands() BandTable {
	return BandTable{
		{Letter: "A+", Min: 97},
		{Letter: "A", Min: 93},
		{Letter: "A-", Min: 90},
		{Letter: "B+", Min: 87},
		{Letter: "B", Min: 83},
		{Letter: "B-", Min: 80},
		{Letter: "C+", Min: 77},
		{Letter: "C", Min: 73},
		{Letter: "C-", Min: 70},
		{Letter: "D", Min: 60},
		{Letter: "F", Min: math.Inf(-1)},
	}
}

func (t BandTable) Validate() error {
	if len(t) == 0 {
		return newError(KindBandInconsistency, "", "band table is empty")
	}
	letters := make(map[string]bool, len(t))
	for i, b := range t {
		if b.Letter == "" {
			return newError(KindBandInconsistency, "", "band %d has no letter", i+1)
		}
		if b.Letter == LetterWithdrawn {
			return newError(KindBandInconsistency, "", "band letter %q is reserved", b.Letter)
		}
		if letters[b.Letter] {
			return newError(KindBandInconsistency, "", "band letter %q appears twice", b.Letter)
		}
		letters[b.Letter] = true
		if math.IsNaN(b.Min) {
			return newError(KindBandInconsistency, "", "band %s has an invalid lower bound", b.Letter)
		}
		if i > 0 && b.Min >= t[i-1].Min {
			return newError(KindBandInconsistency, "",
				"band %s (min %g) is not below band %s (min %g)", b.Letter, b.Min, t[i-1].Letter, t[i-1].Min)
		}
	}
	if last := t[len(t)-1]; !math.IsInf(last.Min, -1) {
		return newError(KindBandInconsistency, "",
			"lowest band %s must have no lower bound, got %g", last.Letter, last.Min)
	}
	return nil
}

// Classify returns the letter of the first band whose lower bound the grade
// reaches.
func (t BandTable) Classify(grade float64) (string, error) {
	for _, b := range t {
		if grade >= b.Min {
			return b.Letter, nil
		}
	}
	return "", newError(KindBandInconsistency, "", "grade %v matches no band", grade)
}

func (t BandTable) Letters() []string {
	letters := make([]string, len(t))
	for i, b := range t {
		letters[i] = b.Letter
	}
	return letters
}
