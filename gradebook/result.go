package gradebook

import (
	"encoding/json"
	"math"
)

// Round2 rounds a grade to hundredths for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type GradedStudent struct {
	ID         string
	Line       int
	SubGrades  []float64
	FinalGrade float64
	Letter     string
}

type gradedStudentJSON struct {
	ID         string    `json:"id"`
	Line       int       `json:"line"`
	SubGrades  []float64 `json:"sub_grades"`
	FinalGrade float64   `json:"final_grade"`
	Letter     string    `json:"letter"`
}

// MarshalJSON emits grades rounded to hundredths. The struct itself keeps
// full precision.
func (g GradedStudent) MarshalJSON() ([]byte, error) {
	subs := make([]float64, len(g.SubGrades))
	for i, s := range g.SubGrades {
		subs[i] = Round2(s)
	}
	return json.Marshal(gradedStudentJSON{
		ID:         g.ID,
		Line:       g.Line,
		SubGrades:  subs,
		FinalGrade: Round2(g.FinalGrade),
		Letter:     g.Letter,
	})
}

type WithdrawnStudent struct {
	ID   string `json:"id"`
	Line int    `json:"line"`
}

// ResultSet is the outcome of grading one gradebook.
type ResultSet struct {
	Categories []string           `json:"categories"`
	Bands      []string           `json:"bands"`
	Graded     []GradedStudent    `json:"graded"`
	Withdrawn  []WithdrawnStudent `json:"withdrawn"`
	Errored    []RecordError      `json:"errored"`
}

type Summary struct {
	Graded       int            `json:"graded"`
	Withdrawn    int            `json:"withdrawn"`
	Errored      int            `json:"errored"`
	Mean         float64        `json:"mean"`
	Min          float64        `json:"min"`
	Max          float64        `json:"max"`
	Distribution map[string]int `json:"distribution"`
}

func (rs ResultSet) Summary() Summary {
	s := Summary{
		Graded:       len(rs.Graded),
		Withdrawn:    len(rs.Withdrawn),
		Errored:      len(rs.Errored),
		Distribution: make(map[string]int, len(rs.Bands)),
	}
	for _, letter := range rs.Bands {
		s.Distribution[letter] = 0
	}
	if len(rs.Graded) == 0 {
		return s
	}

	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	total := 0.0
	for _, g := range rs.Graded {
		total += g.FinalGrade
		s.Min = math.Min(s.Min, g.FinalGrade)
		s.Max = math.Max(s.Max, g.FinalGrade)
		s.Distribution[g.Letter]++
	}
	s.Mean = Round2(total / float64(len(rs.Graded)))
	s.Min = Round2(s.Min)
	s.Max = Round2(s.Max)
	return s
}

func (rs ResultSet) Find(id string) (GradedStudent, bool) {
	for _, g := range rs.Graded {
		if g.ID == id {
			return g, true
		}
	}
	return GradedStudent{}, false
}
