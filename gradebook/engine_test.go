package gradebook_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/programme-lv/grader/gradebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeAllScenario(t *testing.T) {
	rubric, records := parseAll(t, scenarioGradebook, gradebook.DefaultOptions())
	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)

	require.Len(t, res.Graded, 2)
	alice := res.Graded[0]
	assert.Equal(t, "alice", alice.ID)
	assert.InDeltaSlice(t, []float64{32, 54}, alice.SubGrades, 1e-9)
	assert.InDelta(t, 86.0, alice.FinalGrade, 1e-9)
	assert.Equal(t, "B", alice.Letter)

	bob := res.Graded[1]
	assert.InDeltaSlice(t, []float64{40, 36}, bob.SubGrades, 1e-9)
	assert.InDelta(t, 76.0, bob.FinalGrade, 1e-9)
	assert.Equal(t, "C", bob.Letter)

	require.Len(t, res.Errored, 1)
	assert.Equal(t, "carol", res.Errored[0].ID)
	assert.Equal(t, 7, res.Errored[0].Line)
	assert.Equal(t, "carol 5", res.Errored[0].RawLine)

	assert.Equal(t, "B", records[0].Letter)
	assert.Empty(t, records[2].Letter)
	assert.Zero(t, records[2].FinalGrade)
}

func TestGradeAllWithdrawn(t *testing.T) {
	rubric, records := parseAll(t, scenarioGradebook+"gina WDR\n", gradebook.DefaultOptions())
	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)

	require.Len(t, res.Withdrawn, 1)
	assert.Equal(t, gradebook.WithdrawnStudent{ID: "gina", Line: 8}, res.Withdrawn[0])
	assert.Equal(t, gradebook.LetterWithdrawn, records[3].Letter)
	assert.Zero(t, records[3].FinalGrade)
	_, found := res.Find("gina")
	assert.False(t, found)
}

func TestFinalGradeIsWeightedSum(t *testing.T) {
	rubric, err := gradebook.NewRubric(
		[]string{"a", "b", "c"},
		[]string{"Quiz", "Lab", "Final"},
		[]float64{15, 40, 120},
		[]float64{20, 30, 50},
		0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	records := make([]gradebook.StudentRecord, 200)
	for i := range records {
		records[i] = gradebook.StudentRecord{
			ID:       "s",
			Line:     i + 1,
			RawMarks: []float64{rng.Float64() * 15, rng.Float64() * 40, rng.Float64() * 120},
		}
	}

	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)
	require.Len(t, res.Graded, len(records))
	for i, g := range res.Graded {
		want := 0.0
		for j := 0; j < rubric.Len(); j++ {
			want += records[i].RawMarks[j] * rubric.Weight(j) / rubric.MaxMark(j)
		}
		assert.InDelta(t, want, g.FinalGrade, 1e-6)
		assert.False(t, math.IsNaN(g.FinalGrade))
	}
}

func TestGradeAllShapeGuard(t *testing.T) {
	rubric, _ := parseAll(t, scenarioGradebook, gradebook.DefaultOptions())
	records := []gradebook.StudentRecord{{ID: "x", Line: 9, RawMarks: []float64{1}}}

	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)
	assert.Empty(t, res.Graded)
	require.Len(t, res.Errored, 1)
	assert.Equal(t, gradebook.KindRecordShapeMismatch, res.Errored[0].Kind)
}

func TestGradeAllRejectsBrokenBands(t *testing.T) {
	rubric, records := parseAll(t, scenarioGradebook, gradebook.DefaultOptions())
	bands := gradebook.BandTable{{Letter: "P", Min: 50}}

	_, err := gradebook.GradeAll(rubric, records, bands)
	require.Error(t, err)
	assert.True(t, gradebook.IsKind(err, gradebook.KindBandInconsistency))
	assert.True(t, gradebook.KindBandInconsistency.Fatal())
}

func TestSummary(t *testing.T) {
	rubric, records := parseAll(t, scenarioGradebook+"gina WDR\n", gradebook.DefaultOptions())
	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)

	s := res.Summary()
	assert.Equal(t, 2, s.Graded)
	assert.Equal(t, 1, s.Withdrawn)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, 81.0, s.Mean)
	assert.Equal(t, 76.0, s.Min)
	assert.Equal(t, 86.0, s.Max)
	assert.Equal(t, 1, s.Distribution["B"])
	assert.Equal(t, 1, s.Distribution["C"])
	assert.Equal(t, 0, s.Distribution["A+"])
	assert.Len(t, s.Distribution, 11)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 86.67, gradebook.Round2(86.666666))
	assert.Equal(t, 0.0, gradebook.Round2(0.004))
	assert.Equal(t, 90.0, gradebook.Round2(89.999))
}

func TestGradeAllOverflowingMarksFailOnlyTheRecord(t *testing.T) {
	content := "TITLE hw exam\nCATEGORY HW Exam\nMAXMARK 10 100\nWEIGHT 40 60\n" +
		"alice 8 90\n" +
		"mallory 1 " + strings.Repeat("9", 308) + "\n" +
		"bob 10 60\n"
	rubric, records := parseAll(t, content, gradebook.DefaultOptions())
	res, err := gradebook.GradeAll(rubric, records, gradebook.DefaultBands())
	require.NoError(t, err)

	require.Len(t, res.Graded, 2)
	assert.Equal(t, "alice", res.Graded[0].ID)
	assert.Equal(t, "bob", res.Graded[1].ID)

	require.Len(t, res.Errored, 1)
	assert.Equal(t, "mallory", res.Errored[0].ID)
	assert.Equal(t, 6, res.Errored[0].Line)
	assert.False(t, res.Errored[0].Kind.Fatal())
	assert.Empty(t, records[1].Letter)
}
