package gradebook

import (
	"math"
)

// SubGrade is the weighted contribution of one category to the final grade.
func SubGrade(mark, weight, maxMark float64) float64 {
	return mark * weight / maxMark
}

// GradeAll computes final grades and letters for every record that is neither
// withdrawn nor errored. The records slice is updated in place. A banding or
// rubric inconsistency aborts grading; errored records never do, and neither
// does a record whose marks overflow the final grade.
func GradeAll(rubric Rubric, records []StudentRecord, bands BandTable) (ResultSet, error) {
	if err := bands.Validate(); err != nil {
		return ResultSet{}, err
	}
	for j := 0; j < rubric.Len(); j++ {
		if err := checkMaxMark(j, rubric.MaxMark(j)); err != nil {
			return ResultSet{}, err
		}
	}

	res := ResultSet{
		Categories: rubric.Categories(),
		Bands:      bands.Letters(),
		Graded:     []GradedStudent{},
		Withdrawn:  []WithdrawnStudent{},
		Errored:    []RecordError{},
	}
	for i := range records {
		rec := &records[i]
		switch {
		case rec.Err != nil:
			res.Errored = append(res.Errored, *rec.Err)
			continue
		case rec.Withdrawn:
			rec.Letter = LetterWithdrawn
			res.Withdrawn = append(res.Withdrawn, WithdrawnStudent{ID: rec.ID, Line: rec.Line})
			continue
		}

		if len(rec.RawMarks) != rubric.Len() {
			rec.fail(KindRecordShapeMismatch, "%s has %d marks, expected %d", rec.ID, len(rec.RawMarks), rubric.Len())
			res.Errored = append(res.Errored, *rec.Err)
			continue
		}

		subGrades := make([]float64, rubric.Len())
		final := 0.0
		for j := range subGrades {
			subGrades[j] = SubGrade(rec.RawMarks[j], rubric.Weight(j), rubric.MaxMark(j))
			final += subGrades[j]
		}
		if math.IsNaN(final) || math.IsInf(final, 0) {
			rec.fail(KindNotANumber, "final grade of %s is out of range", rec.ID)
			res.Errored = append(res.Errored, *rec.Err)
			continue
		}

		letter, err := bands.Classify(final)
		if err != nil {
			return ResultSet{}, err
		}
		rec.SubGrades = subGrades
		rec.FinalGrade = final
		rec.Letter = letter
		res.Graded = append(res.Graded, GradedStudent{
			ID:         rec.ID,
			Line:       rec.Line,
			SubGrades:  subGrades,
			FinalGrade: final,
			Letter:     letter,
		})
	}
	return res, nil
}
