package gradebook

import "math"

const (
	FieldTitle    = "TITLE"
	FieldCategory = "CATEGORY"
	FieldMaxMark  = "MAXMARK"
	FieldWeight   = "WEIGHT"
)

var headerFields = []string{FieldTitle, FieldCategory, FieldMaxMark, FieldWeight}

func isHeaderField(token string) bool {
	for _, f := range headerFields {
		if f == token {
			return true
		}
	}
	return false
}

// checkLength fixes the rubric length on the first keyed row and rejects
// every later row that disagrees with it.
func checkLength(n *int, got int, field string) *Error {
	if *n == 0 {
		if got == 0 {
			return newError(KindLengthMismatch, field, "%s row defines no columns", field)
		}
		*n = got
		return nil
	}
	if got != *n {
		return newError(KindLengthMismatch, field,
			"%s row has %d columns, expected %d", field, got, *n)
	}
	return nil
}

func checkMaxMark(idx int, v float64) *Error {
	if v == 0 {
		return newError(KindZeroMaxMark, FieldMaxMark,
			"max mark of category %d is zero", idx+1)
	}
	return nil
}

func checkWeightSum(weights []float64, tolerance float64) *Error {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-100) > tolerance {
		return newError(KindWeightSumInvalid, FieldWeight,
			"weights do not sum to 100 (got %g)", sum)
	}
	return nil
}

// Validate checks every rubric invariant at once. Parsed rubrics are checked
// incrementally instead; Validate serves rubrics built by NewRubric.
func (r Rubric) Validate(tolerance float64) error {
	n := 0
	lengths := []struct {
		field string
		got   int
	}{
		{FieldTitle, len(r.titles)},
		{FieldCategory, len(r.categories)},
		{FieldMaxMark, len(r.maxMarks)},
		{FieldWeight, len(r.weights)},
	}
	for _, l := range lengths {
		if err := checkLength(&n, l.got, l.field); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, n)
	for _, t := range r.titles {
		if seen[t] {
			return newError(KindDuplicateField, FieldTitle, "title %q is already set", t).withToken(t)
		}
		seen[t] = true
	}

	for i, m := range r.maxMarks {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return newError(KindNotANumber, FieldMaxMark, "max mark %g is not a valid mark", m)
		}
		if err := checkMaxMark(i, m); err != nil {
			return err
		}
	}
	for _, w := range r.weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return newError(KindNotANumber, FieldWeight, "weight %g is not a valid weight", w)
		}
	}
	if err := checkWeightSum(r.weights, tolerance); err != nil {
		return err
	}
	return nil
}
