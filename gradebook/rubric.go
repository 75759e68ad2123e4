package gradebook

import (
	"encoding/json"
	"slices"
	"strings"
)

// Rubric is the validated header of a gradebook. It is immutable once built.
type Rubric struct {
	titles     []string
	categories []string
	maxMarks   []float64
	weights    []float64
}

func NewRubric(titles, categories []string, maxMarks, weights []float64, tolerance float64) (Rubric, error) {
	r := Rubric{
		titles:     slices.Clone(titles),
		categories: slices.Clone(categories),
		maxMarks:   slices.Clone(maxMarks),
		weights:    slices.Clone(weights),
	}
	if tolerance <= 0 {
		tolerance = DefaultWeightTolerance
	}
	if err := r.Validate(tolerance); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

func (r Rubric) Len() int { return len(r.categories) }

func (r Rubric) Titles() []string     { return slices.Clone(r.titles) }
func (r Rubric) Categories() []string { return slices.Clone(r.categories) }
func (r Rubric) MaxMarks() []float64  { return slices.Clone(r.maxMarks) }
func (r Rubric) Weights() []float64   { return slices.Clone(r.weights) }

func (r Rubric) Category(j int) string { return r.categories[j] }
func (r Rubric) MaxMark(j int) float64 { return r.maxMarks[j] }
func (r Rubric) Weight(j int) float64  { return r.weights[j] }

func (r Rubric) Equal(o Rubric) bool {
	return slices.Equal(r.titles, o.titles) &&
		slices.Equal(r.categories, o.categories) &&
		slices.Equal(r.maxMarks, o.maxMarks) &&
		slices.Equal(r.weights, o.weights)
}

type rubricJSON struct {
	Titles     []string  `json:"titles"`
	Categories []string  `json:"categories"`
	MaxMarks   []float64 `json:"max_marks"`
	Weights    []float64 `json:"weights"`
}

func (r Rubric) MarshalJSON() ([]byte, error) {
	return json.Marshal(rubricJSON{
		Titles:     r.titles,
		Categories: r.categories,
		MaxMarks:   r.maxMarks,
		Weights:    r.weights,
	})
}

// rubricBuilder accumulates keyed header rows. The first keyed row fixes the
// rubric length for every later row.
type rubricBuilder struct {
	n         int
	seen      map[string]int
	tolerance float64
	r         Rubric
}

func newRubricBuilder(tolerance float64) *rubricBuilder {
	return &rubricBuilder{
		seen:      make(map[string]int, len(headerFields)),
		tolerance: tolerance,
	}
}

func (b *rubricBuilder) add(field string, tokens []string, line int) *Error {
	if prev, ok := b.seen[field]; ok {
		return newError(KindDuplicateField, field,
			"%s is already set on line %d", field, prev).atLine(line)
	}
	b.seen[field] = line

	if err := checkLength(&b.n, len(tokens), field); err != nil {
		return err.atLine(line)
	}

	switch field {
	case FieldTitle:
		for _, tok := range tokens {
			if slices.Contains(b.r.titles, tok) {
				return newError(KindDuplicateField, field,
					"title %q is already in the title row", tok).withToken(tok).atLine(line)
			}
			b.r.titles = append(b.r.titles, tok)
		}
	case FieldCategory:
		b.r.categories = append(b.r.categories, tokens...)
	case FieldMaxMark:
		for _, tok := range tokens {
			v, err := parseMark(field, tok)
			if err != nil {
				return err.atLine(line)
			}
			b.r.maxMarks = append(b.r.maxMarks, v)
			idx := len(b.r.maxMarks) - 1
			if err := checkMaxMark(idx, v); err != nil {
				return err.withToken(tok).atLine(line)
			}
		}
	case FieldWeight:
		for _, tok := range tokens {
			v, err := parseMark(field, tok)
			if err != nil {
				return err.atLine(line)
			}
			b.r.weights = append(b.r.weights, v)
			if len(b.r.weights) == b.n {
				if err := checkWeightSum(b.r.weights, b.tolerance); err != nil {
					return err.atLine(line)
				}
			}
		}
	}
	return nil
}

func (b *rubricBuilder) build(line int) (Rubric, *Error) {
	for _, f := range headerFields {
		if _, ok := b.seen[f]; !ok {
			return Rubric{}, newError(KindMissingField, f,
				"%s row is missing from the header", f).atLine(line)
		}
	}
	return b.r, nil
}

func stripComment(text string, prefix string) string {
	if prefix == "" {
		return text
	}
	if i := strings.Index(text, prefix); i >= 0 {
		return text[:i]
	}
	return text
}

// ParseRubric reads the header section of the source. The returned cursor
// points at the first line that is not a keyed header row.
func ParseRubric(src *Source, opts Options) (Rubric, Cursor, error) {
	opts = opts.withDefaults()
	lr, err := src.Lines(Cursor{})
	if err != nil {
		return Rubric{}, Cursor{}, err
	}

	b := newRubricBuilder(opts.WeightTolerance)
	var end Cursor
	for {
		before := lr.Cursor()
		line, ok := lr.Next()
		if !ok {
			end = lr.Cursor()
			break
		}
		fields := strings.Fields(stripComment(line.Text, opts.CommentPrefix))
		if len(fields) == 0 {
			continue
		}
		if !isHeaderField(fields[0]) {
			end = before
			break
		}
		if gbErr := b.add(fields[0], fields[1:], line.Number); gbErr != nil {
			opts.logger().Debug("rubric rejected", "source", src.Name, "error", gbErr)
			return Rubric{}, Cursor{}, gbErr
		}
	}

	rubric, gbErr := b.build(end.Line + 1)
	if gbErr != nil {
		return Rubric{}, Cursor{}, gbErr
	}
	opts.logger().Debug("rubric parsed", "source", src.Name, "categories", rubric.Len(), "student_offset", end.Offset)
	return rubric, end, nil
}

func ParseRubricFile(path string, opts Options) (Rubric, Cursor, error) {
	src, err := OpenFile(path)
	if err != nil {
		return Rubric{}, Cursor{}, err
	}
	return ParseRubric(src, opts)
}
