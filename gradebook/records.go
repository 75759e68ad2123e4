package gradebook

import (
	"fmt"
	"strings"
	"unicode"
)

// StudentRecord is one non-blank line of the student section.
type StudentRecord struct {
	ID        string
	Line      int
	RawLine   string
	RawMarks  []float64
	Withdrawn bool
	Err       *RecordError

	SubGrades  []float64
	FinalGrade float64
	Letter     string
}

func (s StudentRecord) Errored() bool { return s.Err != nil }

func (s StudentRecord) Graded() bool { return s.Letter != "" && !s.Withdrawn }

func isIdentifier(id string) bool {
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '_', '-', '.':
			continue
		}
		return false
	}
	return id != ""
}

func (s *StudentRecord) fail(kind Kind, format string, args ...any) {
	s.Err = &RecordError{
		Kind:    kind,
		ID:      s.ID,
		Line:    s.Line,
		RawLine: s.RawLine,
		Reason:  fmt.Sprintf(format, args...),
	}
}

func parseStudentLine(line Line, fields []string, rubric Rubric, opts Options) StudentRecord {
	rec := StudentRecord{
		ID:      fields[0],
		Line:    line.Number,
		RawLine: line.Text,
	}
	if !isIdentifier(rec.ID) {
		rec.fail(KindInvalidIdentifier, "identifier %q may contain only letters, digits, '_', '-' and '.'", rec.ID)
		return rec
	}

	marks := fields[1:]
	if len(marks) > 0 && strings.EqualFold(marks[0], opts.WithdrawalToken) {
		if len(marks) > 1 {
			rec.fail(KindRecordShapeMismatch, "withdrawal of %s is followed by %d extra tokens", rec.ID, len(marks)-1)
			return rec
		}
		rec.Withdrawn = true
		return rec
	}

	if len(marks) != rubric.Len() {
		rec.fail(KindRecordShapeMismatch, "%s has %d marks, expected %d", rec.ID, len(marks), rubric.Len())
		return rec
	}

	rec.RawMarks = make([]float64, 0, len(marks))
	for j, tok := range marks {
		v, err := parseMark(rubric.Category(j), tok)
		if err != nil {
			rec.fail(KindNotANumber, "%s", err.msg)
			rec.RawMarks = nil
			return rec
		}
		rec.RawMarks = append(rec.RawMarks, v)
	}
	return rec
}

// ParseStudents reads the student section starting at the cursor. Bad lines
// are kept as errored records and do not stop parsing. With a student filter
// only the matching record is returned.
func ParseStudents(src *Source, cursor Cursor, rubric Rubric, opts Options) ([]StudentRecord, error) {
	opts = opts.withDefaults()
	lr, err := src.Lines(cursor)
	if err != nil {
		return nil, err
	}

	var records []StudentRecord
	firstLine := make(map[string]int)
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		fields := strings.Fields(stripComment(line.Text, opts.CommentPrefix))
		if len(fields) == 0 {
			continue
		}

		if opts.StudentFilter != "" {
			if fields[0] != opts.StudentFilter {
				continue
			}
			rec := parseStudentLine(line, fields, rubric, opts)
			opts.logger().Debug("student filter matched", "id", rec.ID, "line", rec.Line)
			return []StudentRecord{rec}, nil
		}

		rec := parseStudentLine(line, fields, rubric, opts)
		if prev, dup := firstLine[rec.ID]; dup && rec.Err == nil {
			rec.fail(KindDuplicateStudent, "%s was already listed on line %d", rec.ID, prev)
		} else if !dup && rec.Err == nil {
			firstLine[rec.ID] = rec.Line
		}
		records = append(records, rec)
	}

	if opts.StudentFilter != "" {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, opts.StudentFilter)
	}
	return records, nil
}

func ParseStudentsFile(path string, cursor Cursor, rubric Rubric, opts Options) ([]StudentRecord, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStudents(src, cursor, rubric, opts)
}

// CountStudents counts the non-blank lines of the student section.
func CountStudents(src *Source, cursor Cursor, opts Options) (int, error) {
	lr, err := src.Lines(cursor)
	if err != nil {
		return 0, err
	}
	count := 0
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		if strings.TrimSpace(stripComment(line.Text, opts.CommentPrefix)) != "" {
			count++
		}
	}
	return count, nil
}
