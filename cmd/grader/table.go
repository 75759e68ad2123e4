package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/programme-lv/grader/gradebook"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
)

func formatGrade(v float64) string {
	return strconv.FormatFloat(gradebook.Round2(v), 'f', 2, 64)
}

// renderResults draws one row per graded or withdrawn student in file order.
func renderResults(report *gradebook.Report) string {
	res := report.Results
	headers := append([]string{"Student"}, res.Categories...)
	headers = append(headers, "Final", "Letter")

	type row struct {
		line  int
		cells []string
	}
	rows := make([]row, 0, len(res.Graded)+len(res.Withdrawn))
	for _, g := range res.Graded {
		cells := []string{g.ID}
		for _, s := range g.SubGrades {
			cells = append(cells, formatGrade(s))
		}
		cells = append(cells, formatGrade(g.FinalGrade), g.Letter)
		rows = append(rows, row{line: g.Line, cells: cells})
	}
	for _, wd := range res.Withdrawn {
		cells := []string{wd.ID}
		for range res.Categories {
			cells = append(cells, "-")
		}
		cells = append(cells, "-", gradebook.LetterWithdrawn)
		rows = append(rows, row{line: wd.Line, cells: cells})
	}
	slices.SortFunc(rows, func(a, b row) int { return cmp.Compare(a.line, b.line) })

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == 0:
				return headerStyle
			case c == 0 || c == len(headers)-1:
				return cellStyle
			}
			return numStyle
		})
	for _, r := range rows {
		t.Row(r.cells...)
	}
	return t.Render()
}

func renderSummary(s gradebook.Summary, bands []string) string {
	out := fmt.Sprintf("graded: %d  withdrawn: %d  errored: %d\n", s.Graded, s.Withdrawn, s.Errored)
	if s.Graded == 0 {
		return out
	}
	out += fmt.Sprintf("mean: %.2f  min: %.2f  max: %.2f\n", s.Mean, s.Min, s.Max)
	for _, letter := range bands {
		if n := s.Distribution[letter]; n > 0 {
			out += fmt.Sprintf("%s:%d ", letter, n)
		}
	}
	return out + "\n"
}

// writeRecordErrors reports the excluded lines after all grades are shown.
func writeRecordErrors(w io.Writer, errs []gradebook.RecordError) {
	for _, e := range errs {
		fmt.Fprintf(w, "\n%s\nOffending line: %d\nOffending content: %s\nError message: %s\n",
			errStyle.Render("record excluded"), e.Line, e.RawLine, e.Reason)
	}
}
