package gradebook_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/grader/gradebook"
	"github.com/stretchr/testify/require"
)

const scenarioGradebook = `TITLE hw exam
CATEGORY HW Exam
MAXMARK 10 100
WEIGHT 40 60
alice 8 90
bob 10 60
carol 5
`

func writeGradebook(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradebook.txt")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func openString(t *testing.T, content string) *gradebook.Source {
	t.Helper()
	src, err := gradebook.Open("test", []byte(content))
	require.NoError(t, err)
	return src
}

func parseAll(t *testing.T, content string, opts gradebook.Options) (gradebook.Rubric, []gradebook.StudentRecord) {
	t.Helper()
	src := openString(t, content)
	rubric, cursor, err := gradebook.ParseRubric(src, opts)
	require.NoError(t, err)
	records, err := gradebook.ParseStudents(src, cursor, rubric, opts)
	require.NoError(t, err)
	return rubric, records
}
