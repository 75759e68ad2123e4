package gradehttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/programme-lv/grader/gradebook"
	"github.com/programme-lv/grader/gradehttp"
	"github.com/stretchr/testify/assert"
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

type responseWrapper struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details map[string]any  `json:"details"`
}

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	return gradehttp.NewHttpServer(gradebook.DefaultOptions(), []string{"*"}).Handler()
}

func post(t *testing.T, h http.Handler, path string, body []byte) (*httptest.ResponseRecorder, responseWrapper) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp responseWrapper
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestPostGradebook(t *testing.T) {
	h := setupServer(t)
	w, resp := post(t, h, "/gradebooks", []byte(scenarioGradebook))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", resp.Status)

	var report struct {
		Students int `json:"students"`
		Results  struct {
			Graded []struct {
				ID         string  `json:"id"`
				FinalGrade float64 `json:"final_grade"`
				Letter     string  `json:"letter"`
			} `json:"graded"`
			Errored []struct {
				Line    int    `json:"line"`
				RawLine string `json:"raw_line"`
			} `json:"errored"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, 3, report.Students)
	require.Len(t, report.Results.Graded, 2)
	assert.Equal(t, "alice", report.Results.Graded[0].ID)
	assert.Equal(t, 86.0, report.Results.Graded[0].FinalGrade)
	assert.Equal(t, 76.0, report.Results.Graded[1].FinalGrade)
	require.Len(t, report.Results.Errored, 1)
	assert.Equal(t, 7, report.Results.Errored[0].Line)
	assert.Equal(t, "carol 5", report.Results.Errored[0].RawLine)
}

func TestPostGradebookGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(scenarioGradebook))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	w, resp := post(t, setupServer(t), "/gradebooks", buf.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", resp.Status)
}

func TestPostGradebookRubricErrors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		code    string
		details map[string]any
	}{
		{
			name:    "weights do not sum to 100",
			body:    "TITLE a b\nCATEGORY A B\nMAXMARK 10 100\nWEIGHT 50 40\nalice 8 90\n",
			code:    string(gradebook.KindWeightSumInvalid),
			details: map[string]any{"field": "WEIGHT", "line": 4.0},
		},
		{
			name:    "duplicate field",
			body:    "TITLE a b\nTITLE c d\n",
			code:    string(gradebook.KindDuplicateField),
			details: map[string]any{"field": "TITLE", "line": 2.0},
		},
		{
			name:    "not a number",
			body:    "TITLE a b\nCATEGORY A B\nMAXMARK 10 x\nWEIGHT 50 50\n",
			code:    string(gradebook.KindNotANumber),
			details: map[string]any{"field": "MAXMARK", "token": "x", "line": 3.0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := post(t, setupServer(t), "/gradebooks", []byte(tc.body))
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.details, resp.Details)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPostGradebookStudentFilter(t *testing.T) {
	h := setupServer(t)
	w, _ := post(t, h, "/gradebooks?student=bob", []byte(scenarioGradebook))
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := post(t, h, "/gradebooks?student=zoe", []byte(scenarioGradebook))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, gradehttp.ErrCodeStudentNotFound, resp.Code)
	assert.Equal(t, "zoe", resp.Details["student"])
}

func TestPostGradebookRejectsBadUploads(t *testing.T) {
	h := setupServer(t)

	w, resp := post(t, h, "/gradebooks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, gradehttp.ErrCodeEmptyGradebook, resp.Code)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	w, resp = post(t, h, "/gradebooks", png)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, gradehttp.ErrCodeUnsupportedMediaType, resp.Code)
	assert.Equal(t, "image/png", resp.Details["detected"])
}

func TestPostRubric(t *testing.T) {
	w, resp := post(t, setupServer(t), "/gradebooks/rubric", []byte(scenarioGradebook))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Rubric struct {
			Titles   []string  `json:"titles"`
			MaxMarks []float64 `json:"max_marks"`
		} `json:"rubric"`
		Cursor struct {
			Line int `json:"line"`
		} `json:"cursor"`
		Students int `json:"students"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, []string{"hw", "exam"}, data.Rubric.Titles)
	assert.Equal(t, []float64{10, 100}, data.Rubric.MaxMarks)
	assert.Equal(t, 4, data.Cursor.Line)
	assert.Equal(t, 3, data.Students)
}

func TestGetBands(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bands", nil)
	w := httptest.NewRecorder()
	setupServer(t).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Letter string   `json:"letter"`
			Min    *float64 `json:"min"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 11)
	assert.Equal(t, "A+", resp.Data[0].Letter)
	assert.Equal(t, 97.0, *resp.Data[0].Min)
	assert.Nil(t, resp.Data[10].Min)
}
