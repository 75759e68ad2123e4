package gradehttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/grader/gradebook"
	"github.com/programme-lv/grader/httpjson"
	"github.com/programme-lv/grader/logger"
	"github.com/wailsapp/mimetype"
)

var acceptedMimeTypes = []string{"text/plain", "application/gzip", "application/zstd"}

func readGradebook(r *http.Request, w http.ResponseWriter) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newErrGradebookTooLarge()
		}
		return nil, newErrUnreadableGradebook().SetDebug(err)
	}
	if len(body) == 0 {
		return nil, newErrEmptyGradebook()
	}

	detected := mimetype.Detect(body)
	for mt := detected; mt != nil; mt = mt.Parent() {
		for _, accepted := range acceptedMimeTypes {
			if mt.Is(accepted) {
				return body, nil
			}
		}
	}
	return nil, newErrUnsupportedMediaType(detected.String())
}

func (h *GradeHttpHandler) PostGradebook(w http.ResponseWriter, r *http.Request) {
	log := httplog.LogEntry(r.Context())

	body, err := readGradebook(r, w)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	opts := h.opts
	opts.StudentFilter = r.URL.Query().Get("student")
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}

	ctx := logger.WithLogger(r.Context(), log)
	report, err := gradebook.RunBody(ctx, name, body, opts)
	if err != nil {
		httpjson.HandleError(log, w, mapRunError(err, opts.StudentFilter))
		return
	}

	httpjson.WriteSuccessJson(w, report)
}

type rubricResponse struct {
	Rubric   gradebook.Rubric `json:"rubric"`
	Cursor   gradebook.Cursor `json:"cursor"`
	Students int              `json:"students"`
}

func (h *GradeHttpHandler) PostRubric(w http.ResponseWriter, r *http.Request) {
	log := httplog.LogEntry(r.Context())

	body, err := readGradebook(r, w)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	src, err := gradebook.Open("upload", body)
	if err != nil {
		httpjson.HandleError(log, w, newErrUnreadableGradebook().SetDebug(err))
		return
	}
	rubric, cursor, err := gradebook.ParseRubric(src, h.opts)
	if err != nil {
		httpjson.HandleError(log, w, mapRunError(err, ""))
		return
	}
	students, err := gradebook.CountStudents(src, cursor, h.opts)
	if err != nil {
		httpjson.HandleError(log, w, mapRunError(err, ""))
		return
	}

	httpjson.WriteSuccessJson(w, rubricResponse{
		Rubric:   rubric,
		Cursor:   cursor,
		Students: students,
	})
}

func (h *GradeHttpHandler) GetBands(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, h.opts.Bands)
}
