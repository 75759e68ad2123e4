package gradehttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/grader/gradebook"
)

// maxUploadBytes bounds a gradebook upload; gradebooks are held in memory.
const maxUploadBytes = 8 << 20

type GradeHttpHandler struct {
	opts gradebook.Options
}

func NewGradeHttpHandler(opts gradebook.Options) *GradeHttpHandler {
	if len(opts.Bands) == 0 {
		opts.Bands = gradebook.DefaultBands()
	}
	return &GradeHttpHandler{opts: opts}
}

func (h *GradeHttpHandler) RegisterRoutes(r chi.Router) {
	r.Post("/gradebooks", h.PostGradebook)
	r.Post("/gradebooks/rubric", h.PostRubric)
	r.Get("/bands", h.GetBands)
}
