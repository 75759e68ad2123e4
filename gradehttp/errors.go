package gradehttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/programme-lv/grader/gradebook"
	"github.com/programme-lv/grader/srvcerror"
)

const ErrCodeEmptyGradebook = "empty_gradebook"

func newErrEmptyGradebook() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptyGradebook,
		"gradebook body is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeGradebookTooLarge = "gradebook_too_large"

func newErrGradebookTooLarge() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGradebookTooLarge,
		"gradebook exceeds the upload limit",
	).SetHttpStatusCode(http.StatusRequestEntityTooLarge)
}

const ErrCodeUnsupportedMediaType = "unsupported_media_type"

func newErrUnsupportedMediaType(detected string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnsupportedMediaType,
		"gradebook must be plain text, gzip or zstd",
	).SetHttpStatusCode(http.StatusUnsupportedMediaType).SetDetail("detected", detected)
}

const ErrCodeStudentNotFound = "student_not_found"

func newErrStudentNotFound(student string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeStudentNotFound,
		"student is not listed in the gradebook",
	).SetHttpStatusCode(http.StatusNotFound).SetDetail("student", student)
}

const ErrCodeUnreadableGradebook = "unreadable_gradebook"

func newErrUnreadableGradebook() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnreadableGradebook,
		"gradebook could not be decoded",
	).SetHttpStatusCode(http.StatusBadRequest)
}

// mapRunError turns the error of a grading run into a service error. Rubric
// errors are the client's fault, banding inconsistencies are ours.
func mapRunError(err error, student string) error {
	var gbErr *gradebook.Error
	switch {
	case errors.As(err, &gbErr):
		status := http.StatusUnprocessableEntity
		if gbErr.Kind == gradebook.KindBandInconsistency {
			status = http.StatusInternalServerError
		}
		return srvcerror.New(string(gbErr.Kind), gbErr.Error()).
			SetHttpStatusCode(status).
			SetDetail("field", gbErr.Field).
			SetDetail("token", gbErr.Token).
			SetDetail("line", gbErr.Line).
			SetDebug(err)
	case errors.Is(err, gradebook.ErrStudentNotFound):
		return newErrStudentNotFound(student).SetDebug(err)
	case errors.Is(err, context.Canceled):
		return err
	}
	return newErrUnreadableGradebook().SetDebug(err)
}
