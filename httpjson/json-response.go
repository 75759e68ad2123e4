package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/programme-lv/grader/srvcerror"
)

type JsonResponse struct {
	Status  string         `json:"status"` // "success" or "error"
	Data    any            `json:"data,omitempty"`
	ErrCode string         `json:"code,omitempty"`
	ErrMsg  string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	resp := JsonResponse{
		Status: "success",
		Data:   data,
	}
	writeJson(w, http.StatusOK, resp)
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string, details map[string]any) {
	resp := JsonResponse{
		Status:  "error",
		ErrMsg:  errMsg,
		ErrCode: errCode,
		Details: details,
	}
	writeJson(w, statusCode, resp)
}

func writeJson(w http.ResponseWriter, statusCode int, resp JsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

func writeInternalErrorJson(w http.ResponseWriter) {
	WriteErrorJson(w,
		http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
		srvcerror.ErrCodeInternalServerError,
		nil)
}

func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if errors.As(err, &srvcErr) {
		if srvcErr.DebugInfo() != nil {
			logger.Warn("service error", "error", err, "debug", srvcErr.DebugInfo())
		} else {
			logger.Warn("service error", "error", err)
		}
		if srvcErr.HttpStatusCode() == http.StatusInternalServerError {
			logger.Error("internal server error", "error", err)
		}
		WriteErrorJson(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode(), srvcErr.Details())
		return
	}
	logger.Error("internal server error", "error", err)
	writeInternalErrorJson(w)
}
