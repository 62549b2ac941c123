package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	"tripmate/internal/logger"
)

// Response is the envelope of every JSON body.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    interface{}     `json:"data,omitempty"`
	Missing map[string]bool `json:"missing,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// WriteError sends a failure envelope.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, Response{Success: false, Message: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	writeJSON(w, Response{Success: true, Message: message, Data: data}, statusCode)
}

func writeJSON(w http.ResponseWriter, body Response, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Warn("write response")
	}
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindSelfFollow:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err from the service layer. Internal causes are logged
// and only echoed to the client in debug mode.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeServiceErrorStatus(w, r, err, StatusOf(apperr.KindOf(err)))
}

func (h *Handlers) writeServiceErrorStatus(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	kind := apperr.KindOf(err)
	body := Response{
		Success: false,
		Message: apperr.Message(err),
		Missing: apperr.MissingOf(err),
	}

	if kind == apperr.KindInternal {
		logger.Log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"cause":  err.Error(),
		}).Error("request failed")

		if h.Cfg != nil && h.Cfg.Debug {
			body.Error = err.Error()
		}
	}

	writeJSON(w, body, statusCode)
}
