package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/store"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to its HTTP status and kind label.
func classify(err error) (int, string) {
	var stepErr *store.StepError
	if errors.As(err, &stepErr) {
		return http.StatusUnprocessableEntity, "StepFailed"
	}

	kind := attrerr.KindName(err)
	switch {
	case errors.Is(err, attrerr.ErrAttributeNotExist):
		return http.StatusNotFound, kind
	case errors.Is(err, attrerr.ErrAttributeReserved):
		return http.StatusBadRequest, kind
	case errors.Is(err, attrerr.ErrInvalidValue):
		return http.StatusUnprocessableEntity, kind
	case errors.Is(err, attrerr.ErrAttributeNotSet),
		errors.Is(err, attrerr.ErrAttributeNotDescribed),
		errors.Is(err, attrerr.ErrLoopDependency):
		return http.StatusConflict, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	logger := ctxlog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed.", "error", err)
	} else {
		logger.Debug("Request rejected.", "kind", kind, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "BadRequest"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Response encode failed.", "error", err)
	}
}
