package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/klougaris/smartclinic/pkg/types"
)

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeError translates a service error onto a status code and a JSON
// body carrying the kind and code, so clients can branch without parsing
// messages.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var coreErr *types.Error
	if !errors.As(err, &coreErr) {
		s.logger.Errorf("Unclassified error: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "internal error",
		})
		return
	}

	s.writeJSON(w, statusFor(coreErr.Kind), map[string]interface{}{
		"error":     coreErr.Message,
		"code":      coreErr.Code,
		"kind":      coreErr.Kind,
		"retryable": coreErr.Retryable(),
	})
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(kind types.ErrorKind) int {
	switch kind {
	case types.KindUnauthorized:
		return http.StatusUnauthorized
	case types.KindForbidden:
		return http.StatusForbidden
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindConflict, types.KindSlotUnavailable:
		return http.StatusConflict
	case types.KindValidation, types.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case types.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// badRequest writes the malformed-body response.
func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Debugf("Bad request body: %v", err)
	s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error": "invalid request body",
		"code":  types.CodeInvalidInput,
	})
}
