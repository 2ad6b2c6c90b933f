package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-translations/internal/domain"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

const (
	codeValidation  = "VALIDATION_ERROR"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
	codeInternal    = "INTERNAL"
	codeTooLarge    = "PAYLOAD_TOO_LARGE"
	codeUnavailable = "SERVICE_UNAVAILABLE"
)

var errBodyRequired = errors.New("request body is required")

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return domain.Validation("Invalid request body", errBodyRequired)
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("Invalid request body", errBodyRequired)
		}
		return domain.Validation("Invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// fail writes the envelope for err. Internal errors are logged and their
// detail is withheld from the client.
func (api *TranslationsAPI) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.WithContext(r.Context()).Error("http.request.failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeJSON(w, status, payload)
}

func mapError(err error) (int, envelope) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, envelope{Error: "Upload exceeds the size limit", Code: codeTooLarge}
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, envelope{Error: err.Error(), Code: codeValidation}
	case domain.KindNotFound:
		return http.StatusNotFound, envelope{Error: err.Error(), Code: codeNotFound}
	case domain.KindConflict:
		return http.StatusConflict, envelope{Error: err.Error(), Code: codeConflict}
	case domain.KindInternal:
		return http.StatusInternalServerError, envelope{Error: "Internal server error", Code: codeInternal}
	default:
		return http.StatusInternalServerError, envelope{Error: "Internal server error", Code: codeInternal}
	}
}

func unavailable(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusServiceUnavailable, envelope{Error: what + " is not configured", Code: codeUnavailable})
}

// intQuery parses an optional integer query parameter. Absent values yield def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("%s must be an integer", name)
	}
	return value, nil
}

func requiredIntQuery(r *http.Request, name string) (int, error) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return 0, domain.Validationf("%s is required", name)
	}
	return intQuery(r, name, 0)
}
