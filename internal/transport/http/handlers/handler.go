package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/transport/http/response"
	"github.com/vedran77/quill/pkg/validator"
)

// errorReporter decides whether internal error text reaches the client.
type errorReporter struct {
	expose bool
}

func (e errorReporter) internal(w http.ResponseWriter, op, message string, err error) {
	log.Printf("ERROR %s: %v", op, err)
	if e.expose {
		response.FailWith(w, http.StatusInternalServerError, message, err.Error())
		return
	}
	response.Fail(w, http.StatusInternalServerError, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.FailWith(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response.FailWith(w, http.StatusBadRequest, "Validation failed", errs.Error())
}

func pathUUID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, "ok", nil)
}
