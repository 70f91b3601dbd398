package handlers

import (
	"errors"
	"net/http"
	"strings"

	"task-manager/backend/logging"
	"task-manager/backend/services"
	"task-manager/backend/utils"
)

// respondServiceError maps a service error to its HTTP status and the
// JSON error envelope. The wrapped message minus the sentinel suffix is
// what the client sees.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
		utils.RespondError(w, status, "Internal server error")
		return
	}

	message := err.Error()
	if i := strings.LastIndex(message, ": "); i > 0 {
		message = message[:i]
	}
	utils.RespondError(w, status, message)
}
