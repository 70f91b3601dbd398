package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-manager/backend/services"
	"task-manager/backend/utils"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			"validation",
			fmt.Errorf("title is required: %w", services.ErrValidation),
			http.StatusBadRequest,
			"title is required",
		},
		{
			"not found",
			fmt.Errorf("task not found: %w", services.ErrNotFound),
			http.StatusNotFound,
			"task not found",
		},
		{
			"unauthenticated",
			fmt.Errorf("invalid token: %w", services.ErrUnauthenticated),
			http.StatusUnauthorized,
			"invalid token",
		},
		{
			"unauthorized",
			fmt.Errorf("only an admin can delete a task: %w", services.ErrUnauthorized),
			http.StatusForbidden,
			"only an admin can delete a task",
		},
		{
			"conflict",
			fmt.Errorf("user with this email already exists: %w", services.ErrConflict),
			http.StatusBadRequest,
			"user with this email already exists",
		},
		{
			"unexpected",
			errors.New("mongo blew up"),
			http.StatusInternalServerError,
			"Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body utils.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Success {
				t.Error("success = true on an error response")
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}
