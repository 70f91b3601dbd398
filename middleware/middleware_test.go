package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"task-manager/backend/models"
	"task-manager/backend/services"
)

func authedRequest(t *testing.T, jwtService *services.JWTService, role string) *http.Request {
	t.Helper()
	token, err := jwtService.GenerateAuthToken("64f1c0ffee0000000000abcd", role)
	if err != nil {
		t.Fatalf("GenerateAuthToken() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func TestAuthenticateMissingToken(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	handler := Authenticate(jwtService, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticatePutsCallerInContext(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")

	var caller services.Caller
	handler := Authenticate(jwtService, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		caller, ok = CallerFromContext(r.Context())
		if !ok {
			t.Error("no caller in context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, jwtService, models.RoleUser))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if caller.ID != "64f1c0ffee0000000000abcd" || caller.Role != models.RoleUser {
		t.Errorf("caller = %+v", caller)
	}
}

func TestAuthenticateBearerHeader(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	token, err := jwtService.GenerateAuthToken("id", models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	reached := false
	rec := httptest.NewRecorder()
	Authenticate(jwtService, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})).ServeHTTP(rec, req)

	if !reached {
		t.Errorf("handler not reached, status = %d", rec.Code)
	}
}

func TestAuthenticateRejectsHeaderWithoutBearerScheme(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	token, err := jwtService.GenerateAuthToken("id", models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", token)

	rec := httptest.NewRecorder()
	Authenticate(jwtService, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without the Bearer scheme")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")

	tests := []struct {
		name       string
		role       string
		required   []string
		wantStatus int
	}{
		{"admin on admin route", models.RoleAdmin, []string{models.RoleAdmin}, http.StatusOK},
		{"user on admin route", models.RoleUser, []string{models.RoleAdmin}, http.StatusForbidden},
		{"user on open route", models.RoleUser, []string{}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(jwtService, RequireRole(tt.required, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(t, jwtService, tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	handler := RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without authentication")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
