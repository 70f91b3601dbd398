package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"task-manager/backend/middleware"
	"task-manager/backend/services"
	"task-manager/backend/utils"

	"github.com/google/uuid"
)

type AuthHandler struct {
	UserService *services.UserService
	UploadDir   string
}

func NewAuthHandler(userService *services.UserService, uploadDir string) *AuthHandler {
	return &AuthHandler{UserService: userService, UploadDir: uploadDir}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserService.RegisterUser(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := h.UserService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Successfully logged in",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), caller.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input services.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), caller.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated",
		"user":    user,
	})
}

// UploadImage stores a multipart image under the upload directory and
// returns its public URL.
func (h *AuthHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	const maxUploadSize = 10 << 20
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Image not uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Image not uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.RespondError(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	imageURL := fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, filename)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"imageURL": imageURL,
	})
}
