package handlers

import (
	"encoding/json"
	"net/http"

	"task-manager/backend/middleware"
	"task-manager/backend/services"
	"task-manager/backend/utils"
)

type InviteHandler struct {
	InvitationService *services.InvitationService
}

func NewInviteHandler(invitationService *services.InvitationService) *InviteHandler {
	return &InviteHandler{InvitationService: invitationService}
}

func (h *InviteHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input struct {
		Email      string `json:"email"`
		Speciality string `json:"speciality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	invitation, err := h.InvitationService.SendInvitation(r.Context(), input.Email, input.Speciality, caller.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Invitation sent successfully",
		"invitation": invitation,
	})
}

func (h *InviteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.RespondError(w, http.StatusBadRequest, "Token is required")
		return
	}

	invitation, err := h.InvitationService.VerifyInvitation(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"invite": map[string]string{
			"email":      invitation.Email,
			"speciality": invitation.Speciality,
		},
	})
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var input services.AcceptInvitationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.InvitationService.AcceptInvitation(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created successfully",
		"user":    user,
	})
}

func (h *InviteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.InvitationService.GetAllInvitations(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"invitations": invitations,
	})
}
