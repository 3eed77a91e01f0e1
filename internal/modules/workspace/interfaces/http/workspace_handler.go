package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Knaifu0030/task-nexus/internal/gateway/middleware"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/domain"
)

type WorkspaceHandler struct {
	service *application.WorkspaceService
}

func NewWorkspaceHandler(service *application.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *WorkspaceHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	inviterID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error": "invalid workspace id"}`, http.StatusBadRequest)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, `{"error": "email is required"}`, http.StatusBadRequest)
		return
	}

	member, err := h.service.InviteMember(r.Context(), workspaceID, inviterID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotMember), errors.Is(err, domain.ErrForbidden):
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusForbidden)
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrWorkspaceNotFound):
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusNotFound)
		case errors.Is(err, domain.ErrAlreadyMember):
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusConflict)
		default:
			http.Error(w, `{"error": "failed to invite member"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Collaborator invited successfully",
		"member":  member,
	}); err != nil {
		log.Printf("[Workspace] response encode error: %v", err)
	}
}
