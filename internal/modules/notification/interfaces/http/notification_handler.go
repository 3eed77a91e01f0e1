package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Knaifu0030/task-nexus/internal/gateway/middleware"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/websocket"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type NotificationHandler struct {
	service  *application.NotificationService
	triggers *application.TriggerService
	hub      *websocket.Hub
}

func NewNotificationHandler(service *application.NotificationService, triggers *application.TriggerService, hub *websocket.Hub) *NotificationHandler {
	return &NotificationHandler{service: service, triggers: triggers, hub: hub}
}

// Subscribe upgrades the connection and binds it to the authenticated user's
// channel. The middleware already rejected unauthenticated requests; the
// guard here keeps an unauthenticated connection from ever reaching the hub.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	websocket.ServeWs(h.hub, w, r, userID)
}

type listResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
	Pagination    pagination            `json:"pagination"`
}

type pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	limit, offset := listWindow(r)

	// Deadline notifications are derived lazily on the read path, so the
	// feed is current without a dedicated scheduler. A scan failure must not
	// break the listing.
	if err := h.triggers.ScanDeadlines(r.Context(), userID); err != nil {
		log.Printf("[Notifications] deadline scan failed for user %s: %v", userID, err)
	}

	notifications, err := h.service.GetUserNotifications(r.Context(), userID, limit, offset)
	if err != nil {
		http.Error(w, `{"error": "failed to fetch notifications"}`, http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	total, err := h.service.CountUserNotifications(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "failed to count notifications"}`, http.StatusInternalServerError)
		return
	}

	unread, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "failed to count unread notifications"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// listWindow parses limit/offset (with page as an offset alternative),
// clamping the limit to [1, maxListLimit].
func listWindow(r *http.Request) (limit, offset int) {
	limit = defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, maxListLimit)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			return limit, v
		}
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 1 {
			return limit, (v - 1) * limit
		}
	}
	return limit, 0
}

type createRequest struct {
	UserID   *uuid.UUID      `json:"user_id"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Metadata domain.Metadata `json:"metadata"`
}

type createResponse struct {
	Success      bool                 `json:"success"`
	Duplicate    bool                 `json:"duplicate"`
	Notification *domain.Notification `json:"notification"`
}

// CreateNotification lets an authenticated user create a notification for
// themselves. Suppressed duplicates are reported, not treated as errors.
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	target := userID
	if req.UserID != nil {
		target = *req.UserID
	}
	if target != userID {
		http.Error(w, `{"error": "cannot create notification for another user"}`, http.StatusForbidden)
		return
	}

	dedupeKey := ""
	if key, ok := req.Metadata[domain.MetadataDedupeKey].(string); ok {
		dedupeKey = key
	}

	notification, created, err := h.service.Create(r.Context(), target, domain.NotificationType(req.Type), req.Title, req.Message, req.Metadata, dedupeKey)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, `{"error": "`+validationErr.Error()+`"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error": "failed to create notification"}`, http.StatusInternalServerError)
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, createResponse{Success: true, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{Success: true, Notification: notification})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error": "invalid notification id"}`, http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	if err := h.service.MarkAsRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			http.Error(w, `{"error": "notification not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "failed to mark notification as read"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	updated, err := h.service.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "failed to mark all notifications as read"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "updated": updated})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "failed to get unread count"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Notifications] response encode error: %v", err)
	}
}
