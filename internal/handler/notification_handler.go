package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	result, err := h.NotificationService.List(r.Context(), p.ID, unreadOnly, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	body := pageBody("notifications", "totalNotifications", &result.Page)
	body["unreadCount"] = result.UnreadCount
	writeSuccess(w, "", body, http.StatusOK)
}

func (h *Handlers) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	count, err := h.NotificationService.UnreadCount(r.Context(), p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", map[string]int{"unreadCount": count}, http.StatusOK)
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	notification, err := h.NotificationService.MarkRead(r.Context(), mux.Vars(r)["notificationId"], p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Notification marked as read", notification, http.StatusOK)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	updated, err := h.NotificationService.MarkAllRead(r.Context(), p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "All notifications marked as read", map[string]int64{"updated": updated}, http.StatusOK)
}

func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.NotificationService.Delete(r.Context(), mux.Vars(r)["notificationId"], p.ID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Notification deleted", nil, http.StatusOK)
}
