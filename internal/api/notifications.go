package api

import (
	"net/http"
	"strconv"

	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	"go.uber.org/zap"
)

// ListNotifications handles GET /api/notifications?unread=true&limit=20.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unread := q.Get("unread") == "true"
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	list, err := h.Svc.ListNotifications(r.Context(), unread, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type createdResponse struct {
	Created bool `json:"created"`
}

// CreateNotification answers 201 with the notification, or 200 when an identical one exists.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var in crm.NotificationInput
	if !decode(w, r, &in) {
		return
	}
	n, err := h.Svc.CreateNotification(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if n == nil {
		writeJSON(w, http.StatusOK, createdResponse{Created: false})
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

type markReadResponse struct {
	Marked int64 `json:"marked"`
}

// MarkRead handles PATCH /api/notifications with {"ids":[..]} or {"all":true}.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var in crm.MarkReadInput
	if !decode(w, r, &in) {
		return
	}
	n, err := h.Svc.MarkRead(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{Marked: n})
}

type scanResponse struct {
	*notify.Result
	Error string `json:"error,omitempty"`
}

// Scan runs both scans now. When one scan fails the other's notifications are still
// stored and returned with a 500.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.Scan(r.Context())
	if result == nil {
		result = &notify.Result{}
	}
	if err != nil {
		h.Log.Error("scan request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, scanResponse{Result: result, Error: "scan incomplete"})
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{Result: result})
}

func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.DailyReport(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if n == nil {
		writeJSON(w, http.StatusOK, createdResponse{Created: false})
		return
	}
	writeJSON(w, http.StatusCreated, n)
}
