package api

import (
	"net/http"

	"github.com/abdulwasay100/leadcrm/internal/crm"
)

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListReminders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var in crm.ReminderInput
	if !decode(w, r, &in) {
		return
	}
	reminder, err := h.Svc.CreateReminder(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (h *Handler) SetReminderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in crm.StatusInput
	if !decode(w, r, &in) {
		return
	}
	reminder, err := h.Svc.SetReminderStatus(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}
