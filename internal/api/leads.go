package api

import (
	"net/http"
	"strings"

	"github.com/abdulwasay100/leadcrm/internal/crm"
)

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Svc.ListLeads(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lead, err := h.Svc.GetLead(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var in crm.LeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.Svc.CreateLead(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in crm.LeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.Svc.UpdateLead(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *Handler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lead, err := h.Svc.ConvertLead(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteLead(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseLead handles POST /api/leads/parse. The draft is returned, not stored.
func (h *Handler) ParseLead(w http.ResponseWriter, r *http.Request) {
	if h.Parser == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "lead parsing is not configured"})
		return
	}
	var req parseRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}
	draft, err := h.Parser.ParseLead(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}
