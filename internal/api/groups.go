package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/export"
)

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Svc.ListGroups(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var in crm.GroupInput
	if !decode(w, r, &in) {
		return
	}
	group, err := h.Svc.CreateGroup(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in crm.GroupInput
	if !decode(w, r, &in) {
		return
	}
	group, err := h.Svc.UpdateGroup(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteGroup(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AutoCreateAndAssign handles PATCH /api/groups.
func (h *Handler) AutoCreateAndAssign(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.AutoCreateAndAssign(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportGroup handles GET /api/groups/{id}/export with an XLSX of the group's leads.
func (h *Handler) ExportGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	group, leads, err := h.Svc.GroupMembers(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Leads(&buf, group.Name, leads); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="group_%d.xlsx"`, group.GroupID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
