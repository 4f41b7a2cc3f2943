package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/go-chi/chi/v5"
)

// EntryResponse is one item of GET /api/entries
type EntryResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Date        time.Time `json:"date"`
	DurationStr string    `json:"durationStr"`
}

// SaveEntryRequest is the body of POST /api/entries. ID accepts a number,
// a numeric string or null.
type SaveEntryRequest struct {
	ID          json.RawMessage `json:"id"`
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	DurationStr *string         `json:"durationStr"`
}

type SaveEntryResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// parseEntryID returns nil for an absent, null, empty or zero id
func parseEntryID(raw json.RawMessage) (*int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	} else {
		s = string(raw)
	}
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid entry id %q", s)
	}
	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

// ListEntries handles GET /api/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.List(r.Context(), identity(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:          e.ID,
			Title:       e.Title,
			Content:     e.Content,
			Date:        e.CreatedAt,
			DurationStr: e.Duration,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// SaveEntry handles POST /api/entries
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeStatusError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseEntryID(req.ID)
	if err != nil {
		writeStatusError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, created, err := h.entries.Upsert(r.Context(), identity(r), models.EntryDraft{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		Duration:  req.DurationStr,
		IPAddress: clientip.FromRequest(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	status := "updated"
	if created {
		status = "created"
	}
	writeJSON(w, http.StatusOK, SaveEntryResponse{Status: status, ID: entry.ID})
}

// DeleteEntry handles DELETE /api/entries/{id} and its POST alias
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeStatusError(w, http.StatusNotFound, "not found or no permission")
		return
	}
	if err := h.entries.Delete(r.Context(), identity(r), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
