package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/journal-backend/internal/services"
	"go.uber.org/zap"
)

type ProxyError struct {
	Error string `json:"error"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate handles GET /api/translate?text=...&target=xx
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, ProxyError{Error: "No text provided"})
		return
	}
	translated, err := h.translator.Translate(r.Context(), text, r.URL.Query().Get("target"))
	if err != nil {
		h.log.Warn("translation failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, ProxyError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TranslateResponse{TranslatedText: translated})
}

type GrammarRequest struct {
	Text string `json:"text"`
}

type GrammarResponse struct {
	Corrected string `json:"corrected"`
}

// Grammar handles POST /api/ai/grammar
func (h *Handler) Grammar(w http.ResponseWriter, r *http.Request) {
	var req GrammarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ProxyError{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, ProxyError{Error: "No text provided"})
		return
	}

	corrected, err := h.grammar.Check(r.Context(), req.Text)
	switch {
	case errors.Is(err, services.ErrProviderNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, ProxyError{Error: "Gemini API Key not configured"})
	case err != nil:
		h.log.Warn("grammar check failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, ProxyError{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, GrammarResponse{Corrected: corrected})
	}
}
