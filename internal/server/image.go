package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"concierge-backend/internal/types"
)

// handleGenerateImage tries the primary image model, then the fallback once.
// Both failing surfaces a 500 whose message carries both reasons.
func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req types.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		s.writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	slog.Info("generating image", "model", s.cfg.ImageModel)
	url, err := s.ai.GenerateImage(r.Context(), req.Prompt, s.cfg.ImageModel, s.cfg.ImageFallbackModel)
	if err != nil {
		slog.Error("image generation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, types.ImageResponse{ImageURL: url})
}
