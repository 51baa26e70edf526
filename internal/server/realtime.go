package server

import (
	"log/slog"
	"net/http"
)

// handleRealtimeToken mints a short-lived realtime session and returns the
// provider payload verbatim. The browser uses the embedded ephemeral
// credential to open a direct peer connection; this backend never proxies
// the audio stream.
func (s *Server) handleRealtimeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	instructions := s.kb.RealtimeInstructions(s.weather.Current(ctx))

	session, err := s.ai.MintRealtimeSession(ctx, s.cfg.RealtimeModel, s.cfg.RealtimeVoice, instructions)
	if err != nil {
		slog.Error("realtime session mint failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to create realtime session")
		return
	}
	slog.Info("realtime session minted")
	s.writeRaw(w, http.StatusOK, session)
}
