package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"concierge-backend/internal/types"
)

// handleSpeechToText forwards a base64 recording to the transcription model.
// Minimum-duration and minimum-size checks happen client-side; recordings
// that reach this handler are forwarded as-is.
func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	var req types.TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Audio == "" {
		s.writeError(w, http.StatusBadRequest, "Audio is required")
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid base64 audio")
		return
	}

	text, err := s.ai.Transcribe(r.Context(), s.cfg.STTModel, audio)
	if err != nil {
		slog.Error("transcription failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}
	s.writeJSON(w, http.StatusOK, types.TranscriptionResponse{Text: text})
}

// handleTextToSpeech synthesizes speech and returns it base64-encoded. The
// caller decodes and plays it.
func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req types.SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	voice := req.Voice
	if voice == "" {
		voice = s.cfg.TTSVoice
	}

	audio, err := s.ai.Speak(r.Context(), s.cfg.TTSModel, voice, req.Text)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Speech synthesis failed")
		return
	}
	s.writeJSON(w, http.StatusOK, types.SpeechResponse{
		AudioContent: base64.StdEncoding.EncodeToString(audio),
	})
}
