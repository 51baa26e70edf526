// Package server is the HTTP dispatch layer: one listener, one route per
// capability, permissive CORS everywhere. Handlers are the error boundary;
// nothing above them should ever observe a failure as anything but a
// structured JSON response.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"concierge-backend/internal/ai"
	"concierge-backend/internal/config"
	"concierge-backend/internal/knowledge"
	"concierge-backend/internal/types"
	"concierge-backend/internal/weather"
)

type Server struct {
	router  *chi.Mux
	cfg     config.Config
	ai      *ai.Client
	kb      *knowledge.Base
	weather *weather.Service
}

func NewServer(cfg config.Config) (*Server, error) {
	kb, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		kb:      kb,
		ai:      ai.New(ai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL}),
		weather: weather.New(cfg.WeatherAPIKey, cfg.WeatherLat, cfg.WeatherLon),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		MaxAge:         300,
	}))
	r.Use(normalizePath)
	r.Use(permissiveCORS)

	r.Get("/health", s.handleHealth)
	r.Post("/hotel-chat", s.handleChat)
	r.Post("/speech-to-text", s.handleSpeechToText)
	r.Post("/text-to-speech", s.handleTextToSpeech)
	r.Post("/realtime-token", s.handleRealtimeToken)
	r.Post("/generate-image", s.handleGenerateImage)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	})

	s.router = r
	return s, nil
}

func (s *Server) Router() http.Handler { return s.router }

// normalizePath strips the /functions/v1 prefix kept for clients written
// against the previous hosting layout, and a trailing slash (except root).
func normalizePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if strings.HasPrefix(p, "/functions/v1/") {
			p = strings.TrimPrefix(p, "/functions/v1")
		}
		if len(p) > 1 {
			p = strings.TrimSuffix(p, "/")
		}
		if p == "" {
			p = "/"
		}
		r.URL.Path = p
		next.ServeHTTP(w, r)
	})
}

// permissiveCORS guarantees the headers on every response, Origin header or
// not, and terminates any OPTIONS request with an empty 200 before routing.
func permissiveCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.HealthResponse{OK: true})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func (s *Server) writeRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Error("response write failed", "error", err)
	}
}
