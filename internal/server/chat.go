package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"concierge-backend/internal/ai"
	"concierge-backend/internal/types"
)

const (
	defaultGesture = "talk1"
	defaultEmotion = "neutral"
)

// In-character degradations. The browser renders these like any assistant
// turn, so model-level failures never surface as HTTP errors.
var (
	rateLimitedReply = types.ChatResponse{
		Message: "Przepraszam, zbyt wiele zapytań. Spróbuj za chwilę.",
		Gesture: "shy",
		Emotion: "apologetic",
	}
	quotaReply = types.ChatResponse{
		Message: "Przepraszam, tymczasowy problem techniczny. Skontaktuj się z recepcją.",
		Gesture: "fadai",
		Emotion: "concerned",
	}
	genericFailureReply = types.ChatResponse{
		Message: "Przepraszam, wystąpił problem. Proszę spróbować ponownie.",
		Gesture: "shy",
		Emotion: "apologetic",
	}
)

var chatResponseSchema = json.RawMessage(`{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"text": {"type": "string"},
		"gesture": {"type": "string"},
		"emotion": {"type": "string"}
	},
	"required": ["text", "gesture", "emotion"]
}`)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	ctx := r.Context()

	// Best-effort enrichment; "" simply omits the weather sentence.
	systemPrompt := s.kb.SystemPrompt(s.weather.Current(ctx))

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, turn := range sanitizeHistory(req.History) {
		messages = append(messages, openai.ChatCompletionMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})

	slog.Info("chat request", "history_len", len(req.History))

	content, err := s.ai.Complete(ctx, ai.CompletionSpec{
		Model:          s.cfg.ChatModel,
		FallbackModels: s.cfg.ChatFallbackModels,
		Messages:       messages,
		Temperature:    0.3,
		SchemaName:     "hotel_chat_response",
		Schema:         chatResponseSchema,
	})
	if err != nil {
		switch {
		case ai.IsRateLimited(err):
			slog.Warn("chat rate limited upstream")
			s.writeJSON(w, http.StatusOK, rateLimitedReply)
		case ai.IsQuotaExceeded(err):
			slog.Warn("chat quota exceeded upstream")
			s.writeJSON(w, http.StatusOK, quotaReply)
		default:
			slog.Error("chat completion failed", "error", err)
			s.writeJSON(w, http.StatusOK, genericFailureReply)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, normalizeReply(content))
}

// sanitizeHistory filters caller-supplied history down to entries with an
// allowed role and non-empty content, preserving relative order. Invalid
// entries are dropped silently, not rejected.
func sanitizeHistory(history []types.ConversationTurn) []types.ConversationTurn {
	out := make([]types.ConversationTurn, 0, len(history))
	for _, t := range history {
		if types.ValidTurn(t) {
			out = append(out, t)
		}
	}
	return out
}

// assistantReply is the shape the model is asked for. Some replies use
// "message" instead of "text"; both are accepted in one normalization step.
type assistantReply struct {
	Text    string `json:"text"`
	Message string `json:"message"`
	Gesture string `json:"gesture"`
	Emotion string `json:"emotion"`
}

// normalizeReply turns raw model output into the stable response envelope.
// Markdown fences are stripped first; if the remainder still is not JSON the
// whole text becomes the message with default gesture and emotion.
func normalizeReply(raw string) types.ChatResponse {
	cleaned := stripFences(raw)
	var reply assistantReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		slog.Warn("model output was not JSON, using raw text", "error", err)
		return types.ChatResponse{Message: cleaned, Gesture: defaultGesture, Emotion: defaultEmotion}
	}
	resp := types.ChatResponse{
		Message: reply.Text,
		Gesture: reply.Gesture,
		Emotion: reply.Emotion,
	}
	if resp.Message == "" {
		resp.Message = reply.Message
	}
	if resp.Message == "" {
		resp.Message = cleaned
	}
	if resp.Gesture == "" {
		resp.Gesture = defaultGesture
	}
	if resp.Emotion == "" {
		resp.Emotion = defaultEmotion
	}
	return resp
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```\n", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
