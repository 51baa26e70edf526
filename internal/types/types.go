package types

// Roles accepted in caller-supplied conversation history. Anything else is
// silently dropped by the chat handler.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleDeveloper = "developer"
)

// ConversationTurn is one entry of the client-held chat history. The server
// keeps no copy of it; array order is chronological order.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidTurn reports whether a history entry may be forwarded upstream.
func ValidTurn(t ConversationTurn) bool {
	switch t.Role {
	case RoleSystem, RoleUser, RoleAssistant, RoleDeveloper:
		return t.Content != ""
	}
	return false
}

type ChatRequest struct {
	Message string             `json:"message"`
	History []ConversationTurn `json:"history,omitempty"`
}

// ChatResponse is the normalized concierge reply. Gesture and emotion always
// carry a value; the handler defaults them when the model omits one.
type ChatResponse struct {
	Message string `json:"message"`
	Gesture string `json:"gesture"`
	Emotion string `json:"emotion"`
}

type TranscribeRequest struct {
	Audio string `json:"audio"` // base64-encoded recording
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}

type SpeakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type SpeechResponse struct {
	AudioContent string `json:"audioContent"` // base64 mp3
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"` // data URL or remote URL
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
