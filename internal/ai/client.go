// Package ai wraps the upstream provider so capability handlers stay
// declarative. Provider quirks like parameter rejections and model
// availability are absorbed here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Config struct {
	APIKey  string
	BaseURL string // empty means the public OpenAI endpoint
}

type Client struct {
	oai     *openai.Client
	httpc   *http.Client
	baseURL string
	apiKey  string
}

func New(cfg Config) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	oaiCfg.BaseURL = base
	return &Client{
		oai:     openai.NewClientWithConfig(oaiCfg),
		httpc:   &http.Client{Timeout: 60 * time.Second},
		baseURL: base,
		apiKey:  cfg.APIKey,
	}
}

// CompletionSpec is the full desired completion payload. The client degrades
// it as needed; callers never see the intermediate attempts.
type CompletionSpec struct {
	Model          string
	FallbackModels []string
	Messages       []openai.ChatCompletionMessage
	Temperature    float32
	SchemaName     string
	Schema         json.RawMessage // strict JSON-schema for the reply; nil for free text
}

// Complete runs the resilient call protocol: the desired payload first, then
// at most one application of each mitigation rule in rank order, then the
// next fallback model if the current one is unavailable.
func (c *Client) Complete(ctx context.Context, spec CompletionSpec) (string, error) {
	models := append([]string{spec.Model}, spec.FallbackModels...)
	var lastErr error
	for i, model := range models {
		content, err := c.completeWithModel(ctx, model, spec)
		if err == nil {
			return content, nil
		}
		lastErr = err
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && isModelUnavailable(apiErr) && i < len(models)-1 {
			slog.Warn("chat model unavailable, trying fallback", "model", model, "next", models[i+1])
			continue
		}
		return "", classify(err)
	}
	return "", classify(lastErr)
}

func (c *Client) completeWithModel(ctx context.Context, model string, spec CompletionSpec) (string, error) {
	att := newAttempt(model, spec)
	// Base call plus at most one retry per mitigation rule.
	for tries := 0; tries <= len(mitigations); tries++ {
		resp, err := c.oai.CreateChatCompletion(ctx, att.req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", &ProviderError{StatusCode: http.StatusBadGateway, Message: "no completion choices returned"}
			}
			return resp.Choices[0].Message.Content, nil
		}
		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) {
			return "", err
		}
		if m, ok := nextMitigation(&att, apiErr); ok {
			slog.Warn("provider rejected parameter, retrying", "mitigation", m.name, "model", model)
			m.apply(&att)
			continue
		}
		return "", err
	}
	return "", &ProviderError{StatusCode: http.StatusBadGateway, Message: "retry budget exhausted"}
}

func newAttempt(model string, spec CompletionSpec) attempt {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    spec.Messages,
		Temperature: spec.Temperature,
	}
	a := attempt{req: req, hadTemperature: spec.Temperature != 0}
	if spec.Schema != nil {
		a.req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   spec.SchemaName,
				Strict: true,
				Schema: spec.Schema,
			},
		}
		a.hadJSONSchema = true
	}
	return a
}

// Transcribe sends recorded audio to the speech-to-text model.
func (c *Client) Transcribe(ctx context.Context, model string, audio []byte) (string, error) {
	resp, err := c.oai.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio.webm",
	})
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Speak synthesizes text and returns the raw audio bytes (mp3).
func (c *Client) Speak(ctx context.Context, model, voice, text string) ([]byte, error) {
	resp, err := c.oai.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(model),
		Input: text,
		Voice: openai.SpeechVoice(voice),
	})
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Close()
	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return audio, nil
}

// GenerateImage tries the primary model, then the fallback once. Both failing
// yields a combined error carrying both reasons.
func (c *Client) GenerateImage(ctx context.Context, prompt, primary, fallback string) (string, error) {
	url, primaryErr := c.generateImageWith(ctx, prompt, primary)
	if primaryErr == nil {
		return url, nil
	}
	slog.Warn("primary image model failed", "model", primary, "error", primaryErr)
	url, fallbackErr := c.generateImageWith(ctx, prompt, fallback)
	if fallbackErr == nil {
		return url, nil
	}
	slog.Error("fallback image model failed", "model", fallback, "error", fallbackErr)
	return "", fmt.Errorf("%v\n%v", classify(primaryErr), classify(fallbackErr))
}

func (c *Client) generateImageWith(ctx context.Context, prompt, model string) (string, error) {
	resp, err := c.oai.CreateImage(ctx, openai.ImageRequest{
		Model:  model,
		Prompt: prompt,
		Size:   openai.CreateImageSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no image generated")
	}
	if b64 := resp.Data[0].B64JSON; b64 != "" {
		// Data URL so clients can render without another fetch.
		return "data:image/png;base64," + b64, nil
	}
	if u := resp.Data[0].URL; u != "" {
		return u, nil
	}
	return "", fmt.Errorf("no image generated")
}

// MintRealtimeSession requests a short-lived realtime session from the
// provider and returns its payload verbatim; it embeds the ephemeral
// credential the browser uses to open a direct peer connection. The audio
// stream itself never touches this backend.
func (c *Client) MintRealtimeSession(ctx context.Context, model, voice, instructions string) (json.RawMessage, error) {
	payload := map[string]any{
		"model":               model,
		"voice":               voice,
		"instructions":        instructions,
		"input_audio_format":  "pcm16",
		"output_audio_format": "pcm16",
		"input_audio_transcription": map[string]any{
			"model": "whisper-1",
		},
		"turn_detection": map[string]any{
			"type":                "server_vad",
			"threshold":           0.5,
			"prefix_padding_ms":   300,
			"silence_duration_ms": 1000,
		},
		"temperature": 0.8,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/realtime/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realtime session request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read realtime session response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: string(data)}
	}
	return json.RawMessage(data), nil
}
