package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	u := &upstreamStub{responses: []stubResponse{
		{200, `{"created":1,"data":[{"b64_json":"aW1n"}]}`},
	}}
	srv := newTestServer(t, u)

	resp := postJSON(t, srv.URL+"/generate-image", `{"prompt":"hotel nad jeziorem"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "data:image/png;base64,aW1n", got["imageUrl"])

	var sent map[string]any
	require.NoError(t, json.Unmarshal(u.body(0), &sent))
	assert.Equal(t, "gpt-image-1", sent["model"])
	assert.Equal(t, "hotel nad jeziorem", sent["prompt"])
	assert.Equal(t, "1024x1024", sent["size"])
}

func TestGenerateImageFallsBackToSecondaryModel(t *testing.T) {
	u := &upstreamStub{responses: []stubResponse{
		openaiError(403, "organization must be verified"),
		{200, `{"created":1,"data":[{"url":"https://img.example/lake.png"}]}`},
	}}
	srv := newTestServer(t, u)

	resp := postJSON(t, srv.URL+"/generate-image", `{"prompt":"jezioro"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "https://img.example/lake.png", got["imageUrl"])

	require.Equal(t, 2, u.calls())
	var second map[string]any
	require.NoError(t, json.Unmarshal(u.body(1), &second))
	assert.Equal(t, "dall-e-3", second["model"])
}

func TestGenerateImageBothModelsFail(t *testing.T) {
	u := &upstreamStub{responses: []stubResponse{
		openaiError(403, "primary refused"),
		openaiError(500, "fallback exploded"),
	}}
	srv := newTestServer(t, u)

	resp := postJSON(t, srv.URL+"/generate-image", `{"prompt":"jezioro"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	got := decodeBody(t, resp)
	errMsg := got["error"].(string)
	assert.Contains(t, errMsg, "primary refused")
	assert.Contains(t, errMsg, "fallback exploded")
}

func TestGenerateImageMissingPrompt(t *testing.T) {
	srv := newTestServer(t, &upstreamStub{})

	resp := postJSON(t, srv.URL+"/generate-image", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "Prompt is required", got["error"])
}
