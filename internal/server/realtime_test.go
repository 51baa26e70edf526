package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeToken(t *testing.T) {
	session := `{"id":"sess_42","model":"gpt-4o-realtime-preview-2024-12-17","client_secret":{"value":"ek_live_x","expires_at":1735689600}}`
	u := &upstreamStub{responses: []stubResponse{{200, session}}}
	srv := newTestServer(t, u)

	resp := postJSON(t, srv.URL+"/realtime-token", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)

	// Provider payload passes through verbatim, ephemeral credential included.
	assert.Equal(t, "sess_42", got["id"])
	secret := got["client_secret"].(map[string]any)
	assert.Equal(t, "ek_live_x", secret["value"])

	// The session is grounded in the terse knowledge instructions.
	var sent map[string]any
	require.NoError(t, json.Unmarshal(u.body(0), &sent))
	instructions := sent["instructions"].(string)
	assert.Contains(t, instructions, "concierge")
	assert.Contains(t, instructions, "FAQ:")
	assert.Contains(t, instructions, "1-2 short sentences")
	assert.Equal(t, "alloy", sent["voice"])
}

func TestRealtimeTokenUpstreamFailure(t *testing.T) {
	u := &upstreamStub{responses: []stubResponse{{503, `{"error":{"message":"overloaded"}}`}}}
	srv := newTestServer(t, u)

	resp := postJSON(t, srv.URL+"/realtime-token", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "Failed to create realtime session", got["error"])
}
