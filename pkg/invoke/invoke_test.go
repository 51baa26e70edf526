package invoke

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackendClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BackendURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestInvokePostsToFunctionsPath(t *testing.T) {
	c := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/hotel-chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"message":"hej"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Dzień dobry!","gesture":"swingarm","emotion":"happy"}`))
	})

	res := c.Invoke(context.Background(), "hotel-chat", map[string]any{"message": "hej"})
	require.NoError(t, res.Err)
	data := res.Data.(map[string]any)
	assert.Equal(t, "Dzień dobry!", data["message"])
	assert.Equal(t, "swingarm", data["gesture"])
}

func TestInvokeUsesErrorFieldFromBody(t *testing.T) {
	c := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Message is required"}`))
	})

	res := c.Invoke(context.Background(), "hotel-chat", nil)
	require.Error(t, res.Err)
	assert.Equal(t, "Message is required", res.Err.Error())
}

func TestInvokeGenericErrorWhenBodyHasNoErrorField(t *testing.T) {
	c := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream blew up"))
	})

	res := c.Invoke(context.Background(), "hotel-chat", nil)
	require.Error(t, res.Err)
	assert.Equal(t, "Request failed: 502", res.Err.Error())
}

func TestInvokeNonJSONBodyReturnedAsText(t *testing.T) {
	c := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text reply"))
	})

	res := c.Invoke(context.Background(), "text-to-speech", nil)
	require.NoError(t, res.Err)
	assert.Equal(t, "plain text reply", res.Data)
}

func TestInvokeEmptyBodyYieldsNilData(t *testing.T) {
	c := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res := c.Invoke(context.Background(), "realtime-token", nil)
	require.NoError(t, res.Err)
	assert.Nil(t, res.Data)
}

func TestInvokeCapturesNetworkFailure(t *testing.T) {
	c, err := New(Config{BackendURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	res := c.Invoke(context.Background(), "hotel-chat", map[string]any{"message": "hej"})
	require.Error(t, res.Err)
	assert.Nil(t, res.Data)
}

func TestNewRequiresSomeDestination(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
