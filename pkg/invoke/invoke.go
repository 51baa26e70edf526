// Package invoke gives clients a single function to call any backend
// capability by name, hiding whether the call goes to a self-hosted backend
// or to Supabase Edge Functions. It never returns a panic or a raw transport
// failure; everything lands in Result.Err.
package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/supabase-go"
)

// Result is the uniform outcome of a capability invocation. Data holds the
// parsed JSON body when the response was JSON, else the raw text.
type Result struct {
	Data any
	Err  error
}

type Config struct {
	// BackendURL is the self-hosted backend base URL. When set it takes
	// precedence over the Supabase fallback.
	BackendURL string
	// Supabase project credentials for the fallback invocation path.
	SupabaseURL     string
	SupabaseAnonKey string
}

type Client struct {
	baseURL string
	httpc   *http.Client
	sb      *supabase.Client
}

func New(cfg Config) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
	if c.baseURL == "" {
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("either a backend URL or supabase credentials are required")
		}
		sb, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
		if err != nil {
			return nil, fmt.Errorf("create supabase client: %w", err)
		}
		c.sb = sb
	}
	return c, nil
}

// Invoke calls the named capability with an optional JSON body.
func (c *Client) Invoke(ctx context.Context, fn string, body any) Result {
	if c.baseURL != "" {
		return c.invokeBackend(ctx, fn, body)
	}
	return c.invokeSupabase(fn, body)
}

func (c *Client) invokeBackend(ctx context.Context, fn string, body any) Result {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	url := fmt.Sprintf("%s/functions/v1/%s", c.baseURL, fn)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: err}
	}
	parsed := safeJSONParse(text)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if m, ok := parsed.(map[string]any); ok {
			if errMsg, ok := m["error"].(string); ok && errMsg != "" {
				return Result{Err: fmt.Errorf("%s", errMsg)}
			}
		}
		return Result{Err: fmt.Errorf("Request failed: %d", resp.StatusCode)}
	}
	return Result{Data: parsed}
}

func (c *Client) invokeSupabase(fn string, body any) Result {
	payload := map[string]interface{}{}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{Err: fmt.Errorf("encode request body: %w", err)}
		}
		if err := json.Unmarshal(encoded, &payload); err != nil {
			return Result{Err: fmt.Errorf("capability body must be a JSON object: %w", err)}
		}
	}
	resp, err := c.sb.Functions.Invoke(fn, payload)
	if err != nil {
		return Result{Err: err}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		if m, ok := resp.Data.(map[string]any); ok {
			if errMsg, ok := m["error"].(string); ok && errMsg != "" {
				return Result{Err: fmt.Errorf("%s", errMsg)}
			}
		}
		return Result{Err: fmt.Errorf("Request failed: %d", resp.Status)}
	}
	return Result{Data: resp.Data}
}

// safeJSONParse mirrors the adapter contract: JSON when possible, raw text
// otherwise, nil for an empty body.
func safeJSONParse(text []byte) any {
	if len(text) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(text, &v); err != nil {
		return string(text)
	}
	return v
}
