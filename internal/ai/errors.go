package ai

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ProviderError is the classified upstream failure surface. Handlers map it
// to a stable JSON shape instead of leaking raw provider responses.
type ProviderError struct {
	StatusCode int
	Code       string
	Param      string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports an upstream 429.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests
}

// IsQuotaExceeded reports an upstream 402 (billing or quota).
func IsQuotaExceeded(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusPaymentRequired
}

func classify(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	pe := &ProviderError{
		StatusCode: apiErr.HTTPStatusCode,
		Message:    apiErr.Message,
	}
	if code, ok := apiErr.Code.(string); ok {
		pe.Code = code
	}
	if apiErr.Param != nil {
		pe.Param = *apiErr.Param
	}
	return pe
}
