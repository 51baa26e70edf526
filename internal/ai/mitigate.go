package ai

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// attempt tracks the payload of a single completion call and which
// compatibility fixes were already applied to it.
type attempt struct {
	req            openai.ChatCompletionRequest
	hadTemperature bool
	hadJSONSchema  bool
}

// A mitigation recognizes one class of parameter rejection and rewrites the
// payload so the next call can succeed. Rules are ranked: the first matching,
// not-yet-applied rule fires, and each rule fires at most once per request.
type mitigation struct {
	name    string
	applied func(*attempt) bool
	matches func(*openai.APIError) bool
	apply   func(*attempt)
}

// Ordered by likelihood: reasoning-tuned deployments reject a custom
// temperature far more often than they reject structured outputs.
var mitigations = []mitigation{
	{
		name:    "drop-temperature",
		applied: func(a *attempt) bool { return !a.hadTemperature },
		matches: isTemperatureRejection,
		apply: func(a *attempt) {
			a.req.Temperature = 0 // omitted on the wire, provider default applies
			a.hadTemperature = false
		},
	},
	{
		name:    "relax-response-format",
		applied: func(a *attempt) bool { return !a.hadJSONSchema },
		matches: isSchemaRejection,
		apply: func(a *attempt) {
			a.req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
			a.hadJSONSchema = false
		},
	},
}

func nextMitigation(a *attempt, apiErr *openai.APIError) (mitigation, bool) {
	for _, m := range mitigations {
		if m.applied(a) {
			continue
		}
		if m.matches(apiErr) {
			return m, true
		}
	}
	return mitigation{}, false
}

func isTemperatureRejection(e *openai.APIError) bool {
	if e.HTTPStatusCode != 400 {
		return false
	}
	if e.Param != nil && *e.Param == "temperature" {
		return true
	}
	msg := strings.ToLower(e.Message)
	return errCode(e) == "unsupported_value" && strings.Contains(msg, "temperature")
}

func isSchemaRejection(e *openai.APIError) bool {
	if e.HTTPStatusCode != 400 {
		return false
	}
	if e.Param != nil && strings.Contains(*e.Param, "response_format") {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "response_format") || strings.Contains(msg, "json_schema")
}

// isModelUnavailable reports failures that warrant moving to the next
// fallback model rather than retrying the current one.
func isModelUnavailable(e *openai.APIError) bool {
	if e.HTTPStatusCode == 404 {
		return true
	}
	if errCode(e) == "model_not_found" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "does not exist")
}

func errCode(e *openai.APIError) string {
	if code, ok := e.Code.(string); ok {
		return code
	}
	return ""
}
