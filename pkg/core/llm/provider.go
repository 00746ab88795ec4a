package llm

import (
	"context"
)

// Provider is the interface for all text-completion providers. The pipeline
// depends only on this interface plus a failure signal; every call site has a
// deterministic fallback, so a provider error is never fatal.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// Available reports whether the provider has the credentials it needs.
	// Stages default to their deterministic branch when this is false.
	Available() bool
}

// optFloat reads a float option, accepting both float64 and int literals.
func optFloat(options map[string]interface{}, key string, def float64) float64 {
	if v, ok := options[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int:
			return float64(n)
		}
	}
	return def
}

// optInt reads an integer option.
func optInt(options map[string]interface{}, key string, def int) int {
	if v, ok := options[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return def
}

// optString reads a string option.
func optString(options map[string]interface{}, key string, def string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return def
}

// jsonMode reports whether the caller requested a schema-constrained JSON
// response via options["response_format"].
func jsonMode(options map[string]interface{}) bool {
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		return val["type"] == "json_object"
	}
	return false
}
