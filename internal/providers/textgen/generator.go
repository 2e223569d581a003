package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator is the narrow capability the assistant core depends on: one
// round trip to a text-generation provider. Implementations must honor
// the context deadline and surface transport/status failures as errors.
type Generator interface {
	Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

// HTTPError is returned when a provider answers with a non-success
// status. Callers use it to tell client-side validation failures apart
// from outages when wording user-facing degradation messages.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("textgen: provider returned status %d", e.Status)
}

// IsBadRequest reports whether err is a 400-class provider response.
func IsBadRequest(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status >= 400 && he.Status < 500
	}
	return false
}

// ExtractJSONFragment trims code fences and surrounding prose from a
// model reply, returning the innermost JSON object or array text.
func ExtractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
