package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"google.golang.org/genai"

	"digicreative/internal/schema"
)

// ParseStructured checks text against s and decodes it into T. Any failure is
// a *SchemaMismatchError and no partial value is returned.
func ParseStructured[T any](text string, s *genai.Schema) (*T, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, &SchemaMismatchError{Raw: text, Err: errors.New("empty response text")}
	}

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return nil, &SchemaMismatchError{Raw: text, Err: err}
	}
	if err := schema.Conform(s, generic); err != nil {
		return nil, &SchemaMismatchError{Raw: text, Err: err}
	}

	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &SchemaMismatchError{Raw: text, Err: err}
	}
	return &out, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop the language tag, which may sit on its own line or run straight
	// into the payload.
	text = strings.TrimLeftFunc(text, isFenceTagRune)
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func isFenceTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+'
}
