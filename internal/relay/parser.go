package relay

import (
	"encoding/json"
	"strings"

	"scamtrap/internal/models"

	"github.com/kaptinlin/jsonrepair"
)

const fallbackPersonaResponse = "I'm not sure I understand. Could you explain that again?"

// FallbackResult is the fixed degrade result applied whenever the
// model's output cannot be turned into a valid judgment. It never
// fails, so the conversation can always continue.
func FallbackResult() *models.HoneypotResult {
	return &models.HoneypotResult{
		ScamDetected:       true,
		ScamConfidence:     0.5,
		PersonaResponse:    fallbackPersonaResponse,
		ConversationStatus: models.StatusEngaging,
	}
}

// ParseResult extracts the first balanced {...} substring from the
// model's raw output and decodes it, running it through jsonrepair as
// a second chance. The second return value reports whether the model's
// own output was used; when false the fixed fallback is returned.
func ParseResult(raw string) (*models.HoneypotResult, bool) {
	jsonStr, ok := extractJSON(raw)
	if !ok {
		return FallbackResult(), false
	}

	var res models.HoneypotResult
	if err := json.Unmarshal([]byte(jsonStr), &res); err == nil {
		return &res, true
	}

	repaired, err := jsonrepair.JSONRepair(jsonStr)
	if err != nil {
		return FallbackResult(), false
	}
	if err := json.Unmarshal([]byte(repaired), &res); err != nil {
		return FallbackResult(), false
	}
	return &res, true
}

// extractJSON returns the first balanced top-level JSON object in s,
// tolerating prose before and after it.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
