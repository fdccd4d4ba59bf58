package services

import (
	"encoding/json"
	"strings"
)

// decodeOrDefault unmarshals raw into a fresh T. When raw is not valid JSON
// it retries on the span between the first '{' and the last '}'. If both
// attempts fail it returns def and false.
func decodeOrDefault[T any](raw string, def T) (T, bool) {
	raw = strings.TrimSpace(raw)

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return def, false
	}

	var retry T
	if err := json.Unmarshal([]byte(raw[start:end+1]), &retry); err != nil {
		return def, false
	}
	return retry, true
}

// stringField returns v as a trimmed string when it is a JSON string
func stringField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
