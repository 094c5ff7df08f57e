package extraction

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON object out of the model's raw text response. The
// model is asked for bare JSON but in practice wraps it in prose or markdown
// code fences, so this scans from the first '{' to the last '}' and decodes
// that span. Schema checks are Validate's job; keeping them out of here lets
// "no JSON at all" be reported separately from "JSON with the wrong shape".
func ExtractJSON(raw string) (any, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, ErrMalformedResponse
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, ErrMalformedResponse
	}

	var candidate any
	if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &candidate); err != nil {
		return nil, ErrMalformedResponse
	}
	return candidate, nil
}
