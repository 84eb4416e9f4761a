package analyses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"repolens-backend/internal/webhook"
)

// ExtractOutcome unwraps the provider envelope and parses the embedded
// analysis payload. Each traversal level that is absent fails with its own
// sentinel; a truncated envelope never yields a partial Outcome.
func ExtractOutcome(resp webhook.AnalysisResponse) (Outcome, error) {
	if len(resp.Candidates) == 0 {
		return Outcome{}, ErrNoCandidates
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return Outcome{}, ErrNoParts
	}
	text := parts[0].Text
	if strings.TrimSpace(text) == "" {
		return Outcome{}, ErrEmptyText
	}

	clean := StripFences(text)

	var payload []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		if json.Valid([]byte(clean)) {
			// Valid JSON of the wrong top-level shape.
			return Outcome{}, fmt.Errorf("%w: %v", ErrEmptyPayload, err)
		}
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(payload) == 0 {
		return Outcome{}, ErrEmptyPayload
	}

	first := payload[0]
	rawIssues, ok := first["issues"]
	if !ok || isJSONNull(rawIssues) {
		return Outcome{}, ErrMissingIssues
	}
	var issues []string
	if err := json.Unmarshal(rawIssues, &issues); err != nil {
		return Outcome{}, fmt.Errorf("%w: issues is not a string array", ErrMissingIssues)
	}
	if issues == nil {
		issues = []string{}
	}

	// The provider may omit the recommendation when there are no issues;
	// that is a documented leniency, defaulted to empty rather than failed.
	// A present but non-string value is a contract break, not an omission.
	recommendation := ""
	for _, key := range []string{"prompt", "recommendation"} {
		raw, ok := first[key]
		if !ok || isJSONNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Outcome{}, fmt.Errorf("%w: %s", ErrBadRecommend, key)
		}
		recommendation = s
		break
	}

	return Outcome{Issues: issues, Recommendation: recommendation}, nil
}

// StripFences removes a wrapping Markdown code fence from the provider text.
// Unfenced text passes through unchanged, so stripping is idempotent.
func StripFences(text string) string {
	clean := text
	if strings.HasPrefix(clean, "```json\n") {
		clean = clean[len("```json\n"):]
	} else if strings.HasPrefix(clean, "```json") {
		clean = clean[len("```json"):]
	}
	if strings.HasSuffix(clean, "\n```") {
		clean = clean[:len(clean)-len("\n```")]
	} else if strings.HasSuffix(clean, "```") {
		clean = clean[:len(clean)-len("```")]
	}
	return strings.TrimSpace(clean)
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
