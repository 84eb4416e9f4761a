package analyses

import (
	"time"

	"repolens-backend/internal/webhook"
)

// Outcome is the normalized result of one analysis. Issues is never nil: an
// empty slice means the analysis found nothing wrong.
type Outcome struct {
	Issues         []string `json:"issues"`
	Recommendation string   `json:"recommendation"`
}

// Analysis is one completed repository analysis owned by a user. Records are
// append-only; newer analyses supersede older ones, nothing is mutated.
type Analysis struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Repo      webhook.RepoData `json:"repo"`
	Result    Outcome          `json:"result"`
	CreatedAt time.Time        `json:"createdAt"`
}
