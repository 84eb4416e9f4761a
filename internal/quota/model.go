package quota

import "time"

// Quota is a user's remaining-analysis allowance.
type Quota struct {
	UserID       string    `json:"userId"`
	AttemptsLeft int       `json:"attemptsLeft"`
	CreatedAt    time.Time `json:"createdAt"`
}
