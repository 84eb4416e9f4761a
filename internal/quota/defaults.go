package quota

// DefaultAttempts is the allowance granted to a new account.
const DefaultAttempts = 5

func defaultQuota(userID string) Quota {
	return Quota{
		UserID:       userID,
		AttemptsLeft: DefaultAttempts,
	}
}
