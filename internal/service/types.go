package service

// Identity is the verified (user_id, email) pair extracted from the caller's
// token. Services trust the pair but still re-validate resource ownership
// before acting on it.
type Identity struct {
	UserID string
	Email  string
}

// SweepResult summarizes one pass of the expiry sweeper.
type SweepResult struct {
	Checked      int      `json:"checked"`
	ExpiredCount int      `json:"expiredCount"`
	ExpiredIDs   []string `json:"expiredSurveys"`
	Backfilled   int      `json:"backfilled"`
}

// RestoreResult summarizes one restore-expired pass.
type RestoreResult struct {
	Restored    int      `json:"restored"`
	RestoredIDs []string `json:"restoredSurveys"`
}
