package service

// The publish-credit ledger: 4 completed answers buy 1 publish credit, and
// every published survey spends one. Both functions are pure; the counters
// they derive from are only ever mutated through atomic storage increments.

// AvailableCredits returns floor(answered/4) - created, clamped to 0.
// Negative inputs also clamp to zero.
func AvailableCredits(answered, created int) int {
	if answered < 0 {
		answered = 0
	}
	if created < 0 {
		created = 0
	}
	credits := answered/4 - created
	if credits < 0 {
		return 0
	}
	return credits
}

// AnswersUntilNextCredit returns how many more answers are needed before the
// next credit is banked. Exactly on a multiple of 4 the answer is 4, not 0:
// the credit for the threshold just crossed is already banked, so the next
// one is a full cycle away.
func AnswersUntilNextCredit(answered int) int {
	if answered < 0 {
		answered = 0
	}
	return 4 - answered%4
}
