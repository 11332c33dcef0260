package domain

import "time"

// Account is the per-user economic record. Accounts are created lazily on
// first reference with zero values and live for the process lifetime.
type Account struct {
	UserID         string
	Balance        int64
	Bank           int64
	LastDailyClaim *time.Time
	TotalEarned    int64
}

// Total returns spendable plus banked holdings, the quantity the
// leaderboard ranks by.
func (a Account) Total() int64 {
	return a.Balance + a.Bank
}
