package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/communitykit/guild-agent/internal/domain"
)

// ClaimResult reports the outcome of a daily claim attempt. Exactly one of
// the two branches applies: Granted carries the balance after crediting,
// otherwise Remaining carries the time left on the cooldown.
type ClaimResult struct {
	Granted    bool
	NewBalance int64
	Remaining  time.Duration
}

// LeaderboardEntry is one ranked row of total holdings.
type LeaderboardEntry struct {
	UserID string
	Total  int64
}

// AccountRepository owns all per-user economic state. Every operation runs
// under a single store mutex so overlapping command handlers cannot
// interleave a read-modify-write sequence: a debit is a compare-and-mutate,
// and a daily claim checks and stamps the cooldown in one step.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	order    []string
	now      func() time.Time
}

// NewAccountRepository constructs an empty store. The clock is injectable
// for cooldown tests; nil means time.Now.
func NewAccountRepository(now func() time.Time) *AccountRepository {
	if now == nil {
		now = time.Now
	}
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
		now:      now,
	}
}

// getOrCreateLocked must be called with the store mutex held.
func (r *AccountRepository) getOrCreateLocked(userID string) *domain.Account {
	account, ok := r.accounts[userID]
	if !ok {
		account = &domain.Account{UserID: userID}
		r.accounts[userID] = account
		r.order = append(r.order, userID)
	}
	return account
}

// GetOrCreate returns a copy of the account, initializing it when absent.
func (r *AccountRepository) GetOrCreate(userID string) domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.getOrCreateLocked(userID)
}

// Credit increases balance and the total-earned audit counter. The amount
// must be positive; callers validate before reaching the store. Returns the
// new balance.
func (r *AccountRepository) Credit(userID string, amount int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creditLocked(userID, amount)
}

func (r *AccountRepository) creditLocked(userID string, amount int64) int64 {
	account := r.getOrCreateLocked(userID)
	account.Balance += amount
	account.TotalEarned += amount
	return account.Balance
}

// Debit reduces the balance by amount when sufficient funds exist. The
// check and the mutation happen under one lock; a failed debit leaves the
// account untouched.
func (r *AccountRepository) Debit(userID string, amount int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.getOrCreateLocked(userID)
	if account.Balance < amount {
		return false
	}
	account.Balance -= amount
	return true
}

// Transfer moves amount from one account to another. A failed debit means
// zero side effects on either account; the sum of balances is conserved on
// success.
func (r *AccountRepository) Transfer(fromUserID, toUserID string, amount int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := r.getOrCreateLocked(fromUserID)
	if from.Balance < amount {
		return false
	}
	from.Balance -= amount
	r.creditLocked(toUserID, amount)
	return true
}

// ClaimDaily credits amount and stamps the claim time when the cooldown has
// elapsed (or no prior claim exists); otherwise it reports the remaining
// wait without mutation.
func (r *AccountRepository) ClaimDaily(userID string, amount int64, cooldown time.Duration) ClaimResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.getOrCreateLocked(userID)
	now := r.now()
	if account.LastDailyClaim != nil {
		elapsed := now.Sub(*account.LastDailyClaim)
		if elapsed < cooldown {
			return ClaimResult{Remaining: cooldown - elapsed}
		}
	}
	account.Balance += amount
	account.TotalEarned += amount
	stamp := now
	account.LastDailyClaim = &stamp
	return ClaimResult{Granted: true, NewBalance: account.Balance}
}

// Leaderboard returns up to limit accounts ordered by total holdings
// descending. The sort is stable over insertion order so ties render
// deterministically.
func (r *AccountRepository) Leaderboard(limit int) []LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]LeaderboardEntry, 0, len(r.order))
	for _, userID := range r.order {
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			Total:  r.accounts[userID].Total(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Count reports how many accounts exist.
func (r *AccountRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}
