package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/domain"
	"github.com/communitykit/guild-agent/internal/events"
	"github.com/communitykit/guild-agent/internal/repository"
	"github.com/communitykit/guild-agent/pkg/util"
)

// EconomyService validates economic commands and delegates the atomic
// mutations to the account store.
type EconomyService struct {
	accounts   *repository.AccountRepository
	dispatcher events.Dispatcher
	cfg        config.EconomyConfig
	randIntn   func(n int) int
}

// EconomyDependencies bundles inputs for the economy service.
type EconomyDependencies struct {
	Accounts   *repository.AccountRepository
	Dispatcher events.Dispatcher
	Config     config.EconomyConfig
	// RandIntn draws the work job and payout; nil means math/rand.
	RandIntn func(n int) int
}

// NewEconomyService constructs the service.
func NewEconomyService(deps EconomyDependencies) *EconomyService {
	return &EconomyService{
		accounts:   deps.Accounts,
		dispatcher: deps.Dispatcher,
		cfg:        deps.Config,
		randIntn:   deps.RandIntn,
	}
}

// CurrencyName returns the configured currency label for rendering.
func (s *EconomyService) CurrencyName() string {
	return s.cfg.CurrencyName
}

// DailyAmount returns the configured daily reward for rendering.
func (s *EconomyService) DailyAmount() int64 {
	return s.cfg.DailyAmount
}

// Balance returns the account for a user, creating it when absent.
func (s *EconomyService) Balance(userID string) domain.Account {
	return s.accounts.GetOrCreate(userID)
}

// Daily attempts the cooldown-gated daily claim.
func (s *EconomyService) Daily(ctx context.Context, guildID, userID string) repository.ClaimResult {
	result := s.accounts.ClaimDaily(userID, s.cfg.DailyAmount, s.cfg.DailyCooldown)
	if result.Granted {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventDailyClaimed,
			GuildID: guildID,
			Payload: events.DailyClaimedPayload{
				UserID:     userID,
				Amount:     s.cfg.DailyAmount,
				NewBalance: result.NewBalance,
			},
		})
	}
	return result
}

// Work draws a random job and payout and credits the earnings.
func (s *EconomyService) Work(ctx context.Context, guildID, userID string) (job string, earnings int64) {
	job, earnings = drawJob(s.randIntn)
	s.accounts.Credit(userID, earnings)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventWorkCompleted,
		GuildID: guildID,
		Payload: events.WorkCompletedPayload{
			UserID:   userID,
			Job:      job,
			Earnings: earnings,
		},
	})
	return job, earnings
}

// Pay transfers amount between two users. Self-transfers and non-positive
// amounts fail with InvalidAmount; an uncovered debit fails with
// InsufficientFunds. A failed transfer mutates neither account.
func (s *EconomyService) Pay(ctx context.Context, guildID, fromUserID, toUserID string, amount int64) error {
	if fromUserID == toUserID {
		return util.NewInvalidAmount("you cannot transfer money to yourself")
	}
	if amount <= 0 {
		return util.NewInvalidAmount("the amount must be greater than 0")
	}
	if !s.accounts.Transfer(fromUserID, toUserID, amount) {
		return util.NewInsufficientFunds("you do not have enough " + s.cfg.CurrencyName)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTransferCompleted,
		GuildID: guildID,
		Payload: events.TransferCompletedPayload{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     amount,
		},
	})
	return nil
}

// Leaderboard returns the configured number of top accounts by total
// holdings.
func (s *EconomyService) Leaderboard() []repository.LeaderboardEntry {
	return s.accounts.Leaderboard(s.cfg.LeaderboardSize)
}

// WelcomeBonus credits the join bonus for a new member and returns the
// amount granted.
func (s *EconomyService) WelcomeBonus(ctx context.Context, guildID, userID string) int64 {
	if s.cfg.WelcomeBonus <= 0 {
		return 0
	}
	s.accounts.Credit(userID, s.cfg.WelcomeBonus)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventMemberWelcomed,
		GuildID: guildID,
		Payload: events.MemberWelcomedPayload{
			UserID: userID,
			Bonus:  s.cfg.WelcomeBonus,
		},
	})
	return s.cfg.WelcomeBonus
}

// AccountCount reports the number of known accounts for the stats surface.
func (s *EconomyService) AccountCount() int {
	return s.accounts.Count()
}

func (s *EconomyService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
