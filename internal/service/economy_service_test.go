package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/events"
	"github.com/communitykit/guild-agent/internal/repository"
	"github.com/communitykit/guild-agent/pkg/util"
)

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) eventsOfType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func testEconomyConfig() config.EconomyConfig {
	return config.EconomyConfig{
		CurrencyName:    "coins",
		DailyAmount:     100,
		DailyCooldown:   24 * time.Hour,
		WelcomeBonus:    50,
		LeaderboardSize: 10,
	}
}

func newEconomyFixture(cfg config.EconomyConfig, randIntn func(int) int) (*EconomyService, *repository.AccountRepository, *recordingDispatcher) {
	accounts := repository.NewAccountRepository(nil)
	dispatcher := &recordingDispatcher{}
	service := NewEconomyService(EconomyDependencies{
		Accounts:   accounts,
		Dispatcher: dispatcher,
		Config:     cfg,
		RandIntn:   randIntn,
	})
	return service, accounts, dispatcher
}

func TestPayRejectsSelfTransfer(t *testing.T) {
	t.Parallel()
	service, accounts, _ := newEconomyFixture(testEconomyConfig(), nil)
	accounts.Credit("u", 100)

	err := service.Pay(context.Background(), "guild-1", "u", "u", 50)
	if util.KindOf(err) != util.KindInvalidAmount {
		t.Fatalf("expected InvalidAmount, got %v", err)
	}
	if got := accounts.GetOrCreate("u").Balance; got != 100 {
		t.Fatalf("rejected pay must not mutate balance, got %d", got)
	}
}

func TestPayRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()
	service, accounts, _ := newEconomyFixture(testEconomyConfig(), nil)
	accounts.Credit("u", 100)

	for _, amount := range []int64{0, -5} {
		err := service.Pay(context.Background(), "guild-1", "u", "v", amount)
		if util.KindOf(err) != util.KindInvalidAmount {
			t.Fatalf("amount %d: expected InvalidAmount, got %v", amount, err)
		}
	}
}

func TestPayRejectsUncoveredDebit(t *testing.T) {
	t.Parallel()
	service, accounts, dispatcher := newEconomyFixture(testEconomyConfig(), nil)
	accounts.Credit("u", 30)

	err := service.Pay(context.Background(), "guild-1", "u", "v", 80)
	if util.KindOf(err) != util.KindInsufficientFunds {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
	if got := accounts.GetOrCreate("v").Balance; got != 0 {
		t.Fatalf("failed pay must not credit the recipient, got %d", got)
	}
	if published := dispatcher.eventsOfType(events.EventTransferCompleted); len(published) != 0 {
		t.Fatalf("failed pay must not publish an event, got %d", len(published))
	}
}

func TestPayMovesFundsAndPublishes(t *testing.T) {
	t.Parallel()
	service, accounts, dispatcher := newEconomyFixture(testEconomyConfig(), nil)
	accounts.Credit("u", 100)

	if err := service.Pay(context.Background(), "guild-1", "u", "v", 60); err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if got := accounts.GetOrCreate("u").Balance; got != 40 {
		t.Fatalf("expected sender balance 40, got %d", got)
	}
	if got := accounts.GetOrCreate("v").Balance; got != 60 {
		t.Fatalf("expected recipient balance 60, got %d", got)
	}

	published := dispatcher.eventsOfType(events.EventTransferCompleted)
	if len(published) != 1 {
		t.Fatalf("expected one transfer event, got %d", len(published))
	}
	payload, ok := published[0].Payload.(events.TransferCompletedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Payload)
	}
	if payload.FromUserID != "u" || payload.ToUserID != "v" || payload.Amount != 60 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDailyPublishesOnlyWhenGranted(t *testing.T) {
	t.Parallel()
	service, _, dispatcher := newEconomyFixture(testEconomyConfig(), nil)

	first := service.Daily(context.Background(), "guild-1", "u")
	if !first.Granted || first.NewBalance != 100 {
		t.Fatalf("expected first claim granted at 100, got %+v", first)
	}
	second := service.Daily(context.Background(), "guild-1", "u")
	if second.Granted {
		t.Fatal("expected second claim within cooldown to be rejected")
	}

	if published := dispatcher.eventsOfType(events.EventDailyClaimed); len(published) != 1 {
		t.Fatalf("expected one daily event, got %d", len(published))
	}
}

func TestWorkCreditsDrawnEarnings(t *testing.T) {
	t.Parallel()
	draws := []int{0, 25}
	service, accounts, dispatcher := newEconomyFixture(testEconomyConfig(), func(int) int {
		draw := draws[0]
		draws = draws[1:]
		return draw
	})

	job, earnings := service.Work(context.Background(), "guild-1", "u")
	if job != "developer" {
		t.Fatalf("expected developer job for draw 0, got %s", job)
	}
	if earnings != 75 {
		t.Fatalf("expected earnings 75, got %d", earnings)
	}
	if got := accounts.GetOrCreate("u").Balance; got != 75 {
		t.Fatalf("expected credited balance 75, got %d", got)
	}
	if published := dispatcher.eventsOfType(events.EventWorkCompleted); len(published) != 1 {
		t.Fatalf("expected one work event, got %d", len(published))
	}
}

func TestDrawJobRespectsPayoutBounds(t *testing.T) {
	t.Parallel()
	for index, job := range workJobs {
		for _, offset := range []int{0, int(job.maxPay - job.minPay)} {
			draws := []int{index, offset}
			name, earnings := drawJob(func(int) int {
				draw := draws[0]
				draws = draws[1:]
				return draw
			})
			if name != job.name {
				t.Fatalf("expected job %s, got %s", job.name, name)
			}
			if earnings < job.minPay || earnings > job.maxPay {
				t.Fatalf("%s earnings %d outside [%d, %d]", name, earnings, job.minPay, job.maxPay)
			}
		}
	}
}

func TestWelcomeBonusCreditsConfiguredAmount(t *testing.T) {
	t.Parallel()
	service, accounts, dispatcher := newEconomyFixture(testEconomyConfig(), nil)

	granted := service.WelcomeBonus(context.Background(), "guild-1", "new-member")
	if granted != 50 {
		t.Fatalf("expected bonus 50, got %d", granted)
	}
	if got := accounts.GetOrCreate("new-member").Balance; got != 50 {
		t.Fatalf("expected balance 50, got %d", got)
	}
	if published := dispatcher.eventsOfType(events.EventMemberWelcomed); len(published) != 1 {
		t.Fatalf("expected one welcome event, got %d", len(published))
	}
}

func TestWelcomeBonusDisabledGrantsNothing(t *testing.T) {
	t.Parallel()
	cfg := testEconomyConfig()
	cfg.WelcomeBonus = 0
	service, accounts, dispatcher := newEconomyFixture(cfg, nil)

	if granted := service.WelcomeBonus(context.Background(), "guild-1", "new-member"); granted != 0 {
		t.Fatalf("expected no bonus, got %d", granted)
	}
	if got := accounts.GetOrCreate("new-member").Balance; got != 0 {
		t.Fatalf("expected balance 0, got %d", got)
	}
	if len(dispatcher.eventsOfType(events.EventMemberWelcomed)) != 0 {
		t.Fatal("disabled bonus must not publish an event")
	}
}

func TestLeaderboardUsesConfiguredSize(t *testing.T) {
	t.Parallel()
	cfg := testEconomyConfig()
	cfg.LeaderboardSize = 2
	service, accounts, _ := newEconomyFixture(cfg, nil)
	accounts.Credit("a", 10)
	accounts.Credit("b", 30)
	accounts.Credit("c", 20)

	entries := service.Leaderboard()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "b" || entries[1].UserID != "c" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
