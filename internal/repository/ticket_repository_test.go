package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/communitykit/guild-agent/internal/domain"
	"github.com/communitykit/guild-agent/pkg/util"
)

func openTicket(number int, ownerUserID string) domain.Ticket {
	return domain.Ticket{
		ChannelID:    fmt.Sprintf("chan-%d", number),
		OwnerUserID:  ownerUserID,
		TicketNumber: number,
		Status:       domain.TicketStatusOpen,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestReserveEnforcesSingleOpenTicket(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	if err := registry.ReserveOpenTicket("u"); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if err := registry.ReserveOpenTicket("u"); util.KindOf(err) != util.KindAlreadyHasOpenTicket {
		t.Fatalf("expected AlreadyHasOpenTicket while reservation pending, got %v", err)
	}

	if err := registry.Register(openTicket(1, "u")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := registry.ReserveOpenTicket("u"); util.KindOf(err) != util.KindAlreadyHasOpenTicket {
		t.Fatalf("expected AlreadyHasOpenTicket with open ticket, got %v", err)
	}
	if !registry.HasOpenTicket("u") {
		t.Fatal("expected HasOpenTicket to report the open ticket")
	}

	if _, err := registry.Close("chan-1", "staff", time.Now()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := registry.ReserveOpenTicket("u"); err != nil {
		t.Fatalf("expected reservation to succeed after close, got %v", err)
	}
}

func TestReleaseReservationFreesSlot(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	if err := registry.ReserveOpenTicket("u"); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	registry.ReleaseReservation("u")
	if err := registry.ReserveOpenTicket("u"); err != nil {
		t.Fatalf("expected reservation to succeed after release, got %v", err)
	}
}

func TestReserveDoesNotBlockOtherUsers(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	if err := registry.ReserveOpenTicket("u"); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	if err := registry.ReserveOpenTicket("v"); err != nil {
		t.Fatalf("second user must not be blocked, got %v", err)
	}
}

func TestRegisterRejectsDuplicateChannel(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	if err := registry.Register(openTicket(1, "u")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	err := registry.Register(openTicket(1, "v"))
	if util.KindOf(err) != util.KindDuplicateTicket {
		t.Fatalf("expected DuplicateTicket, got %v", err)
	}
}

func TestCloseStampsActorAndTime(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()
	closedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	if err := registry.Register(openTicket(1, "u")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	ticket, err := registry.Close("chan-1", "staff", closedAt)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusClosed {
		t.Fatalf("expected CLOSED status, got %s", ticket.Status)
	}
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(closedAt) {
		t.Fatalf("unexpected ClosedAt: %v", ticket.ClosedAt)
	}
	if ticket.ClosedByUserID == nil || *ticket.ClosedByUserID != "staff" {
		t.Fatalf("unexpected ClosedByUserID: %v", ticket.ClosedByUserID)
	}
}

func TestCloseTwicePreservesOriginalStamps(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()
	firstClose := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	if err := registry.Register(openTicket(1, "u")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := registry.Close("chan-1", "staff", firstClose); err != nil {
		t.Fatalf("first close failed: %v", err)
	}

	_, err := registry.Close("chan-1", "other", firstClose.Add(time.Hour))
	if util.KindOf(err) != util.KindAlreadyClosed {
		t.Fatalf("expected AlreadyClosed, got %v", err)
	}

	ticket, ok := registry.Get("chan-1")
	if !ok {
		t.Fatal("expected closed ticket to remain in registry")
	}
	if !ticket.ClosedAt.Equal(firstClose) || *ticket.ClosedByUserID != "staff" {
		t.Fatalf("second close mutated stamps: %+v", ticket)
	}
}

func TestCloseUnknownChannelFails(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	_, err := registry.Close("missing", "staff", time.Now())
	if util.KindOf(err) != util.KindTicketNotFound {
		t.Fatalf("expected TicketNotFound, got %v", err)
	}
}

func TestNextTicketNumberIsUniqueUnderConcurrency(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	const workers = 40
	var wg sync.WaitGroup
	numbers := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			numbers <- registry.NextTicketNumber()
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool, workers)
	for n := range numbers {
		if seen[n] {
			t.Fatalf("duplicate ticket number %d", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d distinct numbers, got %d", workers, len(seen))
	}
}

func TestConcurrentReservationsSingleWinner(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- registry.ReserveOpenTicket("u")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if util.KindOf(err) != util.KindAlreadyHasOpenTicket {
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful reservation, got %d", wins)
	}
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()
	registry := NewTicketRepository()

	for i := 1; i <= 3; i++ {
		if err := registry.Register(openTicket(i, fmt.Sprintf("user-%d", i))); err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
	}
	if _, err := registry.Close("chan-2", "staff", time.Now()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	open, closed := registry.CountByStatus()
	if open != 2 || closed != 1 {
		t.Fatalf("expected open=2 closed=1, got open=%d closed=%d", open, closed)
	}
}
