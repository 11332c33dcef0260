package repository

import (
	"sync"
	"time"

	"github.com/communitykit/guild-agent/internal/domain"
	"github.com/communitykit/guild-agent/pkg/util"
)

// TicketRepository owns the channel-keyed ticket records, the one-open-
// ticket-per-user invariant, and the process-wide ticket counter. Closed
// records are retained as an audit trail.
//
// Creation runs through a reservation: ReserveOpenTicket checks uniqueness
// and claims the requester's slot under one lock, so two overlapping
// creation requests cannot both observe "no open ticket" even though the
// channel-provisioning call happens outside the lock.
type TicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	order   []string
	pending map[string]struct{}
	counter int
}

// NewTicketRepository constructs an empty registry.
func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		tickets: make(map[string]*domain.Ticket),
		pending: make(map[string]struct{}),
	}
}

// HasOpenTicket reports whether the user owns a ticket with status OPEN.
func (r *TicketRepository) HasOpenTicket(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasOpenTicketLocked(userID)
}

func (r *TicketRepository) hasOpenTicketLocked(userID string) bool {
	for _, ticket := range r.tickets {
		if ticket.OwnerUserID == userID && ticket.Status == domain.TicketStatusOpen {
			return true
		}
	}
	return false
}

// ReserveOpenTicket claims the user's single open-ticket slot. It fails
// when the user already owns an open ticket or has a creation in flight.
// The reservation is consumed by Register or returned by
// ReleaseReservation.
func (r *TicketRepository) ReserveOpenTicket(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, inFlight := r.pending[userID]; inFlight {
		return util.NewAlreadyHasOpenTicket(userID)
	}
	if r.hasOpenTicketLocked(userID) {
		return util.NewAlreadyHasOpenTicket(userID)
	}
	r.pending[userID] = struct{}{}
	return nil
}

// ReleaseReservation frees a slot claimed by ReserveOpenTicket after a
// failed creation.
func (r *TicketRepository) ReleaseReservation(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, userID)
}

// Register inserts a new ticket record and consumes the owner's
// reservation. Duplicate channel IDs are rejected defensively; platform
// channel IDs are unique, so this signals a wiring bug.
func (r *TicketRepository) Register(ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ChannelID]; exists {
		return util.NewDuplicateTicket(ticket.ChannelID)
	}
	stored := ticket
	r.tickets[ticket.ChannelID] = &stored
	r.order = append(r.order, ticket.ChannelID)
	delete(r.pending, ticket.OwnerUserID)
	return nil
}

// Close transitions a ticket to CLOSED, stamping who closed it and when.
// Closing an absent record fails with TicketNotFound; closing twice fails
// with AlreadyClosed and leaves the original stamps intact.
func (r *TicketRepository) Close(channelID, closedByUserID string, now time.Time) (domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[channelID]
	if !ok {
		return domain.Ticket{}, util.NewTicketNotFound(channelID)
	}
	if ticket.Status == domain.TicketStatusClosed {
		return domain.Ticket{}, util.NewAlreadyClosed(channelID)
	}
	ticket.Status = domain.TicketStatusClosed
	closedAt := now
	closedBy := closedByUserID
	ticket.ClosedAt = &closedAt
	ticket.ClosedByUserID = &closedBy
	return *ticket, nil
}

// Get returns a copy of the record for a channel.
func (r *TicketRepository) Get(channelID string) (domain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[channelID]
	if !ok {
		return domain.Ticket{}, false
	}
	return *ticket, true
}

// NextTicketNumber atomically increments and returns the shared counter.
func (r *TicketRepository) NextTicketNumber() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter
}

// CountByStatus reports how many tickets are open and closed.
func (r *TicketRepository) CountByStatus() (open, closed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.Status == domain.TicketStatusOpen {
			open++
		} else {
			closed++
		}
	}
	return open, closed
}
