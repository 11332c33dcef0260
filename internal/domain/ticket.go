package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// Ticket is a tracked support request bound 1:1 to a dedicated channel.
// Records are retained after closure as an audit trail; only the status
// and the underlying channel's existence change.
type Ticket struct {
	ChannelID      string
	OwnerUserID    string
	TicketNumber   int
	Status         TicketStatus
	CreatedAt      time.Time
	ClosedAt       *time.Time
	ClosedByUserID *string
}
