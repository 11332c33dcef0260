package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened      EventType = "ticket_opened"
	EventTicketClosed      EventType = "ticket_closed"
	EventMemberWelcomed    EventType = "member_welcomed"
	EventDailyClaimed      EventType = "daily_claimed"
	EventWorkCompleted     EventType = "work_completed"
	EventTransferCompleted EventType = "transfer_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload is the structured notification for a new ticket
// channel; rendering is the command layer's concern.
type TicketOpenedPayload struct {
	ChannelID    string    `json:"channel_id"`
	OwnerUserID  string    `json:"owner_user_id"`
	TicketNumber int       `json:"ticket_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ChannelID      string `json:"channel_id"`
	TicketNumber   int    `json:"ticket_number"`
	ClosedByUserID string `json:"closed_by_user_id"`
}

// MemberWelcomedPayload payload.
type MemberWelcomedPayload struct {
	UserID string `json:"user_id"`
	Bonus  int64  `json:"bonus"`
}

// DailyClaimedPayload payload.
type DailyClaimedPayload struct {
	UserID     string `json:"user_id"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"new_balance"`
}

// WorkCompletedPayload payload.
type WorkCompletedPayload struct {
	UserID   string `json:"user_id"`
	Job      string `json:"job"`
	Earnings int64  `json:"earnings"`
}

// TransferCompletedPayload payload.
type TransferCompletedPayload struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
}
