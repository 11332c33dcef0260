package bot

import (
	"fmt"
	"time"

	"github.com/communitykit/guild-agent/internal/gateway"
	"github.com/communitykit/guild-agent/pkg/util"
)

// Embed accent colors, matching the platform's conventional palette.
const (
	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
	colorGold  = 0xf1c40f
)

// Stable component identifiers. These are plain strings so handlers
// re-registered after a restart resolve to the same operations.
const (
	ButtonCreateTicket = "create_ticket"
	ButtonCloseTicket  = "close_ticket"
)

// kindMessages maps every failure kind to its user-facing fallback message.
// A DomainError with its own message wins; this table guarantees no kind
// ever renders blank. TestFailureMessagesCoverAllKinds keeps it exhaustive.
var kindMessages = map[util.Kind]string{
	util.KindInsufficientFunds:     "You do not have enough money.",
	util.KindInvalidAmount:         "The amount is not valid.",
	util.KindOnCooldown:            "You already claimed your daily reward.",
	util.KindAlreadyHasOpenTicket:  "You already have an open ticket!",
	util.KindDuplicateTicket:       "A ticket already exists for this channel.",
	util.KindTicketNotFound:        "This channel is not a ticket.",
	util.KindAlreadyClosed:         "This ticket is already closed.",
	util.KindPermissionDenied:      "You do not have permission to do that.",
	util.KindChannelCreationFailed: "The ticket channel could not be created. Please try again later.",
	util.KindInternal:              "Something went wrong. Please try again later.",
}

// failureRender turns a core failure into an ephemeral response.
func failureRender(err error) gateway.Render {
	domainErr := util.ToDomainError(err)
	message, ok := kindMessages[domainErr.Kind]
	if !ok {
		message = kindMessages[util.KindInternal]
	}
	if domainErr.Kind != util.KindInternal && domainErr.Message != "" {
		message = domainErr.Message
	}
	return gateway.Render{
		Description: "❌ " + message,
		Color:       colorRed,
		Ephemeral:   true,
	}
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func channelMention(channelID string) string {
	return "<#" + channelID + ">"
}

// formatCooldown renders a remaining wait as whole hours and minutes, the
// way the daily command reports it.
func formatCooldown(remaining time.Duration) string {
	totalSeconds := int64(remaining.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}
