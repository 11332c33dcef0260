package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/events"
)

// NotificationService records domain events for operators. The agent's
// user-visible rendering happens in the command layer; this subscriber is
// the audit/log side of the same events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketOpened, n.handleEvent("TicketOpened"))
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleEvent("TicketClosed"))
	n.dispatcher.Subscribe(events.EventMemberWelcomed, n.handleEvent("MemberWelcomed"))
	n.dispatcher.Subscribe(events.EventDailyClaimed, n.handleEvent("DailyClaimed"))
	n.dispatcher.Subscribe(events.EventWorkCompleted, n.handleEvent("WorkCompleted"))
	n.dispatcher.Subscribe(events.EventTransferCompleted, n.handleEvent("TransferCompleted"))
}

func (n *NotificationService) handleEvent(label string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(label,
			zap.String("event_id", event.ID),
			zap.String("guild_id", event.GuildID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
