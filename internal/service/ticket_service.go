package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/domain"
	"github.com/communitykit/guild-agent/internal/events"
	"github.com/communitykit/guild-agent/internal/gateway"
	"github.com/communitykit/guild-agent/internal/repository"
	"github.com/communitykit/guild-agent/internal/schedule"
	"github.com/communitykit/guild-agent/pkg/util"
)

// TicketService coordinates the ticket workflow: channel provisioning with
// computed visibility overwrites on creation, and the permission-gated
// close with deferred channel teardown.
type TicketService struct {
	tickets    *repository.TicketRepository
	channels   gateway.ChannelManager
	roles      gateway.RoleLister
	dispatcher events.Dispatcher
	settings   *config.GuildSettings
	cfg        config.TicketConfig
	scheduler  schedule.Scheduler
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.RWMutex
	botUserID string
}

// TicketDependencies bundles inputs for the ticket service.
type TicketDependencies struct {
	Tickets    *repository.TicketRepository
	Channels   gateway.ChannelManager
	Roles      gateway.RoleLister
	Dispatcher events.Dispatcher
	Settings   *config.GuildSettings
	Config     config.TicketConfig
	Scheduler  schedule.Scheduler
	Logger     *zap.Logger
	// Now is injectable for close-stamp tests; nil means time.Now.
	Now func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.Tickets,
		channels:   deps.Channels,
		roles:      deps.Roles,
		dispatcher: deps.Dispatcher,
		settings:   deps.Settings,
		cfg:        deps.Config,
		scheduler:  deps.Scheduler,
		logger:     logger,
		now:        now,
	}
}

// BindBotUser records the agent's own user ID so ticket channels can grant
// it visibility. Called once the gateway session is ready.
func (s *TicketService) BindBotUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botUserID = userID
}

func (s *TicketService) botUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.botUserID
}

// CreateTicket provisions a dedicated channel for the requester and
// registers the ticket record. The requester's open-ticket slot is
// reserved before any side effect, so overlapping requests from the same
// user yield exactly one ticket. A failed channel creation releases the
// slot and leaves no record behind.
func (s *TicketService) CreateTicket(ctx context.Context, guildID, requesterUserID string) (domain.Ticket, error) {
	if err := s.tickets.ReserveOpenTicket(requesterUserID); err != nil {
		return domain.Ticket{}, err
	}

	number := s.tickets.NextTicketNumber()
	overwrites := s.computeOverwrites(ctx, guildID, requesterUserID)

	channelID, err := s.channels.CreateChannel(ctx, guildID, gateway.ChannelCreate{
		Name:       fmt.Sprintf("ticket-%d", number),
		CategoryID: s.settings.TicketCategory(),
		Overwrites: overwrites,
	})
	if err != nil {
		s.tickets.ReleaseReservation(requesterUserID)
		s.logger.Error("ticket channel creation failed",
			zap.String("guild_id", guildID),
			zap.String("requester_id", requesterUserID),
			zap.Error(err))
		return domain.Ticket{}, util.NewChannelCreationFailed(err)
	}

	ticket := domain.Ticket{
		ChannelID:    channelID,
		OwnerUserID:  requesterUserID,
		TicketNumber: number,
		Status:       domain.TicketStatusOpen,
		CreatedAt:    s.now(),
	}
	if err := s.tickets.Register(ticket); err != nil {
		s.tickets.ReleaseReservation(requesterUserID)
		return domain.Ticket{}, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketOpened,
		GuildID: guildID,
		Payload: events.TicketOpenedPayload{
			ChannelID:    ticket.ChannelID,
			OwnerUserID:  ticket.OwnerUserID,
			TicketNumber: ticket.TicketNumber,
			CreatedAt:    ticket.CreatedAt,
		},
	})
	return ticket, nil
}

// CloseTicket transitions the ticket for channelID to CLOSED and schedules
// the channel deletion after the grace period. Authorization is the
// platform's: the caller supplies the manage-channels flag, and the service
// never computes permissions itself.
func (s *TicketService) CloseTicket(ctx context.Context, guildID, channelID, actingUserID string, hasManagePermission bool) (domain.Ticket, error) {
	if !hasManagePermission {
		return domain.Ticket{}, util.NewPermissionDenied("you do not have permission to close tickets")
	}

	ticket, err := s.tickets.Close(channelID, actingUserID, s.now())
	if err != nil {
		return domain.Ticket{}, err
	}

	// The record is already CLOSED, so an abandoned timer (process
	// shutdown) cannot corrupt state.
	s.scheduler.After(s.cfg.DeleteGrace, func() {
		if err := s.channels.DeleteChannel(context.Background(), channelID); err != nil {
			s.logger.Warn("deferred channel deletion failed",
				zap.String("channel_id", channelID),
				zap.Error(err))
		}
	})

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketClosed,
		GuildID: guildID,
		Payload: events.TicketClosedPayload{
			ChannelID:      ticket.ChannelID,
			TicketNumber:   ticket.TicketNumber,
			ClosedByUserID: actingUserID,
		},
	})
	return ticket, nil
}

// Get returns the ticket record for a channel.
func (s *TicketService) Get(channelID string) (domain.Ticket, bool) {
	return s.tickets.Get(channelID)
}

// CountByStatus reports open and closed ticket counts for the stats
// surface.
func (s *TicketService) CountByStatus() (open, closed int) {
	return s.tickets.CountByStatus()
}

// computeOverwrites builds the channel visibility set: the default role is
// denied, the requester and the agent itself are allowed, and staff roles
// are allowed per the configured policy.
func (s *TicketService) computeOverwrites(ctx context.Context, guildID, requesterUserID string) []gateway.PermissionOverwrite {
	// The platform's default role shares the guild's ID.
	overwrites := []gateway.PermissionOverwrite{
		{TargetID: guildID, Target: gateway.OverwriteRole, Allow: false},
		{TargetID: requesterUserID, Target: gateway.OverwriteMember, Allow: true},
	}
	if botID := s.botUser(); botID != "" {
		overwrites = append(overwrites, gateway.PermissionOverwrite{
			TargetID: botID, Target: gateway.OverwriteMember, Allow: true,
		})
	}
	for _, roleID := range s.staffRoles(ctx, guildID) {
		overwrites = append(overwrites, gateway.PermissionOverwrite{
			TargetID: roleID, Target: gateway.OverwriteRole, Allow: true,
		})
	}
	return overwrites
}

// staffRoles resolves which roles get elevated ticket visibility. The
// configured allowlist wins; name-hint matching against the live role
// inventory is the fallback for unconfigured servers.
func (s *TicketService) staffRoles(ctx context.Context, guildID string) []string {
	if len(s.cfg.StaffRoleIDs) > 0 {
		return s.cfg.StaffRoleIDs
	}
	if s.roles == nil || len(s.cfg.StaffNameHints) == 0 {
		return nil
	}
	roles, err := s.roles.ListRoles(ctx, guildID)
	if err != nil {
		// A ticket without staff overwrites is still usable by the
		// requester, so creation proceeds.
		s.logger.Warn("role listing failed, skipping staff overwrites",
			zap.String("guild_id", guildID),
			zap.Error(err))
		return nil
	}
	var matched []string
	for _, role := range roles {
		name := strings.ToLower(role.Name)
		for _, hint := range s.cfg.StaffNameHints {
			if strings.Contains(name, strings.ToLower(hint)) {
				matched = append(matched, role.ID)
				break
			}
		}
	}
	return matched
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
