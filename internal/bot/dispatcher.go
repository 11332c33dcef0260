package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/gateway"
	"github.com/communitykit/guild-agent/internal/observability"
	"github.com/communitykit/guild-agent/internal/service"
	"github.com/communitykit/guild-agent/pkg/util"
)

// Command names as registered with the platform.
const (
	CommandBalance      = "balance"
	CommandDaily        = "daily"
	CommandWork         = "work"
	CommandPay          = "pay"
	CommandLeaderboard  = "leaderboard"
	CommandSetupWelcome = "setup_welcome"
	CommandSetupTickets = "setup_tickets"
	CommandInfo         = "info"
)

// Dispatcher is the command layer: it maps gateway events to ledger and
// ticket operations and renders every outcome. It is the only place
// failure kinds become user-facing messages.
type Dispatcher struct {
	economy  *service.EconomyService
	tickets  *service.TicketService
	settings *config.GuildSettings
	channels gateway.ChannelManager
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// DispatcherDependencies bundles inputs for the dispatcher.
type DispatcherDependencies struct {
	Economy  *service.EconomyService
	Tickets  *service.TicketService
	Settings *config.GuildSettings
	Channels gateway.ChannelManager
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(deps DispatcherDependencies) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		economy:  deps.Economy,
		tickets:  deps.Tickets,
		settings: deps.Settings,
		channels: deps.Channels,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// BindBotUser forwards the agent's own user ID to the ticket workflow.
func (d *Dispatcher) BindBotUser(userID string) {
	d.tickets.BindBotUser(userID)
}

// HandleMemberJoined credits the welcome bonus and posts the welcome
// render. Both are skipped while no welcome channel is configured.
func (d *Dispatcher) HandleMemberJoined(ctx context.Context, ev gateway.MemberJoined) {
	welcomeChannel := d.settings.WelcomeChannel()
	if welcomeChannel == "" {
		return
	}
	bonus := d.economy.WelcomeBonus(ctx, ev.GuildID, ev.UserID)
	render := gateway.Render{
		Title:       "🎉 Welcome to the server!",
		Description: fmt.Sprintf("Hey %s, glad to have you here!", mention(ev.UserID)),
		Color:       colorGreen,
		Fields: []gateway.RenderField{
			{Name: "First steps", Value: "• Read the server rules\n• Introduce yourself\n• Have fun!"},
		},
	}
	if bonus > 0 {
		render.Fields = append(render.Fields, gateway.RenderField{
			Name:   "Welcome gift",
			Value:  fmt.Sprintf("%d %s", bonus, d.economy.CurrencyName()),
			Inline: true,
		})
	}
	if err := d.channels.SendRender(ctx, welcomeChannel, render); err != nil {
		d.logger.Warn("welcome message failed",
			zap.String("channel_id", welcomeChannel),
			zap.Error(err))
	}
}

// HandleCommand routes a slash command.
func (d *Dispatcher) HandleCommand(ctx context.Context, ev gateway.CommandInvoked, respond gateway.Responder) {
	d.metrics.RecordCommand(ev.Name)

	var render gateway.Render
	switch ev.Name {
	case CommandBalance:
		render = d.balance(ev)
	case CommandDaily:
		render = d.daily(ctx, ev)
	case CommandWork:
		render = d.work(ctx, ev)
	case CommandPay:
		render = d.pay(ctx, ev)
	case CommandLeaderboard:
		render = d.leaderboard()
	case CommandSetupWelcome:
		render = d.setupWelcome(ev)
	case CommandSetupTickets:
		render = d.setupTickets(ev)
	case CommandInfo:
		render = d.info()
	default:
		d.logger.Warn("unknown command", zap.String("name", ev.Name))
		render = failureRender(util.NewInternalError(fmt.Errorf("unknown command %q", ev.Name)))
	}

	d.deliver(ctx, ev.Name, render, respond)
}

// HandleButton routes an interactive component activation.
func (d *Dispatcher) HandleButton(ctx context.Context, ev gateway.ButtonPressed, respond gateway.Responder) {
	d.metrics.RecordCommand("button:" + ev.CustomID)

	var render gateway.Render
	switch ev.CustomID {
	case ButtonCreateTicket:
		render = d.createTicket(ctx, ev)
	case ButtonCloseTicket:
		render = d.closeTicket(ctx, ev)
	default:
		d.logger.Warn("unknown component", zap.String("custom_id", ev.CustomID))
		render = failureRender(util.NewInternalError(fmt.Errorf("unknown component %q", ev.CustomID)))
	}

	d.deliver(ctx, "button:"+ev.CustomID, render, respond)
}

func (d *Dispatcher) balance(ev gateway.CommandInvoked) gateway.Render {
	targetID := ev.TargetUserID
	targetName := ev.TargetUserName
	if targetID == "" {
		targetID = ev.ActorUserID
		targetName = ev.ActorDisplayName
	}
	account := d.economy.Balance(targetID)
	currency := d.economy.CurrencyName()
	return gateway.Render{
		Title: fmt.Sprintf("💰 Balance of %s", targetName),
		Color: colorGold,
		Fields: []gateway.RenderField{
			{Name: "💵 On hand", Value: fmt.Sprintf("%d %s", account.Balance, currency), Inline: true},
			{Name: "🏦 In bank", Value: fmt.Sprintf("%d %s", account.Bank, currency), Inline: true},
			{Name: "📈 Total earned", Value: fmt.Sprintf("%d %s", account.TotalEarned, currency), Inline: true},
		},
	}
}

func (d *Dispatcher) daily(ctx context.Context, ev gateway.CommandInvoked) gateway.Render {
	result := d.economy.Daily(ctx, ev.GuildID, ev.ActorUserID)
	if !result.Granted {
		d.metrics.RecordFailure(CommandDaily, string(util.KindOnCooldown))
		return gateway.Render{
			Title:       "⏰ You already claimed your daily reward",
			Description: fmt.Sprintf("You can claim again in %s", formatCooldown(result.Remaining)),
			Color:       colorRed,
			Ephemeral:   true,
		}
	}
	currency := d.economy.CurrencyName()
	return gateway.Render{
		Title:       "🎁 Daily reward claimed!",
		Description: fmt.Sprintf("You received **%d %s**", d.economy.DailyAmount(), currency),
		Color:       colorGreen,
		Fields: []gateway.RenderField{
			{Name: "💰 New balance", Value: fmt.Sprintf("%d %s", result.NewBalance, currency)},
		},
	}
}

func (d *Dispatcher) work(ctx context.Context, ev gateway.CommandInvoked) gateway.Render {
	job, earnings := d.economy.Work(ctx, ev.GuildID, ev.ActorUserID)
	return gateway.Render{
		Title:       "💼 Work complete!",
		Description: fmt.Sprintf("You worked as a **%s** and earned **%d %s**", job, earnings, d.economy.CurrencyName()),
		Color:       colorBlue,
	}
}

func (d *Dispatcher) pay(ctx context.Context, ev gateway.CommandInvoked) gateway.Render {
	if err := d.economy.Pay(ctx, ev.GuildID, ev.ActorUserID, ev.TargetUserID, ev.Amount); err != nil {
		d.metrics.RecordFailure(CommandPay, string(util.KindOf(err)))
		return failureRender(err)
	}
	return gateway.Render{
		Title: "💸 Transfer complete",
		Description: fmt.Sprintf("%s transferred **%d %s** to %s",
			mention(ev.ActorUserID), ev.Amount, d.economy.CurrencyName(), mention(ev.TargetUserID)),
		Color: colorGreen,
	}
}

func (d *Dispatcher) leaderboard() gateway.Render {
	entries := d.economy.Leaderboard()
	if len(entries) == 0 {
		return gateway.Render{
			Title:       "🏆 Wealth leaderboard",
			Description: "No data yet.",
			Color:       colorGold,
		}
	}
	currency := d.economy.CurrencyName()
	var b strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&b, "%s %s — %d %s\n", medal(i+1), mention(entry.UserID), entry.Total, currency)
	}
	return gateway.Render{
		Title:       "🏆 Wealth leaderboard",
		Description: b.String(),
		Color:       colorGold,
	}
}

func (d *Dispatcher) setupWelcome(ev gateway.CommandInvoked) gateway.Render {
	if !ev.ActorIsAdmin {
		d.metrics.RecordFailure(CommandSetupWelcome, string(util.KindPermissionDenied))
		return failureRender(util.NewPermissionDenied("you need administrator permissions"))
	}
	d.settings.SetWelcomeChannel(ev.TargetChannelID)
	return gateway.Render{
		Title:       "✅ Welcome channel configured",
		Description: fmt.Sprintf("Welcome messages will be sent in %s", channelMention(ev.TargetChannelID)),
		Color:       colorGreen,
	}
}

func (d *Dispatcher) setupTickets(ev gateway.CommandInvoked) gateway.Render {
	if !ev.ActorIsAdmin {
		d.metrics.RecordFailure(CommandSetupTickets, string(util.KindPermissionDenied))
		return failureRender(util.NewPermissionDenied("you need administrator permissions"))
	}
	d.settings.SetTicketCategory(ev.TargetChannelID)
	return gateway.Render{
		Title:       "🎫 Support tickets",
		Description: "Click the button below to open a support ticket.",
		Color:       colorBlue,
		Fields: []gateway.RenderField{
			{Name: "ℹ️ How it works", Value: "• You can only have one open ticket at a time\n• Describe your problem in detail\n• A staff member will be with you shortly"},
		},
		Buttons: []gateway.Button{
			{CustomID: ButtonCreateTicket, Label: "🎫 Open Ticket"},
		},
	}
}

func (d *Dispatcher) info() gateway.Render {
	open, closed := d.tickets.CountByStatus()
	snap := d.metrics.Snapshot()
	return gateway.Render{
		Title:       "🤖 Agent info",
		Description: "Community agent with economy, support tickets and welcomes",
		Color:       colorBlue,
		Fields: []gateway.RenderField{
			{Name: "Accounts", Value: fmt.Sprintf("%d", d.economy.AccountCount()), Inline: true},
			{Name: "Tickets", Value: fmt.Sprintf("%d open / %d closed", open, closed), Inline: true},
			{Name: "Uptime", Value: fmt.Sprintf("%ds", snap.UptimeSeconds), Inline: true},
		},
	}
}

func (d *Dispatcher) createTicket(ctx context.Context, ev gateway.ButtonPressed) gateway.Render {
	ticket, err := d.tickets.CreateTicket(ctx, ev.GuildID, ev.ActorUserID)
	if err != nil {
		d.metrics.RecordFailure("button:"+ButtonCreateTicket, string(util.KindOf(err)))
		return failureRender(err)
	}

	greeting := gateway.Render{
		Title: fmt.Sprintf("🎫 Ticket #%d", ticket.TicketNumber),
		Description: fmt.Sprintf(
			"Hey %s!\n\nThanks for opening a ticket. A staff member will be with you shortly.\n\n**Please describe your problem in as much detail as possible.**",
			mention(ticket.OwnerUserID)),
		Color: colorBlue,
		Fields: []gateway.RenderField{
			{Name: "User", Value: mention(ticket.OwnerUserID), Inline: true},
			{Name: "ID", Value: ticket.OwnerUserID, Inline: true},
		},
		Buttons: []gateway.Button{
			{CustomID: ButtonCloseTicket, Label: "🔒 Close Ticket", Danger: true},
		},
	}
	if err := d.channels.SendRender(ctx, ticket.ChannelID, greeting); err != nil {
		d.logger.Warn("ticket greeting failed",
			zap.String("channel_id", ticket.ChannelID),
			zap.Error(err))
	}

	return gateway.Render{
		Description: fmt.Sprintf("✅ Ticket created: %s", channelMention(ticket.ChannelID)),
		Color:       colorGreen,
		Ephemeral:   true,
	}
}

func (d *Dispatcher) closeTicket(ctx context.Context, ev gateway.ButtonPressed) gateway.Render {
	ticket, err := d.tickets.CloseTicket(ctx, ev.GuildID, ev.ChannelID, ev.ActorUserID, ev.ActorCanManage)
	if err != nil {
		d.metrics.RecordFailure("button:"+ButtonCloseTicket, string(util.KindOf(err)))
		return failureRender(err)
	}
	return gateway.Render{
		Title: "🔒 Ticket closed",
		Description: fmt.Sprintf("Ticket #%d was closed by %s.\nThis channel will be deleted shortly.",
			ticket.TicketNumber, mention(ev.ActorUserID)),
		Color: colorRed,
	}
}

func (d *Dispatcher) deliver(ctx context.Context, operation string, render gateway.Render, respond gateway.Responder) {
	if err := respond.Respond(ctx, render); err != nil {
		d.logger.Error("response delivery failed",
			zap.String("operation", operation),
			zap.Error(err))
	}
}
