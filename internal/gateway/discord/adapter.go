// Package discord adapts the Discord gateway to the agent's core. It owns
// the session lifecycle and the translation between platform payloads and
// the gateway contracts; no domain logic lives here.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/bot"
	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/gateway"
)

// Adapter pumps gateway events into the dispatcher and implements the
// core's channel-management contracts on top of a discordgo session.
type Adapter struct {
	session    *discordgo.Session
	dispatcher *bot.Dispatcher
	logger     *zap.Logger
	guildID    string
}

// NewAdapter builds the session without opening it. The adapter is a
// valid ChannelManager and RoleLister immediately; event delivery starts
// once BindDispatcher and Open have run.
func NewAdapter(cfg config.DiscordConfig, logger *zap.Logger) (*Adapter, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	return &Adapter{
		session: session,
		logger:  logger,
		guildID: cfg.GuildID,
	}, nil
}

// BindDispatcher attaches the command layer and registers the gateway
// event handlers. Must be called before Open.
func (a *Adapter) BindDispatcher(dispatcher *bot.Dispatcher) {
	a.dispatcher = dispatcher
	a.session.AddHandler(a.onReady)
	a.session.AddHandler(a.onGuildMemberAdd)
	a.session.AddHandler(a.onInteractionCreate)
}

// Open connects to the gateway and registers the slash commands.
func (a *Adapter) Open() error {
	if a.dispatcher == nil {
		return fmt.Errorf("open: no dispatcher bound")
	}
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	if err := a.syncCommands(); err != nil {
		_ = a.session.Close()
		return err
	}
	return nil
}

// Close shuts the gateway connection down.
func (a *Adapter) Close() error {
	return a.session.Close()
}

func (a *Adapter) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	a.dispatcher.BindBotUser(s.State.User.ID)
	a.logger.Info("gateway connected",
		zap.String("bot_user_id", s.State.User.ID),
		zap.String("bot_username", s.State.User.Username))
}

func (a *Adapter) onGuildMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	a.dispatcher.HandleMemberJoined(context.Background(), gateway.MemberJoined{
		GuildID:     m.GuildID,
		UserID:      m.User.ID,
		DisplayName: displayName(m.Member),
	})
}

func (a *Adapter) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.User == nil {
		// Direct-message interactions carry no member; the agent only
		// operates inside guilds.
		return
	}
	responder := &interactionResponder{session: s, interaction: i.Interaction}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		a.dispatcher.HandleCommand(context.Background(), a.commandEvent(i), responder)
	case discordgo.InteractionMessageComponent:
		a.dispatcher.HandleButton(context.Background(), gateway.ButtonPressed{
			CustomID:         i.MessageComponentData().CustomID,
			GuildID:          i.GuildID,
			ChannelID:        i.ChannelID,
			ActorUserID:      i.Member.User.ID,
			ActorCanManage:   i.Member.Permissions&discordgo.PermissionManageChannels != 0,
			ActorDisplayName: displayName(i.Member),
		}, responder)
	}
}

func (a *Adapter) commandEvent(i *discordgo.InteractionCreate) gateway.CommandInvoked {
	data := i.ApplicationCommandData()
	ev := gateway.CommandInvoked{
		Name:             data.Name,
		GuildID:          i.GuildID,
		ChannelID:        i.ChannelID,
		ActorUserID:      i.Member.User.ID,
		ActorDisplayName: displayName(i.Member),
		ActorIsAdmin:     i.Member.Permissions&discordgo.PermissionAdministrator != 0,
	}
	for _, option := range data.Options {
		switch option.Type {
		case discordgo.ApplicationCommandOptionUser:
			if user := option.UserValue(nil); user != nil {
				ev.TargetUserID = user.ID
				ev.TargetUserName = user.Username
			}
		case discordgo.ApplicationCommandOptionChannel:
			if channel := option.ChannelValue(nil); channel != nil {
				ev.TargetChannelID = channel.ID
			}
		case discordgo.ApplicationCommandOptionInteger:
			ev.Amount = option.IntValue()
		}
	}
	return ev
}

// CreateChannel implements gateway.ChannelManager.
func (a *Adapter) CreateChannel(_ context.Context, guildID string, create gateway.ChannelCreate) (string, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(create.Overwrites))
	for _, ow := range create.Overwrites {
		overwrites = append(overwrites, permissionOverwrite(ow))
	}
	channel, err := a.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 create.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             create.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

// DeleteChannel implements gateway.ChannelManager.
func (a *Adapter) DeleteChannel(_ context.Context, channelID string) error {
	_, err := a.session.ChannelDelete(channelID)
	return err
}

// SendRender implements gateway.ChannelManager.
func (a *Adapter) SendRender(_ context.Context, channelID string, render gateway.Render) error {
	message := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embedFromRender(render)},
		Components: componentsFromRender(render),
	}
	_, err := a.session.ChannelMessageSendComplex(channelID, message)
	return err
}

// ListRoles implements gateway.RoleLister.
func (a *Adapter) ListRoles(_ context.Context, guildID string) ([]gateway.Role, error) {
	roles, err := a.session.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	out := make([]gateway.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, gateway.Role{ID: role.ID, Name: role.Name})
	}
	return out, nil
}

const ticketChannelPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory

func permissionOverwrite(ow gateway.PermissionOverwrite) *discordgo.PermissionOverwrite {
	target := discordgo.PermissionOverwriteTypeRole
	if ow.Target == gateway.OverwriteMember {
		target = discordgo.PermissionOverwriteTypeMember
	}
	overwrite := &discordgo.PermissionOverwrite{ID: ow.TargetID, Type: target}
	if ow.Allow {
		overwrite.Allow = ticketChannelPermissions
	} else {
		overwrite.Deny = discordgo.PermissionViewChannel
	}
	return overwrite
}

func displayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	return member.User.Username
}

// interactionResponder delivers one render back through the originating
// interaction.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Respond(_ context.Context, render gateway.Render) error {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embedFromRender(render)},
		Components: componentsFromRender(render),
	}
	if render.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func embedFromRender(render gateway.Render) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       render.Title,
		Description: render.Description,
		Color:       render.Color,
	}
	for _, field := range render.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	return embed
}

func componentsFromRender(render gateway.Render) []discordgo.MessageComponent {
	if len(render.Buttons) == 0 {
		return nil
	}
	buttons := make([]discordgo.MessageComponent, 0, len(render.Buttons))
	for _, button := range render.Buttons {
		style := discordgo.PrimaryButton
		if button.Danger {
			style = discordgo.DangerButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    button.Label,
			Style:    style,
			CustomID: button.CustomID,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}
