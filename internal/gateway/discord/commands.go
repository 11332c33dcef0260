package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/bot"
)

// applicationCommands defines the slash-command surface. Registration is
// idempotent: a bulk overwrite replaces whatever was registered before.
func applicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        bot.CommandBalance,
			Description: "Check an economy balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up (defaults to you)",
				},
			},
		},
		{
			Name:        bot.CommandDaily,
			Description: "Claim your daily reward",
		},
		{
			Name:        bot.CommandWork,
			Description: "Work to earn money",
		},
		{
			Name:        bot.CommandPay,
			Description: "Transfer money to another user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Recipient",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to transfer",
					Required:    true,
				},
			},
		},
		{
			Name:        bot.CommandLeaderboard,
			Description: "See the wealth leaderboard",
		},
		{
			Name:        bot.CommandSetupWelcome,
			Description: "Configure the welcome channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for welcome messages",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		{
			Name:        bot.CommandSetupTickets,
			Description: "Configure the ticket system",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "category",
					Description: "Category for new ticket channels",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildCategory,
					},
				},
			},
		},
		{
			Name:        bot.CommandInfo,
			Description: "Agent information",
		},
	}
}

func (a *Adapter) syncCommands() error {
	appID := a.session.State.User.ID
	commands, err := a.session.ApplicationCommandBulkOverwrite(appID, a.guildID, applicationCommands())
	if err != nil {
		return fmt.Errorf("sync commands: %w", err)
	}
	a.logger.Info("slash commands synced",
		zap.Int("count", len(commands)),
		zap.String("scope_guild_id", a.guildID))
	return nil
}
