package config

import "sync"

// GuildSettings holds the channel wiring that admins adjust at runtime via
// setup commands. The values are process-local and volatile, matching the
// rest of the agent's state.
type GuildSettings struct {
	mu               sync.RWMutex
	welcomeChannelID string
	ticketCategoryID string
}

// NewGuildSettings returns empty settings; welcome messages and ticket
// category placement stay disabled until configured.
func NewGuildSettings() *GuildSettings {
	return &GuildSettings{}
}

// WelcomeChannel returns the configured welcome channel ID, or empty when
// welcomes are disabled.
func (s *GuildSettings) WelcomeChannel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.welcomeChannelID
}

// SetWelcomeChannel updates the welcome channel ID.
func (s *GuildSettings) SetWelcomeChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.welcomeChannelID = channelID
}

// TicketCategory returns the configured category for new ticket channels,
// or empty for no category placement.
func (s *GuildSettings) TicketCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticketCategoryID
}

// SetTicketCategory updates the ticket category ID.
func (s *GuildSettings) SetTicketCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketCategoryID = categoryID
}
