package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/communitykit/guild-agent/internal/api/dto"
	"github.com/communitykit/guild-agent/internal/observability"
	"github.com/communitykit/guild-agent/internal/service"
)

// StatsHandler serves a snapshot of the agent's volatile state.
type StatsHandler struct {
	economy *service.EconomyService
	tickets *service.TicketService
	metrics *observability.Metrics
}

// NewStatsHandler returns a new handler instance.
func NewStatsHandler(economy *service.EconomyService, tickets *service.TicketService, metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{economy: economy, tickets: tickets, metrics: metrics}
}

// Get returns account, ticket and command counters.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	open, closed := h.tickets.CountByStatus()
	snap := h.metrics.Snapshot()
	return c.JSON(dto.StatsResponse{
		Accounts:      h.economy.AccountCount(),
		OpenTickets:   open,
		ClosedTickets: closed,
		UptimeSeconds: snap.UptimeSeconds,
		Commands:      snap.Commands,
		Failures:      snap.Failures,
	})
}
