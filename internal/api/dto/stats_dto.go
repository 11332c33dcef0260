package dto

// StatsResponse is the ops-API view of the agent's volatile state.
type StatsResponse struct {
	Accounts      int              `json:"accounts"`
	OpenTickets   int              `json:"open_tickets"`
	ClosedTickets int              `json:"closed_tickets"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Commands      map[string]int64 `json:"commands"`
	Failures      map[string]int64 `json:"failures"`
}
