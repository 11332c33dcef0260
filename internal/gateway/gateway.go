// Package gateway defines the contracts between the agent's core and the
// platform transport. The core never touches a platform SDK directly; the
// adapter under gateway/discord is the only package that does.
package gateway

import "context"

// RenderField is one field of a response embed.
type RenderField struct {
	Name   string
	Value  string
	Inline bool
}

// Button is an interactive component attached to a render. CustomID is a
// stable string independent of any in-memory object identity, so handlers
// re-registered after a restart resolve to the same logical operation.
type Button struct {
	CustomID string
	Label    string
	Danger   bool
}

// Render is a platform-agnostic response payload.
type Render struct {
	Title       string
	Description string
	Fields      []RenderField
	Buttons     []Button
	Color       int
	Ephemeral   bool
}

// Responder delivers a render to the user or channel that originated an
// interaction. Only the command layer uses it, never the stores.
type Responder interface {
	Respond(ctx context.Context, render Render) error
}

// OverwriteTarget distinguishes role and member overwrites.
type OverwriteTarget string

const (
	OverwriteRole   OverwriteTarget = "role"
	OverwriteMember OverwriteTarget = "member"
)

// PermissionOverwrite grants or denies channel visibility (view, send,
// read history as one bundle) for a single role or member.
type PermissionOverwrite struct {
	TargetID string
	Target   OverwriteTarget
	Allow    bool
}

// ChannelCreate describes a ticket channel to provision. An empty
// CategoryID means no category placement.
type ChannelCreate struct {
	Name       string
	CategoryID string
	Overwrites []PermissionOverwrite
}

// ChannelManager provisions and removes channels and posts renders into
// them.
type ChannelManager interface {
	CreateChannel(ctx context.Context, guildID string, create ChannelCreate) (channelID string, err error)
	DeleteChannel(ctx context.Context, channelID string) error
	SendRender(ctx context.Context, channelID string, render Render) error
}

// Role is a guild role as reported by the platform.
type Role struct {
	ID   string
	Name string
}

// RoleLister exposes the guild's role inventory for staff-visibility
// policy evaluation.
type RoleLister interface {
	ListRoles(ctx context.Context, guildID string) ([]Role, error)
}

// MemberJoined reports a new member arriving in the guild.
type MemberJoined struct {
	GuildID     string
	UserID      string
	DisplayName string
}

// ButtonPressed reports an interactive component activation. The adapter
// resolves the platform permission bits into booleans; the core never
// computes permissions itself.
type ButtonPressed struct {
	CustomID         string
	GuildID          string
	ChannelID        string
	ActorUserID      string
	ActorCanManage   bool
	ActorDisplayName string
}

// CommandInvoked reports a slash command with its resolved options.
type CommandInvoked struct {
	Name             string
	GuildID          string
	ChannelID        string
	ActorUserID      string
	ActorDisplayName string
	ActorIsAdmin     bool
	TargetUserID     string
	TargetUserName   string
	TargetChannelID  string
	Amount           int64
}
