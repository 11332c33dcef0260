package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/communitykit/guild-agent/pkg/util"
)

var allKinds = []util.Kind{
	util.KindInsufficientFunds,
	util.KindInvalidAmount,
	util.KindOnCooldown,
	util.KindAlreadyHasOpenTicket,
	util.KindDuplicateTicket,
	util.KindTicketNotFound,
	util.KindAlreadyClosed,
	util.KindPermissionDenied,
	util.KindChannelCreationFailed,
	util.KindInternal,
}

func TestFailureMessagesCoverAllKinds(t *testing.T) {
	t.Parallel()
	for _, kind := range allKinds {
		message, ok := kindMessages[kind]
		if !ok {
			t.Fatalf("kind %q has no message", kind)
		}
		if message == "" {
			t.Fatalf("kind %q maps to an empty message", kind)
		}
	}
	if len(kindMessages) != len(allKinds) {
		t.Fatalf("message table has %d entries, expected %d", len(kindMessages), len(allKinds))
	}
}

func TestFailureRenderPrefersDomainMessage(t *testing.T) {
	t.Parallel()
	render := failureRender(util.NewPermissionDenied("you need administrator permissions"))
	if !render.Ephemeral {
		t.Fatal("failure renders must be ephemeral")
	}
	if render.Color != colorRed {
		t.Fatalf("unexpected color: %#x", render.Color)
	}
	if !strings.Contains(render.Description, "you need administrator permissions") {
		t.Fatalf("expected domain message in render, got %q", render.Description)
	}
}

func TestFailureRenderHidesInternalDetails(t *testing.T) {
	t.Parallel()
	render := failureRender(util.NewInternalError(errors.New("pgx: connection refused")))
	if strings.Contains(render.Description, "pgx") {
		t.Fatalf("internal detail leaked into render: %q", render.Description)
	}
	if !strings.Contains(render.Description, kindMessages[util.KindInternal]) {
		t.Fatalf("expected generic internal message, got %q", render.Description)
	}
}

func TestFailureRenderUnknownErrorFallsBackToInternal(t *testing.T) {
	t.Parallel()
	render := failureRender(errors.New("plain error"))
	if !strings.Contains(render.Description, kindMessages[util.KindInternal]) {
		t.Fatalf("expected internal fallback, got %q", render.Description)
	}
}

func TestFormatCooldown(t *testing.T) {
	t.Parallel()
	cases := []struct {
		remaining time.Duration
		want      string
	}{
		{23*time.Hour + 59*time.Minute + 50*time.Second, "23h 59m"},
		{90 * time.Minute, "1h 30m"},
		{45 * time.Second, "0h 0m"},
	}
	for _, tc := range cases {
		if got := formatCooldown(tc.remaining); got != tc.want {
			t.Fatalf("formatCooldown(%v) = %q, want %q", tc.remaining, got, tc.want)
		}
	}
}

func TestMedalRanks(t *testing.T) {
	t.Parallel()
	if medal(1) != "🥇" || medal(2) != "🥈" || medal(3) != "🥉" {
		t.Fatal("top three ranks must render medals")
	}
	if got := medal(4); got != "4." {
		t.Fatalf("rank 4 = %q, want \"4.\"", got)
	}
}
