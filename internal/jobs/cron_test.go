package jobs

import (
	"context"
	"testing"

	"github.com/candat96/jira-lark-webhook/internal/config"
	"github.com/rs/zerolog"
)

type recordingSender struct {
	ok    bool
	calls int
	dest  string
}

func (s *recordingSender) SendTest(_ context.Context, webhookURL string) bool {
	s.calls++
	s.dest = webhookURL
	return s.ok
}

func TestNewHeartbeat_InvalidTimezoneFallsBack(t *testing.T) {
	cfg := config.Config{TZ: "Not/AZone", HeartbeatCron: "@hourly"}
	hb := NewHeartbeat(cfg, zerolog.Nop(), &recordingSender{ok: true})

	// Starting the scheduler must not panic even with a bogus APP_TZ.
	hb.Start()
	hb.Stop()
}

func TestHeartbeat_PingUsesDefaultDestination(t *testing.T) {
	cfg := config.Config{
		TZ:     "UTC",
		Routes: config.RouteTable{Default: "https://open.larksuite.com/hook/default"},
	}
	s := &recordingSender{ok: true}
	hb := NewHeartbeat(cfg, zerolog.Nop(), s)

	hb.ping()
	if s.calls != 1 {
		t.Fatalf("expected one ping, got %d", s.calls)
	}
	if s.dest != cfg.Routes.Default {
		t.Fatalf("ping must target the default destination, got %q", s.dest)
	}
}
