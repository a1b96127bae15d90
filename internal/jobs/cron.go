package jobs

import (
	"context"
	"time"

	"github.com/candat96/jira-lark-webhook/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type sender interface {
	SendTest(ctx context.Context, webhookURL string) bool
}

// Heartbeat periodically pings the default Lark destination with the
// test card so a silently-revoked webhook URL shows up in logs instead
// of being discovered during an incident. Disabled when no schedule is
// configured.
type Heartbeat struct {
	cfg  config.Config
	log  zerolog.Logger
	lark sender
	c    *cron.Cron
}

func NewHeartbeat(cfg config.Config, log zerolog.Logger, lark sender) *Heartbeat {
	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.TZ).Msg("heartbeat: unknown timezone, using local")
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	hb := &Heartbeat{cfg: cfg, log: log, lark: lark, c: c}
	if cfg.HeartbeatCron != "" {
		if _, err := c.AddFunc(cfg.HeartbeatCron, hb.ping); err != nil {
			log.Error().Err(err).Str("spec", cfg.HeartbeatCron).Msg("heartbeat: invalid cron spec, disabled")
		}
	}
	return hb
}

func (hb *Heartbeat) Start() { hb.c.Start() }
func (hb *Heartbeat) Stop()  { hb.c.Stop() }

func (hb *Heartbeat) ping() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if !hb.lark.SendTest(ctx, hb.cfg.Routes.Default) {
		hb.log.Error().Msg("heartbeat: lark ping failed")
		return
	}
	hb.log.Info().Msg("heartbeat: lark ping ok")
}
