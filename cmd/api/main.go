/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/candat96/jira-lark-webhook/internal/adapters/lark"
	"github.com/candat96/jira-lark-webhook/internal/classifier"
	"github.com/candat96/jira-lark-webhook/internal/config"
	httpapi "github.com/candat96/jira-lark-webhook/internal/http"
	"github.com/candat96/jira-lark-webhook/internal/jobs"
	"github.com/candat96/jira-lark-webhook/internal/logger"
	"github.com/candat96/jira-lark-webhook/internal/team"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Team registry: CSV emails plus optional JSON file with Lark open
	// ids. A broken file degrades to the CSV-only registry.
	mentions := map[string]string{}
	if cfg.TeamFile != "" {
		m, err := team.LoadFile(cfg.TeamFile)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.TeamFile).Msg("team file not loaded")
		} else {
			mentions = m
		}
	}
	reg := team.New(cfg.TeamEmails, mentions)

	cls := classifier.New(reg, log)
	lc := lark.NewClient(cfg, reg, log)

	h := httpapi.NewHandlers(cfg, log, cls, lc)
	router := httpapi.NewRouter(cfg, log, h)

	hb := jobs.NewHeartbeat(cfg, log, lc)
	hb.Start()
	defer hb.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()
	log.Info().Str("addr", cfg.HTTPAddr).Int("routes", len(cfg.Routes.ByPrefix)).Msg("jira-lark webhook bridge listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	time.Sleep(500 * time.Millisecond)
}
