/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	AppEnv   string `validate:"required"`
	TZ       string
	HTTPAddr string `validate:"required"`

	// LarkWebhookURL is the default destination; the process refuses to
	// start without it.
	LarkWebhookURL string        `validate:"required,url"`
	LarkTimeout    time.Duration `validate:"gt=0"`

	// Webhooks holds named alternate destinations (lowercase name -> URL),
	// reachable from the manual test endpoints and the route table.
	Webhooks map[string]string

	// Routes maps a project key prefix to the destination for that
	// project. Anything unmapped falls back to LarkWebhookURL.
	Routes RouteTable

	TeamEmails []string
	TeamFile   string

	HeartbeatCron string
}

// RouteTable is built once at startup and never mutated afterwards.
type RouteTable struct {
	Default  string
	ByPrefix map[string]string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseStrings(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() Config {
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		TZ:       getenv("APP_TZ", "Asia/Ho_Chi_Minh"),
		HTTPAddr: getenv("HTTP_ADDR", ":3000"),

		LarkWebhookURL: getenv("LARK_WEBHOOK_URL", ""),
		LarkTimeout:    dur("LARK_TIMEOUT", 10*time.Second),

		TeamEmails: parseStrings(getenv("TEAM_EMAILS", "")),
		TeamFile:   getenv("TEAM_FILE", ""),

		HeartbeatCron: getenv("HEARTBEAT_CRON", ""),
	}

	// Named alternates: LARK_WEBHOOKS="app,qlkh" looks up
	// LARK_WEBHOOK_URL_APP, LARK_WEBHOOK_URL_QLKH.
	cfg.Webhooks = map[string]string{}
	for _, name := range parseStrings(getenv("LARK_WEBHOOKS", "")) {
		if u := os.Getenv("LARK_WEBHOOK_URL_" + strings.ToUpper(name)); u != "" {
			cfg.Webhooks[strings.ToLower(name)] = u
		}
	}

	// PROJECT_ROUTES="APO=app,QLKH=qlkh" ties key prefixes to named
	// destinations. Pairs referring to an unknown name are dropped.
	cfg.Routes = RouteTable{Default: cfg.LarkWebhookURL, ByPrefix: map[string]string{}}
	for _, pair := range parseStrings(getenv("PROJECT_ROUTES", "")) {
		prefix, name, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if u, found := cfg.Webhooks[strings.ToLower(strings.TrimSpace(name))]; found {
			cfg.Routes.ByPrefix[strings.TrimSpace(prefix)] = u
		}
	}

	if loc, err := time.LoadLocation(cfg.TZ); err == nil {
		time.Local = loc
	}
	return cfg
}

// Validate enforces the startup-fatal conditions, chiefly the presence
// of a default Lark webhook URL.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
