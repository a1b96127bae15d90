/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/candat96/jira-lark-webhook/internal/config"
	"github.com/candat96/jira-lark-webhook/internal/domain"
	"github.com/candat96/jira-lark-webhook/internal/metrics"
	"github.com/candat96/jira-lark-webhook/internal/team"
	"github.com/rs/zerolog"
)

type Client struct {
	http *http.Client
	reg  *team.Registry
	log  zerolog.Logger
}

func NewClient(cfg config.Config, reg *team.Registry, log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.LarkTimeout},
		reg:  reg,
		log:  log,
	}
}

// webhookResponse covers both field spellings Lark uses for the result
// code across webhook generations. Pointers distinguish "absent" from
// an explicit zero.
type webhookResponse struct {
	StatusCode    *int   `json:"StatusCode"`
	Code          *int   `json:"code"`
	StatusMessage string `json:"StatusMessage"`
	Msg           string `json:"msg"`
}

func (r webhookResponse) ok() bool {
	return (r.StatusCode != nil && *r.StatusCode == 0) || (r.Code != nil && *r.Code == 0)
}

// Send posts one message to a webhook URL. Transport errors, non-2xx
// statuses and nonzero result codes are all logged and folded into a
// false return; delivery failures never surface as errors.
func (c *Client) Send(ctx context.Context, msg Message, webhookURL string) bool {
	body, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Msg("lark: marshal message failed")
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		c.log.Error().Err(err).Msg("lark: build request failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("lark: request failed")
		return false
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		c.log.Error().Int("status", resp.StatusCode).Str("body", strings.TrimSpace(string(raw))).Msg("lark: api status error")
		return false
	}
	var wr webhookResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		c.log.Error().Err(err).Str("body", strings.TrimSpace(string(raw))).Msg("lark: unexpected response body")
		return false
	}
	if !wr.ok() {
		c.log.Error().Str("body", strings.TrimSpace(string(raw))).Msg("lark: api result error")
		return false
	}
	c.log.Info().Msg("lark: message sent")
	return true
}

// SendWithFallback delivers the event with mentions first and retries
// exactly once without them; a stale mention target makes the webhook
// reject the whole card, and the plain rendering still gets the news
// out. The two attempts are strictly sequential, two at most.
func (c *Client) SendWithFallback(ctx context.Context, ev domain.Event, webhookURL string) bool {
	key := ev.Meta().IssueKey
	if c.Send(ctx, FormatEvent(ev, c.reg, true), webhookURL) {
		metrics.LarkDeliveries.WithLabelValues("ok", "mention").Inc()
		return true
	}
	metrics.LarkDeliveries.WithLabelValues("failed", "mention").Inc()
	c.log.Warn().Str("key", key).Msg("lark: mention delivery failed, retrying plain")

	if c.Send(ctx, FormatEvent(ev, c.reg, false), webhookURL) {
		metrics.LarkDeliveries.WithLabelValues("ok", "plain").Inc()
		return true
	}
	metrics.LarkDeliveries.WithLabelValues("failed", "plain").Inc()
	c.log.Error().Str("key", key).Msg("lark: delivery failed after fallback")
	return false
}

// SendTest posts the green connectivity card used by the manual test
// endpoints and the heartbeat job.
func (c *Client) SendTest(ctx context.Context, webhookURL string) bool {
	msg := newCard(
		"✅ Test Message",
		"**Jira-Lark webhook bridge is up!**\n\nReady to receive Jira webhooks.",
		"green",
		"",
	)
	return c.Send(ctx, msg, webhookURL)
}

// ResolveWebhook picks the destination for an issue by its project key
// prefix, the substring before the first hyphen. A key without a
// hyphen or with an unmapped prefix goes to the default destination.
func ResolveWebhook(issueKey string, rt config.RouteTable) string {
	prefix, _, _ := strings.Cut(issueKey, "-")
	if u, ok := rt.ByPrefix[prefix]; ok {
		return u
	}
	return rt.Default
}
