/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/candat96/jira-lark-webhook/internal/adapters/lark"
	"github.com/candat96/jira-lark-webhook/internal/classifier"
	"github.com/candat96/jira-lark-webhook/internal/config"
	"github.com/candat96/jira-lark-webhook/internal/domain"
	"github.com/candat96/jira-lark-webhook/internal/metrics"
)

type deliverer interface {
	SendWithFallback(ctx context.Context, ev domain.Event, webhookURL string) bool
	SendTest(ctx context.Context, webhookURL string) bool
}

type Handlers struct {
	cfg  config.Config
	log  zerolog.Logger
	cls  *classifier.Classifier
	lark deliverer
}

func NewHandlers(cfg config.Config, log zerolog.Logger, cls *classifier.Classifier, d deliverer) *Handlers {
	return &Handlers{cfg: cfg, log: log, cls: cls, lark: d}
}

// JiraWebhook is the Jira-facing endpoint. It answers 200 on every
// path, including malformed bodies and panics: a non-200 would make
// Jira retry-storm the bridge.
func (h *Handlers) JiraWebhook(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Msg("webhook: recovered")
			c.JSON(http.StatusOK, gin.H{"message": "error occurred"})
		}
	}()

	deliveryID := uuid.NewString()
	var p classifier.WebhookPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		h.log.Warn().Err(err).Str("delivery_id", deliveryID).Msg("webhook: malformed payload")
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
		return
	}
	key := ""
	if p.Issue != nil {
		key = p.Issue.Key
	}
	h.log.Info().Str("delivery_id", deliveryID).Str("event", p.WebhookEvent).Str("key", key).Msg("webhook: received")

	ev := h.cls.Classify(&p)
	if ev == nil {
		metrics.JiraEvents.WithLabelValues("ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
		return
	}
	metrics.JiraEvents.WithLabelValues("relevant").Inc()

	// Delivery runs on its own context: Jira hanging up must not abort
	// an in-flight send. Budget covers both attempts.
	ctx, cancel := context.WithTimeout(context.Background(), 2*h.cfg.LarkTimeout+time.Second)
	defer cancel()

	dest := lark.ResolveWebhook(ev.Meta().IssueKey, h.cfg.Routes)
	if h.lark.SendWithFallback(ctx, ev, dest) {
		h.log.Info().Str("delivery_id", deliveryID).Str("key", ev.Meta().IssueKey).Msg("webhook: notification sent")
		c.JSON(http.StatusOK, gin.H{"message": "notification sent"})
		return
	}
	h.log.Error().Str("delivery_id", deliveryID).Str("key", ev.Meta().IssueKey).Msg("webhook: notification failed")
	c.JSON(http.StatusOK, gin.H{"message": "notification failed"})
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "jira-lark-webhook",
	})
}

func (h *Handlers) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Jira-Lark Webhook",
		"status":  "running",
		"endpoints": gin.H{
			"webhook": "POST /webhook/jira",
			"health":  "GET /health",
			"test":    "GET /test, GET /test/:name",
			"metrics": "GET /metrics",
		},
	})
}

// TestDefault exercises the delivery client against the default
// destination. Unlike the Jira endpoint, test triggers are operator
// tools and may answer 500.
func (h *Handlers) TestDefault(c *gin.Context) {
	h.testAgainst(c, h.cfg.Routes.Default)
}

// TestNamed does the same for a named alternate destination.
func (h *Handlers) TestNamed(c *gin.Context) {
	name := c.Param("name")
	url, ok := h.cfg.Webhooks[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown destination: " + name})
		return
	}
	h.testAgainst(c, url)
}

func (h *Handlers) testAgainst(c *gin.Context, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.LarkTimeout+time.Second)
	defer cancel()
	if h.lark.SendTest(ctx, url) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "test message sent"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to send test message"})
}
