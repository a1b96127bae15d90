/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package lark

import (
	"fmt"
	"strings"

	"github.com/candat96/jira-lark-webhook/internal/domain"
	"github.com/candat96/jira-lark-webhook/internal/team"
)

const (
	noAssignee          = "_no assignee_"
	commentPreviewLimit = 200
)

// FormatEvent maps a normalized Jira event onto an interactive card.
// useMention picks between the mention-decorated and plain rendering
// of every user name; nothing else differs between the two passes.
func FormatEvent(ev domain.Event, reg *team.Registry, useMention bool) Message {
	base := ev.Meta()
	reporter := reg.FormatName(base.Reporter.DisplayName, base.Reporter.Email, useMention)
	assignee := noAssignee
	if base.Assignee != nil {
		assignee = reg.FormatName(base.Assignee.DisplayName, base.Assignee.Email, useMention)
	}
	header := fmt.Sprintf("**[%s] %s**", base.IssueKey, base.Summary)
	buttonURL := ""
	if base.IssueKey != "" {
		buttonURL = base.BaseURL + "/browse/" + base.IssueKey
	}

	switch e := ev.(type) {
	case domain.Created:
		content := fmt.Sprintf(`%s

📝 Reporter: %s
👤 Assignee: %s
📊 Status: %s
🔖 Type: %s
⚡ Priority: %s`, header, reporter, assignee, base.Status, base.IssueType, base.Priority)
		return newCard("🎫 Ticket created", content, "blue", buttonURL)

	case domain.StatusChanged:
		template := "orange"
		to := strings.ToLower(e.To)
		if strings.Contains(to, "done") || strings.Contains(to, "resolved") {
			template = "green"
		}
		content := fmt.Sprintf(`%s

📝 Reporter: %s
👤 Assignee: %s
📊 Status: %s → **%s**`, header, reporter, assignee, e.From, e.To)
		return newCard("📊 Status change", content, template, buttonURL)

	case domain.AssigneeChanged:
		from := e.FromName
		if from == "" {
			from = noAssignee
		}
		content := fmt.Sprintf(`%s

📝 Reporter: %s
👤 Assignee: %s → %s
📊 Status: %s`, header, reporter, from, assignee, base.Status)
		return newCard("👤 Assignee change", content, "yellow", buttonURL)

	case domain.CommentAdded:
		commenter := reg.FormatName(e.Author.DisplayName, e.Author.Email, useMention)
		content := fmt.Sprintf(`%s

📝 Reporter: %s
👤 Assignee: %s
💬 %s commented:
_"%s"_`, header, reporter, assignee, commenter, truncate(e.Body, commentPreviewLimit))
		return newCard("💬 New comment", content, "purple", buttonURL)

	default:
		content := fmt.Sprintf("%s\n\n📊 Status: %s", header, base.Status)
		return newCard("🔔 Issue update", content, "grey", buttonURL)
	}
}

func newCard(title, content, template, buttonURL string) Message {
	card := &Card{
		Header: &CardHeader{
			Title:    Text{Tag: "plain_text", Content: title},
			Template: template,
		},
		Elements: []Element{
			{Tag: "div", Text: &Text{Tag: "lark_md", Content: content}},
		},
	}
	if buttonURL != "" {
		card.Elements = append(card.Elements, Element{
			Tag: "action",
			Actions: []Button{{
				Tag:  "button",
				Text: Text{Tag: "plain_text", Content: "View details →"},
				Type: "primary",
				URL:  buttonURL,
			}},
		})
	}
	return Message{MsgType: "interactive", Card: card}
}

// truncate counts characters, not bytes; a cut must never split a
// multibyte rune mid-sequence.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
