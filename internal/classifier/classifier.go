package classifier

import (
	"net/url"

	"github.com/candat96/jira-lark-webhook/internal/domain"
	"github.com/candat96/jira-lark-webhook/internal/team"
	"github.com/rs/zerolog"
)

const (
	eventIssueCreated = "jira:issue_created"
	eventIssueUpdated = "jira:issue_updated"
	subtypeCommented  = "issue_commented"
)

type Classifier struct {
	reg *team.Registry
	log zerolog.Logger
}

func New(reg *team.Registry, log zerolog.Logger) *Classifier {
	return &Classifier{reg: reg, log: log}
}

// Classify turns a raw webhook payload into a normalized event, or nil
// when the payload does not concern the team or carries no change we
// notify about. A nil result means no message may be sent.
func (c *Classifier) Classify(p *WebhookPayload) domain.Event {
	if p == nil || p.Issue == nil {
		return nil
	}
	issue := p.Issue
	if !c.relevant(issue) {
		c.log.Debug().Str("key", issue.Key).Msg("classify: issue not tracked, skipping")
		return nil
	}

	base := baseOf(issue)

	switch p.WebhookEvent {
	case eventIssueCreated:
		c.log.Info().Str("key", issue.Key).Msg("classify: issue created")
		return domain.Created{Base: base}

	case eventIssueUpdated:
		// Status beats assignee when both items appear in one changelog;
		// at most one event is emitted per webhook call.
		if it := findItem(p.Changelog, "status"); it != nil {
			c.log.Info().Str("key", issue.Key).Str("from", it.FromString).Str("to", it.ToString).Msg("classify: status changed")
			return domain.StatusChanged{Base: base, From: it.FromString, To: it.ToString}
		}
		if it := findItem(p.Changelog, "assignee"); it != nil {
			c.log.Info().Str("key", issue.Key).Msg("classify: assignee changed")
			return domain.AssigneeChanged{Base: base, FromName: it.FromString}
		}
		if p.Comment != nil && p.Comment.Author != nil && p.IssueEventTypeName == subtypeCommented {
			if p.Comment.Author.EmailAddress == base.Reporter.Email {
				c.log.Debug().Str("key", issue.Key).Msg("classify: self-comment, skipping")
				return nil
			}
			c.log.Info().Str("key", issue.Key).Str("author", p.Comment.Author.DisplayName).Msg("classify: comment added")
			return domain.CommentAdded{Base: base, Author: toUser(p.Comment.Author), Body: p.Comment.Body}
		}
	}

	c.log.Debug().Str("event", p.WebhookEvent).Msg("classify: event type not handled")
	return nil
}

// relevant is the team gate: the issue matters iff its reporter or its
// assignee is a registered team member.
func (c *Classifier) relevant(issue *Issue) bool {
	if r := issue.Fields.Reporter; r != nil && c.reg.IsMember(r.EmailAddress) {
		return true
	}
	if a := issue.Fields.Assignee; a != nil && c.reg.IsMember(a.EmailAddress) {
		return true
	}
	return false
}

func baseOf(issue *Issue) domain.Base {
	b := domain.Base{
		IssueKey: issue.Key,
		Summary:  issue.Fields.Summary,
		BaseURL:  baseURL(issue.Self),
	}
	if r := issue.Fields.Reporter; r != nil {
		b.Reporter = toUser(r)
	}
	if a := issue.Fields.Assignee; a != nil {
		u := toUser(a)
		b.Assignee = &u
	}
	if s := issue.Fields.Status; s != nil {
		b.Status = s.Name
	}
	if p := issue.Fields.Priority; p != nil {
		b.Priority = p.Name
	}
	if t := issue.Fields.IssueType; t != nil {
		b.IssueType = t.Name
	}
	return b
}

func toUser(a *Actor) domain.User {
	return domain.User{ID: a.AccountID, Email: a.EmailAddress, DisplayName: a.DisplayName}
}

func findItem(cl *Changelog, field string) *ChangelogItem {
	if cl == nil {
		return nil
	}
	for i := range cl.Items {
		if cl.Items[i].Field == field {
			return &cl.Items[i]
		}
	}
	return nil
}

// baseURL reduces the issue's REST self-link to protocol+host. An
// unparseable link degrades to the raw string rather than failing the
// whole event.
func baseURL(self string) string {
	u, err := url.Parse(self)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return self
	}
	return u.Scheme + "://" + u.Host
}
