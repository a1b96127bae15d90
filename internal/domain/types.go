package domain

// User is a Jira actor as it appears in webhook payloads
// (reporter, assignee or comment author).
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Base carries the issue snapshot shared by every event variant.
// BaseURL is the Jira host root; the browse link is assembled by the
// formatter, not stored pre-joined.
type Base struct {
	IssueKey  string
	Summary   string
	BaseURL   string
	Reporter  User
	Assignee  *User
	Status    string
	Priority  string
	IssueType string
}

// Meta exposes the shared fields regardless of the concrete variant.
func (b Base) Meta() Base { return b }

func (Base) variant() {}

// Event is a normalized Jira webhook event. The variant set is closed;
// the formatter type-switches over it exhaustively.
type Event interface {
	Meta() Base
	variant()
}

// Created is emitted for jira:issue_created.
type Created struct {
	Base
}

// StatusChanged is emitted for a jira:issue_updated whose changelog
// carries a status item. From and To are the status display strings.
type StatusChanged struct {
	Base
	From string
	To   string
}

// AssigneeChanged is emitted for a jira:issue_updated whose changelog
// carries an assignee item. FromName is a bare display name: Jira
// changelogs carry no email. The new assignee is Base.Assignee.
type AssigneeChanged struct {
	Base
	FromName string
}

// CommentAdded is emitted when a comment lands on a tracked issue.
// Self-comments by the reporter are filtered out before this variant
// is produced.
type CommentAdded struct {
	Base
	Author User
	Body   string
}
