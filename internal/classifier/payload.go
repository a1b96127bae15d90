package classifier

// Jira webhook payload shapes. Only the fields the bridge reads are
// declared; the rest of the payload is ignored by the JSON decoder.

type WebhookPayload struct {
	WebhookEvent       string     `json:"webhookEvent"`
	IssueEventTypeName string     `json:"issue_event_type_name"`
	Issue              *Issue     `json:"issue"`
	Changelog          *Changelog `json:"changelog"`
	Comment            *Comment   `json:"comment"`
}

type Issue struct {
	Key string `json:"key"`
	// Self is the REST API link for the issue, e.g.
	// https://x.atlassian.net/rest/api/2/issue/12345.
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary   string      `json:"summary"`
	Status    *NamedField `json:"status"`
	Priority  *NamedField `json:"priority"`
	IssueType *NamedField `json:"issuetype"`
	Reporter  *Actor      `json:"reporter"`
	Assignee  *Actor      `json:"assignee"`
}

type NamedField struct {
	Name string `json:"name"`
}

type Actor struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

type Changelog struct {
	Items []ChangelogItem `json:"items"`
}

type ChangelogItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

type Comment struct {
	Author *Actor `json:"author"`
	Body   string `json:"body"`
}
