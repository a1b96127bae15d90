package team

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Registry answers team membership for Jira emails and knows the Lark
// open id for members that have one. Built once at startup, read-only
// afterwards, so concurrent requests may consult it without locks.
type Registry struct {
	members  map[string]bool
	mentions map[string]string
}

// New merges the plain email list with the mention map. Emails in the
// mention map count as members even when absent from the list; an
// empty open id keeps the member mention-less.
func New(emails []string, mentions map[string]string) *Registry {
	members := make(map[string]bool, len(emails)+len(mentions))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e != "" {
			members[e] = true
		}
	}
	targets := make(map[string]string, len(mentions))
	for e, id := range mentions {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		members[e] = true
		if id = strings.TrimSpace(id); id != "" {
			targets[e] = id
		}
	}
	return &Registry{members: members, mentions: targets}
}

// LoadFile reads a JSON object mapping Jira email -> Lark open id.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("team: parse %s: %w", path, err)
	}
	return m, nil
}

// IsMember is a case-sensitive exact-match lookup; an empty or unknown
// email is not a member.
func (r *Registry) IsMember(email string) bool {
	return r.members[email]
}

// FormatName renders a user name for a card body. With useMention and
// a known open id the name gets an inline at-tag so the member is
// pinged; otherwise plain bold.
func (r *Registry) FormatName(name, email string, useMention bool) string {
	if useMention && email != "" {
		if id, ok := r.mentions[email]; ok {
			return fmt.Sprintf("<at id=%s></at> **%s**", id, name)
		}
	}
	return "**" + name + "**"
}
