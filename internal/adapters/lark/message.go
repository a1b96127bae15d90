/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package lark

// Incoming-webhook message shapes per the Lark custom bot API.

// Message is the outbound envelope. Every message this bridge sends
// is an interactive card.
type Message struct {
	MsgType string `json:"msg_type"`
	Card    *Card  `json:"card,omitempty"`
}

type Card struct {
	Header   *CardHeader `json:"header,omitempty"`
	Elements []Element   `json:"elements"`
}

// CardHeader templates: blue, wathet, turquoise, green, yellow,
// orange, red, carmine, violet, purple, indigo, grey.
type CardHeader struct {
	Title    Text   `json:"title"`
	Template string `json:"template,omitempty"`
}

type Text struct {
	Tag     string `json:"tag"` // plain_text | lark_md
	Content string `json:"content"`
}

// Element is one typed card block: a lark_md div or an action row.
type Element struct {
	Tag     string   `json:"tag"`
	Text    *Text    `json:"text,omitempty"`
	Actions []Button `json:"actions,omitempty"`
}

type Button struct {
	Tag  string `json:"tag"`
	Text Text   `json:"text"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}
