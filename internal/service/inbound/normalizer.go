// Package inbound converts provider webhook payloads into message log records.
package inbound

import (
	"errors"
	"log"

	"github.com/warelay/backend/internal/model/message"
)

// ErrInvalidPayload signals a body that does not look like a provider webhook
// event (missing the object discriminator or the entry collection).
var ErrInvalidPayload = errors.New("payload is not a provider webhook event")

// Payload is the provider-shaped webhook body. Only the fields the relay
// cares about are modelled; everything else is ignored on decode.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value `json:"value"`
}

type Value struct {
	Messages []Message `json:"messages"`
}

// Message is one inbound provider message. Text lives at text.body for plain
// messages; some event shapes nest it under message.text.body instead.
type Message struct {
	From    string   `json:"from"`
	Text    *Text    `json:"text"`
	Message *Wrapped `json:"message"`
}

type Text struct {
	Body string `json:"body"`
}

type Wrapped struct {
	Text *Text `json:"text"`
}

// Body resolves the message text, trying text.body first and falling back to
// message.text.body. Non-text events resolve to the empty string.
func (m Message) Body() string {
	if m.Text != nil {
		return m.Text.Body
	}
	if m.Message != nil && m.Message.Text != nil {
		return m.Message.Text.Body
	}
	return ""
}

// Normalizer walks provider payloads and appends one log record per message.
type Normalizer struct {
	messages *message.Log
}

// NewNormalizer binds the normalizer to the shared message log.
func NewNormalizer(messages *message.Log) *Normalizer {
	return &Normalizer{messages: messages}
}

// Ingest validates the payload shape and appends one direction=in record per
// inbound message found. It returns the number of records appended. Entries
// without changes or messages are nothing to do, not an error. The provider
// may redeliver events; duplicates are appended again (at-least-once, no
// dedup against provider message ids).
func (n *Normalizer) Ingest(payload Payload) (int, error) {
	if payload.Object == "" || payload.Entry == nil {
		return 0, ErrInvalidPayload
	}

	appended := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if _, err := n.messages.Append(message.Record{
					From:      msg.From,
					Text:      msg.Body(),
					Direction: message.DirectionIn,
				}); err != nil {
					log.Printf("[webhook] dropping malformed inbound message: %v", err)
					continue
				}
				appended++
			}
		}
	}
	return appended, nil
}
