// Package dispatch implements the outbound send path: record, then deliver
// either through the real Cloud API or the local demo bot.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/warelay/backend/internal/model/message"
	"github.com/warelay/backend/internal/model/template"
)

var (
	ErrTextRequired        = errors.New("text is required")
	ErrDestinationRequired = errors.New("to is required")
)

// Provider is the subset of the Cloud API client the dispatcher needs.
type Provider interface {
	SendText(ctx context.Context, to, text string) (json.RawMessage, error)
}

// Replier generates demo-mode bot replies. Implemented by the optional Ark
// responder; nil means the canned reply is always used.
type Replier interface {
	Reply(ctx context.Context, text string) (string, error)
}

// Result describes the outcome of one send.
type Result struct {
	Demo     bool
	Outbound message.Record
	// Reply is set in demo mode only; live-mode replies arrive later via the
	// provider webhook.
	Reply *message.Record
	// ProviderResponse is the raw Cloud API body, set in live mode only.
	ProviderResponse json.RawMessage
}

// Service is the outbound dispatcher.
type Service struct {
	messages *message.Log
	provider Provider
	replier  Replier
}

// NewService builds a dispatcher. A nil provider pins the service to demo
// mode; a nil replier keeps the canned demo reply.
func NewService(messages *message.Log, provider Provider, replier Replier) *Service {
	return &Service{messages: messages, provider: provider, replier: replier}
}

// Live reports whether sends go to the real provider.
func (s *Service) Live() bool {
	return s.provider != nil
}

// Send validates the input, appends the outbound record and delivers the
// message. The outbound record is appended before delivery is attempted, so
// a failed live send still leaves the user's message in the log.
func (s *Service) Send(ctx context.Context, to, text string) (*Result, error) {
	if text == "" {
		return nil, ErrTextRequired
	}
	if s.Live() && to == "" {
		return nil, ErrDestinationRequired
	}

	outbound, err := s.messages.Append(message.Record{
		From:      "me",
		To:        to,
		Text:      text,
		Direction: message.DirectionOut,
	})
	if err != nil {
		return nil, err
	}

	if !s.Live() {
		reply := s.demoReply(ctx, to, text)
		return &Result{Demo: true, Outbound: outbound, Reply: &reply}, nil
	}

	raw, err := s.provider.SendText(ctx, to, text)
	if err != nil {
		return nil, fmt.Errorf("provider send failed: %w", err)
	}
	return &Result{Outbound: outbound, ProviderResponse: raw}, nil
}

// SendTemplate emits a template body into the log and synthesizes a reply.
// Template sends never hit the provider, mirroring demo-mode behavior.
func (s *Service) SendTemplate(ctx context.Context, tpl template.Template) (*Result, error) {
	outbound, err := s.messages.Append(message.Record{
		From:      "template:" + tpl.Name,
		Text:      tpl.Body,
		Direction: message.DirectionOut,
	})
	if err != nil {
		return nil, err
	}

	reply := s.demoReply(ctx, "", tpl.Body)
	return &Result{Demo: true, Outbound: outbound, Reply: &reply}, nil
}

// demoReply synthesizes the bot answer and appends it as an inbound record.
// The canned wording is kept as the fallback when no AI replier is configured
// or generation fails, so demo mode never fails after validation.
func (s *Service) demoReply(ctx context.Context, to, text string) message.Record {
	body := fmt.Sprintf("🤖 Bot reply: I understood %q", text)
	if s.replier != nil {
		if generated, err := s.replier.Reply(ctx, text); err != nil {
			log.Printf("[dispatch] ai reply failed, using canned reply: %v", err)
		} else {
			body = generated
		}
	}

	reply, err := s.messages.Append(message.Record{
		From:      "bot",
		To:        to,
		Text:      body,
		Direction: message.DirectionIn,
	})
	if err != nil {
		// Unreachable: from and direction are always set above.
		log.Printf("[dispatch] failed to append demo reply: %v", err)
	}
	return reply
}
