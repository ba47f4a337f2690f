// Package ai provides the optional Ark-backed reply generator for demo mode.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/warelay/backend/internal/config"
)

const systemPrompt = "You are the demo bot of a WhatsApp relay. " +
	"Reply to the user's message in one or two short sentences, " +
	"in the same language the user wrote in."

// Responder generates demo-mode bot replies with an Ark chat model.
type Responder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewResponder compiles the reply chain. It fails when the Ark credentials
// are missing or the model cannot be constructed.
func NewResponder(ctx context.Context, cfg config.AIConfig) (*Responder, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	return &Responder{chain: runnable}, nil
}

// Reply generates a bot reply for the given user text.
func (r *Responder) Reply(ctx context.Context, text string) (string, error) {
	response, err := r.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run reply chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}

	log.Printf("[ai] generated demo reply, length=%d", len(reply))
	return reply, nil
}
