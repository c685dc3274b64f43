package relay

import (
	"context"
	"log"

	"scamtrap/internal/config"
	"scamtrap/internal/models"
)

// Turn is one history entry submitted for evaluation.
type Turn struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// Relay turns an ordered conversation history into exactly one
// structured scam judgment via a single upstream model call.
type Relay struct {
	gateway *GatewayClient
}

func New(cfg config.UpstreamConfig) *Relay {
	return &Relay{gateway: NewGatewayClient(cfg)}
}

// Evaluate issues one completion request for the given history and
// parses the model's judgment. Parse trouble degrades silently to the
// fixed fallback; upstream failures are surfaced to the caller.
func (r *Relay) Evaluate(ctx context.Context, history []Turn, scamType models.ScamType) (*models.HoneypotResult, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	if scamType != "" && !models.ValidScamType(scamType) {
		return nil, ErrInvalidScamType
	}

	msgs := make([]chatMessage, 0, len(history)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: buildSystemPrompt(scamType)})
	for _, turn := range history {
		role := "user"
		if turn.Role == models.RoleHoneypot {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: turn.Content})
	}

	content, err := r.gateway.ChatCompletion(ctx, msgs)
	if err != nil {
		return nil, err
	}

	result, parsed := ParseResult(content)
	if !parsed {
		log.Printf("relay: model output did not parse, using fallback")
	}
	return result, nil
}
