package honeypot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"scamtrap/internal/models"
	"scamtrap/internal/redis"
	"scamtrap/internal/relay"
)

var (
	// ErrTurnInFlight rejects a second turn submitted while one is
	// still pending for the same conversation.
	ErrTurnInFlight = errors.New("a turn is already in flight for this conversation")
	// ErrConversationClosed rejects turns on completed or terminated
	// conversations.
	ErrConversationClosed = errors.New("conversation is no longer engaging")
	// ErrEmptyMessage rejects blank scammer input before any side effect.
	ErrEmptyMessage = errors.New("message content is required")
)

// Evaluator is the relay boundary the orchestrator drives once per turn.
type Evaluator interface {
	Evaluate(ctx context.Context, history []relay.Turn, scamType models.ScamType) (*models.HoneypotResult, error)
}

// Orchestrator drives honeypot turns: append the scammer message,
// obtain the relay's judgment, append the persona reply and patch the
// conversation. At most one turn may be in flight per conversation.
type Orchestrator struct {
	store *Service
	relay Evaluator
	cache *stateCache

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewOrchestrator(store *Service, evaluator Evaluator, cacheClient *redis.Client) *Orchestrator {
	return &Orchestrator{
		store:    store,
		relay:    evaluator,
		cache:    newStateCache(cacheClient),
		inflight: make(map[string]struct{}),
	}
}

// beginTurn claims the conversation's single turn slot. The claim is
// released by endTurn on every exit path.
func (o *Orchestrator) beginTurn(conversationID string) error {
	o.mu.Lock()
	if _, busy := o.inflight[conversationID]; busy {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.inflight[conversationID] = struct{}{}
	o.mu.Unlock()

	if !o.cache.tryLockTurn(conversationID) {
		o.releaseLocal(conversationID)
		return ErrTurnInFlight
	}
	return nil
}

func (o *Orchestrator) endTurn(conversationID string) {
	o.cache.unlockTurn(conversationID)
	o.releaseLocal(conversationID)
}

func (o *Orchestrator) releaseLocal(conversationID string) {
	o.mu.Lock()
	delete(o.inflight, conversationID)
	o.mu.Unlock()
}

// StartConversation creates a conversation, runs the first turn and
// returns the record plus its two messages in creation order.
func (o *Orchestrator) StartConversation(ctx context.Context, scamType models.ScamType, initialMessage string) (*models.Conversation, []*models.Message, error) {
	content := strings.TrimSpace(initialMessage)
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	conv, err := o.store.CreateConversation(ctx, scamType)
	if err != nil {
		return nil, nil, err
	}
	if err := o.beginTurn(conv.ID); err != nil {
		return nil, nil, err
	}
	defer o.endTurn(conv.ID)

	scammerMsg, err := o.store.AppendMessage(ctx, conv.ID, models.RoleScammer, content)
	if err != nil {
		return nil, nil, err
	}

	result, err := o.relay.Evaluate(ctx, []relay.Turn{{Role: scammerMsg.Role, Content: scammerMsg.Content}}, scamType)
	if err != nil {
		return nil, nil, err
	}
	result = sanitizeResult(result)

	replyMsg, err := o.store.AppendMessage(ctx, conv.ID, models.RoleHoneypot, result.PersonaResponse)
	if err != nil {
		return nil, nil, err
	}

	conv, err = o.store.PatchConversation(ctx, conv.ID, resultPatch(result))
	if err != nil {
		return nil, nil, err
	}

	history := []*models.Message{scammerMsg, replyMsg}
	o.cache.cacheConversation(conv)
	o.cache.cacheHistory(conv.ID, history)
	return conv, history, nil
}

// ContinueConversation runs one more turn on an engaging conversation
// and returns the updated record and the honeypot's reply.
func (o *Orchestrator) ContinueConversation(ctx context.Context, conversationID, newMessage string) (*models.Conversation, *models.Message, error) {
	content := strings.TrimSpace(newMessage)
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	conv, err := o.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if conv.Status != models.StatusEngaging {
		return nil, nil, ErrConversationClosed
	}

	if err := o.beginTurn(conversationID); err != nil {
		return nil, nil, err
	}
	defer o.endTurn(conversationID)

	scammerMsg, err := o.store.AppendMessage(ctx, conversationID, models.RoleScammer, content)
	if err != nil {
		return nil, nil, err
	}

	// From here on the stored transcript is ahead of the cache; drop
	// the cached copy if the turn does not complete.
	completed := false
	defer func() {
		if !completed {
			o.cache.invalidate(conversationID)
		}
	}()

	history, cached := o.cache.loadHistory(conversationID)
	if cached {
		history = append(history, scammerMsg)
	} else {
		// The just-appended message is already in the store.
		history, err = o.store.ListMessages(ctx, conversationID)
		if err != nil {
			return nil, nil, err
		}
	}

	turns := make([]relay.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, relay.Turn{Role: m.Role, Content: m.Content})
	}

	result, err := o.relay.Evaluate(ctx, turns, conv.ScamType)
	if err != nil {
		return nil, nil, err
	}
	result = sanitizeResult(result)

	replyMsg, err := o.store.AppendMessage(ctx, conversationID, models.RoleHoneypot, result.PersonaResponse)
	if err != nil {
		return nil, nil, err
	}

	patch := resultPatch(result)
	conv, err = o.store.PatchConversation(ctx, conversationID, patch)
	if err != nil {
		return nil, nil, err
	}

	completed = true
	o.cache.cacheConversation(conv)
	o.cache.cacheHistory(conversationID, append(history, replyMsg))
	return conv, replyMsg, nil
}

// sanitizeResult keeps an out-of-contract model reply from corrupting
// persisted state: confidence is clamped to [0,1], and a bad status or
// empty persona response downgrades the whole result to the fallback.
func sanitizeResult(res *models.HoneypotResult) *models.HoneypotResult {
	if res == nil || !models.ValidStatus(res.ConversationStatus) || strings.TrimSpace(res.PersonaResponse) == "" {
		return relay.FallbackResult()
	}
	if res.ScamConfidence < 0 {
		res.ScamConfidence = 0
	}
	if res.ScamConfidence > 1 {
		res.ScamConfidence = 1
	}
	return res
}

// resultPatch maps a turn judgment onto a conversation patch.
// Confidence and status always apply; intelligence fields apply only
// when the relay supplied a value, so nulls never erase captured data.
func resultPatch(res *models.HoneypotResult) ConversationPatch {
	return ConversationPatch{
		ScamConfidence: &res.ScamConfidence,
		Status:         &res.ConversationStatus,
		BankAccount:    res.ExtractedIntelligence.BankAccount,
		IFSC:           res.ExtractedIntelligence.IFSC,
		UPIID:          res.ExtractedIntelligence.UPIID,
		PhishingLink:   res.ExtractedIntelligence.PhishingLink,
		PhoneNumber:    res.ExtractedIntelligence.PhoneNumber,
		WalletAddress:  res.ExtractedIntelligence.WalletAddress,
	}
}
