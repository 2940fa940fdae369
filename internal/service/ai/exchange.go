package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/bizspark/backend/internal/model/chat"
)

const (
	// FallbackText answers every failed exchange.
	FallbackText = "I'm having a little trouble connecting to my creative circuits right now. Please try again in a moment."
	// MoreDetailText answers a chat envelope with no content.
	MoreDetailText = "I'm sorry, I couldn't process that. Could you tell me more about your skills or interests?"

	ideaIntroFormat = "I've sparked an idea for you: **%s**! Here are the details."
)

var errExchangeDisabled = errors.New("no chat model configured")

// Exchange turns a transcript into exactly one assistant turn.
type Exchange struct {
	chain compose.Runnable[map[string]any, *schema.Message]
	now   func() time.Time
}

// NewExchange compiles the prompt chain around chatModel. A nil model yields
// an exchange that always answers with FallbackText.
func NewExchange(ctx context.Context, chatModel model.BaseChatModel) (*Exchange, error) {
	ex := &Exchange{now: time.Now}
	if chatModel == nil {
		return ex, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile idea chain: %w", err)
	}

	ex.chain = runnable
	return ex, nil
}

// Enabled reports whether a chat model backs the exchange.
func (e *Exchange) Enabled() bool {
	return e != nil && e.chain != nil
}

// Respond makes one model call and never fails: transport errors and
// malformed output are logged and become a FallbackText turn.
func (e *Exchange) Respond(ctx context.Context, transcript []chat.Turn) chat.Turn {
	reply, err := e.exchange(ctx, transcript)
	if err != nil {
		log.Printf("[ai] idea exchange failed, using fallback: %v", err)
		return chat.AssistantTurn(FallbackText, nil, e.clock())
	}

	switch r := reply.(type) {
	case IdeaReply:
		log.Printf("[ai] generated idea %q score=%d", r.Idea.Name, r.Idea.ViabilityScore)
		return chat.AssistantTurn(fmt.Sprintf(ideaIntroFormat, r.Idea.Name), &r.Idea, e.clock())
	case ChatReply:
		text := r.Text
		if text == "" {
			text = MoreDetailText
		}
		return chat.AssistantTurn(text, nil, e.clock())
	default:
		log.Printf("[ai] unexpected reply type %T, using fallback", reply)
		return chat.AssistantTurn(FallbackText, nil, e.clock())
	}
}

func (e *Exchange) exchange(ctx context.Context, transcript []chat.Turn) (Reply, error) {
	if !e.Enabled() {
		return nil, errExchangeDisabled
	}

	msg, err := e.chain.Invoke(ctx, map[string]any{
		"prompt": BuildPrompt(transcript),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run idea chain: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("%w: empty model output", ErrMalformedResponse)
	}

	return ParseReply(msg.Content)
}

func (e *Exchange) clock() time.Time {
	if e == nil || e.now == nil {
		return time.Now().UTC()
	}
	return e.now().UTC()
}
