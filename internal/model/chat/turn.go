package chat

import (
	"time"

	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
)

// Speaker identifies who authored a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message of a transcript. Sequence is assigned on append and is
// the stable key of the turn within its session.
type Turn struct {
	Speaker   Speaker           `json:"speaker"`
	Text      string            `json:"text"`
	Idea      *idea.StartupIdea `json:"idea,omitempty"`
	Sequence  int64             `json:"sequence"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UserTurn builds an unsequenced user turn.
func UserTurn(text string, at time.Time) Turn {
	return Turn{Speaker: SpeakerUser, Text: text, CreatedAt: at}
}

// AssistantTurn builds an unsequenced assistant turn. A non-nil idea is copied.
func AssistantTurn(text string, attached *idea.StartupIdea, at time.Time) Turn {
	turn := Turn{Speaker: SpeakerAssistant, Text: text, CreatedAt: at}
	if attached != nil {
		cloned := attached.Clone()
		turn.Idea = &cloned
	}
	return turn
}

// Clone deep-copies the turn including its idea.
func (t Turn) Clone() Turn {
	out := t
	if t.Idea != nil {
		cloned := t.Idea.Clone()
		out.Idea = &cloned
	}
	return out
}
