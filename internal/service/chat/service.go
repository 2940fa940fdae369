package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/bizspark/backend/internal/model/chat"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrRequestOutstanding = errors.New("a request is already outstanding")
)

// interruptedText answers a turn whose exchange panicked.
const interruptedText = "Sorry, something went wrong."

// Exchange produces the assistant reply for a transcript. Implementations
// must always return a turn.
type Exchange interface {
	Respond(ctx context.Context, transcript []chat.Turn) chat.Turn
}

type sessionState struct {
	session chat.Session
	turns   []chat.Turn
	state   chat.State
	lastSeq int64
}

// Service encapsulates conversation state management.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
	exchange Exchange
	now      func() time.Time
}

// NewService bootstraps the in-memory chat service around exchange.
func NewService(exchange Exchange) *Service {
	return &Service{
		sessions: make(map[string]*sessionState),
		exchange: exchange,
		now:      time.Now,
	}
}

// CreateSession provisions an anonymous session. A non-empty greeting is
// seeded as the first assistant turn.
func (s *Service) CreateSession(_ context.Context, greeting string) (chat.Snapshot, error) {
	st := &sessionState{
		session: chat.Session{
			ID:        uuid.NewString(),
			CreatedAt: s.now().UTC(),
		},
		turns: make([]chat.Turn, 0, 16),
		state: chat.StateIdle,
	}

	if greeting = strings.TrimSpace(greeting); greeting != "" {
		s.appendLocked(st, chat.AssistantTurn(greeting, nil, st.session.CreatedAt))
	}

	s.mu.Lock()
	s.sessions[st.session.ID] = st
	snapshot := st.snapshot()
	s.mu.Unlock()

	return snapshot, nil
}

// Append adds a turn to the end of the transcript and returns it sequenced.
func (s *Service) Append(_ context.Context, sessionID string, turn chat.Turn) (chat.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Turn{}, ErrSessionNotFound
	}
	return s.appendLocked(st, turn), nil
}

// SubmitUserMessage appends a user turn and runs the exchange in the
// background. The returned channel yields the appended assistant turn and is
// then closed; it closes without a value if the session ends first.
// Empty text and submissions while a request is outstanding are rejected
// without touching the session.
func (s *Service) SubmitUserMessage(ctx context.Context, sessionID, text string) (chat.Turn, <-chan chat.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Turn{}, nil, ErrEmptyMessage
	}

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return chat.Turn{}, nil, ErrSessionNotFound
	}
	if st.state != chat.StateIdle {
		s.mu.Unlock()
		return chat.Turn{}, nil, ErrRequestOutstanding
	}

	userTurn := s.appendLocked(st, chat.UserTurn(text, s.now().UTC()))
	st.state = chat.StateAwaitingResponse
	transcript := cloneTurns(st.turns)
	s.mu.Unlock()

	done := make(chan chat.Turn, 1)
	// The exchange outlives the submitting request; it is never cancelled.
	go s.respond(context.WithoutCancel(ctx), sessionID, transcript, done)

	return userTurn, done, nil
}

func (s *Service) respond(ctx context.Context, sessionID string, transcript []chat.Turn, done chan<- chat.Turn) {
	defer close(done)

	reply := s.invoke(ctx, transcript)
	reply.Speaker = chat.SpeakerAssistant

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		log.Printf("[chat] session=%s ended before reply, dropping it", sessionID)
		return
	}
	appended := s.appendLocked(st, reply)
	st.state = chat.StateIdle
	s.mu.Unlock()

	log.Printf("[chat] session=%s appended assistant turn seq=%d idea=%t", sessionID, appended.Sequence, appended.Idea != nil)
	done <- appended
}

func (s *Service) invoke(ctx context.Context, transcript []chat.Turn) (turn chat.Turn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[chat] exchange panicked: %v", r)
			turn = chat.AssistantTurn(interruptedText, nil, s.now().UTC())
		}
	}()
	return s.exchange.Respond(ctx, transcript)
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return st.session, nil
}

// Snapshot returns a copy of the transcript and the request state.
func (s *Service) Snapshot(_ context.Context, sessionID string) (chat.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Snapshot{}, ErrSessionNotFound
	}
	return st.snapshot(), nil
}

// DeleteSession ends a session and discards its transcript.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *Service) appendLocked(st *sessionState, turn chat.Turn) chat.Turn {
	st.lastSeq++
	turn.Sequence = st.lastSeq
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now().UTC()
	}
	if turn.Speaker != chat.SpeakerAssistant {
		turn.Idea = nil
	}
	st.turns = append(st.turns, turn.Clone())
	return turn.Clone()
}

func (st *sessionState) snapshot() chat.Snapshot {
	return chat.Snapshot{
		Session:    st.session,
		State:      st.state,
		Transcript: cloneTurns(st.turns),
	}
}

func cloneTurns(turns []chat.Turn) []chat.Turn {
	out := make([]chat.Turn, len(turns))
	for i, turn := range turns {
		out[i] = turn.Clone()
	}
	return out
}
