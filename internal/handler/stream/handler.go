package stream

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/zhouzirui/bizspark/backend/internal/model/chat"
	chatService "github.com/zhouzirui/bizspark/backend/internal/service/chat"
	"github.com/zhouzirui/bizspark/backend/pkg/utils"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Handler delivers a submitted message and its reply via Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string     `json:"event"`
	SessionID string     `json:"sessionId,omitempty"`
	Turn      *chat.Turn `json:"turn,omitempty"`
	State     chat.State `json:"state,omitempty"`
	Finished  bool       `json:"finished,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// HandleStreamRequest submits userMessage to the session and streams the user
// turn followed by the assistant turn. Errors returned before any event is
// written leave the response untouched so the caller can answer with a status.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	userTurn, replies, err := h.chatSvc.SubmitUserMessage(ctx, sessionID, userMessage)
	if err != nil {
		return err
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	utils.SendSSEEvent(w, flusher, "user", StreamResponse{
		Event:     "user",
		SessionID: sessionID,
		Turn:      &userTurn,
		State:     chat.StateAwaitingResponse,
	})

	select {
	case <-ctx.Done():
		// The reply still lands in the transcript; the client can fetch it later.
		log.Printf("[stream] client left before reply session=%s", sessionID)
		return nil
	case reply, ok := <-replies:
		if !ok {
			utils.SendSSEEvent(w, flusher, "error", StreamResponse{
				Event:     "error",
				SessionID: sessionID,
				Error:     chatService.ErrSessionNotFound.Error(),
			})
			return nil
		}
		utils.SendSSEEvent(w, flusher, "assistant", StreamResponse{
			Event:     "assistant",
			SessionID: sessionID,
			Turn:      &reply,
			State:     chat.StateIdle,
		})
	}

	utils.SendSSEEvent(w, flusher, "end", StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}
