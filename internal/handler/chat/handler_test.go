package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/bizspark/backend/internal/model/chat"
	userModel "github.com/zhouzirui/bizspark/backend/internal/model/user"
	chatservice "github.com/zhouzirui/bizspark/backend/internal/service/chat"
	userservice "github.com/zhouzirui/bizspark/backend/internal/service/user"
	"github.com/zhouzirui/bizspark/backend/internal/storage/kv"
)

type blockingExchange struct {
	release chan struct{}
}

func (b *blockingExchange) Respond(context.Context, []model.Turn) model.Turn {
	<-b.release
	return model.AssistantTurn("Tell me more", nil, time.Now())
}

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service, *userservice.Service, *blockingExchange) {
	t.Helper()
	ex := &blockingExchange{release: make(chan struct{})}
	t.Cleanup(func() {
		select {
		case <-ex.release:
		default:
			close(ex.release)
		}
	})

	chatSvc := chatservice.NewService(ex)
	userSvc := userservice.NewService(kv.NewMemoryStore())
	handler := New(chatSvc, userSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc, userSvc, ex
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, body any) model.Snapshot {
	t.Helper()
	resp := doJSON(r, http.MethodPost, "/sessions", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var snap model.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestCreateSessionGreetsByName(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	snap := createSession(t, r, map[string]string{"greetingName": "Ada"})
	if len(snap.Transcript) != 1 || !strings.HasPrefix(snap.Transcript[0].Text, "Hi Ada!") {
		t.Fatalf("unexpected greeting: %+v", snap.Transcript)
	}
	if snap.State != model.StateIdle {
		t.Fatalf("unexpected state %s", snap.State)
	}
}

func TestCreateSessionUsesSignedInProfile(t *testing.T) {
	r, _, userSvc, _ := setupRouter(t)
	ctx := context.Background()
	if _, err := userSvc.SignIn(ctx, "ada@example.com", "pw", userModel.RoleStudent); err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	if _, err := userSvc.CompleteProfile(ctx, userModel.Profile{Name: "Grace"}); err != nil {
		t.Fatalf("CompleteProfile err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Hi Grace!") {
		t.Fatalf("expected profile greeting, got %s", resp.Body.String())
	}
}

func TestSubmitMessageLifecycle(t *testing.T) {
	r, chatSvc, _, ex := setupRouter(t)
	snap := createSession(t, r, map[string]string{"greetingName": "Ada"})
	path := "/sessions/" + snap.Session.ID + "/messages"

	resp := doJSON(r, http.MethodPost, path, map[string]string{"text": "I love robots"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(r, http.MethodPost, path, map[string]string{"text": "hello?"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 while awaiting, got %d", resp.Code)
	}

	close(ex.release)
	deadline := time.Now().Add(2 * time.Second)
	for {
		current, err := chatSvc.Snapshot(context.Background(), snap.Session.ID)
		if err != nil {
			t.Fatalf("Snapshot err: %v", err)
		}
		if current.State == model.StateIdle {
			if len(current.Transcript) != 3 {
				t.Fatalf("expected greeting + 2 turns, got %d", len(current.Transcript))
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for idle")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp = doJSON(r, http.MethodGet, "/sessions/"+snap.Session.ID, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "Tell me more") {
		t.Fatalf("unexpected snapshot response %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitMessageErrors(t *testing.T) {
	r, _, _, _ := setupRouter(t)
	snap := createSession(t, r, nil)

	resp := doJSON(r, http.MethodPost, "/sessions/"+snap.Session.ID+"/messages", map[string]string{"text": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, "/sessions/missing/messages", map[string]string{"text": "hi"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+snap.Session.ID+"/messages", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rr.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	r, _, _, _ := setupRouter(t)
	snap := createSession(t, r, nil)

	resp := doJSON(r, http.MethodDelete, "/sessions/"+snap.Session.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doJSON(r, http.MethodGet, "/sessions/"+snap.Session.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}
