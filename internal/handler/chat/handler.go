package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/bizspark/backend/internal/model/chat"
	chatService "github.com/zhouzirui/bizspark/backend/internal/service/chat"
	userService "github.com/zhouzirui/bizspark/backend/internal/service/user"
	"github.com/zhouzirui/bizspark/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	userSvc *userService.Service
}

// New 创建聊天处理器；userSvc 可为空，此时问候语只使用请求中的名字。
func New(chatSvc *chatService.Service, userSvc *userService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		userSvc: userSvc,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
	r.Post("/sessions/{sessionID}/messages", h.handleSubmitMessage)
}

// submitResponse 提交消息后的即时响应，助手回复需通过轮询、SSE 或 WebSocket 获取
type submitResponse struct {
	Turn  chat.Turn  `json:"turn"`
	State chat.State `json:"state"`
}

// handleCreateSession 创建会话并写入问候语
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GreetingName string `json:"greetingName"`
	}

	// 请求体可省略
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(payload.GreetingName)
	if name == "" && h.userSvc != nil {
		if u, err := h.userSvc.Current(r.Context()); err == nil {
			name = u.Profile.Name
		}
	}
	if name == "" {
		name = "there"
	}

	snapshot, err := h.chatSvc.CreateSession(r.Context(), userService.Greeting(name))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, snapshot)
}

// handleGetSession 返回会话记录与请求状态
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.chatSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

// handleDeleteSession 结束会话并丢弃记录
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusNoContent, nil)
}

// handleSubmitMessage 追加用户消息并在后台生成回复
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, _, err := h.chatSvc.SubmitUserMessage(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, submitResponse{
		Turn:  turn,
		State: chat.StateAwaitingResponse,
	})
}

// StatusFor 将聊天服务错误映射为 HTTP 状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrRequestOutstanding):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
