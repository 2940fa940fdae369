package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/bizspark/backend/internal/model/user"
	userService "github.com/zhouzirui/bizspark/backend/internal/service/user"
	"github.com/zhouzirui/bizspark/backend/pkg/utils"
)

// Handler 用户身份的HTTP处理器
type Handler struct {
	users *userService.Service
}

// New 创建用户处理器
func New(users *userService.Service) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes 注册用户相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth", h.handleSignIn)
	r.Get("/user", h.handleCurrent)
	r.Put("/user/profile", h.handleCompleteProfile)
	r.Post("/user/logout", h.handleLogout)
	r.Get("/user/last-email", h.handleLastEmail)
}

// identityResponse 当前身份及客户端应进入的视图
type identityResponse struct {
	User    *model.User `json:"user"`
	Landing string      `json:"landing"`
}

func newIdentity(u *model.User) identityResponse {
	return identityResponse{User: u, Landing: userService.Landing(u)}
}

// handleSignIn 模拟登录并保存新用户
func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string     `json:"email"`
		Password string     `json:"password"`
		Role     model.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.SignIn(r.Context(), payload.Email, payload.Password, payload.Role)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, newIdentity(&u))
}

// handleCurrent 返回已登录用户；未登录时 user 为空
func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Current(r.Context())
	if errors.Is(err, userService.ErrNotSignedIn) {
		utils.RespondJSON(w, http.StatusOK, newIdentity(nil))
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, newIdentity(&u))
}

// handleCompleteProfile 保存资料并标记完成
func (h *Handler) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.CompleteProfile(r.Context(), profile)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, newIdentity(&u))
}

// handleLogout 退出登录并记住邮箱
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusNoContent, nil)
}

// handleLastEmail 返回上次退出的邮箱，用于预填登录表单
func (h *Handler) handleLastEmail(w http.ResponseWriter, r *http.Request) {
	email, err := h.users.LastEmail(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"email": email})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, userService.ErrMissingCredentials), errors.Is(err, userService.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, userService.ErrNotSignedIn):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
