package idea

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
	"github.com/zhouzirui/bizspark/backend/internal/model/opportunity"
	"github.com/zhouzirui/bizspark/backend/pkg/utils"
)

// Handler 创意目录与机会看板的HTTP处理器
type Handler struct {
	ideas idea.Store
}

// New 创建创意处理器
func New(ideas idea.Store) *Handler {
	return &Handler{
		ideas: ideas,
	}
}

// RegisterRoutes 注册创意相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ideas", h.handleListIdeas)
	r.Get("/ideas/{name}", h.handleGetIdea)
	r.Get("/opportunities", h.handleListOpportunities)
}

type ideaDetail struct {
	Idea      idea.StartupIdea `json:"idea"`
	ScoreBand string           `json:"scoreBand"`
}

// handleListIdeas 列出投资人可浏览的创意
func (h *Handler) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.ideas.List())
}

// handleGetIdea 按名称返回单个创意
func (h *Handler) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	found, ok := h.ideas.FindByName(chi.URLParam(r, "name"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "idea not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ideaDetail{
		Idea:      found,
		ScoreBand: idea.ScoreBand(found.ViabilityScore),
	})
}

// handleListOpportunities 列出工作坊、活动与训练营
func (h *Handler) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, opportunity.List())
}
