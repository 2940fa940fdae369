package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/bizspark/backend/internal/config"
	"github.com/zhouzirui/bizspark/backend/internal/handler/chat"
	ideaHandler "github.com/zhouzirui/bizspark/backend/internal/handler/idea"
	"github.com/zhouzirui/bizspark/backend/internal/handler/stream"
	userHandler "github.com/zhouzirui/bizspark/backend/internal/handler/user"
	"github.com/zhouzirui/bizspark/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/bizspark/backend/internal/middleware"
	ideaModel "github.com/zhouzirui/bizspark/backend/internal/model/idea"
	chatService "github.com/zhouzirui/bizspark/backend/internal/service/chat"
	userService "github.com/zhouzirui/bizspark/backend/internal/service/user"
	"github.com/zhouzirui/bizspark/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(serverCfg config.ServerConfig, ideas ideaModel.Store, chatSvc *chatService.Service, userSvc *userService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(serverCfg.AllowedOrigin))

	ideaH := ideaHandler.New(ideas)
	chatH := chat.New(chatSvc, userSvc)
	userH := userHandler.New(userSvc)
	streamH := stream.New(chatSvc)
	wsH := ws.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		ideaH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
		userH.RegisterRoutes(api)
		wsH.RegisterRoutes(api)

		// Submit a message and stream the resulting turns
		api.Get("/sessions/{sessionID}/stream", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamH.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
				if errors.Is(err, stream.ErrStreamingUnsupported) {
					utils.RespondError(w, http.StatusInternalServerError, err.Error())
					return
				}
				utils.RespondError(w, chat.StatusFor(err), err.Error())
			}
		})
	})

	return r
}
