package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/bizspark/backend/internal/config"
	"github.com/zhouzirui/bizspark/backend/internal/handler"
	"github.com/zhouzirui/bizspark/backend/internal/logging"
	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
	"github.com/zhouzirui/bizspark/backend/internal/service/ai"
	"github.com/zhouzirui/bizspark/backend/internal/service/chat"
	"github.com/zhouzirui/bizspark/backend/internal/service/user"
	"github.com/zhouzirui/bizspark/backend/internal/storage/kv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Log, os.Stderr)
	if err != nil {
		log.Printf("warning: failed to open log file: %v", err)
	}
	defer logCloser.Close()

	store, err := newIdentityStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open identity store: %v", err)
	}

	ideaStore := idea.NewMemoryStore(idea.Seed())
	userService := user.NewService(store)

	// Initialize the chat model; without one every exchange falls back
	var chatModel model.BaseChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing without AI functionality - 请检查模型相关环境变量")
			chatModel = nil
		} else {
			log.Printf("AI provider %s initialized successfully", cfg.AI.Provider)
		}
	} else {
		log.Println("模型凭证未配置，跳过 AI 功能初始化")
	}

	exchange, err := ai.NewExchange(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to build idea exchange: %v", err)
	}
	chatService := chat.NewService(exchange)

	router := handler.NewRouter(cfg.Server, ideaStore, chatService, userService)

	startServer(ctx, cfg.Server, router)
}

// newIdentityStore 根据配置选择文件存储或内存存储
func newIdentityStore(cfg config.StoreConfig) (kv.Store, error) {
	if cfg.Path == "" {
		log.Println("STORE_PATH 未配置，用户信息仅保存在内存中")
		return kv.NewMemoryStore(), nil
	}
	return kv.NewFileStore(cfg.Path)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("BizSpark backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
