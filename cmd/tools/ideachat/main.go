package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/bizspark/backend/internal/config"
	"github.com/zhouzirui/bizspark/backend/internal/logging"
	chatmodel "github.com/zhouzirui/bizspark/backend/internal/model/chat"
	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
	"github.com/zhouzirui/bizspark/backend/internal/service/ai"
	"github.com/zhouzirui/bizspark/backend/internal/service/chat"
	"github.com/zhouzirui/bizspark/backend/internal/service/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	name := flag.String("name", "there", "问候语中使用的名字")
	timeout := flag.Duration("timeout", 60*time.Second, "单次回复的等待时间")
	verbose := flag.Bool("v", false, "输出服务日志")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	cfg.Log.File = ""
	if _, err := logging.Setup(cfg.Log, logOut); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	ctx := context.Background()
	if !cfg.AI.Enabled() {
		fmt.Fprintln(os.Stderr, "模型凭证未配置，所有回复都会使用兜底文案")
	}

	exchange, err := newExchange(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("创建创意生成器失败: %v", err)
	}

	svc := chat.NewService(exchange)
	snap, err := svc.CreateSession(ctx, user.Greeting(*name))
	if err != nil {
		log.Fatalf("创建会话失败: %v", err)
	}
	for _, turn := range snap.Transcript {
		printTurn(os.Stdout, turn)
	}

	if err := run(ctx, svc, snap.Session.ID, os.Stdin, os.Stdout, *timeout); err != nil {
		log.Fatalf("会话异常结束: %v", err)
	}
}

func newExchange(ctx context.Context, cfg config.AIConfig) (*ai.Exchange, error) {
	if !cfg.Enabled() {
		return ai.NewExchange(ctx, nil)
	}
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}
	return ai.NewExchange(ctx, chatModel)
}

// run 逐行读取输入并打印回复，输入 /quit 或 EOF 时结束会话
func run(ctx context.Context, svc *chat.Service, sessionID string, in io.Reader, out io.Writer, timeout time.Duration) error {
	defer func() {
		_ = svc.DeleteSession(ctx, sessionID)
	}()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/transcript":
			snap, err := svc.Snapshot(ctx, sessionID)
			if err != nil {
				return err
			}
			for _, turn := range snap.Transcript {
				printTurn(out, turn)
			}
			continue
		}

		_, replies, err := svc.SubmitUserMessage(ctx, sessionID, line)
		if err != nil {
			if errors.Is(err, chat.ErrRequestOutstanding) {
				fmt.Fprintln(out, "(still thinking, please wait)")
				continue
			}
			return err
		}

		select {
		case reply, ok := <-replies:
			if !ok {
				return chat.ErrSessionNotFound
			}
			printTurn(out, reply)
		case <-time.After(timeout):
			fmt.Fprintln(out, "(no reply yet, use /transcript to check later)")
		}
	}
}

func printTurn(out io.Writer, turn chatmodel.Turn) {
	fmt.Fprintf(out, "[%d] %s: %s\n", turn.Sequence, turn.Speaker, turn.Text)
	if turn.Idea != nil {
		fmt.Fprintln(out, idea.Card(*turn.Idea))
	}
}
