package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/common/config"
	"github.com/uma-arai/sbcntr-roombook/internal/common/utils"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
	"github.com/uma-arai/sbcntr-roombook/internal/service/batch"
)

const (
	projectName = "sbcntr-roombook-notification"
)

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "バッチ処理のタイムアウト時間")
	flag.Parse()

	// 最後の引数として予約イベントのJSONを受け取る
	// ENV=LOCALで引数がない場合は空のイベントとして扱う
	payload := `{"events":[]}`
	if flag.NArg() > 0 {
		payload = flag.Arg(flag.NArg() - 1)
	} else if os.Getenv("ENV") != "LOCAL" {
		log.Fatalf("Task token is required")
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(payload)
	if err != nil {
		log.Fatalf("Failed to load config: %v\nStack trace:\n%s", err, debug.Stack())
	}

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000", // X-Rayデーモンのアドレス
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Printf("Failed to configure X-Ray: %v", err)
			// X-Ray設定失敗時はデフォルトの設定を使用
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				log.Fatalf("Failed to configure default X-Ray settings: %v", configErr)
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	// イベントから通知データを生成
	notifications, err := parseBookingEvents(payload)
	if err != nil {
		log.Fatalf("Failed to generate notifications: %v", err)
	}

	// 通知バッチサービスを作成
	service, err := batch.NewNotificationBatchService(cfg)
	if err != nil {
		log.Fatalf("Failed to create notification batch service: %v", err)
	}
	defer service.Close()
	service.SetArgs(notifications)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("event_count", len(notifications)); err != nil {
			log.Printf("Failed to add event_count metadata: %v", err)
		}
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			log.Printf("Failed to add timeout metadata: %v", err)
		}
	}

	// シグナルハンドリング
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// バッチ処理の実行
	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, "notification batch", *timeout, service.Run)
	}()

	// シグナルを待機
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Printf("Batch process failed: %v", err)
			os.Exit(1)
		}
		log.Println("Batch process completed successfully")
	}
}

// parseBookingEvents は予約イベントのJSONから通知データを生成します
func parseBookingEvents(payload string) ([]model.Notification, error) {
	var input struct {
		Events []model.BookingEvent `json:"events"`
	}
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		return nil, fmt.Errorf("failed to parse booking events: %w", err)
	}

	notifications := make([]model.Notification, 0, len(input.Events))
	for i, event := range input.Events {
		switch event.Type {
		case model.BookingEventCreated, model.BookingEventCancelled:
		default:
			return nil, fmt.Errorf("event %d: unknown booking event type %q", i, event.Type)
		}
		if event.RoomID == "" || event.UserID == "" {
			return nil, fmt.Errorf("event %d: room_id and user_id are required", i)
		}
		notifications = append(notifications, model.NewBookingNotification(event))
	}
	return notifications, nil
}
