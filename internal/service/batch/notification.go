package batch

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/common/config"
	"github.com/uma-arai/sbcntr-roombook/internal/common/database"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
	"github.com/uma-arai/sbcntr-roombook/internal/repository"
)

// NotificationBatchService は予約イベントを通知レコードとして保存するバッチ処理を担当します
type NotificationBatchService struct {
	args             []model.Notification
	db               *database.DB
	notificationRepo repository.NotificationRepository
	roomRepo         repository.RoomRepository
	cfg              *config.Config
}

// NewNotificationBatchService は新しいNotificationBatchServiceを作成します
func NewNotificationBatchService(cfg *config.Config) (*NotificationBatchService, error) {
	db, err := database.NewDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	// database.DBをrepository.DBに変換
	repoDb := &repository.DB{DB: db.DB}

	return &NotificationBatchService{
		db:               db,
		notificationRepo: repository.NewNotificationRepository(repoDb),
		roomRepo:         repository.NewRoomRepository(repoDb),
		cfg:              cfg,
	}, nil
}

// Close は終了処理を行います
func (s *NotificationBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetArgs は通知バッチ処理の引数を設定します
func (s *NotificationBatchService) SetArgs(args []model.Notification) {
	s.args = args
}

// Run は通知バッチ処理を実行します
func (s *NotificationBatchService) Run(ctx context.Context) error {
	// X-Rayセグメントの作成
	ctx, seg := xray.BeginSubsegment(ctx, "NotificationBatchService.Run")
	defer seg.Close(nil)

	notifications := s.args
	log.Printf("Starting notification batch process for %d notifications...", len(notifications))

	if err := seg.AddMetadata("notification_count", len(notifications)); err != nil {
		log.Printf("Failed to add notification_count metadata: %v", err)
	}

	startTime := time.Now()

	roomNameMap, err := s.getRoomNameMap(ctx, notifications)
	if err != nil {
		seg.Close(err)
		return err
	}

	records := make([]model.NotificationRecord, len(notifications))
	for i, notification := range notifications {
		record, err := notification.ToNotificationRecord(roomNameMap)
		if err != nil {
			seg.Close(err)
			return err
		}
		records[i] = *record
	}

	if err := s.notificationRepo.CreateNotifications(ctx, records); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	duration := time.Since(startTime)
	if err := seg.AddMetadata("duration", duration.String()); err != nil {
		log.Printf("Failed to add duration metadata: %v", err)
	}
	if err := seg.AddMetadata("room_count", len(roomNameMap)); err != nil {
		log.Printf("Failed to add room_count metadata: %v", err)
	}

	log.Printf("Notification batch process completed successfully. Duration: %v", duration)
	return nil
}

// 通知データに含まれる会議室IDから会議室名を取得する
// N+1とならないように先に重複がない会議室IDを集めておく
// 予約以外の通知は会議室IDを持たないため対象外とする
func (s *NotificationBatchService) getRoomNameMap(ctx context.Context, notifications []model.Notification) (map[string]string, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "NotificationBatchService.getRoomNameMap")
	defer seg.Close(nil)

	roomIDs := make([]string, 0)
	for _, notification := range notifications {
		if notification.Type != model.NotificationTypeBookingCreated &&
			notification.Type != model.NotificationTypeBookingCancelled {
			continue
		}
		roomID, err := notification.RoomID()
		if err != nil {
			seg.Close(err)
			return nil, err
		}
		if slices.Contains(roomIDs, roomID) {
			continue
		}
		roomIDs = append(roomIDs, roomID)
	}

	if err := seg.AddMetadata("unique_room_count", len(roomIDs)); err != nil {
		log.Printf("Failed to add unique_room_count metadata: %v", err)
	}

	roomNameMap := make(map[string]string, len(roomIDs))
	for _, roomID := range roomIDs {
		name, err := s.roomRepo.GetNameByID(ctx, roomID)
		if err != nil {
			seg.Close(err)
			return nil, fmt.Errorf("failed to get name of room %s: %w", roomID, err)
		}
		roomNameMap[roomID] = name
	}

	return roomNameMap, nil
}
