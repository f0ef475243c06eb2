package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/common/config"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// MockNotificationRepository はテスト用のモックリポジトリです
type MockNotificationRepository struct {
	createNotificationsCalled bool
	createNotificationsError  error
	notifications             []model.NotificationRecord
}

func (m *MockNotificationRepository) CreateNotifications(ctx context.Context, records []model.NotificationRecord) error {
	m.createNotificationsCalled = true
	m.notifications = records
	return m.createNotificationsError
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID string) ([]model.NotificationRecord, error) {
	return nil, nil
}

// newTestNotificationBatchService はテスト用のNotificationBatchServiceを作成します
func newTestNotificationBatchService(mockNotificationRepo *MockNotificationRepository, mockRoomRepo *MockRoomRepository) *NotificationBatchService {
	return &NotificationBatchService{
		notificationRepo: mockNotificationRepo,
		roomRepo:         mockRoomRepo,
		cfg:              &config.Config{},
	}
}

func bookingNotification(t model.BookingEventType, bookingID, userID, roomID string, at time.Time) model.Notification {
	return model.NewBookingNotification(model.BookingEvent{
		Type:      t,
		BookingID: bookingID,
		UserID:    userID,
		RoomID:    roomID,
		Date:      "2024-01-15",
		StartTime: "10:00",
		EndTime:   "11:00",
		CreatedAt: at,
	})
}

func TestNotificationBatchService_Run(t *testing.T) {
	// X-Rayのセグメントを設定
	ctx, seg := xray.BeginSegment(context.Background(), "TestNotificationBatchService_Run")
	defer seg.Close(nil)

	now := time.Now().UTC()
	tests := []struct {
		name           string
		notifications  []model.Notification
		repoError      error
		wantErr        bool
		wantNameLookup []string
	}{
		{
			name:          "0件の通知を正常に処理",
			notifications: []model.Notification{},
		},
		{
			name: "1件の通知を正常に処理",
			notifications: []model.Notification{
				bookingNotification(model.BookingEventCreated, "b1", "user1", "r1", now),
			},
			wantNameLookup: []string{"r1"},
		},
		{
			name: "同じ会議室の通知は会議室名を1回だけ取得",
			notifications: []model.Notification{
				bookingNotification(model.BookingEventCreated, "b1", "user1", "r1", now),
				bookingNotification(model.BookingEventCancelled, "b2", "user2", "r1", now),
				bookingNotification(model.BookingEventCreated, "b3", "user2", "r2", now),
			},
			wantNameLookup: []string{"r1", "r2"},
		},
		{
			name: "共通通知は会議室名を取得しない",
			notifications: []model.Notification{
				{Type: model.NotificationTypeCommon, Data: map[string]interface{}{"user_id": "user1"}, CreatedAt: now},
			},
		},
		{
			name: "存在しない会議室はエラー",
			notifications: []model.Notification{
				bookingNotification(model.BookingEventCreated, "b1", "user1", "missing", now),
			},
			wantErr:        true,
			wantNameLookup: []string{"missing"},
		},
		{
			name: "保存に失敗した場合はエラー",
			notifications: []model.Notification{
				bookingNotification(model.BookingEventCreated, "b1", "user1", "r1", now),
			},
			repoError:      errors.New("connection refused"),
			wantErr:        true,
			wantNameLookup: []string{"r1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotificationRepo := &MockNotificationRepository{
				createNotificationsError: tt.repoError,
			}
			mockRoomRepo := newMockRoomRepository()

			service := newTestNotificationBatchService(mockNotificationRepo, mockRoomRepo)
			service.SetArgs(tt.notifications)
			err := service.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if len(mockRoomRepo.nameLookups) != len(tt.wantNameLookup) {
				t.Fatalf("GetNameByID calls = %v, want %v", mockRoomRepo.nameLookups, tt.wantNameLookup)
			}
			for i, id := range tt.wantNameLookup {
				if mockRoomRepo.nameLookups[i] != id {
					t.Errorf("GetNameByID call %d = %s, want %s", i, mockRoomRepo.nameLookups[i], id)
				}
			}

			if tt.wantErr {
				return
			}
			if !mockNotificationRepo.createNotificationsCalled {
				t.Error("CreateNotifications was not called")
			}
			if len(mockNotificationRepo.notifications) != len(tt.notifications) {
				t.Errorf("Expected %d notifications, got %d", len(tt.notifications), len(mockNotificationRepo.notifications))
			}
		})
	}
}

func TestNotificationBatchService_Run_RecordContent(t *testing.T) {
	ctx, seg := xray.BeginSegment(context.Background(), "TestNotificationBatchService_Run_RecordContent")
	defer seg.Close(nil)

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	mockNotificationRepo := &MockNotificationRepository{}
	service := newTestNotificationBatchService(mockNotificationRepo, newMockRoomRepository())
	service.SetArgs([]model.Notification{
		bookingNotification(model.BookingEventCancelled, "b1", "user1", "r2", now),
	})

	if err := service.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := mockNotificationRepo.notifications[0]
	if got.UserID != "user1" || got.Type != model.NotificationTypeBookingCancelled {
		t.Errorf("record = %+v", got)
	}
	if got.Title != "予約が取り消されました" {
		t.Errorf("Title = %q", got.Title)
	}
	want := "予約が取り消されました\n会議室: Beta\n日時: 2024-01-15 10:00-11:00"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
}
