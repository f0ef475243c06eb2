package model

import (
	"fmt"
	"time"
)

// NotificationType は通知の種類を表します
type NotificationType string

const (
	// NotificationTypeBookingCreated は予約完了の通知を表します
	NotificationTypeBookingCreated NotificationType = "booking_created"
	// NotificationTypeBookingCancelled は予約取消の通知を表します
	NotificationTypeBookingCancelled NotificationType = "booking_cancelled"
	// NotificationTypeCommon は共通の通知を表します
	NotificationTypeCommon NotificationType = "common"
)

// Notification はイベントIFを受け取るための定義です
// アプリケーションサービス層で利用されます
type Notification struct {
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	Data      interface{}      `json:"data"`
}

// NotificationRecord は通知のドメインモデルです
// データベースに永続化される通知レコードと一致しています
type NotificationRecord struct {
	ID        int              `db:"id"`
	UserID    string           `db:"user_id"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	IsRead    bool             `db:"is_read"`
	Type      NotificationType `db:"type"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// RoomID は通知データに含まれる会議室IDを返します
func (n Notification) RoomID() (string, error) {
	data, ok := n.Data.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid notification data format")
	}
	roomID, ok := data["room_id"].(string)
	if !ok {
		return "", fmt.Errorf("room_id is not a string")
	}
	return roomID, nil
}

// ToNotificationRecord は通知を通知レコードに変換します
func (n Notification) ToNotificationRecord(roomNameMap map[string]string) (*NotificationRecord, error) {
	data, ok := n.Data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid notification data format")
	}

	userID, ok := data["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("user_id is not a string")
	}

	if n.Type != NotificationTypeBookingCreated && n.Type != NotificationTypeBookingCancelled {
		return &NotificationRecord{
			UserID:    userID,
			Title:     "新しい通知が届きました。",
			Message:   "新しい通知です。",
			IsRead:    false,
			Type:      NotificationTypeCommon,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.CreatedAt,
		}, nil
	}

	roomID, _ := data["room_id"].(string)
	roomName, ok := roomNameMap[roomID]
	if !ok {
		return nil, fmt.Errorf("room_id %q not found in roomNameMap", roomID)
	}
	date, _ := data["date"].(string)
	start, _ := data["start_time"].(string)
	end, _ := data["end_time"].(string)

	title := "予約が完了しました"
	if n.Type == NotificationTypeBookingCancelled {
		title = "予約が取り消されました"
	}

	message := fmt.Sprintf(`%s
会議室: %s
日時: %s %s-%s`, title, roomName, date, start, end)

	return &NotificationRecord{
		UserID:    userID,
		Title:     title,
		Message:   message,
		IsRead:    false,
		Type:      n.Type,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.CreatedAt,
	}, nil
}

// NewBookingNotification は予約イベントから通知を作成します
func NewBookingNotification(event BookingEvent) Notification {
	t := NotificationTypeBookingCreated
	if event.Type == BookingEventCancelled {
		t = NotificationTypeBookingCancelled
	}
	return Notification{
		Type:      t,
		CreatedAt: event.CreatedAt,
		Data: map[string]interface{}{
			"booking_id": event.BookingID,
			"user_id":    event.UserID,
			"room_id":    event.RoomID,
			"date":       event.Date,
			"start_time": event.StartTime,
			"end_time":   event.EndTime,
		},
	}
}
