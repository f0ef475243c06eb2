package model

import (
	"strings"
	"time"
)

// Booking は会議室の予約を表す構造体です
// 同一会議室・同一日付の予約同士で [StartTime, EndTime) が重なってはいけません
type Booking struct {
	ID           string    `json:"id" db:"id"`
	RoomID       string    `json:"room_id" db:"room_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Date         string    `json:"date" db:"date"`             // "YYYY-MM-DD"
	StartTime    string    `json:"start_time" db:"start_time"` // "HH:MM"
	EndTime      string    `json:"end_time" db:"end_time"`     // "HH:MM"
	Title        string    `json:"title" db:"title"`
	Participants []string  `json:"participants" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// BookingCandidate は新規予約のリクエストです
type BookingCandidate struct {
	RoomID       string   `json:"room_id"`
	UserID       string   `json:"user_id"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
}

// ToBooking は候補から予約レコードを組み立てます
func (c BookingCandidate) ToBooking(id string, createdAt time.Time) Booking {
	return Booking{
		ID:           id,
		RoomID:       c.RoomID,
		UserID:       c.UserID,
		Date:         c.Date,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		Title:        c.Title,
		Participants: c.Participants,
		CreatedAt:    createdAt,
	}
}

// BookingEventType は予約イベントの種類です
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "created"
	BookingEventCancelled BookingEventType = "cancelled"
)

// BookingEvent は予約の作成・取消時に発行されるイベントの構造体
type BookingEvent struct {
	Type      BookingEventType `json:"type"`
	BookingID string           `json:"booking_id"`
	UserID    string           `json:"user_id"`
	RoomID    string           `json:"room_id"`
	Date      string           `json:"date"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewBookingEvent は予約からイベントを作成します
func NewBookingEvent(t BookingEventType, b Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:      t,
		BookingID: b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		CreatedAt: at,
	}
}

// ParseParticipants はカンマ区切りの参加者文字列を分割します
func ParseParticipants(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
