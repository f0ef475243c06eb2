package main

import (
	"testing"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

func TestParseBookingEvents(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantLen  int
		wantType []model.NotificationType
		wantErr  bool
	}{
		{
			name:    "空のイベント",
			payload: `{"events":[]}`,
			wantLen: 0,
		},
		{
			name: "作成と取消",
			payload: `{"events":[
				{"type":"created","booking_id":"b1","user_id":"u1","room_id":"r1","date":"2024-01-15","start_time":"10:00","end_time":"11:00","created_at":"2024-01-10T12:00:00Z"},
				{"type":"cancelled","booking_id":"b2","user_id":"u2","room_id":"r2","date":"2024-01-15","start_time":"13:00","end_time":"14:00","created_at":"2024-01-10T12:00:00Z"}
			]}`,
			wantLen:  2,
			wantType: []model.NotificationType{model.NotificationTypeBookingCreated, model.NotificationTypeBookingCancelled},
		},
		{
			name:    "不明なイベント種別",
			payload: `{"events":[{"type":"moved","user_id":"u1","room_id":"r1"}]}`,
			wantErr: true,
		},
		{
			name:    "会議室IDがない",
			payload: `{"events":[{"type":"created","user_id":"u1"}]}`,
			wantErr: true,
		},
		{
			name:    "JSONではない",
			payload: "arn:aws:states:task-token",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBookingEvents(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBookingEvents() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			for i, typ := range tt.wantType {
				if got[i].Type != typ {
					t.Errorf("notification %d type = %s, want %s", i, got[i].Type, typ)
				}
				if _, err := got[i].RoomID(); err != nil {
					t.Errorf("notification %d has no room id: %v", i, err)
				}
			}
		})
	}
}
