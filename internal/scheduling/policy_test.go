package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

func TestValidateCreate(t *testing.T) {
	existing := []model.Booking{booking("b1", "R", "2024-01-10", "10:00", "11:00")}

	tests := []struct {
		name      string
		candidate model.BookingCandidate
		want      error
	}{
		{name: "重なりあり", candidate: candidate("R", "2024-01-10", "10:30", "11:30"), want: ErrSlotConflict},
		{name: "連続する予約", candidate: candidate("R", "2024-01-10", "11:00", "12:00"), want: nil},
		{name: "開始と終了が同じ", candidate: candidate("R", "2024-01-10", "09:00", "09:00"), want: ErrInvalidInterval},
		{name: "開始が終了より後", candidate: candidate("R", "2024-01-10", "12:00", "11:00"), want: ErrInvalidInterval},
		{
			name:      "タイトルなし",
			candidate: model.BookingCandidate{RoomID: "R", Date: "2024-01-10", StartTime: "10:30", EndTime: "11:30", Title: "  "},
			want:      ErrIncompleteRequest,
		},
		{
			name:      "会議室なし",
			candidate: model.BookingCandidate{Date: "2024-01-10", StartTime: "09:00", EndTime: "09:00", Title: "x"},
			want:      ErrIncompleteRequest,
		},
		{name: "時刻の形式不正", candidate: candidate("R", "2024-01-10", "9:00", "10:00"), want: ErrMalformedInput},
		{name: "日付の形式不正", candidate: candidate("R", "10/01/2024", "09:00", "10:00"), want: ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.candidate, existing)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			_, ok := ReasonOf(err)
			assert.True(t, ok, "validation failures are returned as *Rejection")
		})
	}
}

func TestValidateCreate_IncompleteListsFields(t *testing.T) {
	err := ValidateCreate(model.BookingCandidate{StartTime: "10:00"}, nil)
	assert.ErrorIs(t, err, ErrIncompleteRequest)
	assert.EqualError(t, err, "incomplete request: missing room, date, end, title")
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	owner := &model.User{ID: "user_001", Role: model.RoleUser}
	other := &model.User{ID: "user_002", Role: model.RoleUser}
	manager := &model.User{ID: "mgr_001", Role: model.RoleManager}
	admin := &model.User{ID: "admin_001", Role: model.RoleAdmin}

	tomorrow := booking("b1", "R", "2024-01-11", "09:00", "10:00")
	startedToday := booking("b2", "R", "2024-01-10", "11:30", "13:00")
	laterToday := booking("b3", "R", "2024-01-10", "12:30", "13:00")
	startsNow := booking("b4", "R", "2024-01-10", "12:00", "13:00")
	past := booking("b5", "R", "2024-01-09", "09:00", "10:00")

	tests := []struct {
		name      string
		b         model.Booking
		requester *model.User
		want      bool
	}{
		{name: "本人・翌日の予約", b: tomorrow, requester: owner, want: true},
		{name: "本人・今日これから", b: laterToday, requester: owner, want: true},
		{name: "本人・開始済み", b: startedToday, requester: owner, want: false},
		{name: "本人・開始時刻ちょうど", b: startsNow, requester: owner, want: false},
		{name: "本人・過去", b: past, requester: owner, want: false},
		{name: "他人", b: tomorrow, requester: other, want: false},
		{name: "マネージャー・開始済み", b: startedToday, requester: manager, want: true},
		{name: "マネージャー・過去", b: past, requester: manager, want: true},
		{name: "管理者", b: startedToday, requester: admin, want: true},
		{name: "未ログイン", b: tomorrow, requester: nil, want: false},
		{name: "本人・日付不正", b: booking("b6", "R", "tomorrow", "09:00", "10:00"), requester: owner, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCancel(tt.b, tt.requester, now))

			err := AuthorizeCancel(tt.b, tt.requester, now)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}
