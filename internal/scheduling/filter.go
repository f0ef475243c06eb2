package scheduling

import (
	"slices"
	"strings"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// CapacityBucket は収容人数の区分です
type CapacityBucket string

const (
	CapacityUpTo2  CapacityBucket = "1-2"
	Capacity3To5   CapacityBucket = "3-5"
	Capacity6To10  CapacityBucket = "6-10"
	CapacityOver10 CapacityBucket = "10+"
)

// CapacityBucketOf は収容人数が属する区分を返します
// 区分は整数全体を隙間なく重複なく分割します
func CapacityBucketOf(capacity int) CapacityBucket {
	switch {
	case capacity <= 2:
		return CapacityUpTo2
	case capacity <= 5:
		return Capacity3To5
	case capacity <= 10:
		return Capacity6To10
	default:
		return CapacityOver10
	}
}

// StatusBucket は指定日の会議室の状態です
type StatusBucket string

const (
	StatusFree StatusBucket = "free"
	StatusBusy StatusBucket = "busy"
)

// Criteria は会議室の絞り込み条件です
// 指定された条件はすべて AND で組み合わせ、空の条件は絞り込みません
type Criteria struct {
	Amenities string
	Capacity  []CapacityBucket
	Status    []StatusBucket
}

// IsEmpty は絞り込み条件が一つも指定されていないかを返します
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Amenities) == "" && len(c.Capacity) == 0 && len(c.Status) == 0
}

// Validate は未知の区分が含まれていないかを検証します
func (c Criteria) Validate() error {
	for _, b := range c.Capacity {
		switch b {
		case CapacityUpTo2, Capacity3To5, Capacity6To10, CapacityOver10:
		default:
			return reject(ReasonMalformedInput, "unknown capacity bucket %q", b)
		}
	}
	for _, s := range c.Status {
		switch s {
		case StatusFree, StatusBusy:
		default:
			return reject(ReasonMalformedInput, "unknown status bucket %q", s)
		}
	}
	return nil
}

// IsRoomBusyOnDate は会議室にその日の予約が1件でもあるかを返します
// 枠単位の Occupancy とは別物で、日付単位の判定です
func IsRoomBusyOnDate(roomID, date string, bookings []model.Booking) bool {
	return slices.ContainsFunc(bookings, func(b model.Booking) bool {
		return b.RoomID == roomID && b.Date == date
	})
}

// RoomStatus は会議室の日付単位の状態を返します
func RoomStatus(roomID, date string, bookings []model.Booking) StatusBucket {
	if IsRoomBusyOnDate(roomID, date, bookings) {
		return StatusBusy
	}
	return StatusFree
}

// FilterRooms は条件に合う会議室を入力順のまま返します
func FilterRooms(rooms []model.Room, bookings []model.Booking, date string, c Criteria) ([]model.Room, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Status) > 0 {
		if _, err := parseDate(date); err != nil {
			return nil, err
		}
	}
	if rooms == nil {
		return nil, nil
	}

	amenities := strings.ToLower(strings.TrimSpace(c.Amenities))
	out := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if amenities != "" && !strings.Contains(strings.ToLower(room.Amenities), amenities) {
			continue
		}
		if len(c.Capacity) > 0 && !slices.Contains(c.Capacity, CapacityBucketOf(room.Capacity)) {
			continue
		}
		if len(c.Status) > 0 && !slices.Contains(c.Status, RoomStatus(room.ID, date, bookings)) {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}
