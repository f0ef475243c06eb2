package scheduling

import (
	"cmp"
	"slices"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

const unknownRoomName = "unknown room"

// Stats は予約の統計を計算します
// today は "YYYY-MM-DD" で、日付の文字列比較で今日・今後を判定します
func Stats(bookings []model.Booking, rooms []model.Room, today string) model.BookingStats {
	stats := model.BookingStats{TotalBookings: len(bookings)}

	counts := make(map[string]int)
	var order []string
	for _, b := range bookings {
		if b.Date == today {
			stats.TodayBookings++
		}
		if b.Date >= today {
			stats.UpcomingBookings++
		}
		if _, seen := counts[b.RoomID]; !seen {
			order = append(order, b.RoomID)
		}
		counts[b.RoomID]++
	}

	best, top := "", 0
	for _, id := range order {
		if counts[id] > top {
			best, top = id, counts[id]
		}
	}
	if best == "" {
		return stats
	}

	stats.MostBookedRoom = unknownRoomName
	if i := slices.IndexFunc(rooms, func(r model.Room) bool { return r.ID == best }); i >= 0 {
		stats.MostBookedRoom = rooms[i].Name
	}
	return stats
}

// MyBookingsScope はマイ予約一覧の表示範囲です
type MyBookingsScope string

const (
	ScopeAll      MyBookingsScope = "all"
	ScopeToday    MyBookingsScope = "today"
	ScopeUpcoming MyBookingsScope = "upcoming"
	ScopePast     MyBookingsScope = "past"
)

// FilterMine は userID の予約を日付・開始時刻の昇順で返します
func FilterMine(bookings []model.Booking, userID string, scope MyBookingsScope, today string) ([]model.Booking, error) {
	var keep func(model.Booking) bool
	switch scope {
	case ScopeAll, "":
		keep = func(model.Booking) bool { return true }
	case ScopeToday:
		keep = func(b model.Booking) bool { return b.Date == today }
	case ScopeUpcoming:
		keep = func(b model.Booking) bool { return b.Date >= today }
	case ScopePast:
		keep = func(b model.Booking) bool { return b.Date < today }
	default:
		return nil, reject(ReasonMalformedInput, "unknown scope %q", scope)
	}

	var out []model.Booking
	for _, b := range bookings {
		if b.UserID == userID && keep(b) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Booking) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.StartTime, b.StartTime))
	})
	return out, nil
}
