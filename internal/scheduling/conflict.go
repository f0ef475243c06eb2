package scheduling

import (
	"time"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// Occupancy は枠ごとに予約で埋まっているかを判定します
// 枠の時刻 T は start <= T < end となる予約があれば埋まっています
func Occupancy(bookings []model.Booking, grid []model.TimeSlot) ([]model.SlotOccupancy, error) {
	intervals := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := parseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	out := make([]model.SlotOccupancy, 0, len(grid))
	for _, slot := range grid {
		minute, err := parseTimeOfDay(slot.Time)
		if err != nil {
			return nil, err
		}
		booked := false
		for _, iv := range intervals {
			if iv.contains(minute) {
				booked = true
				break
			}
		}
		out = append(out, model.SlotOccupancy{Slot: slot, IsBooked: booked})
	}
	return out, nil
}

// Availability は会議室と日付の空き状況を計算します
// bookings に他の会議室や他の日付の予約が含まれていても無視します
func Availability(roomID, date string, bookings []model.Booking, grid []model.TimeSlot) (*model.AvailabilityResult, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	occupancy, err := Occupancy(bookingsFor(roomID, date, bookings), grid)
	if err != nil {
		return nil, err
	}

	free := make([]model.TimeSlot, 0, len(occupancy))
	for _, o := range occupancy {
		if !o.IsBooked {
			free = append(free, o.Slot)
		}
	}

	return &model.AvailabilityResult{
		RoomID:    roomID,
		Date:      date,
		Slots:     occupancy,
		FreeSlots: free,
	}, nil
}

// HasConflict は候補が同じ会議室・同じ日付の既存予約と重なるかを判定します
// 終了時刻と開始時刻が一致するだけなら重なりとはみなしません
func HasConflict(candidate model.BookingCandidate, existing []model.Booking) (bool, error) {
	b, err := firstConflict(candidate, existing)
	return b != nil, err
}

func firstConflict(candidate model.BookingCandidate, existing []model.Booking) (*model.Booking, error) {
	want, err := parseInterval(candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		b := &existing[i]
		if b.RoomID != candidate.RoomID || b.Date != candidate.Date {
			continue
		}
		got, err := parseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		if got.overlaps(want) {
			return b, nil
		}
	}
	return nil, nil
}

func bookingsFor(roomID, date string, bookings []model.Booking) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if b.RoomID == roomID && b.Date == date {
			out = append(out, b)
		}
	}
	return out
}

// BookingPhase は表示用の予約の進行状態です
type BookingPhase string

const (
	PhasePast     BookingPhase = "past"
	PhaseActive   BookingPhase = "active"
	PhaseUpcoming BookingPhase = "upcoming"
)

// Phase は now を基準に予約が終了済み・進行中・これからのどれかを返します
// 重複判定には使いません
func Phase(b model.Booking, now time.Time) (BookingPhase, error) {
	start, err := startOf(b.Date, b.StartTime, now.Location())
	if err != nil {
		return "", err
	}
	end, err := startOf(b.Date, b.EndTime, now.Location())
	if err != nil {
		return "", err
	}
	switch {
	case now.Before(start):
		return PhaseUpcoming, nil
	case now.Before(end):
		return PhaseActive, nil
	default:
		return PhasePast, nil
	}
}
