package scheduling

import (
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// ValidateCreate は新規予約を検証します
// 受け付けられる場合は nil を返し、永続化は呼び出し側が行います
// 拒否理由は IncompleteRequest、InvalidInterval、SlotConflict の順に判定します
func ValidateCreate(candidate model.BookingCandidate, existing []model.Booking) error {
	if missing := missingFields(candidate); len(missing) > 0 {
		return reject(ReasonIncompleteRequest, "missing %s", strings.Join(missing, ", "))
	}
	if _, err := parseDate(candidate.Date); err != nil {
		return err
	}
	want, err := parseInterval(candidate.StartTime, candidate.EndTime)
	if err != nil {
		return err
	}
	if want.start >= want.end {
		return reject(ReasonInvalidInterval, "start %s is not before end %s", candidate.StartTime, candidate.EndTime)
	}

	conflict, err := firstConflict(candidate, existing)
	if err != nil {
		return err
	}
	if conflict != nil {
		return reject(ReasonSlotConflict, "room %s is booked %s-%s on %s",
			conflict.RoomID, conflict.StartTime, conflict.EndTime, conflict.Date)
	}
	return nil
}

func missingFields(c model.BookingCandidate) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"room", c.RoomID},
		{"date", c.Date},
		{"start", c.StartTime},
		{"end", c.EndTime},
		{"title", c.Title},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// CanCancel は requester が予約を取り消せるかを返します
// 予約者本人は開始時刻より前に限り取り消せます
func CanCancel(b model.Booking, requester *model.User, now time.Time) bool {
	if requester == nil {
		return false
	}
	if Can(requester.Role, ActionCancelAnyBooking) {
		return true
	}
	if requester.ID != b.UserID || !Can(requester.Role, ActionCancelOwnBooking) {
		return false
	}
	start, err := startOf(b.Date, b.StartTime, now.Location())
	if err != nil {
		return false
	}
	return now.Before(start)
}

// AuthorizeCancel は CanCancel が false の場合に Unauthorized を返します
func AuthorizeCancel(b model.Booking, requester *model.User, now time.Time) error {
	if CanCancel(b, requester, now) {
		return nil
	}
	if requester != nil && requester.ID == b.UserID {
		return reject(ReasonUnauthorized, "booking %s has already started", b.ID)
	}
	return reject(ReasonUnauthorized, "booking %s belongs to another user", b.ID)
}
