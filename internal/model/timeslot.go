package model

// TimeSlot は営業時間内の30分単位の予約枠です
type TimeSlot struct {
	Time    string `json:"time"`    // "HH:MM"
	Display string `json:"display"` // "H:MM"
}

// SlotOccupancy は枠ごとの空き状況です
type SlotOccupancy struct {
	Slot     TimeSlot `json:"slot"`
	IsBooked bool     `json:"is_booked"`
}

// AvailabilityResult は会議室と日付ごとの空き状況です
// 永続化はせず、予約・会議室・日付が変わるたびに再計算されます
type AvailabilityResult struct {
	RoomID    string          `json:"room_id"`
	Date      string          `json:"date"`
	Slots     []SlotOccupancy `json:"slots"`
	FreeSlots []TimeSlot      `json:"free_slots"`
}

// BookingStats は管理画面の統計タブで表示する集計値です
type BookingStats struct {
	TotalBookings    int    `json:"total_bookings"`
	TodayBookings    int    `json:"today_bookings"`
	UpcomingBookings int    `json:"upcoming_bookings"`
	MostBookedRoom   string `json:"most_booked_room"`
}
