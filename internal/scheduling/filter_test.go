package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

func testRooms() []model.Room {
	return []model.Room{
		{ID: "room_001", Name: "Alpha", Capacity: 6, Amenities: "Video conferencing, Smart board, Wi-Fi", Price: 500},
		{ID: "room_002", Name: "Beta", Capacity: 4, Amenities: "Projector, flipchart, TV", Price: 350},
		{ID: "room_003", Name: "Gamma", Capacity: 10, Amenities: "Video conferencing, 4K screen", Price: 800},
		{ID: "room_004", Name: "Delta", Capacity: 2, Amenities: "Soundproofing", Price: 250},
		{ID: "room_005", Name: "Hall", Capacity: 40, Price: 1500},
	}
}

func roomIDs(rooms []model.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestCapacityBucketOf(t *testing.T) {
	tests := []struct {
		capacity int
		want     CapacityBucket
	}{
		{0, CapacityUpTo2},
		{1, CapacityUpTo2},
		{2, CapacityUpTo2},
		{3, Capacity3To5},
		{5, Capacity3To5},
		{6, Capacity6To10},
		{10, Capacity6To10},
		{11, CapacityOver10},
		{100, CapacityOver10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CapacityBucketOf(tt.capacity), "capacity %d", tt.capacity)
	}
}

func TestFilterRooms(t *testing.T) {
	date := "2024-01-10"
	bookings := []model.Booking{
		booking("b1", "room_001", date, "09:00", "10:00"),
		booking("b2", "room_003", date, "17:00", "18:00"),
		booking("b3", "room_002", "2024-01-11", "09:00", "10:00"),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "条件なしはそのまま",
			criteria: Criteria{},
			want:     []string{"room_001", "room_002", "room_003", "room_004", "room_005"},
		},
		{
			name:     "設備は大文字小文字を区別しない部分一致",
			criteria: Criteria{Amenities: "VIDEO"},
			want:     []string{"room_001", "room_003"},
		},
		{
			name:     "収容人数は区分のいずれか",
			criteria: Criteria{Capacity: []CapacityBucket{CapacityUpTo2, Capacity6To10}},
			want:     []string{"room_001", "room_003", "room_004"},
		},
		{
			name:     "10名超",
			criteria: Criteria{Capacity: []CapacityBucket{CapacityOver10}},
			want:     []string{"room_005"},
		},
		{
			name:     "その日に予約がある会議室",
			criteria: Criteria{Status: []StatusBucket{StatusBusy}},
			want:     []string{"room_001", "room_003"},
		},
		{
			name:     "その日に予約がない会議室",
			criteria: Criteria{Status: []StatusBucket{StatusFree}},
			want:     []string{"room_002", "room_004", "room_005"},
		},
		{
			name:     "両方の状態",
			criteria: Criteria{Status: []StatusBucket{StatusFree, StatusBusy}},
			want:     []string{"room_001", "room_002", "room_003", "room_004", "room_005"},
		},
		{
			name: "条件の組み合わせ",
			criteria: Criteria{
				Amenities: "video",
				Capacity:  []CapacityBucket{Capacity6To10},
				Status:    []StatusBucket{StatusFree},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterRooms(testRooms(), bookings, date, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, roomIDs(got))
		})
	}
}

func TestFilterRooms_Identity(t *testing.T) {
	rooms := testRooms()
	got, err := FilterRooms(rooms, nil, "2024-01-10", Criteria{})
	require.NoError(t, err)
	assert.Equal(t, rooms, got)

	got, err = FilterRooms(nil, nil, "2024-01-10", Criteria{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

// 条件を組み合わせた結果は、条件ごとに絞り込んだ結果の共通部分と一致する
func TestFilterRooms_CombinedIsIntersection(t *testing.T) {
	date := "2024-01-10"
	bookings := []model.Booking{
		booking("b1", "room_002", date, "09:00", "10:00"),
		booking("b2", "room_004", date, "12:00", "13:00"),
	}
	parts := []Criteria{
		{Amenities: "o"},
		{Capacity: []CapacityBucket{CapacityUpTo2, Capacity3To5}},
		{Status: []StatusBucket{StatusBusy}},
	}
	combined := Criteria{Amenities: parts[0].Amenities, Capacity: parts[1].Capacity, Status: parts[2].Status}

	want := map[string]int{}
	for _, c := range parts {
		got, err := FilterRooms(testRooms(), bookings, date, c)
		require.NoError(t, err)
		for _, id := range roomIDs(got) {
			want[id]++
		}
	}
	var intersection []string
	for _, r := range testRooms() {
		if want[r.ID] == len(parts) {
			intersection = append(intersection, r.ID)
		}
	}

	got, err := FilterRooms(testRooms(), bookings, date, combined)
	require.NoError(t, err)
	assert.Equal(t, intersection, roomIDs(got))
	assert.Equal(t, []string{"room_002", "room_004"}, intersection)
}

func TestFilterRooms_Invalid(t *testing.T) {
	_, err := FilterRooms(testRooms(), nil, "2024-01-10", Criteria{Capacity: []CapacityBucket{"2-4"}})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = FilterRooms(testRooms(), nil, "2024-01-10", Criteria{Status: []StatusBucket{"occupied"}})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = FilterRooms(testRooms(), nil, "", Criteria{Status: []StatusBucket{StatusBusy}})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestRoomStatus(t *testing.T) {
	bookings := []model.Booking{booking("b1", "room_001", "2024-01-10", "17:30", "18:00")}

	assert.Equal(t, StatusBusy, RoomStatus("room_001", "2024-01-10", bookings))
	assert.Equal(t, StatusFree, RoomStatus("room_001", "2024-01-11", bookings))
	assert.Equal(t, StatusFree, RoomStatus("room_002", "2024-01-10", bookings))
}
