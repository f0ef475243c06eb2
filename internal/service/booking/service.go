package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
	"github.com/uma-arai/sbcntr-roombook/internal/repository"
	"github.com/uma-arai/sbcntr-roombook/internal/scheduling"
)

// BookingService は会議室予約のアプリケーションサービスです
// 永続化層から取得したスナップショットをスケジューリングエンジンに渡し、結果を返します
type BookingService struct {
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	clock       scheduling.Clock
}

// NewBookingService は新しいBookingServiceを作成します
func NewBookingService(db *repository.DB, clock scheduling.Clock) *BookingService {
	return NewBookingServiceWithRepositories(
		repository.NewRoomRepository(db),
		repository.NewBookingRepository(db),
		repository.NewUserRepository(db),
		clock,
	)
}

// NewBookingServiceWithRepositories はリポジトリを指定してBookingServiceを作成します
func NewBookingServiceWithRepositories(
	roomRepo repository.RoomRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	clock scheduling.Clock,
) *BookingService {
	return &BookingService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

// CurrentUser はユーザーを取得します
// ロールの変更は次回の取得から反映されます
func (s *BookingService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Availability は会議室の指定日の空き状況を返します
func (s *BookingService) Availability(ctx context.Context, roomID, date string) (*model.AvailabilityResult, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingService.Availability")
	defer seg.Close(nil)

	bookings, err := s.bookingRepo.ListByRoomAndDate(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for room %s on %s: %w", roomID, date, err)
	}
	return scheduling.Availability(roomID, date, bookings, scheduling.SlotGrid())
}

// SearchRooms は指定日の予約状況を踏まえて会議室を絞り込みます
// date が空の場合は今日を使います
func (s *BookingService) SearchRooms(ctx context.Context, date string, criteria scheduling.Criteria) ([]model.Room, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingService.SearchRooms")
	defer seg.Close(nil)

	if date == "" {
		date = scheduling.Today(s.clock.Now())
	}

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	var bookings []model.Booking
	if len(criteria.Status) > 0 {
		if bookings, err = s.bookingRepo.ListByDate(ctx, date); err != nil {
			return nil, fmt.Errorf("failed to list bookings on %s: %w", date, err)
		}
	}

	filtered, err := scheduling.FilterRooms(rooms, bookings, date, criteria)
	if err != nil {
		return nil, err
	}
	log.Printf("Filtered rooms on %s: %d of %d", date, len(filtered), len(rooms))
	return filtered, nil
}

// CreateBooking は予約を検証して作成します
// 事前検証に加え、永続化層のトランザクション内でも同じ検証を行います
func (s *BookingService) CreateBooking(ctx context.Context, requester *model.User, candidate model.BookingCandidate) (*model.Booking, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingService.CreateBooking")
	defer seg.Close(nil)

	if requester == nil {
		return nil, &scheduling.Rejection{Reason: scheduling.ReasonUnauthorized, Detail: "login required to book a room"}
	}
	candidate.UserID = requester.ID
	candidate.Title = strings.TrimSpace(candidate.Title)

	if candidate.RoomID != "" && candidate.Date != "" {
		existing, err := s.bookingRepo.ListByRoomAndDate(ctx, candidate.RoomID, candidate.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings for room %s on %s: %w", candidate.RoomID, candidate.Date, err)
		}
		if err := scheduling.ValidateCreate(candidate, existing); err != nil {
			return nil, err
		}
	} else if err := scheduling.ValidateCreate(candidate, nil); err != nil {
		return nil, err
	}

	b := candidate.ToBooking("", s.clock.Now())
	err := s.bookingRepo.Create(ctx, &b, func(existing []model.Booking) error {
		return scheduling.ValidateCreate(candidate, existing)
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrSlotConflict) {
			log.Printf("Booking rejected by storage for room %s on %s %s-%s: %v",
				candidate.RoomID, candidate.Date, candidate.StartTime, candidate.EndTime, err)
		}
		return nil, err
	}

	log.Printf("Booking %s created for room %s on %s %s-%s", b.ID, b.RoomID, b.Date, b.StartTime, b.EndTime)
	return &b, nil
}

// CancelBooking は予約を取り消します
// マネージャーと管理者はいつでも、予約者本人は開始前に限り取り消せます
func (s *BookingService) CancelBooking(ctx context.Context, requester *model.User, bookingID string) (*model.Booking, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingService.CancelBooking")
	defer seg.Close(nil)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := scheduling.AuthorizeCancel(*b, requester, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		return nil, err
	}

	log.Printf("Booking %s cancelled by %s", bookingID, requester.ID)
	return b, nil
}

// AllBookings はすべての予約を返します
func (s *BookingService) AllBookings(ctx context.Context, requester *model.User) ([]model.Booking, error) {
	if err := scheduling.Authorize(requester, scheduling.ActionViewAllBookings); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListAll(ctx)
}

// MyBookings は requester の予約を表示範囲で絞り込んで返します
func (s *BookingService) MyBookings(ctx context.Context, requester *model.User, scope scheduling.MyBookingsScope) ([]model.Booking, error) {
	if requester == nil {
		return nil, &scheduling.Rejection{Reason: scheduling.ReasonUnauthorized, Detail: "login required"}
	}
	bookings, err := s.bookingRepo.ListByUser(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings of %s: %w", requester.ID, err)
	}
	return scheduling.FilterMine(bookings, requester.ID, scope, scheduling.Today(s.clock.Now()))
}

// Stats は予約の統計を返します
func (s *BookingService) Stats(ctx context.Context, requester *model.User) (model.BookingStats, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingService.Stats")
	defer seg.Close(nil)

	if err := scheduling.Authorize(requester, scheduling.ActionViewStats); err != nil {
		return model.BookingStats{}, err
	}

	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return model.BookingStats{}, fmt.Errorf("failed to list bookings: %w", err)
	}
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return model.BookingStats{}, fmt.Errorf("failed to list rooms: %w", err)
	}
	return scheduling.Stats(bookings, rooms, scheduling.Today(s.clock.Now())), nil
}

// CreateRoom は会議室を作成します
func (s *BookingService) CreateRoom(ctx context.Context, requester *model.User, room model.Room) (*model.Room, error) {
	if err := scheduling.Authorize(requester, scheduling.ActionManageRooms); err != nil {
		return nil, err
	}

	room.Name = strings.TrimSpace(room.Name)
	switch {
	case room.Name == "":
		return nil, &scheduling.Rejection{Reason: scheduling.ReasonIncompleteRequest, Detail: "missing name"}
	case room.Capacity < 1:
		return nil, &scheduling.Rejection{Reason: scheduling.ReasonMalformedInput, Detail: fmt.Sprintf("capacity %d must be positive", room.Capacity)}
	case room.Price < 0:
		return nil, &scheduling.Rejection{Reason: scheduling.ReasonMalformedInput, Detail: fmt.Sprintf("price %v must not be negative", room.Price)}
	}

	room.CreatedAt = s.clock.Now()
	if err := s.roomRepo.Create(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom は会議室を削除します
func (s *BookingService) DeleteRoom(ctx context.Context, requester *model.User, roomID string) error {
	if err := scheduling.Authorize(requester, scheduling.ActionManageRooms); err != nil {
		return err
	}
	return s.roomRepo.Delete(ctx, roomID)
}

// UpdateUserRole はユーザーのロールを変更します
func (s *BookingService) UpdateUserRole(ctx context.Context, requester *model.User, userID, role string) error {
	if err := scheduling.Authorize(requester, scheduling.ActionManageRoles); err != nil {
		return err
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return &scheduling.Rejection{Reason: scheduling.ReasonMalformedInput, Detail: err.Error()}
	}
	return s.userRepo.UpdateRole(ctx, userID, r)
}
