package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
	"github.com/uma-arai/sbcntr-roombook/internal/scheduling"
)

// CreateCheck はトランザクション内で取得した同一会議室・同一日付の予約を受け取り、
// 作成してよいかを判定します
type CreateCheck func(existing []model.Booking) error

// BookingRepository は予約の永続化を担当するインターフェースです
type BookingRepository interface {
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByDate(ctx context.Context, date string) ([]model.Booking, error)
	ListByRoomAndDate(ctx context.Context, roomID, date string) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking, check CreateCheck) error
	Delete(ctx context.Context, id string) error
}

// BookingRepositoryImpl は予約の永続化を担当します
type BookingRepositoryImpl struct {
	db *DB
}

// NewBookingRepository は新しいBookingRepositoryを作成します
func NewBookingRepository(db *DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

const bookingSelect = `
		SELECT
			id,
			room_id,
			user_id,
			to_char(date, 'YYYY-MM-DD'),
			to_char(start_time, 'HH24:MI'),
			to_char(end_time, 'HH24:MI'),
			title,
			participants,
			created_at
		FROM bookings`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var (
		b            model.Booking
		participants pq.StringArray
	)
	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&b.UserID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.Title,
		&participants,
		&b.CreatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	b.Participants = []string(participants)
	if b.Participants == nil {
		b.Participants = []string{}
	}
	return b, nil
}

func collectBookings(rows *sqlx.Rows) ([]model.Booking, error) {
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepositoryImpl) list(ctx context.Context, name, where string, args ...interface{}) ([]model.Booking, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingRepository."+name)
	defer seg.Close(nil)

	query := bookingSelect + where + `
		ORDER BY date ASC, start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	bookings, err := collectBookings(rows)
	if err != nil {
		seg.Close(err)
		return nil, err
	}
	return bookings, nil
}

// ListAll はすべての予約を取得します
func (r *BookingRepositoryImpl) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "ListAll", "")
}

// ListByDate は指定日の予約を取得します
func (r *BookingRepositoryImpl) ListByDate(ctx context.Context, date string) ([]model.Booking, error) {
	return r.list(ctx, "ListByDate", `
		WHERE date = $1`, date)
}

// ListByRoomAndDate は指定会議室・指定日の予約を取得します
func (r *BookingRepositoryImpl) ListByRoomAndDate(ctx context.Context, roomID, date string) ([]model.Booking, error) {
	return r.list(ctx, "ListByRoomAndDate", `
		WHERE room_id = $1
		AND date = $2`, roomID, date)
}

// ListByUser は指定ユーザーの予約を取得します
func (r *BookingRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return r.list(ctx, "ListByUser", `
		WHERE user_id = $1`, userID)
}

// GetByID は予約を1件取得します
func (r *BookingRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingRepository.GetByID")
	defer seg.Close(nil)

	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+`
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// Create は予約を作成します
// 会議室の行をロックしてから同一日付の予約を読み直し、check が通った場合のみ挿入します
// 同時に作成された予約との重なりはテーブルの排他制約でも検出し、ErrSlotConflict を返します
func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *model.Booking, check CreateCheck) (err error) {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingRepository.Create")
	defer func() { seg.Close(err) }()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollback(tx, err)
		}
	}()

	var roomID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("room %s: %w", booking.RoomID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	rows, err := tx.QueryxContext(ctx, bookingSelect+`
		WHERE room_id = $1
		AND date = $2`, booking.RoomID, booking.Date)
	if err != nil {
		return fmt.Errorf("failed to query bookings: %w", err)
	}
	existing, err := collectBookings(rows)
	if err != nil {
		return err
	}

	if check != nil {
		if err = check(existing); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO bookings (
			id, room_id, user_id, date, start_time, end_time, title, participants, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err = tx.ExecContext(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Title,
		pq.StringArray(booking.Participants),
		booking.CreatedAt,
	)
	if err != nil {
		switch pqCode(err) {
		case pqExclusionViolation, pqUniqueViolation:
			return fmt.Errorf("failed to create booking: %w", scheduling.ErrSlotConflict)
		case pqForeignKeyViolation:
			return fmt.Errorf("failed to create booking: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete は予約を削除します
// 取消は削除のみで、部分的な更新は行いません
func (r *BookingRepositoryImpl) Delete(ctx context.Context, id string) error {
	ctx, seg := xray.BeginSubsegment(ctx, "BookingRepository.Delete")
	defer seg.Close(nil)

	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}
