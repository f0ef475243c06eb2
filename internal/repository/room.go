package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// RoomRepository は会議室の永続化を担当するインターフェースです
type RoomRepository interface {
	List(ctx context.Context) ([]model.Room, error)
	GetNameByID(ctx context.Context, roomID string) (string, error)
	Create(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, roomID string) error
}

// RoomRepositoryImpl はRoomRepositoryの実装です
type RoomRepositoryImpl struct {
	db *DB
}

// NewRoomRepository は新しいRoomRepositoryを作成します
func NewRoomRepository(db *DB) *RoomRepositoryImpl {
	return &RoomRepositoryImpl{db: db}
}

// List は会議室を作成順に取得します
func (r *RoomRepositoryImpl) List(ctx context.Context) ([]model.Room, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "RoomRepository.List")
	defer seg.Close(nil)

	query := `
		SELECT id, name, capacity, price, COALESCE(amenities, '') AS amenities, created_at
		FROM rooms
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.StructScan(&room); err != nil {
			seg.Close(err)
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}

	return rooms, nil
}

// GetNameByID は指定された会議室IDから会議室名を取得します
func (r *RoomRepositoryImpl) GetNameByID(ctx context.Context, roomID string) (string, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "RoomRepository.GetNameByID")
	defer seg.Close(nil)

	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM rooms WHERE id = $1`, roomID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	if err != nil {
		seg.Close(err)
		return "", fmt.Errorf("failed to get room name: %w", err)
	}

	return name, nil
}

// Create は会議室を作成します
// ID が空の場合は採番します
func (r *RoomRepositoryImpl) Create(ctx context.Context, room *model.Room) error {
	ctx, seg := xray.BeginSubsegment(ctx, "RoomRepository.Create")
	defer seg.Close(nil)

	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	query := `
		INSERT INTO rooms (id, name, capacity, price, amenities, created_at)
		VALUES (:id, :name, :capacity, :price, :amenities, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// Delete は会議室を削除します
// 会議室の予約は外部キーの ON DELETE CASCADE で削除されます
func (r *RoomRepositoryImpl) Delete(ctx context.Context, roomID string) error {
	ctx, seg := xray.BeginSubsegment(ctx, "RoomRepository.Delete")
	defer seg.Close(nil)

	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	return nil
}
