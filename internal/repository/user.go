package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// UserRepository はユーザー情報の参照とロール更新を担当するインターフェースです
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	UpdateRole(ctx context.Context, userID string, role model.Role) error
}

// UserRepositoryImpl はUserRepositoryの実装です
type UserRepositoryImpl struct {
	db *DB
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(db *DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// GetByID はユーザーを取得します
// ロールは users と role の結合から読み取ります
func (r *UserRepositoryImpl) GetByID(ctx context.Context, userID string) (*model.User, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "UserRepository.GetByID")
	defer seg.Close(nil)

	query := `
		SELECT
			u.id,
			u.first_name || ' ' || u.last_name AS name,
			u.email,
			COALESCE(ro.name, 'user') AS role,
			u.created_at
		FROM users u
		LEFT JOIN role ro ON ro.id = u.role_id
		WHERE u.id = $1`

	var user model.User
	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateRole はユーザーのロールを更新します
func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	ctx, seg := xray.BeginSubsegment(ctx, "UserRepository.UpdateRole")
	defer seg.Close(nil)

	query := `
		UPDATE users
		SET role_id = (SELECT id FROM role WHERE name = $1)
		WHERE id = $2
		AND EXISTS (SELECT 1 FROM role WHERE name = $1)`

	result, err := r.db.ExecContext(ctx, query, string(role), userID)
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to update user role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s or role %s: %w", userID, role, ErrNotFound)
	}

	return nil
}
