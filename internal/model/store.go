package model

import (
	"context"

	"github.com/google/uuid"
)

// UserStore 定義 Credential Store 的操作。
// GetByID / GetByEmail 找不到時回傳 ErrNotFound；
// Create / UpdateProfile 撞到 email 唯一索引時回傳 ErrEmailTaken。
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *User) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, offset, limit int) ([]User, error)
	Count(ctx context.Context) (int, error)
}

// TokenIssuer 發行 bearer token
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// TokenVerifier 驗證 bearer token 並回傳 subject。
// 所有失敗都包裝 ErrInvalidToken。
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}
