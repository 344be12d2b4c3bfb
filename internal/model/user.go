// File: internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role 使用者角色，封閉列舉
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 回報角色是否為已定義的值
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Satisfies 檢查角色是否符合任一要求角色。
// 目前沒有階層；之後若要加入繼承關係只需修改這裡。
func (r Role) Satisfies(required ...Role) bool {
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID `db:"id" json:"_id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser 以預設角色與啟用狀態建立新使用者
func NewUser(fullName, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
	}
}
