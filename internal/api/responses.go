package api

import (
	"time"

	"github.com/google/uuid"

	"authdesk/internal/model"
)

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	// message 錯誤描述
	Message string `json:"message" example:"Invalid credentials"`
}

// ValidationErrorResponse 欄位驗證失敗
// swagger:model api.ValidationErrorResponse
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"Logout successful"`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// swagger:model api.UserResponse
type UserResponse struct {
	ID        uuid.UUID  `json:"_id" example:"5f0c3c1e-8a4b-4d5e-9f10-2a3b4c5d6e7f"`
	FullName  string     `json:"fullName" example:"Alice Liddell"`
	Email     string     `json:"email" example:"alice@example.com"`
	Role      model.Role `json:"role" example:"user"`
	IsActive  bool       `json:"isActive" example:"true"`
	CreatedAt time.Time  `json:"createdAt" example:"2025-05-01T15:04:05Z"`
}

// swagger:model api.UserListResponse
type UserListResponse struct {
	Page       int            `json:"page" example:"1"`
	TotalPages int            `json:"totalPages" example:"3"`
	Users      []UserResponse `json:"users"`
}

// NewUserResponse 轉換時不帶出密碼雜湊
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
