package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,min=3" example:"Alice Liddell"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6,bcryptmax" example:"Secret123!"`
}

// swagger:model api.SigninRequest
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6,bcryptmax" example:"Secret123!"`
}

// UpdateProfileRequest 只套用有提供的欄位
// swagger:model api.UpdateProfileRequest
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=3" example:"Alice L."`
	Email    *string `json:"email,omitempty" validate:"omitempty,email" example:"alice.l@example.com"`
}

// swagger:model api.ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"newPassword" validate:"required,min=6,bcryptmax" example:"NewSecret456!"`
}

// ListUsersQuery 非數字或小於 1 時由 handler 套用預設值
type ListUsersQuery struct {
	Page  string `query:"page"`
	Limit string `query:"limit"`
}
