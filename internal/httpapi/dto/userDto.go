package dto

import "reviewhub/internal/httpapi/models"

// CreateUserDTO for POST /api/v1/users (admin only).
type CreateUserDTO struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email,max=250"`
	FirstName string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       string `json:"bio,omitempty" binding:"omitempty,max=1000"`
	Role      string `json:"role,omitempty" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserDTO carries partial updates; nil fields are left untouched.
type UpdateUserDTO struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=250"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty" binding:"omitempty,max=1000"`
	Role      *string `json:"role,omitempty" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

func UserFromModel(u models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
	}
}

type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedUserResponse(data []UserResponse, page, pageSize int, total int64) PaginatedUserResponse {
	return PaginatedUserResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
