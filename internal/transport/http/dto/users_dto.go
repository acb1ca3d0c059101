package dto

import "time"

type AdminUserResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	LastAccessAt *time.Time `json:"lastAccessAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type AdminUsersResponse struct {
	Users []AdminUserResponse `json:"users"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}
