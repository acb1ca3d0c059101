package dto

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CSRFToken string `json:"csrfToken"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type SessionResponse struct {
	User UserResponse `json:"user"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
