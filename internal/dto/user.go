package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,max=254" example:"alice@example.com"`
	Name     string `json:"name" binding:"required,min=1,max=120" example:"Alice"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateProfileRequest is the JSON body for PATCH /users/me.
type UpdateProfileRequest struct {
	Email Optional[string] `json:"email" swaggertype:"string"`
	Name  Optional[string] `json:"name" swaggertype:"string"`
}

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"` // seconds
	Message     string       `json:"message,omitempty"`
}

// ProfileResponse is returned by GET /auth/profile.
type ProfileResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}
