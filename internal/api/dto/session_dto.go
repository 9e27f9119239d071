package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}
