package models

import "time"

// RegisterRequest carries a new account's credentials.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest carries credentials for authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionInfo is the session view returned to the UI.
type SessionInfo struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}
