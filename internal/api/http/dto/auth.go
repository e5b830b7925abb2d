package dto

import "time"

type LoginRequest struct {
	APIKey            string `json:"apikey" binding:"required"`
	EncryptedUsername string `json:"encryptedUsername" binding:"required,base64"`
	EncryptedPassword string `json:"encryptedPassword" binding:"required,base64"`
}

type SignupRequest struct {
	APIKey string `json:"apikey" binding:"required"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type SessionResponse struct {
	APIKey    string    `json:"apikey"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
