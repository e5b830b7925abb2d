package dto

import "time"

type CreateKeyPairRequest struct {
	APIKey string `json:"apikey" binding:"required,max=255"`
}

// KeyPairResponse carries the public key of a new key pair. It has no field
// for the private key.
type KeyPairResponse struct {
	ID             int64     `json:"id"`
	APIKey         string    `json:"apikey"`
	PublicKey      string    `json:"publicKey"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ClientIP       string    `json:"clientIp,omitempty"`
	FailedAttempts int       `json:"failedAttempts"`
}
