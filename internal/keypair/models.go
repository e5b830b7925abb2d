package keypair

import (
	"context"
	"errors"
	"time"
)

var (
	ErrKeyPairNotFound   = errors.New("key pair not found")
	ErrKeyPairExists     = errors.New("key pair already exists for api key")
	ErrInvalidTransition = errors.New("invalid key pair state transition")
)

// Record is the persisted half of an issued keypair. The public key is not
// part of it: it only exists in the issuance response.
type Record struct {
	ID             int64
	APIKey         string
	PrivateKey     string
	IsActive       bool
	FailedAttempts int
	ClientIP       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked reports whether the record reached the lockout threshold.
func (r *Record) Locked() bool {
	return !r.IsActive
}

type CreateParams struct {
	APIKey     string
	PrivateKey string
	ClientIP   string
}

type Store interface {
	FindByAPIKey(ctx context.Context, apikey string) (*Record, error)
	Create(ctx context.Context, params CreateParams) (*Record, error)
	Save(ctx context.Context, record *Record) (*Record, error)
	// RecordFailure increments the failed attempt counter and deactivates the
	// record once the new value reaches threshold, as one atomic update.
	RecordFailure(ctx context.Context, apikey string, threshold int) (*Record, error)
}

// checkTransition rejects updates that would reactivate a locked key or lower
// its failure counter.
func checkTransition(current, next *Record) error {
	if !current.IsActive && next.IsActive {
		return ErrInvalidTransition
	}
	if next.FailedAttempts < current.FailedAttempts {
		return ErrInvalidTransition
	}
	return nil
}
