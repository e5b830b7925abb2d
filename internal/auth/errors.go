package auth

import (
	"errors"

	"github.com/EternisAI/silo-auth/internal/keypair"
)

var (
	ErrUnauthorized   = errors.New("invalid or inactive api key")
	ErrInternal       = errors.New("error processing authentication")
	ErrIssuanceFailed = errors.New("error generating rsa key pair")
	ErrBadRequest     = errors.New("invalid request")
	ErrKeyPairExists  = keypair.ErrKeyPairExists
)

// Kind is the coarse failure class surfaced to callers of the service.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindBadRequest:
		return "BadRequest"
	case KindConflict:
		return "Conflict"
	default:
		return "InternalError"
	}
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrKeyPairExists):
		return KindConflict
	default:
		return KindInternal
	}
}
