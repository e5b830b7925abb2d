package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/EternisAI/silo-auth/internal/encryption"
	"github.com/EternisAI/silo-auth/internal/keypair"
	"github.com/EternisAI/silo-auth/internal/telemetry"
)

const (
	loginMessage = "Login successful"

	// Upper bound for committing a failed attempt once the request context
	// is gone.
	commitTimeout = 5 * time.Second
)

type Decrypter interface {
	Decrypt(ciphertextBase64, privateKeyPEM string) (string, error)
}

type LoginResult struct {
	Token   string
	Message string
}

// IssuedKeyPair is returned exactly once per issuance. PublicKey is not
// stored anywhere and cannot be recovered afterwards.
type IssuedKeyPair struct {
	Record    *keypair.Record
	PublicKey string
}

type Service struct {
	store     keypair.Store
	decrypter Decrypter
	signer    Signer
	config    Config
	locks     *keyLocker
	generate  func(bits int) (*encryption.KeyPair, error)
}

func NewService(store keypair.Store, decrypter Decrypter, signer Signer, config Config) *Service {
	return &Service{
		store:     store,
		decrypter: decrypter,
		signer:    signer,
		config:    config.withDefaults(),
		locks:     newKeyLocker(),
		generate:  encryption.GenerateKeyPair,
	}
}

func (s *Service) Login(ctx context.Context, apikey, encryptedUsername, encryptedPassword string) (*LoginResult, error) {
	slog.Debug("Login attempt", "apikey", apikey)

	unlock, err := s.locks.lock(ctx, apikey)
	if err != nil {
		slog.Warn("Login aborted while waiting for key lock", "apikey", apikey, "error", err)
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeError).Inc()
		return nil, ErrInternal
	}
	defer unlock()

	record, err := s.store.FindByAPIKey(ctx, apikey)
	if err != nil {
		if errors.Is(err, keypair.ErrKeyPairNotFound) {
			slog.Warn("Login rejected: unknown api key", "apikey", apikey)
			telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
			return nil, ErrUnauthorized
		}
		slog.Error("Failed to look up key pair", "apikey", apikey, "error", err)
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeError).Inc()
		return nil, ErrInternal
	}
	if record.Locked() {
		slog.Warn("Login rejected: inactive api key", "apikey", apikey)
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, ErrUnauthorized
	}

	username, err := s.decrypt(encryptedUsername, record.PrivateKey)
	if err == nil {
		_, err = s.decrypt(encryptedPassword, record.PrivateKey)
	}
	if err != nil {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeDecryptErr).Inc()
		s.handleFailedAttempt(ctx, apikey)
		return nil, ErrInternal
	}

	token, err := s.signer.Sign(ctx, Claims{APIKey: apikey, Username: username})
	if err != nil {
		slog.Error("Failed to sign token", "apikey", apikey, "error", err)
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeError).Inc()
		return nil, ErrInternal
	}

	slog.Info("Login successful", "apikey", apikey)
	telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.OutcomeSuccess).Inc()
	return &LoginResult{Token: token, Message: loginMessage}, nil
}

// Signup is login with empty credentials. Against a normally issued key the
// empty ciphertexts never decrypt, so every call counts as a failed attempt.
func (s *Service) Signup(ctx context.Context, apikey string) (*LoginResult, error) {
	slog.Debug("Signup attempt", "apikey", apikey)
	return s.Login(ctx, apikey, "", "")
}

func (s *Service) CreateKeyPair(ctx context.Context, apikey, clientIP string) (*IssuedKeyPair, error) {
	if apikey == "" {
		return nil, ErrBadRequest
	}
	slog.Debug("Generating RSA key pair", "apikey", apikey, "bits", s.config.KeyBits)

	kp, err := s.generate(s.config.KeyBits)
	if err != nil {
		slog.Error("Failed to generate key pair", "apikey", apikey, "error", err)
		telemetry.KeyPairsIssuedTotal.WithLabelValues("error").Inc()
		return nil, ErrIssuanceFailed
	}

	record, err := s.store.Create(ctx, keypair.CreateParams{
		APIKey:     apikey,
		PrivateKey: kp.PrivateKeyPEM,
		ClientIP:   clientIP,
	})
	if err != nil {
		if errors.Is(err, keypair.ErrKeyPairExists) {
			slog.Warn("Key pair already exists", "apikey", apikey)
			telemetry.KeyPairsIssuedTotal.WithLabelValues("conflict").Inc()
			return nil, ErrKeyPairExists
		}
		slog.Error("Failed to store key pair", "apikey", apikey, "error", err)
		telemetry.KeyPairsIssuedTotal.WithLabelValues("error").Inc()
		return nil, ErrIssuanceFailed
	}

	slog.Info("RSA key pair created", "apikey", apikey, "id", record.ID)
	telemetry.KeyPairsIssuedTotal.WithLabelValues("created").Inc()
	return &IssuedKeyPair{Record: record, PublicKey: kp.PublicKeyPEM}, nil
}

func (s *Service) decrypt(ciphertext, privateKey string) (string, error) {
	start := time.Now()
	defer func() { telemetry.DecryptionDuration.Observe(time.Since(start).Seconds()) }()
	return s.decrypter.Decrypt(ciphertext, privateKey)
}

// handleFailedAttempt commits one failed attempt. The commit outlives the
// request context so that cancelling a request cannot skip the count.
func (s *Service) handleFailedAttempt(ctx context.Context, apikey string) {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	record, err := s.store.RecordFailure(commitCtx, apikey, s.config.MaxFailedAttempts)
	if err != nil {
		slog.Error("Failed to update failed attempts", "apikey", apikey, "error", err)
		return
	}

	slog.Warn("Failed attempt recorded", "apikey", apikey, "failed_attempts", record.FailedAttempts)
	if !record.IsActive && record.FailedAttempts == s.config.MaxFailedAttempts {
		slog.Warn("API key deactivated", "apikey", apikey, "failed_attempts", record.FailedAttempts)
		telemetry.KeyLockoutsTotal.Inc()
	}
}
