package keypair

import (
	"context"
	"errors"
	"fmt"

	"github.com/EternisAI/silo-auth/internal/db/sqlc"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	queries *sqlc.Queries
}

func NewPostgresStore(queries *sqlc.Queries) *PostgresStore {
	return &PostgresStore{queries: queries}
}

func (s *PostgresStore) FindByAPIKey(ctx context.Context, apikey string) (*Record, error) {
	row, err := s.queries.GetKeyPairByAPIKey(ctx, apikey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyPairNotFound
		}
		return nil, fmt.Errorf("query key pair: %w", err)
	}
	return fromRow(row), nil
}

func (s *PostgresStore) Create(ctx context.Context, params CreateParams) (*Record, error) {
	row, err := s.queries.CreateKeyPair(ctx, sqlc.CreateKeyPairParams{
		Apikey:     params.APIKey,
		PrivateKey: params.PrivateKey,
		ClientIp:   pgtype.Text{String: params.ClientIP, Valid: params.ClientIP != ""},
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrKeyPairExists
		}
		return nil, fmt.Errorf("create key pair: %w", err)
	}
	return fromRow(row), nil
}

func (s *PostgresStore) Save(ctx context.Context, record *Record) (*Record, error) {
	row, err := s.queries.UpdateKeyPairState(ctx, sqlc.UpdateKeyPairStateParams{
		IsActive:       record.IsActive,
		FailedAttempts: int32(record.FailedAttempts),
		Apikey:         record.APIKey,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the key is gone or the guarded update refused the change.
			if _, findErr := s.FindByAPIKey(ctx, record.APIKey); findErr != nil {
				return nil, findErr
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update key pair: %w", err)
	}
	return fromRow(row), nil
}

func (s *PostgresStore) RecordFailure(ctx context.Context, apikey string, threshold int) (*Record, error) {
	row, err := s.queries.RecordFailedAttempt(ctx, sqlc.RecordFailedAttemptParams{
		Threshold: int32(threshold),
		Apikey:    apikey,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyPairNotFound
		}
		return nil, fmt.Errorf("record failed attempt: %w", err)
	}
	return fromRow(row), nil
}

func fromRow(row sqlc.KeyPair) *Record {
	return &Record{
		ID:             row.ID,
		APIKey:         row.Apikey,
		PrivateKey:     row.PrivateKey,
		IsActive:       row.IsActive,
		FailedAttempts: int(row.FailedAttempts),
		ClientIP:       row.ClientIp.String,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
