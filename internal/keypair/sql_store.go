package keypair

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const mysqlDuplicateEntry = 1062

const selectKeyPair = `SELECT id, apikey, private_key, is_active, failed_attempts, client_ip, created_at, updated_at
FROM key_pairs WHERE apikey = ?`

// SQLStore persists key pairs in SQLite or MySQL. Both engines accept the
// same statements, so only duplicate-key detection is engine specific.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

type keyPairRow struct {
	ID             int64          `db:"id"`
	APIKey         string         `db:"apikey"`
	PrivateKey     string         `db:"private_key"`
	IsActive       bool           `db:"is_active"`
	FailedAttempts int            `db:"failed_attempts"`
	ClientIP       sql.NullString `db:"client_ip"`
	CreatedAt      dbTime         `db:"created_at"`
	UpdatedAt      dbTime         `db:"updated_at"`
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLStore) FindByAPIKey(ctx context.Context, apikey string) (*Record, error) {
	return s.get(ctx, s.db, apikey)
}

func (s *SQLStore) Create(ctx context.Context, params CreateParams) (*Record, error) {
	now := s.now()
	clientIP := sql.NullString{String: params.ClientIP, Valid: params.ClientIP != ""}

	var rec *Record
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO key_pairs (apikey, private_key, is_active, failed_attempts, client_ip, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			params.APIKey, params.PrivateKey, true, 0, clientIP, now, now)
		if err != nil {
			if isDuplicateKey(err) {
				return ErrKeyPairExists
			}
			return fmt.Errorf("insert key pair: %w", err)
		}
		rec, err = s.get(ctx, tx, params.APIKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLStore) Save(ctx context.Context, record *Record) (*Record, error) {
	var rec *Record
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.get(ctx, tx, record.APIKey)
		if err != nil {
			return err
		}
		if err := checkTransition(current, record); err != nil {
			return err
		}

		// Compare-and-swap against the state read above.
		res, err := tx.ExecContext(ctx,
			`UPDATE key_pairs SET is_active = ?, failed_attempts = ?, updated_at = ?
			 WHERE apikey = ? AND is_active = ? AND failed_attempts = ?`,
			record.IsActive, record.FailedAttempts, s.now(),
			record.APIKey, current.IsActive, current.FailedAttempts)
		if err != nil {
			return fmt.Errorf("update key pair: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrInvalidTransition
		}

		rec, err = s.get(ctx, tx, record.APIKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLStore) RecordFailure(ctx context.Context, apikey string, threshold int) (*Record, error) {
	var rec *Record
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		// is_active is assigned first: MySQL evaluates SET clauses left to
		// right, so it must see the pre-increment counter like SQLite does.
		res, err := tx.ExecContext(ctx,
			`UPDATE key_pairs
			 SET is_active = CASE WHEN failed_attempts + 1 >= ? THEN FALSE ELSE is_active END,
			     failed_attempts = failed_attempts + 1,
			     updated_at = ?
			 WHERE apikey = ?`,
			threshold, s.now(), apikey)
		if err != nil {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrKeyPairNotFound
		}
		rec, err = s.get(ctx, tx, apikey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLStore) get(ctx context.Context, q sqlx.QueryerContext, apikey string) (*Record, error) {
	var row keyPairRow
	if err := sqlx.GetContext(ctx, q, &row, selectKeyPair, apikey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyPairNotFound
		}
		return nil, fmt.Errorf("query key pair: %w", err)
	}
	return &Record{
		ID:             row.ID,
		APIKey:         row.APIKey,
		PrivateKey:     row.PrivateKey,
		IsActive:       row.IsActive,
		FailedAttempts: row.FailedAttempts,
		ClientIP:       row.ClientIP.String,
		CreatedAt:      time.Time(row.CreatedAt),
		UpdatedAt:      time.Time(row.UpdatedAt),
	}, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// dbTime scans the timestamp representations returned by the SQLite and
// MySQL drivers, with or without parseTime.
type dbTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = dbTime(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case nil:
		*t = dbTime(time.Time{})
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = dbTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}
