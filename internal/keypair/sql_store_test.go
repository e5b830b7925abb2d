package keypair

import (
	"context"
	"database/sql"
	"regexp"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/EternisAI/silo-auth/internal/db"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPairCols = []string{"id", "apikey", "private_key", "is_active", "failed_attempts", "client_ip", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewSQLStore(sqlx.NewDb(conn, "mysql")), mock
}

func TestSQLFindByAPIKey(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 8, 25, 12, 34, 56, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectKeyPair)).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows(keyPairCols).
			AddRow(7, "k1", "pem", true, 2, "192.168.1.1", []byte("2024-08-25 12:34:56"), created))

	rec, err := s.FindByAPIKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, 2, rec.FailedAttempts)
	assert.Equal(t, "192.168.1.1", rec.ClientIP)
	assert.True(t, rec.CreatedAt.Equal(created))
	assert.True(t, rec.UpdatedAt.Equal(created))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFindByAPIKeyNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectKeyPair)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindByAPIKey(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyPairNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreateDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO key_pairs").
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry 'k1'"})
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), CreateParams{APIKey: "k1", PrivateKey: "pem"})
	assert.ErrorIs(t, err, ErrKeyPairExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRecordFailure(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE key_pairs").
		WithArgs(3, sqlmock.AnyArg(), "k1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectKeyPair)).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows(keyPairCols).
			AddRow(1, "k1", "pem", false, 3, nil, now, now))
	mock.ExpectCommit()

	rec, err := s.RecordFailure(context.Background(), "k1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.FailedAttempts)
	assert.False(t, rec.IsActive)
	assert.Empty(t, rec.ClientIP)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRecordFailureNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE key_pairs").
		WithArgs(3, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.RecordFailure(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, ErrKeyPairNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSaveRejectsReactivation(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectKeyPair)).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows(keyPairCols).
			AddRow(1, "k1", "pem", false, 3, nil, now, now))
	mock.ExpectRollback()

	_, err := s.Save(context.Background(), &Record{APIKey: "k1", IsActive: true, FailedAttempts: 3})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.OpenSQL(context.Background(), db.Config{Driver: db.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.MigrateSQL(conn.DB, db.DriverSQLite))
	return NewSQLStore(conn)
}

func TestSQLiteLifecycle(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, CreateParams{APIKey: "k1", PrivateKey: "pem", ClientIP: "127.0.0.1"})
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.Equal(t, 0, rec.FailedAttempts)
	assert.Equal(t, "127.0.0.1", rec.ClientIP)
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = s.Create(ctx, CreateParams{APIKey: "k1", PrivateKey: "other"})
	assert.ErrorIs(t, err, ErrKeyPairExists)

	for i := 1; i <= 2; i++ {
		rec, err = s.RecordFailure(ctx, "k1", 3)
		require.NoError(t, err)
		assert.Equal(t, i, rec.FailedAttempts)
		assert.True(t, rec.IsActive)
	}

	rec, err = s.RecordFailure(ctx, "k1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.FailedAttempts)
	assert.False(t, rec.IsActive)

	rec.IsActive = true
	_, err = s.Save(ctx, rec)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	found, err := s.FindByAPIKey(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, "pem", found.PrivateKey)
}

func TestSQLiteSave(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, CreateParams{APIKey: "k1", PrivateKey: "pem"})
	require.NoError(t, err)

	rec.FailedAttempts = 1
	saved, err := s.Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.FailedAttempts)
	assert.True(t, saved.IsActive)

	_, err = s.Save(ctx, &Record{APIKey: "missing"})
	assert.ErrorIs(t, err, ErrKeyPairNotFound)
}

func TestSQLiteConcurrentRecordFailure(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, CreateParams{APIKey: "k1", PrivateKey: "pem"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.RecordFailure(ctx, "k1", 3)
		}()
	}
	wg.Wait()

	rec, err := s.FindByAPIKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, 10, rec.FailedAttempts)
	assert.False(t, rec.IsActive)
}

func TestSQLiteMemoryStoreSurvivesIdle(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQL(ctx, db.Config{Driver: db.DriverSQLite, MaxIdleTime: 20 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.MigrateSQL(conn.DB, db.DriverSQLite))
	s := NewSQLStore(conn)

	_, err = s.Create(ctx, CreateParams{APIKey: "k1", PrivateKey: "pem"})
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)

	rec, err := s.FindByAPIKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "pem", rec.PrivateKey)
	assert.Zero(t, conn.Stats().MaxIdleTimeClosed)
	assert.Zero(t, conn.Stats().MaxLifetimeClosed)
}
