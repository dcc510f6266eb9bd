package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/repositories"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return Wrap(sqlDB, zap.NewNop()), mock
}

var userRowColumns = []string{
	"id", "username", "first_name", "last_name", "email", "address", "cellphone",
	"password_hash", "user_type", "created_at", "updated_at",
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	user := models.NewUser("a@x.com", "ana", models.RoleUser)
	user.PasswordHash = []byte("$2a$10$hash")

	insert := regexp.QuoteMeta("INSERT INTO users (")

	t.Run("inserts all columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectExec(insert).
			WithArgs(user.ID, "ana", "", "", "a@x.com", "", "", user.PasswordHash, "USER", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectExec(insert).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectExec(insert).WillReturnError(sql.ErrConnDone)

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, repositories.ErrDuplicate)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM users WHERE email = $1")
	id := uuid.New()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery(query).WithArgs("a@x.com").WillReturnRows(
			sqlmock.NewRows(userRowColumns).AddRow(
				id.String(), "ana", "Ana", "Gómez", "a@x.com", "Calle 1", "3001234567",
				[]byte("hash"), "ADMIN", now, now))

		user, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Ana", user.FirstName)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, []byte("hash"), user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery(query).WithArgs("nobody@x.com").WillReturnRows(sqlmock.NewRows(userRowColumns))

		user, err := repo.GetByEmail(ctx, "nobody@x.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("unknown stored role", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery(query).WithArgs("a@x.com").WillReturnRows(
			sqlmock.NewRows(userRowColumns).AddRow(
				id.String(), "ana", "", "", "a@x.com", "", "", []byte("hash"), "GUEST", now, now))

		_, err := repo.GetByEmail(ctx, "a@x.com")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialStore_LookupCredential(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT id, email, password_hash, user_type FROM users WHERE email = $1")
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewCredentialStore(db, zap.NewNop())

		mock.ExpectQuery(query).WithArgs("a@x.com").WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password_hash", "user_type"}).
				AddRow(id.String(), "a@x.com", []byte("$2a$10$hash"), "USER"))

		cred, err := store.LookupCredential(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", cred.Identifier)
		assert.Equal(t, []byte("$2a$10$hash"), cred.SecretHash)
		assert.Equal(t, auth.Principal{ID: id, Identifier: "a@x.com", Role: models.RoleUser}, cred.Principal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewCredentialStore(db, zap.NewNop())

		mock.ExpectQuery(query).WithArgs("nobody@x.com").WillReturnError(sql.ErrNoRows)

		cred, err := store.LookupCredential(ctx, "nobody@x.com")
		assert.Nil(t, cred)
		assert.ErrorIs(t, err, auth.ErrCredentialNotFound)
	})

	t.Run("database failure is not a missing credential", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewCredentialStore(db, zap.NewNop())

		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		_, err := store.LookupCredential(ctx, "a@x.com")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrCredentialNotFound)
	})
}

func TestTransactionManager_InTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes queries through the transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectCommit()

		err := txMgr.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
			_, ok := GetTransactionFromContext(ctx)
			assert.True(t, ok)
			_, err := repo.WithTx(tx).ExistsByEmail(context.Background(), "a@x.com")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := txMgr.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a failed rollback with the original error", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())

		connLost := errors.New("connection lost")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(connLost)

		boom := errors.New("boom")
		err := txMgr.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, connLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := txMgr.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
			return nil
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure skips fn", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := txMgr.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.False(t, called)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, mock := newMockDB(t)
		txMgr := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = txMgr.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_InitSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_HealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()
	db := Wrap(sqlDB, zap.NewNop())

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	assert.NoError(t, db.HealthCheck(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	assert.Error(t, db.HealthCheck(context.Background()))
}
