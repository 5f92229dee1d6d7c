package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+tokens\s*\(id,\s*user_id,\s*key,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	byKeyQ  = `(?s)^SELECT\s+id,\s*user_id,\s*key,\s*created_at,\s*expires_at\s+FROM\s+tokens\s+WHERE\s+key\s*=\s*\$1\s*$`
	byUserQ = `(?s)^SELECT\s+id,\s*user_id,\s*key,\s*created_at,\s*expires_at\s+FROM\s+tokens\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	deleteQ = `^DELETE FROM tokens WHERE user_id = \$1$`
)

var tokenCols = []string{"id", "user_id", "key", "created_at", "expires_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_NoExpiry(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(insertQ).
		WithArgs("jti-1", "u-1", "key-1", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	tok := &models.Token{ID: "jti-1", UserID: "u-1", Key: "key-1"}
	require.NoError(t, repo.Create(context.Background(), tok))
	assert.True(t, tok.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WithExpiry(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQ).
		WithArgs("jti-1", "u-1", "key-1", exp).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	require.NoError(t, repo.Create(context.Background(), &models.Token{ID: "jti-1", UserID: "u-1", Key: "key-1", ExpiresAt: &exp}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertQ).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.Token{ID: "j", UserID: "u", Key: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestFindByKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Now().Add(time.Hour)

	mock.ExpectQuery(byKeyQ).WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows(tokenCols).AddRow("jti-1", "u-1", "key-1", time.Now(), exp))

	tok, err := repo.FindByKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", tok.UserID)
	require.NotNil(t, tok.ExpiresAt)
	assert.True(t, tok.ExpiresAt.Equal(exp))
}

func TestFindByKey_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(byKeyQ).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByKey(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByUser_NullExpiry(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(byUserQ).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(tokenCols).AddRow("jti-1", "u-1", "key-1", time.Now(), nil))

	tok, err := repo.FindByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Nil(t, tok.ExpiresAt)
}

func TestDeleteByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(deleteQ).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQ).WithArgs("u-2").WillReturnError(errors.New("boom"))

	assert.NoError(t, repo.DeleteByUser(context.Background(), "u-1"))
	assert.Error(t, repo.DeleteByUser(context.Background(), "u-2"))
}
