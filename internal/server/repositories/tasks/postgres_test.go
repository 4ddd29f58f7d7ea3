package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qInsert = `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*name,\s*completed,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	qByUser = `(?s)^SELECT\s+id,\s*name,\s*completed,\s*user_id,\s*created_at\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	qAll    = `(?s)^SELECT\s+id,\s*name,\s*completed,\s*user_id,\s*created_at\s+FROM\s+tasks\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	qDelete = `^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
)

var taskColumns = []string{"id", "name", "completed", "user_id", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(qInsert).
		WithArgs(sqlmock.AnyArg(), "write docs", false, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectQuery(qInsert).WillReturnError(errors.New("fk violation"))

	got, err := repo.Create(context.Background(), &models.Task{Name: "write docs", UserID: "u-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, created, got.CreatedAt)

	_, err = repo.Create(context.Background(), &models.Task{Name: "x", UserID: "ghost"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*fk violation`, err.Error())
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t-1", "one", false, "u-1", now).
		AddRow("t-2", "two", true, "u-1", now)
	mock.ExpectQuery(qByUser).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-1", got[0].ID)
	assert.True(t, got[1].Completed)
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByUser).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(taskColumns))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByUser_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByUser).WithArgs("u-1").WillReturnError(errors.New("boom"))
	_, err := repo.ListByUser(context.Background(), "u-1")
	assert.Error(t, err)

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t-1", "one", false, "u-1", time.Now()).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(qByUser).WithArgs("u-2").WillReturnRows(rows)
	_, err = repo.ListByUser(context.Background(), "u-2")
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t-1", "one", false, "u-1", time.Now()).
		AddRow("t-2", "two", false, "u-2", time.Now())
	mock.ExpectQuery(qAll).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u-2", got[1].UserID)
}

func TestDeleteOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(qDelete).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDelete).WithArgs("t-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(qDelete).WithArgs("t-1", "u-3").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(qDelete).WithArgs("t-1", "u-4").WillReturnError(errors.New("db err"))
	mock.ExpectExec(qDelete).WithArgs("t-1", "u-5").WillReturnResult(sqlmock.NewErrorResult(errors.New("ra err")))

	require.NoError(t, repo.DeleteOwned(context.Background(), "u-1", "t-1"))
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), "u-2", "t-1"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.DeleteOwned(context.Background(), "u-3", "t-1"), "unexpected rows affected: 2")
	assert.ErrorContains(t, repo.DeleteOwned(context.Background(), "u-4", "t-1"), "db error")
	assert.ErrorContains(t, repo.DeleteOwned(context.Background(), "u-5", "t-1"), "rows affected error")
}
