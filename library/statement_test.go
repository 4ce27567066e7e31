package library

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db, zerolog.Nop()), mock
}

func TestSaveClosesStatementWhenExecFails(t *testing.T) {
	s, mock := mockStore(t)
	ctx := context.Background()

	prep := mock.ExpectPrepare("INSERT INTO categories")
	prep.ExpectExec().WithArgs("Fiction", "").WillReturnError(errors.New("disk I/O error"))
	prep.WillBeClosed()

	c := Category{Name: "Fiction"}
	err := s.Categories.Save(ctx, &c)
	require.Error(t, err)
	assert.True(t, c.ID.IsNew())
	assert.Equal(t, Other, ErrCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReportsPrepareFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectPrepare("UPDATE categories").WillReturnError(errors.New("no such table: categories"))

	err := s.Categories.Save(context.Background(), &Category{ID: Existing(3), Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categories: update")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBackfillsLastInsertID(t *testing.T) {
	s, mock := mockStore(t)

	prep := mock.ExpectPrepare("INSERT INTO fines")
	prep.ExpectExec().
		WithArgs(int64(101), int64(500), 5, 250.0, "2026-02-22", 0, "").
		WillReturnResult(sqlmock.NewResult(17, 1))
	prep.WillBeClosed()

	fine := Fine{TransactionID: 101, UserID: 500, DaysOverdue: 5, Amount: 250.0, FineDate: "2026-02-22"}
	require.NoError(t, s.Fines.Save(context.Background(), &fine))
	assert.Equal(t, Existing(17), fine.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBindsIDLast(t *testing.T) {
	s, mock := mockStore(t)

	prep := mock.ExpectPrepare("UPDATE fund_requests SET")
	prep.ExpectExec().
		WithArgs(int64(500), 10.0, "2026-02-22", "Pending", nil, "", "", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fr := FundRequest{ID: Existing(4), UserID: 500, RequestedAmount: 10, RequestDate: "2026-02-22", Status: "Pending"}
	require.NoError(t, s.FundRequests.Save(context.Background(), &fr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNoRows(t *testing.T) {
	s, mock := mockStore(t)

	prep := mock.ExpectPrepare("SELECT .+ FROM users WHERE user_id = ?")
	prep.ExpectQuery().WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	prep.WillBeClosed()

	u, err := s.Users.GetByID(context.Background(), 9)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllClosesStatementOnScanError(t *testing.T) {
	s, mock := mockStore(t)

	rows := sqlmock.NewRows([]string{"category_id", "name", "description"}).
		AddRow(1, "ok", nil).
		AddRow(nil, "broken", nil)
	prep := mock.ExpectPrepare("SELECT category_id, name, description FROM categories")
	prep.ExpectQuery().WillReturnRows(rows)
	prep.WillBeClosed()

	all, err := s.Categories.GetAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, all)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllMapsNullText(t *testing.T) {
	s, mock := mockStore(t)

	rows := sqlmock.NewRows([]string{"category_id", "name", "description"}).
		AddRow(1, "Atlases", nil).
		AddRow(2, nil, "unnamed")
	mock.ExpectPrepare("FROM categories").ExpectQuery().WillReturnRows(rows)

	all, err := s.Categories.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "", all[0].Description)
	assert.Equal(t, "", all[1].Name)
	assert.Equal(t, "unnamed", all[1].Description)
}

func TestQueryErrorIsNotNotFound(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectPrepare("FROM resources").ExpectQuery().WillReturnError(sql.ErrConnDone)

	_, err := s.Resources.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestMapCode(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, UniqueViolation},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, UniqueViolation},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, ForeignKeyViolation},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, ForeignKeyViolation},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, NotNullViolation},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, CheckViolation},
		{sqlite3.Error{Code: sqlite3.ErrBusy}, Other},
		{errors.New("plain"), Other},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, mapCode(tt.err))
		})
	}
}

func TestClassifiedErrorMatchesOnlyItsSentinel(t *testing.T) {
	err := newError("users", "insert", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull})
	assert.ErrorIs(t, err, ErrNotNullViolation)
	assert.NotErrorIs(t, err, ErrUniqueViolation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "users: insert: "+err.(*Error).Err.Error(), err.Error())
}

func TestWithTxRollsBackWhenFnFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	d := newDatabase(conn, zerolog.Nop())

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = d.WithTx(context.Background(), func(*Store) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReportsCommitFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	d := newDatabase(conn, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err = d.WithTx(context.Background(), func(*Store) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}
