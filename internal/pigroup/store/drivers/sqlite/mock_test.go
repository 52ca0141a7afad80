package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
)

var errDriver = errors.New("disk I/O error")

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStoreFromDB(db), mock
}

func TestMockGroupQueryError(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, name, enabled, description, date_added, date_modified FROM "group" WHERE name = \?`).
		WithArgs("Unresolved").
		WillReturnError(errDriver)

	_, err := s.Groups().GetGroupByName(context.Background(), "Unresolved")
	require.ErrorIs(t, err, errDriver)
	require.NotErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockGroupNoRows(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM "group" WHERE name = \?`).
		WithArgs("Unresolved").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Groups().GetGroupByName(context.Background(), "Unresolved")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockClientsMembershipQueryError(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, ip, comment, date_added, date_modified FROM client WHERE comment = \? ORDER BY id`).
		WithArgs("Fire TV cube").
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(17, "192.168.1.50", "Fire TV cube", 1700000000, 1700000000))
	mock.ExpectQuery(`SELECT client_id, group_id FROM client_by_group WHERE client_id IN \(\?\) ORDER BY client_id, group_id`).
		WithArgs(uint(17)).
		WillReturnError(errDriver)

	_, err := s.Clients().GetClientsByComment(context.Background(), "Fire TV cube")
	require.ErrorIs(t, err, errDriver)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockInsert(t *testing.T) {
	t.Parallel()

	t.Run("driver error passes through", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO client_by_group \(client_id,group_id\) VALUES \(\?,\?\)`).
			WithArgs(uint(17), uint(42)).
			WillReturnError(errDriver)

		err := (&membershipsRepo{db: s.db}).insertPair(context.Background(), 17, 42)
		require.ErrorIs(t, err, errDriver)
		require.NotErrorIs(t, err, store.ErrConstraintViolation)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO client_by_group`).
			WithArgs(uint(17), uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, (&membershipsRepo{db: s.db}).insertPair(context.Background(), 17, 42))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMockDelete(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM client_by_group WHERE client_id = \? AND group_id = \?`).
			WithArgs(uint(17), uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		n, err := (&membershipsRepo{db: s.db}).deletePair(context.Background(), 17, 42)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM client_by_group`).
			WillReturnError(errDriver)

		_, err := (&membershipsRepo{db: s.db}).deletePair(context.Background(), 17, 42)
		require.ErrorIs(t, err, errDriver)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
