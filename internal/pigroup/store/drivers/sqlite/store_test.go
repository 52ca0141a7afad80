package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
)

// newTestStore opens a migrated gravity database seeded with client 17
// ("Fire TV cube") and group 42 ("Unresolved").
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "gravity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())

	_, err = s.db.Exec(`INSERT INTO "group" (id, name, description) VALUES (42, 'Unresolved', NULL), (7, 'Kids', 'Kids devices')`)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO client (id, ip, comment) VALUES (17, '192.168.1.50', 'Fire TV cube'), (23, '192.168.1.60', 'Laptop')`)
	require.NoError(t, err)

	return s
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestGroups(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	t.Run("by name", func(t *testing.T) {
		g, err := s.Groups().GetGroupByName(ctx, "Unresolved")
		require.NoError(t, err)
		require.Equal(t, uint(42), g.ID)
		require.True(t, g.Enabled)
		require.Nil(t, g.Comment)
		require.False(t, g.CreatedAt.IsZero())
	})

	t.Run("name match is exact", func(t *testing.T) {
		_, err := s.Groups().GetGroupByName(ctx, "unresolved")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		groups, err := s.Groups().ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 3)
		require.Equal(t, "Default", groups[0].Name)
		require.Equal(t, uint(0), groups[0].ID)
		require.Equal(t, "Kids devices", *groups[1].Comment)
		require.Equal(t, uint(42), groups[2].ID)
	})
}

func TestClients(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO client_by_group (client_id, group_id) VALUES (23, 7), (23, 0)`)
	require.NoError(t, err)

	t.Run("by comment", func(t *testing.T) {
		clients, err := s.Clients().GetClientsByComment(ctx, "Fire TV cube")
		require.NoError(t, err)
		require.Len(t, clients, 1)
		require.Equal(t, uint(17), clients[0].ID)
		require.Equal(t, "192.168.1.50", clients[0].Address)
		require.Equal(t, []uint{}, clients[0].GroupIDs)
	})

	t.Run("groups ordered", func(t *testing.T) {
		clients, err := s.Clients().GetClientsByComment(ctx, "Laptop")
		require.NoError(t, err)
		require.Equal(t, []uint{0, 7}, clients[0].GroupIDs)
	})

	t.Run("unknown comment", func(t *testing.T) {
		_, err := s.Clients().GetClientsByComment(ctx, "Toaster")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		clients, err := s.Clients().ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		require.Equal(t, "Fire TV cube", clients[0].Comment)
		require.Equal(t, []uint{0, 7}, clients[1].GroupIDs)
	})
}

func TestMemberships(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("add then remove", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.Memberships().AddMembership(ctx, "Fire TV cube", "Unresolved"))
		clients, err := s.Clients().GetClientsByComment(ctx, "Fire TV cube")
		require.NoError(t, err)
		require.Equal(t, []uint{42}, clients[0].GroupIDs)

		n, err := s.Memberships().RemoveMembership(ctx, "Fire TV cube", "Unresolved")
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		clients, err = s.Clients().GetClientsByComment(ctx, "Fire TV cube")
		require.NoError(t, err)
		require.Empty(t, clients[0].GroupIDs)
	})

	t.Run("adding twice is a constraint violation", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.Memberships().AddMembership(ctx, "Fire TV cube", "Unresolved"))
		err := s.Memberships().AddMembership(ctx, "Fire TV cube", "Unresolved")
		require.ErrorIs(t, err, store.ErrConstraintViolation)
	})

	t.Run("removing a missing pair affects nothing", func(t *testing.T) {
		s := newTestStore(t)

		n, err := s.Memberships().RemoveMembership(ctx, "Fire TV cube", "Unresolved")
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("unknown group", func(t *testing.T) {
		s := newTestStore(t)

		err := s.Memberships().AddMembership(ctx, "Fire TV cube", "Nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Contains(t, err.Error(), `group "Nope"`)
	})

	t.Run("unknown client", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Memberships().RemoveMembership(ctx, "Toaster", "Unresolved")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Contains(t, err.Error(), `client "Toaster"`)
	})

	t.Run("duplicate comments resolve to lowest id", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.db.Exec(`INSERT INTO client (id, ip, comment) VALUES (30, '192.168.1.70', 'Fire TV cube')`)
		require.NoError(t, err)

		require.NoError(t, s.Memberships().AddMembership(ctx, "Fire TV cube", "Kids"))

		clients, err := s.Clients().GetClientsByComment(ctx, "Fire TV cube")
		require.NoError(t, err)
		require.Len(t, clients, 2)
		require.Equal(t, []uint{7}, clients[0].GroupIDs)
		require.Empty(t, clients[1].GroupIDs)
	})

	t.Run("foreign keys enforced", func(t *testing.T) {
		s := newTestStore(t)

		err := (&membershipsRepo{db: s.db}).insertPair(ctx, 999, 42)
		require.ErrorIs(t, err, store.ErrConstraintViolation)
	})
}
