package membership

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/piholetest"
	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

const testPassword = "correct horse"

func newRemote(t *testing.T) (*RemoteBackend, *piholetest.Server) {
	t.Helper()

	srv := piholetest.New(t, testPassword)
	srv.AddGroup(42, "Unresolved")
	srv.AddGroup(7, "Kids")
	srv.AddClient(17, "192.168.1.50", "Fire TV cube")
	srv.AddClient(23, "192.168.1.60", "Laptop", 0, 7)

	client := piholesdk.NewClient(srv.URL)
	_, err := client.Authenticate(context.Background(), testPassword)
	require.NoError(t, err)

	return NewRemoteBackend(client), srv
}

func TestRemoteBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("resolve group", func(t *testing.T) {
		b, _ := newRemote(t)

		g, err := b.ResolveGroup(ctx, "Unresolved")
		require.NoError(t, err)
		require.Equal(t, uint(42), g.ID)

		_, err = b.ResolveGroup(ctx, "unresolved")
		require.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("resolve client", func(t *testing.T) {
		b, _ := newRemote(t)

		c, err := b.ResolveClient(ctx, "Laptop")
		require.NoError(t, err)
		require.Equal(t, uint(23), c.ID)
		require.Equal(t, []uint{0, 7}, c.GroupIDs)

		_, err = b.ResolveClient(ctx, "laptop")
		require.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("duplicate comments resolve to lowest id", func(t *testing.T) {
		b, srv := newRemote(t)
		srv.AddClient(30, "192.168.1.70", "Laptop")
		srv.AddClient(5, "192.168.1.80", "Laptop")

		c, err := b.ResolveClient(ctx, "Laptop")
		require.NoError(t, err)
		require.Equal(t, uint(5), c.ID)

		clients, err := b.ListClients(ctx)
		require.NoError(t, err)
		ids := make([]uint, len(clients))
		for i, c := range clients {
			ids[i] = c.ID
		}
		require.Equal(t, []uint{5, 17, 23, 30}, ids)
	})

	t.Run("duplicate warning carries the run id", func(t *testing.T) {
		b, srv := newRemote(t)
		srv.AddClient(5, "192.168.1.80", "Laptop")

		var buf bytes.Buffer
		logCtx := slogx.WithContext(ctx, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := NewToggler(b).Toggle(logCtx, Add, "Laptop", "Unresolved")
		require.NoError(t, err)
		require.Equal(t, []uint{42}, srv.ClientGroups(5))
		require.Equal(t, []uint{0, 7}, srv.ClientGroups(23))

		var warning string
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.Contains(line, "client comment is not unique") {
				warning = line
			}
		}
		require.Contains(t, warning, "level=WARN")
		require.Contains(t, warning, "run_id=")
		require.Contains(t, warning, "matches=2")
	})

	t.Run("toggle scenario", func(t *testing.T) {
		b, srv := newRemote(t)
		tg := NewToggler(b)

		res, err := tg.Toggle(ctx, Add, "Fire TV cube", "Unresolved")
		require.NoError(t, err)
		require.Equal(t, domain.Changed, res.Outcome)
		require.Equal(t, []uint{42}, srv.ClientGroups(17))
		require.Equal(t, 1, srv.Mutations())

		res, err = tg.Toggle(ctx, Add, "Fire TV cube", "Unresolved")
		require.NoError(t, err)
		require.Equal(t, domain.Unchanged, res.Outcome)
		require.Equal(t, 1, srv.Mutations(), "second add must not write")

		res, err = tg.Toggle(ctx, Remove, "Fire TV cube", "Unresolved")
		require.NoError(t, err)
		require.Equal(t, domain.Changed, res.Outcome)
		require.Equal(t, []uint{}, srv.ClientGroups(17))
	})

	t.Run("remove keeps other memberships", func(t *testing.T) {
		b, srv := newRemote(t)

		_, err := NewToggler(b).Toggle(ctx, Remove, "Laptop", "Kids")
		require.NoError(t, err)
		require.Equal(t, []uint{0}, srv.ClientGroups(23))
	})

	t.Run("lists", func(t *testing.T) {
		b, _ := newRemote(t)

		groups, err := b.ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 3)

		clients, err := b.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		require.Equal(t, uint(17), clients[0].ID)
		require.Equal(t, "Fire TV cube", clients[0].Comment)
	})

	t.Run("expired session surfaces api error", func(t *testing.T) {
		b, srv := newRemote(t)
		srv.ExpireSessions()

		_, err := b.ResolveGroup(ctx, "Unresolved")
		var apiErr *piholesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
	})
}
