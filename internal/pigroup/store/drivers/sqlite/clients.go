package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
)

var clientColumns = []string{"id", "ip", "comment", "date_added", "date_modified"}

type clientsRepo struct {
	db *sql.DB
}

func (r *clientsRepo) GetClientsByComment(ctx context.Context, comment string) ([]domain.Client, error) {
	clients, err := r.list(ctx, sq.Eq{"comment": comment})
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, store.ErrNotFound
	}
	return clients, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	return r.list(ctx, nil)
}

func (r *clientsRepo) list(ctx context.Context, where sq.Sqlizer) ([]domain.Client, error) {
	sel := qb.Select(clientColumns...).From("client").OrderBy("id")
	if where != nil {
		sel = sel.Where(where)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building client query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var clients []domain.Client
	for rows.Next() {
		var (
			c        domain.Client
			comment  sql.NullString
			added    int64
			modified int64
		)
		if err := rows.Scan(&c.ID, &c.Address, &comment, &added, &modified); err != nil {
			_ = rows.Close()
			return nil, err
		}
		c.Comment = mapNullString(comment)
		c.CreatedAt = mapUnix(added)
		c.ModifiedAt = mapUnix(modified)
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Release the single connection before the membership query.
	_ = rows.Close()

	if len(clients) == 0 {
		return clients, nil
	}

	memberships, err := r.groupIDs(ctx, clients)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].GroupIDs = memberships[clients[i].ID]
		if clients[i].GroupIDs == nil {
			clients[i].GroupIDs = []uint{}
		}
	}
	return clients, nil
}

// groupIDs loads the memberships of the given clients keyed by client id.
func (r *clientsRepo) groupIDs(ctx context.Context, clients []domain.Client) (map[uint][]uint, error) {
	ids := make([]uint, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	query, args, err := qb.Select("client_id", "group_id").
		From("client_by_group").
		Where(sq.Eq{"client_id": ids}).
		OrderBy("client_id", "group_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building membership query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[uint][]uint, len(clients))
	for rows.Next() {
		var clientID, groupID uint
		if err := rows.Scan(&clientID, &groupID); err != nil {
			return nil, err
		}
		out[clientID] = append(out[clientID], groupID)
	}
	return out, rows.Err()
}
