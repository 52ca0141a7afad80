package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type membershipsRepo struct {
	db *sql.DB
}

func (r *membershipsRepo) AddMembership(ctx context.Context, clientComment, groupName string) error {
	clientID, groupID, err := r.resolve(ctx, clientComment, groupName)
	if err != nil {
		return err
	}
	return r.insertPair(ctx, clientID, groupID)
}

func (r *membershipsRepo) RemoveMembership(ctx context.Context, clientComment, groupName string) (int64, error) {
	clientID, groupID, err := r.resolve(ctx, clientComment, groupName)
	if err != nil {
		return 0, err
	}
	return r.deletePair(ctx, clientID, groupID)
}

func (r *membershipsRepo) insertPair(ctx context.Context, clientID, groupID uint) error {
	query, args, err := qb.Insert("client_by_group").
		Columns("client_id", "group_id").
		Values(clientID, groupID).
		ToSql()
	if err != nil {
		return fmt.Errorf("building membership insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *membershipsRepo) deletePair(ctx context.Context, clientID, groupID uint) (int64, error) {
	query, args, err := qb.Delete("client_by_group").
		Where(sq.Eq{"client_id": clientID, "group_id": groupID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building membership delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// resolve maps the lookup keys to ids. Clients come back ordered by id, so
// duplicate comments resolve to the lowest id.
func (r *membershipsRepo) resolve(ctx context.Context, clientComment, groupName string) (uint, uint, error) {
	group, err := (&groupsRepo{db: r.db}).GetGroupByName(ctx, groupName)
	if err != nil {
		return 0, 0, fmt.Errorf("group %q: %w", groupName, err)
	}

	clients, err := (&clientsRepo{db: r.db}).GetClientsByComment(ctx, clientComment)
	if err != nil {
		return 0, 0, fmt.Errorf("client %q: %w", clientComment, err)
	}

	return clients[0].ID, group.ID, nil
}
