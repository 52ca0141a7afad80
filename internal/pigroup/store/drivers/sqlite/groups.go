package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
)

var groupColumns = []string{"id", "name", "enabled", "description", "date_added", "date_modified"}

type groupsRepo struct {
	db *sql.DB
}

func (r *groupsRepo) GetGroupByName(ctx context.Context, name string) (domain.Group, error) {
	query, args, err := qb.Select(groupColumns...).
		From(`"group"`).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return domain.Group{}, fmt.Errorf("building group query: %w", err)
	}

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Group{}, mapNotFound(err)
	}
	return g, nil
}

func (r *groupsRepo) ListGroups(ctx context.Context) ([]domain.Group, error) {
	query, args, err := qb.Select(groupColumns...).
		From(`"group"`).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building group query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (domain.Group, error) {
	var (
		g           domain.Group
		description sql.NullString
		added       int64
		modified    int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Enabled, &description, &added, &modified); err != nil {
		return domain.Group{}, err
	}
	g.Comment = mapNullStringPtr(description)
	g.CreatedAt = mapUnix(added)
	g.ModifiedAt = mapUnix(modified)
	return g, nil
}
