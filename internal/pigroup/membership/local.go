package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

// LocalBackend applies changes directly to the gravity database. Each change
// is a single insert or delete of one client_by_group row.
type LocalBackend struct {
	store store.Store
}

func NewLocalBackend(s store.Store) *LocalBackend {
	return &LocalBackend{store: s}
}

func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) ResolveGroup(ctx context.Context, name string) (domain.Group, error) {
	g, err := b.store.Groups().GetGroupByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Group{}, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}
	if err != nil {
		return domain.Group{}, fmt.Errorf("get group %q: %w", name, err)
	}
	return g, nil
}

func (b *LocalBackend) ResolveClient(ctx context.Context, comment string) (domain.Client, error) {
	clients, err := b.store.Clients().GetClientsByComment(ctx, comment)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, fmt.Errorf("%w: %q", ErrClientNotFound, comment)
	}
	if err != nil {
		return domain.Client{}, fmt.Errorf("get client %q: %w", comment, err)
	}
	return pickClient(ctx, comment, clients)
}

// Apply goes through the store's name-keyed operations, which resolve the
// same client and group the workflow already checked.
func (b *LocalBackend) Apply(ctx context.Context, change Change) error {
	memberships := b.store.Memberships()

	switch change.Op {
	case Add:
		if err := memberships.AddMembership(ctx, change.Client.Comment, change.Group.Name); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}
	case Remove:
		n, err := memberships.RemoveMembership(ctx, change.Client.Comment, change.Group.Name)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		slogx.FromContext(ctx).Debug("membership deleted", "rows", n)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOp, change.Op)
	}
	return nil
}

func (b *LocalBackend) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return b.store.Groups().ListGroups(ctx)
}

func (b *LocalBackend) ListClients(ctx context.Context) ([]domain.Client, error) {
	return b.store.Clients().ListClients(ctx)
}
