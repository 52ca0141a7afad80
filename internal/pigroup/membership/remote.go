package membership

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

// RemoteBackend applies changes through the Pi-hole API. The caller owns the
// session on the client.
type RemoteBackend struct {
	client *piholesdk.Client
}

func NewRemoteBackend(client *piholesdk.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (b *RemoteBackend) Name() string { return "remote" }

func (b *RemoteBackend) ResolveGroup(ctx context.Context, name string) (domain.Group, error) {
	resp, err := b.client.GetGroup(ctx, name)
	if piholesdk.IsNotFound(err) {
		return domain.Group{}, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}
	if err != nil {
		return domain.Group{}, fmt.Errorf("get group %q: %w", name, err)
	}

	for _, g := range resp.Groups {
		if g.Name == name {
			return mapGroup(g), nil
		}
	}
	return domain.Group{}, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
}

func (b *RemoteBackend) ResolveClient(ctx context.Context, comment string) (domain.Client, error) {
	resp, err := b.client.ListClients(ctx)
	if err != nil {
		return domain.Client{}, fmt.Errorf("list clients: %w", err)
	}

	var matches []domain.Client
	for _, c := range resp.Clients {
		if c.Comment != nil && *c.Comment == comment {
			matches = append(matches, mapClient(c))
		}
	}
	return pickClient(ctx, comment, matches)
}

func (b *RemoteBackend) Apply(ctx context.Context, change Change) error {
	_, err := b.client.UpdateClient(ctx, change.Client.ID, change.Client.Comment, change.GroupIDs)
	if err != nil {
		return fmt.Errorf("update client %d: %w", change.Client.ID, err)
	}
	return nil
}

func (b *RemoteBackend) ListGroups(ctx context.Context) ([]domain.Group, error) {
	resp, err := b.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := make([]domain.Group, len(resp.Groups))
	for i, g := range resp.Groups {
		groups[i] = mapGroup(g)
	}
	return groups, nil
}

func (b *RemoteBackend) ListClients(ctx context.Context) ([]domain.Client, error) {
	resp, err := b.client.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	clients := make([]domain.Client, len(resp.Clients))
	for i, c := range resp.Clients {
		clients[i] = mapClient(c)
	}
	slices.SortFunc(clients, byID)
	return clients, nil
}

// pickClient applies the duplicate comment rule shared by both backends:
// lowest id wins and the ambiguity is logged.
func pickClient(ctx context.Context, comment string, matches []domain.Client) (domain.Client, error) {
	if len(matches) == 0 {
		return domain.Client{}, fmt.Errorf("%w: %q", ErrClientNotFound, comment)
	}

	best := slices.MinFunc(matches, byID)
	if len(matches) > 1 {
		slogx.FromContext(ctx).Warn("client comment is not unique, using lowest id",
			"client_comment", comment,
			"matches", len(matches),
			"client_id", best.ID,
		)
	}
	return best, nil
}

func mapGroup(g piholesdk.Group) domain.Group {
	return domain.Group{
		ID:         g.ID,
		Name:       g.Name,
		Enabled:    g.Enabled,
		Comment:    g.Comment,
		CreatedAt:  unixTime(g.DateAdded),
		ModifiedAt: unixTime(g.DateModified),
	}
}

func mapClient(c piholesdk.ClientEntry) domain.Client {
	out := domain.Client{
		ID:         c.ID,
		Address:    c.Client,
		GroupIDs:   slices.Clone(c.Groups),
		CreatedAt:  unixTime(c.DateAdded),
		ModifiedAt: unixTime(c.DateModified),
	}
	if out.GroupIDs == nil {
		out.GroupIDs = []uint{}
	}
	if c.Name != nil {
		out.Name = *c.Name
	}
	if c.Comment != nil {
		out.Comment = *c.Comment
	}
	return out
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func byID(a, b domain.Client) int { return cmp.Compare(a.ID, b.ID) }
