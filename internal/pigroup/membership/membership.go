package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/pkg/idx"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

var (
	ErrGroupNotFound  = errors.New("membership: group not found")
	ErrClientNotFound = errors.New("membership: client not found")
	ErrUnknownOp      = errors.New("membership: unknown operation")
)

// Operation is the requested change to a client's group set.
type Operation int

const (
	Add Operation = iota + 1
	Remove

	// Flip removes the client from the group when it is a member and adds it
	// otherwise.
	Flip
)

func (o Operation) String() string {
	switch o {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Flip:
		return "flip"
	default:
		return "unknown"
	}
}

// ParseOperation accepts the names used by the CLI and the HTTP surface.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(s) {
	case "add", "append":
		return Add, nil
	case "remove":
		return Remove, nil
	case "flip", "toggle":
		return Flip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}
}

// Change is a resolved membership edit handed to a Backend. Op is always Add
// or Remove. GroupIDs is the client's complete group set after the change.
type Change struct {
	Op       Operation
	Client   domain.Client
	Group    domain.Group
	GroupIDs []uint
}

// Backend resolves names and applies membership changes against one source
// of truth.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// ResolveGroup returns the group with exactly this name or
	// ErrGroupNotFound.
	ResolveGroup(ctx context.Context, name string) (domain.Group, error)

	// ResolveClient returns the client with exactly this comment or
	// ErrClientNotFound. Duplicates resolve to the lowest id.
	ResolveClient(ctx context.Context, comment string) (domain.Client, error)

	// Apply persists the change.
	Apply(ctx context.Context, change Change) error

	ListGroups(ctx context.Context) ([]domain.Group, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// Result describes one toggle.
type Result struct {
	Outcome domain.Outcome `json:"outcome" swaggertype:"string" enums:"unchanged,changed"`

	// Op is the operation actually applied; a Flip resolves to Add or Remove.
	Op       string `json:"operation"`
	ClientID uint   `json:"client_id"`
	GroupID  uint   `json:"group_id"`
	GroupIDs []uint `json:"groups"`
}

type Toggler struct {
	backend Backend
}

func NewToggler(backend Backend) *Toggler {
	return &Toggler{backend: backend}
}

// Toggle resolves the group and the client, computes the desired group set and
// applies it when it differs from the current one. Steps run in order and the
// first failure aborts the rest.
func (t *Toggler) Toggle(ctx context.Context, op Operation, clientComment, groupName string) (Result, error) {
	if op != Add && op != Remove && op != Flip {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownOp, op)
	}

	ctx, logger := slogx.With(ctx,
		"run_id", idx.New().String(),
		"backend", t.backend.Name(),
		"op", op.String(),
		"client_comment", clientComment,
		"group", groupName,
	)

	group, err := t.backend.ResolveGroup(ctx, groupName)
	if err != nil {
		return Result{}, err
	}

	client, err := t.backend.ResolveClient(ctx, clientComment)
	if err != nil {
		return Result{}, err
	}

	logger = logger.With("client_id", client.ID, "group_id", group.ID)

	member := client.InGroup(group.ID)
	if op == Flip {
		op = Add
		if member {
			op = Remove
		}
	}

	res := Result{
		Outcome:  domain.Unchanged,
		Op:       op.String(),
		ClientID: client.ID,
		GroupID:  group.ID,
		GroupIDs: slices.Clone(client.GroupIDs),
	}
	if res.GroupIDs == nil {
		res.GroupIDs = []uint{}
	}

	switch {
	case op == Add && member, op == Remove && !member:
		logger.Info("membership already in desired state")
		return res, nil
	case op == Add:
		res.GroupIDs = append(res.GroupIDs, group.ID)
	case op == Remove:
		i := slices.Index(res.GroupIDs, group.ID)
		res.GroupIDs = slices.Delete(res.GroupIDs, i, i+1)
	}

	change := Change{Op: op, Client: client, Group: group, GroupIDs: res.GroupIDs}
	if err := t.backend.Apply(ctx, change); err != nil {
		return Result{}, fmt.Errorf("apply %s of client %d to group %d on %s backend: %w",
			op, client.ID, group.ID, t.backend.Name(), err)
	}

	logger.Info("membership changed", "groups", res.GroupIDs)
	res.Outcome = domain.Changed
	return res, nil
}
