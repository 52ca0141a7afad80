package domain

import (
	"slices"
	"time"
)

// Client is a device Pi-hole applies group rules to. Comment is the lookup key
// used by the toggle workflow and is not guaranteed unique.
type Client struct {
	ID      uint
	Address string // IP, MAC, hostname or interface as configured
	Name    string
	Comment string

	// GroupIDs is a set; order is the order reported by the backend.
	GroupIDs []uint

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// InGroup reports whether the client is a member of groupID.
func (c Client) InGroup(groupID uint) bool {
	return slices.Contains(c.GroupIDs, groupID)
}
