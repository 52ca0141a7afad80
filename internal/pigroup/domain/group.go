package domain

import "time"

// Group is a Pi-hole group. Name is unique and is the lookup key used by the
// CLI and the HTTP surface.
type Group struct {
	ID         uint
	Name       string
	Enabled    bool
	Comment    *string
	CreatedAt  time.Time
	ModifiedAt time.Time
}
