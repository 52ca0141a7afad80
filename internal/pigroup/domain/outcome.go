package domain

import "fmt"

// Outcome reports whether a toggle changed anything.
type Outcome int

const (
	// Unchanged means the client was already in the desired state and no
	// mutating call was made.
	Unchanged Outcome = iota
	Changed
)

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// MarshalText lets the HTTP surface report outcomes as strings.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "changed":
		*o = Changed
	case "unchanged":
		*o = Unchanged
	default:
		return fmt.Errorf("domain: unknown outcome %q", b)
	}
	return nil
}
