package reconcile

import "fmt"

// Kind classifies what happened to a theme entry.
type Kind int

// The zero Kind is Unknown so an unset outcome never counts as a rename.
const (
	Unknown Kind = iota
	Updated
	SkippedSame
	SkippedMissing
	SkippedForbidden
	Failed
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Updated:
		return "updated"
	case SkippedSame:
		return "same"
	case SkippedMissing:
		return "missing"
	case SkippedForbidden:
		return "forbidden"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of reconciling one theme entry.
// OldName is empty when the channel wasn't found.
type Outcome struct {
	ID      uint64
	Kind    Kind
	OldName string
	NewName string
	Err     error
}
