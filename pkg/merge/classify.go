package merge

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Outcome describes how one path is resolved by a three-way merge.
type Outcome int

const (
	Untouched    Outcome = iota // nothing to do: unchanged everywhere, or absent from base and kept as current has it
	TakeIncoming                // unchanged in current, modified in incoming
	KeepCurrent                 // modified in current only, or modified identically in both
	Delete                      // unchanged in current, deleted in incoming
	StayDeleted                 // deleted in current and unchanged or deleted in incoming
	Conflict                    // both sides diverged from base (modify/modify, modify/delete)
	AddIncoming                 // absent from base and current, added in incoming
)

func (o Outcome) String() string {
	switch o {
	case Untouched:
		return "Untouched"
	case TakeIncoming:
		return "TakeIncoming"
	case KeepCurrent:
		return "KeepCurrent"
	case Delete:
		return "Delete"
	case StayDeleted:
		return "StayDeleted"
	case Conflict:
		return "Conflict"
	case AddIncoming:
		return "AddIncoming"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Classify resolves one path given its blob hash at the merge base, on the
// current side and on the incoming side. An empty hash means the path is
// absent on that side. Rules are checked in priority order.
func Classify(base, current, incoming object.Hash) Outcome {
	// Without a base version only an incoming-side addition moves the
	// path. Whatever the current side added stays as it is.
	if base == "" {
		if current == "" && incoming != "" {
			return AddIncoming
		}
		return Untouched
	}

	currentSame := current == base
	incomingSame := incoming == base

	switch {
	case currentSame && incomingSame:
		return Untouched
	case currentSame && incoming != "":
		return TakeIncoming
	case incomingSame && current != "":
		return KeepCurrent
	case currentSame && incoming == "":
		return Delete
	case incomingSame && current == "":
		return StayDeleted
	case current == "" && incoming == "":
		return StayDeleted
	case current == incoming:
		return KeepCurrent
	default:
		return Conflict
	}
}
