package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/gitlet/pkg/object"
)

// TestClassify_DecisionTable walks every combination of presence at base
// and how each side relates to base (absent, unchanged, modified, and
// modified to the same content as the other side).
func TestClassify_DecisionTable(t *testing.T) {
	const (
		none = object.Hash("")
		b    = object.Hash("base")
		c    = object.Hash("cur")
		i    = object.Hash("inc")
		x    = object.Hash("same")
	)

	cases := []struct {
		name                    string
		base, current, incoming object.Hash
		want                    Outcome
	}{
		// Present at base.
		{"unchanged both", b, b, b, Untouched},
		{"incoming modified", b, b, i, TakeIncoming},
		{"current modified", b, c, b, KeepCurrent},
		{"incoming deleted, current unchanged", b, b, none, Delete},
		{"current deleted, incoming unchanged", b, none, b, StayDeleted},
		{"deleted both", b, none, none, StayDeleted},
		{"modified identically", b, x, x, KeepCurrent},
		{"modified differently", b, c, i, Conflict},
		{"current modified, incoming deleted", b, c, none, Conflict},
		{"current deleted, incoming modified", b, none, i, Conflict},

		// Absent at base.
		{"absent everywhere", none, none, none, Untouched},
		{"added in current only", none, c, none, Untouched},
		{"added in incoming only", none, none, i, AddIncoming},
		{"added identically", none, x, x, Untouched},
		{"added differently keeps current", none, c, i, Untouched},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.base, tc.current, tc.incoming))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "TakeIncoming", TakeIncoming.String())
	assert.Equal(t, "Conflict", Conflict.String())
	assert.Equal(t, "Outcome(42)", Outcome(42).String())
}
