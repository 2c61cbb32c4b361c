package disktree

import "github.com/mrhapile/disktree/pkg/types"

// TargetTable holds the targets of one tree. Entries are only ever appended
// while the tree is built; afterwards the table is read-only.
type TargetTable struct {
	targets []types.Target
}

func newTargetTable() *TargetTable {
	return &TargetTable{}
}

func (t *TargetTable) add(tg types.Target) types.TargetID {
	tg.ID = types.TargetID(len(t.targets))
	t.targets = append(t.targets, tg)
	return tg.ID
}

// Lookup maps a node's TargetID back to its target.
func (t *TargetTable) Lookup(id types.TargetID) (types.Target, bool) {
	if t == nil || id < 0 || int(id) >= len(t.targets) {
		return types.Target{}, false
	}
	return t.targets[id], true
}

// Len returns the number of targets.
func (t *TargetTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.targets)
}

// All returns a copy of the targets in allocation order.
func (t *TargetTable) All() []types.Target {
	if t == nil {
		return nil
	}
	return append([]types.Target(nil), t.targets...)
}
