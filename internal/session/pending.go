package session

// PendingLevel indicates how much recomputation is owed before the next
// render. Levels form a join-semilattice under Merge: combining two
// requests always yields the maximum, never a demotion.
type PendingLevel int

const (
	PendingNone PendingLevel = iota
	PendingRedraw
	PendingRecompute
)

// Merge returns the larger of the two levels.
func (l PendingLevel) Merge(other PendingLevel) PendingLevel {
	if other > l {
		return other
	}
	return l
}

func (l PendingLevel) String() string {
	switch l {
	case PendingNone:
		return "none"
	case PendingRedraw:
		return "redraw"
	case PendingRecompute:
		return "recompute"
	default:
		return "unknown"
	}
}
