package engine

// AdvanceKind classifies what a freshly fetched process state means for
// the scanning session.
type AdvanceKind int

const (
	// AdvanceNext carries the order to scan next.
	AdvanceNext AdvanceKind = iota
	// AdvanceAllComplete means every order in the process is finished.
	AdvanceAllComplete
	// AdvanceNoPending means the process has no orders at all.
	AdvanceNoPending
)

// Advance is the sequencing decision for one fetched process state.
type Advance struct {
	Kind      AdvanceKind
	Next      *SessionOrder
	Completed int
	Total     int
}

// Sequencer selects the order to scan next and tracks display counts.
// It never increments counts on its own: the backend is authoritative
// and every state change is established by re-fetching after a
// confirmation, so counts are always recomputed from the given state.
type Sequencer struct {
	completed int
	total     int
}

func NewSequencer() *Sequencer { return &Sequencer{} }

func (s *Sequencer) Completed() int { return s.completed }
func (s *Sequencer) Total() int     { return s.total }

// Advance picks the next order using the backend-designated pending
// order when present, otherwise the first order without a completion
// timestamp. Idempotent: the same state always yields the same answer.
func (s *Sequencer) Advance(state ProcessState) Advance {
	s.total = len(state.Orders)
	s.completed = 0
	for _, o := range state.Orders {
		if o.Finished() {
			s.completed++
		}
	}

	counts := func(a Advance) Advance {
		a.Completed = s.completed
		a.Total = s.total
		return a
	}

	if len(state.Orders) == 0 {
		return counts(Advance{Kind: AdvanceNoPending})
	}
	if state.Pending != nil && !state.Pending.Finished() {
		next := *state.Pending
		return counts(Advance{Kind: AdvanceNext, Next: &next})
	}
	for i := range state.Orders {
		if !state.Orders[i].Finished() {
			next := state.Orders[i]
			return counts(Advance{Kind: AdvanceNext, Next: &next})
		}
	}
	return counts(Advance{Kind: AdvanceAllComplete})
}
