package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestAdvancePicksFirstUnfinished(t *testing.T) {
	t.Parallel()

	state := ProcessState{
		Orders: []SessionOrder{
			{ID: "a", FinishedAt: ts("2026-03-05 10:00:00")},
			{ID: "b"},
			{ID: "c", FinishedAt: ts("2026-03-05 11:00:00")},
		},
	}
	s := NewSequencer()
	adv := s.Advance(state)
	require.Equal(t, AdvanceNext, adv.Kind)
	require.Equal(t, "b", adv.Next.ID)
	require.Equal(t, 2, adv.Completed)
	require.Equal(t, 3, adv.Total)
}

func TestAdvancePrefersBackendPendingOrder(t *testing.T) {
	t.Parallel()

	state := ProcessState{
		Orders: []SessionOrder{
			{ID: "a"},
			{ID: "b"},
		},
		Pending: &SessionOrder{ID: "b"},
	}
	adv := NewSequencer().Advance(state)
	require.Equal(t, AdvanceNext, adv.Kind)
	require.Equal(t, "b", adv.Next.ID)
}

func TestAdvanceAllOrdersComplete(t *testing.T) {
	t.Parallel()

	state := ProcessState{
		Orders: []SessionOrder{
			{ID: "a", FinishedAt: ts("2026-03-05 10:00:00")},
			{ID: "b", FinishedAt: ts("2026-03-05 10:05:00")},
		},
	}
	adv := NewSequencer().Advance(state)
	require.Equal(t, AdvanceAllComplete, adv.Kind)
	require.Nil(t, adv.Next)
	require.Equal(t, 2, adv.Completed)
}

func TestAdvanceEmptyProcess(t *testing.T) {
	t.Parallel()

	adv := NewSequencer().Advance(ProcessState{})
	require.Equal(t, AdvanceNoPending, adv.Kind)
	require.Zero(t, adv.Total)
}

func TestAdvanceIdempotent(t *testing.T) {
	t.Parallel()

	state := ProcessState{
		Orders: []SessionOrder{
			{ID: "a", FinishedAt: ts("2026-03-05 10:00:00")},
			{ID: "b"},
			{ID: "c"},
		},
	}
	s := NewSequencer()
	first := s.Advance(state)
	second := s.Advance(state)
	require.Equal(t, first, second)
}

func TestAdvanceCountsComeFromState(t *testing.T) {
	t.Parallel()

	s := NewSequencer()
	s.Advance(ProcessState{Orders: []SessionOrder{{ID: "a"}}})
	require.Equal(t, 0, s.Completed())
	require.Equal(t, 1, s.Total())

	// A re-fetch with the order finished is the only thing that moves
	// the counters.
	s.Advance(ProcessState{Orders: []SessionOrder{{ID: "a", FinishedAt: ts("2026-03-05 10:00:00")}}})
	require.Equal(t, 1, s.Completed())
	require.Equal(t, 1, s.Total())
}
