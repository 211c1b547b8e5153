package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoLineOrder() *Order {
	return &Order{
		ID:           "ord-1",
		TrackingCode: "TRK001",
		Lines: []*Line{
			{ProductID: "p1", SKU: "A1", Required: 2},
			{ProductID: "p2", BarCode: "X9", Required: 1},
		},
	}
}

func TestScanSequenceCompletesOrder(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())

	out := r.Scan("A1")
	require.NoError(t, out.Err)
	require.Equal(t, 1, out.NewCount)
	require.False(t, out.OrderComplete)

	out = r.Scan("A1")
	require.NoError(t, out.Err)
	require.Equal(t, 2, out.NewCount)
	require.False(t, out.OrderComplete)

	out = r.Scan("X9")
	require.NoError(t, out.Err)
	require.Equal(t, 1, out.NewCount)
	require.True(t, out.OrderComplete)

	require.Equal(t, 2, r.Order().Lines[0].Scanned)
	require.Equal(t, 1, r.Order().Lines[1].Scanned)
}

func TestScanUnknownCodeLeavesCountersUntouched(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())
	out := r.Scan("ZZZ")
	require.ErrorIs(t, out.Err, ErrNotMatched)
	for _, l := range r.Order().Lines {
		require.Zero(t, l.Scanned)
	}
}

func TestOverScanRejectedWithoutMutation(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())
	for _, code := range []string{"A1", "A1", "X9"} {
		require.NoError(t, r.Scan(code).Err)
	}

	// Every further scan on the fulfilled order is an over-scan.
	for _, code := range []string{"A1", "X9"} {
		out := r.Scan(code)
		require.ErrorIs(t, out.Err, ErrOverComplete)
	}
	require.Equal(t, 2, r.Order().Lines[0].Scanned)
	require.Equal(t, 1, r.Order().Lines[1].Scanned)
}

func TestScannedNeverExceedsRequired(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())
	seq := []string{"A1", "ZZZ", "A1", "A1", "X9", "X9", "A1", ""}
	for _, code := range seq {
		r.Scan(code)
		for _, l := range r.Order().Lines {
			require.LessOrEqual(t, l.Scanned, l.Required)
		}
	}
}

func TestScanNilOrConfirmedOrderIgnored(t *testing.T) {
	t.Parallel()

	r := NewReconciler(nil)
	out := r.Scan("A1")
	require.True(t, out.Ignored)
	require.NoError(t, out.Err)

	o := twoLineOrder()
	o.Confirmed = true
	r = NewReconciler(o)
	out = r.Scan("A1")
	require.True(t, out.Ignored)
	require.Zero(t, o.Lines[0].Scanned)
}

func TestZeroLineOrderTriviallyComplete(t *testing.T) {
	t.Parallel()

	o := &Order{ID: "empty"}
	require.True(t, o.Complete())
}

func TestPartialScanNotComplete(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())
	out := r.Scan("X9")
	require.NoError(t, out.Err)
	require.True(t, out.Line.Complete())
	require.False(t, out.OrderComplete)
}

func TestLineStatusTransitions(t *testing.T) {
	t.Parallel()

	l := &Line{ProductID: "p", SKU: "S", Required: 2}
	require.Equal(t, StatusPending, l.Status())
	require.Equal(t, ScanAccepted, l.RecordScan())
	require.Equal(t, StatusPartial, l.Status())
	require.Equal(t, ScanAccepted, l.RecordScan())
	require.Equal(t, StatusComplete, l.Status())
	require.Equal(t, ScanAlreadyComplete, l.RecordScan())
	require.Equal(t, 2, l.Scanned)
}

func TestCompletedProductsSnapshot(t *testing.T) {
	t.Parallel()

	r := NewReconciler(twoLineOrder())
	r.Scan("A1")
	got := r.Order().CompletedProducts()
	require.Equal(t, []CompletedProduct{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 0},
	}, got)
}
