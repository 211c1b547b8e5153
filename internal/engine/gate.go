package engine

// TrackingGate is the verification step between a fully scanned order
// and its confirmation. Comparison is strict equality, untrimmed and
// case sensitive; when no code is expected only an empty submission
// passes. Mismatches are retryable without limit and never touch the
// order's counters.
type TrackingGate struct {
	expected string
	attempts int
	passed   bool
}

func NewTrackingGate(expected string) *TrackingGate {
	return &TrackingGate{expected: expected}
}

func (g *TrackingGate) Expected() string { return g.expected }
func (g *TrackingGate) Attempts() int    { return g.attempts }
func (g *TrackingGate) Passed() bool     { return g.passed }

// Verify checks one submission. The caller trims the scan field before
// submitting; the gate itself does not.
func (g *TrackingGate) Verify(input string) bool {
	g.attempts++
	if input == g.expected {
		g.passed = true
		return true
	}
	return false
}
