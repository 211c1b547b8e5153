package engine

// Outcome is the result of feeding one scanned code to the reconciler.
// Err carries ErrNotMatched or ErrOverComplete on rejection; on an
// accepted scan Err is nil and Line/NewCount describe the update.
// OrderComplete is set on the scan that fulfilled the last line.
type Outcome struct {
	Line          *Line
	NewCount      int
	OrderComplete bool
	Err           error
	Suggestion    string
	Ignored       bool
}

// Accepted reports whether the scan advanced a counter.
func (o Outcome) Accepted() bool { return !o.Ignored && o.Err == nil }

// Reconciler drives one order's scanning session: it resolves scanned
// codes to lines, advances counters and detects order completion.
type Reconciler struct {
	order *Order
}

func NewReconciler(o *Order) *Reconciler { return &Reconciler{order: o} }

func (r *Reconciler) Order() *Order { return r.order }

// Scan processes one scanned code, already trimmed by the caller.
// With no active order, or one already confirmed, scans are ignored
// silently; the caller should have disabled input.
func (r *Reconciler) Scan(code string) Outcome {
	if r.order == nil || r.order.Confirmed {
		return Outcome{Ignored: true}
	}
	line, ok := Resolve(code, r.order.Lines)
	if !ok {
		return Outcome{Err: ErrNotMatched, Suggestion: Suggest(code, r.order.Lines)}
	}
	if line.RecordScan() == ScanAlreadyComplete {
		return Outcome{Line: line, Err: ErrOverComplete}
	}
	return Outcome{
		Line:          line,
		NewCount:      line.Scanned,
		OrderComplete: r.order.Complete(),
	}
}
