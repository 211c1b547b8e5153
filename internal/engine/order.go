package engine

import "time"

// LineStatus is derived from the two counters, nothing else is stored.
type LineStatus string

const (
	StatusPending  LineStatus = "pending"
	StatusPartial  LineStatus = "partial"
	StatusComplete LineStatus = "complete"
)

// ScanResult reports what RecordScan did with a matched line.
type ScanResult int

const (
	ScanAccepted ScanResult = iota
	ScanAlreadyComplete
)

// Line is one expected product within an order.
type Line struct {
	ProductID     string
	Name          string
	SKU           string
	BarCode       string
	WarehouseCode string
	ImageURL      string
	Required      int
	Scanned       int
}

// RecordScan increments the scanned counter by one. It never pushes
// Scanned past Required; an over-scan attempt is reported instead.
func (l *Line) RecordScan() ScanResult {
	if l.Scanned >= l.Required {
		return ScanAlreadyComplete
	}
	l.Scanned++
	return ScanAccepted
}

func (l *Line) Status() LineStatus {
	switch {
	case l.Scanned == 0 && l.Required > 0:
		return StatusPending
	case l.Scanned < l.Required:
		return StatusPartial
	default:
		return StatusComplete
	}
}

func (l *Line) Complete() bool { return l.Scanned >= l.Required }

// Order is one shipment's set of required products plus the tracking
// code verified before confirmation. The engine owns it exclusively for
// the duration of a scanning session; it is replaced wholesale when the
// next order is fetched.
type Order struct {
	ID             string
	Customer       string
	Address        string
	City           string
	Province       string
	Zip            string
	CountryCode    string
	ShippingMethod string
	TrackingCode   string
	Lines          []*Line
	Confirmed      bool
}

// Complete reports whether every line is fulfilled. An order with zero
// lines is trivially complete.
func (o *Order) Complete() bool {
	for _, l := range o.Lines {
		if !l.Complete() {
			return false
		}
	}
	return true
}

func (o *Order) TotalRequired() int {
	var n int
	for _, l := range o.Lines {
		n += l.Required
	}
	return n
}

func (o *Order) TotalScanned() int {
	var n int
	for _, l := range o.Lines {
		n += l.Scanned
	}
	return n
}

// CompletedProduct is one entry of the confirmation payload.
type CompletedProduct struct {
	ProductID string
	Quantity  int
}

// CompletedProducts snapshots the scanned counts for confirmation.
func (o *Order) CompletedProducts() []CompletedProduct {
	out := make([]CompletedProduct, 0, len(o.Lines))
	for _, l := range o.Lines {
		out = append(out, CompletedProduct{ProductID: l.ProductID, Quantity: l.Scanned})
	}
	return out
}

// SessionOrder is one unit of work within a packing process as the
// backend reports it. Order is nil unless the backend expanded it.
type SessionOrder struct {
	ID         string
	FinishedAt *time.Time
	StartedAt  *time.Time
	Order      *Order
}

func (s *SessionOrder) Finished() bool { return s != nil && s.FinishedAt != nil }

// ProcessState is a freshly fetched view of one packing process.
type ProcessState struct {
	Orders  []SessionOrder
	Pending *SessionOrder
}
