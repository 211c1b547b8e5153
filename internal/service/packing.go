package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/database"
	"github.com/Andersonaa12/cerebro-packing/internal/database/repository"
	"github.com/Andersonaa12/cerebro-packing/internal/engine"
	"github.com/Andersonaa12/cerebro-packing/internal/printing"
)

// backendTime is the backend's timestamp layout.
const backendTime = "2006-01-02 15:04:05"

// PackingService runs packing sessions: it fetches process state,
// shapes it for the reconciliation engine, confirms completed orders
// and hands labels to the printer.
type PackingService struct {
	Client  *api.Client
	Journal *repository.JournalRepo
	Printer printing.Printer
	Log     zerolog.Logger
}

// Session is the live state of one packing process on this terminal.
// It owns the engine order exclusively; the order is replaced wholesale
// whenever the process is re-fetched.
type Session struct {
	ProcessID int64
	Process   api.Process
	Confirmed []api.ConfirmedOrder
	Advance   engine.Advance

	sequencer  *engine.Sequencer
	reconciler *engine.Reconciler
	pendingRef *api.ProcessOrder
	order      *engine.Order
	started    time.Time
}

// Order returns the engine order being scanned, nil when the process
// has nothing pending.
func (s *Session) Order() *engine.Order { return s.order }

// Scan feeds one trimmed code to the reconciler.
func (s *Session) Scan(code string) engine.Outcome {
	return s.reconciler.Scan(code)
}

// Gate builds a fresh tracking gate for the current order. A new gate
// per confirmation attempt: after a failed confirmation the operator
// re-verifies the tracking code before retrying.
func (s *Session) Gate() *engine.TrackingGate {
	var expected string
	if s.order != nil {
		expected = s.order.TrackingCode
	}
	return engine.NewTrackingGate(expected)
}

// Finished reports whether the whole process is done.
func (s *Session) Finished() bool {
	return s.Process.FinishedAt != nil || s.Advance.Kind == engine.AdvanceAllComplete
}

// Processes lists packing processes, optionally filtered by name.
func (s *PackingService) Processes(ctx context.Context, query string) ([]api.Process, error) {
	return s.Client.PackingProcesses(ctx, query)
}

// WaitingPicking lists picking processes ready to become packing
// processes.
func (s *PackingService) WaitingPicking(ctx context.Context) ([]api.PickingProcess, error) {
	return s.Client.WaitingPickingProcesses(ctx)
}

// CreatePacking promotes a waiting picking process.
func (s *PackingService) CreatePacking(ctx context.Context, pickingID int64) error {
	return s.Client.CreatePacking(ctx, pickingID)
}

// PrintTest asks the backend to produce a test print job, so the
// operator can verify the label printer before starting a session.
func (s *PackingService) PrintTest(ctx context.Context) error {
	return s.Client.PrintTest(ctx)
}

// Open fetches a process and prepares the next order for scanning.
func (s *PackingService) Open(ctx context.Context, processID int64) (*Session, error) {
	sess := &Session{ProcessID: processID, sequencer: engine.NewSequencer()}
	if err := s.Refresh(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Refresh re-fetches process state and rebuilds the pending order with
// zeroed counters. Called once at open and after every confirmation;
// the backend is the single source of truth for all counts.
func (s *PackingService) Refresh(ctx context.Context, sess *Session) error {
	detail, err := s.Client.ProcessDetail(ctx, sess.ProcessID)
	if err != nil {
		return fmt.Errorf("fetch process detail: %w", err)
	}

	sess.Process = detail.Process
	sess.Confirmed = detail.ConfirmedOrders

	state := buildState(detail)
	sess.Advance = sess.sequencer.Advance(state)

	sess.pendingRef = nil
	sess.order = nil
	if sess.Advance.Kind == engine.AdvanceNext && !sess.Finished() {
		if ref := findProcessOrder(detail, sess.Advance.Next.ID); ref != nil {
			sess.pendingRef = ref
			sess.order = buildOrder(*ref)
			sess.started = time.Now()
		}
	}
	sess.reconciler = engine.NewReconciler(sess.order)
	return nil
}

// ConfirmOutcome reports what happened after a successful
// confirmation. A printing failure does not fail the confirmation; the
// order is already accepted upstream.
type ConfirmOutcome struct {
	OrderID         int64
	LabelURL        string
	PrintErr        error
	ProcessFinished bool
}

// ConfirmCurrent submits the scanned quantities for the current order.
// Only call after the tracking gate passed. On error the in-memory
// counts stay intact so the operator can retry without rescanning.
func (s *PackingService) ConfirmCurrent(ctx context.Context, sess *Session) (ConfirmOutcome, error) {
	if sess.order == nil || sess.pendingRef == nil {
		return ConfirmOutcome{}, fmt.Errorf("no pending order to confirm")
	}
	req := api.ConfirmRequest{}
	for _, cp := range sess.order.CompletedProducts() {
		pid, _ := strconv.ParseInt(cp.ProductID, 10, 64)
		req.CompletedProducts = append(req.CompletedProducts, api.CompletedProduct{
			ProductID: pid,
			Quantity:  cp.Quantity,
		})
	}

	res, err := s.Client.ConfirmOrder(ctx, sess.pendingRef.ID, sess.ProcessID, req)
	if err != nil {
		s.Log.Error().Err(err).Int64("order", sess.pendingRef.Order.ID).Msg("confirmation failed")
		return ConfirmOutcome{}, fmt.Errorf("confirm order: %w", err)
	}
	sess.order.Confirmed = true

	out := ConfirmOutcome{
		OrderID:         sess.pendingRef.Order.ID,
		LabelURL:        res.LabelURL,
		ProcessFinished: res.LabelURL == "",
	}
	s.journal(ctx, sess, res.LabelURL)
	if res.LabelURL != "" && s.Printer != nil {
		if err := s.Printer.Print(ctx, res.LabelURL); err != nil {
			s.Log.Warn().Err(err).Msg("label print failed")
			out.PrintErr = err
		}
	}
	s.Log.Info().Int64("order", out.OrderID).Int64("process", sess.ProcessID).Msg("order confirmed")
	return out, nil
}

// ReprintOrder fetches and prints the label of an already confirmed
// order.
func (s *PackingService) ReprintOrder(ctx context.Context, orderID int64) error {
	labelURL, err := s.Client.OrderLabel(ctx, orderID)
	if err != nil {
		return err
	}
	if s.Printer == nil {
		return fmt.Errorf("no printer configured")
	}
	return s.Printer.Print(ctx, labelURL)
}

// journal records the confirmation locally, best effort.
func (s *PackingService) journal(ctx context.Context, sess *Session, labelURL string) {
	if s.Journal == nil {
		return
	}
	var parts []string
	for _, l := range sess.order.Lines {
		parts = append(parts, fmt.Sprintf("%s(%d)", l.Name, l.Scanned))
	}
	started := sess.started
	dur := int64(time.Since(started).Seconds())
	co := repository.ConfirmedOrder{
		ID:              uuid.NewString(),
		ProcessID:       sess.ProcessID,
		ProcessOrderID:  sess.pendingRef.ID,
		OrderID:         sess.pendingRef.Order.ID,
		Products:        strings.Join(parts, "; "),
		StartedAt:       &started,
		FinishedAt:      database.Now(),
		DurationSeconds: &dur,
	}
	if labelURL != "" {
		co.LabelURL = &labelURL
	}
	if err := s.Journal.Add(ctx, co); err != nil {
		s.Log.Warn().Err(err).Msg("journal write failed")
	}
}

// buildState shapes an API payload for the sequencer.
func buildState(detail api.ProcessDetail) engine.ProcessState {
	state := engine.ProcessState{}
	for _, po := range detail.Orders {
		state.Orders = append(state.Orders, sessionOrder(po))
	}
	if detail.PendingOrder != nil {
		so := sessionOrder(*detail.PendingOrder)
		state.Pending = &so
	}
	return state
}

func sessionOrder(po api.ProcessOrder) engine.SessionOrder {
	return engine.SessionOrder{
		ID:         strconv.FormatInt(po.ID, 10),
		StartedAt:  parseTime(po.StartedAt),
		FinishedAt: parseTime(po.FinishedAt),
	}
}

// buildOrder shapes a process order for the reconciler, counters at
// zero.
func buildOrder(po api.ProcessOrder) *engine.Order {
	o := &engine.Order{
		ID:             strconv.FormatInt(po.Order.ID, 10),
		Customer:       po.Order.Name,
		Address:        joinAddress(po.Order.Address, po.Order.Address2),
		City:           po.Order.City,
		Province:       po.Order.Province,
		Zip:            po.Order.Zip,
		CountryCode:    po.Order.CountryCode,
		ShippingMethod: po.Order.ShippingMethod,
		TrackingCode:   po.Order.TrackingCode,
	}
	for _, line := range po.Lines {
		o.Lines = append(o.Lines, &engine.Line{
			ProductID:     strconv.FormatInt(line.Product.ID, 10),
			Name:          line.Product.Name,
			SKU:           line.Product.SKU,
			BarCode:       line.Product.BarCode,
			WarehouseCode: line.Product.WarehouseCode,
			ImageURL:      line.Product.ImageURL,
			Required:      line.Quantity,
		})
	}
	return o
}

func findProcessOrder(detail api.ProcessDetail, id string) *api.ProcessOrder {
	if detail.PendingOrder != nil && strconv.FormatInt(detail.PendingOrder.ID, 10) == id {
		return detail.PendingOrder
	}
	for i := range detail.Orders {
		if strconv.FormatInt(detail.Orders[i].ID, 10) == id {
			return &detail.Orders[i]
		}
	}
	return nil
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(backendTime, *s)
	if err != nil {
		return nil
	}
	return &t
}

func joinAddress(a, b string) string {
	if b == "" {
		return a
	}
	return a + " / " + b
}
