package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/engine"
	"github.com/Andersonaa12/cerebro-packing/internal/tui/widgets"
)

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalTracking:
		return a.updateTrackingModal(msg)
	case modalProduct:
		switch msg.String() {
		case "esc", "ctrl+d", "enter":
			a.modal = modalNone
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.leaveDetail()
		return a, a.loadProcessesCmd(a.query)

	case "ctrl+r":
		return a, a.refreshCmd()

	case "ctrl+t":
		// reopen the tracking gate, e.g. to retry a failed confirmation
		if a.sess != nil && a.sess.Order() != nil && a.sess.Order().Complete() && !a.confirming {
			a.openTrackingModal()
		}
		return a, nil

	case "ctrl+d":
		if a.currentLine() != nil {
			a.modal = modalProduct
		}
		return a, nil

	case "ctrl+p":
		if co, ok := a.selectedConfirmed(); ok {
			a.status = fmt.Sprintf("reprinting label for order %d...", co.OrderID)
			a.statusErr = false
			return a, a.reprintCmd(co.OrderID)
		}
		return a, nil

	case "up":
		if a.prodCursor > 0 {
			a.prodCursor--
		}
		return a, nil

	case "down":
		if o := a.order(); o != nil && a.prodCursor < len(o.Lines)-1 {
			a.prodCursor++
		}
		return a, nil

	case "left":
		if a.confPage > 0 {
			a.confPage--
			a.confCursor = 0
		}
		return a, nil

	case "right":
		if a.confPage < a.confPages()-1 {
			a.confPage++
			a.confCursor = 0
		}
		return a, nil

	case "shift+up":
		if a.confCursor > 0 {
			a.confCursor--
		}
		return a, nil

	case "shift+down":
		if a.confCursor < len(a.confirmedPage())-1 {
			a.confCursor++
		}
		return a, nil

	case "enter":
		return a.submitScan()
	}

	var cmd tea.Cmd
	a.scan, cmd = a.scan.Update(msg)
	return a, cmd
}

func (a *App) submitScan() (tea.Model, tea.Cmd) {
	code := trimmed(a.scan)
	a.scan.SetValue("")
	if code == "" || a.sess == nil || a.confirming {
		return a, nil
	}

	out := a.sess.Scan(code)
	switch {
	case out.Ignored:
		return a, nil

	case errors.Is(out.Err, engine.ErrNotMatched):
		a.scanNote = fmt.Sprintf("no product matches %q", code)
		if out.Suggestion != "" {
			a.scanNote += fmt.Sprintf(" (did you mean %s?)", out.Suggestion)
		}
		a.scanErr = true
		return a, a.beep()

	case errors.Is(out.Err, engine.ErrOverComplete):
		a.scanNote = fmt.Sprintf("%s is already complete", out.Line.Name)
		a.scanErr = true
		return a, a.beep()
	}

	a.scanNote = fmt.Sprintf("%s  %d/%d", out.Line.Name, out.NewCount, out.Line.Required)
	a.scanErr = false
	if out.OrderComplete {
		a.openTrackingModal()
	}
	return a, nil
}

func (a *App) openTrackingModal() {
	a.gate = a.sess.Gate()
	a.gateNote = ""
	a.gateInput.SetValue("")
	a.gateInput.Focus()
	a.scan.Blur()
	a.modal = modalTracking
}

func (a *App) updateTrackingModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		// abandon: counters stay as they are, scanning resumes
		a.modal = modalNone
		a.gate = nil
		a.gateInput.Blur()
		a.scan.Focus()
		a.scanNote = "tracking check abandoned; press ctrl+t to verify again"
		a.scanErr = true
		return a, nil

	case "enter":
		// the gate compares exactly what was typed, no trimming
		if a.gate.Verify(a.gateInput.Value()) {
			a.modal = modalNone
			a.gateInput.Blur()
			a.confirming = true
			a.status = "confirming order..."
			a.statusErr = false
			return a, a.confirmCmd()
		}
		a.gateNote = fmt.Sprintf("tracking code mismatch (attempt %d)", a.gate.Attempts())
		a.gateInput.SetValue("")
		return a, a.beep()
	}

	var cmd tea.Cmd
	a.gateInput, cmd = a.gateInput.Update(msg)
	return a, cmd
}

func (a *App) order() *engine.Order {
	if a.sess == nil {
		return nil
	}
	return a.sess.Order()
}

func (a *App) currentLine() *engine.Line {
	o := a.order()
	if o == nil || a.prodCursor >= len(o.Lines) {
		return nil
	}
	return o.Lines[a.prodCursor]
}

func (a *App) pageSize() int {
	if a.cfg.UI.PageSize > 0 {
		return a.cfg.UI.PageSize
	}
	return 10
}

func (a *App) confPages() int {
	if a.sess == nil || len(a.sess.Confirmed) == 0 {
		return 1
	}
	return (len(a.sess.Confirmed) + a.pageSize() - 1) / a.pageSize()
}

func (a *App) confirmedPage() []int {
	if a.sess == nil {
		return nil
	}
	size := a.pageSize()
	start := a.confPage * size
	if start >= len(a.sess.Confirmed) {
		return nil
	}
	end := start + size
	if end > len(a.sess.Confirmed) {
		end = len(a.sess.Confirmed)
	}
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}

func (a *App) selectedConfirmed() (api.ConfirmedOrder, bool) {
	page := a.confirmedPage()
	if a.confCursor >= len(page) {
		return api.ConfirmedOrder{}, false
	}
	return a.sess.Confirmed[page[a.confCursor]], true
}

func (a *App) viewDetail() string {
	if a.sess == nil {
		return a.statusLine()
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		a.detailHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, a.orderPanel(), a.shippingPanel()),
		a.confirmedPanel(),
		dimStyle.Render("enter scan · ↑/↓ product · ctrl+d product detail · ←/→ history page · ctrl+p reprint · ctrl+r refresh · esc back"),
		a.statusLine(),
	)

	switch a.modal {
	case modalTracking:
		return widgets.Modal(base, a.trackingCard(), a.width, a.height)
	case modalProduct:
		return widgets.Modal(base, a.productCard(), a.width, a.height)
	}
	return base
}

func (a *App) detailHeader() string {
	adv := a.sess.Advance
	progress := fmt.Sprintf("%d/%d orders completed", adv.Completed, adv.Total)
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(a.sess.Process.Name),
		"  ",
		widgets.Bar(24, adv.Completed, adv.Total),
		" ",
		dimStyle.Render(progress),
	)
}

func (a *App) orderPanel() string {
	o := a.order()
	width := a.width * 3 / 5

	var b strings.Builder
	if o == nil {
		b.WriteString(okStyle.Render("all orders in this process are complete"))
		return focusStyle.Width(width).Render(b.String())
	}

	b.WriteString(headerStyle.Render("Order "+o.ID) + "  " + dimStyle.Render(o.Customer) + "\n\n")
	for i, l := range o.Lines {
		mark := "  "
		if i == a.prodCursor {
			mark = cursorStyle.Render("> ")
		}
		var state string
		switch l.Status() {
		case engine.StatusComplete:
			state = okStyle.Render("✓")
		case engine.StatusPartial:
			state = partialStyle.Render("…")
		default:
			state = dimStyle.Render("·")
		}
		b.WriteString(fmt.Sprintf("%s%s %-28s %-14s %s %d/%d\n",
			mark, state, clip(l.Name, 28), clip(l.SKU, 14),
			barStyle.Render(widgets.Bar(10, l.Scanned, l.Required)),
			l.Scanned, l.Required))
	}
	b.WriteString(fmt.Sprintf("\n%d/%d items scanned\n\n", o.TotalScanned(), o.TotalRequired()))

	b.WriteString(a.scan.View() + "\n")
	if a.scanNote != "" {
		if a.scanErr {
			b.WriteString(errorStyle.Render(a.scanNote))
		} else {
			b.WriteString(okStyle.Render(a.scanNote))
		}
	}
	return focusStyle.Width(width).Render(b.String())
}

func (a *App) shippingPanel() string {
	o := a.order()
	width := a.width - a.width*3/5 - 4

	var b strings.Builder
	b.WriteString(headerStyle.Render("Shipping") + "\n\n")
	if o == nil {
		b.WriteString(dimStyle.Render("no pending order"))
		return panelStyle.Width(width).Render(b.String())
	}
	b.WriteString(o.Customer + "\n")
	b.WriteString(o.Address + "\n")
	b.WriteString(fmt.Sprintf("%s, %s %s\n", o.City, o.Province, o.Zip))
	b.WriteString(o.CountryCode + "\n\n")
	b.WriteString(shipStyle.Render(o.ShippingMethod) + "\n")
	if o.TrackingCode != "" {
		b.WriteString(dimStyle.Render("tracking: "+o.TrackingCode) + "\n")
	}
	return panelStyle.Width(width).Render(b.String())
}

func (a *App) confirmedPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Confirmed orders"))
	if pages := a.confPages(); pages > 1 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  page %d/%d", a.confPage+1, pages)))
	}
	b.WriteString("\n")
	page := a.confirmedPage()
	if len(page) == 0 {
		b.WriteString(dimStyle.Render("none yet"))
	}
	for n, i := range page {
		co := a.sess.Confirmed[i]
		var parts []string
		for _, p := range co.Products {
			parts = append(parts, fmt.Sprintf("%s(%d)", p.Name, p.Quantity))
		}
		row := fmt.Sprintf("#%-8d %-19s %s", co.OrderID, co.FinishedAt, clip(strings.Join(parts, ", "), a.width-40))
		if n == a.confCursor {
			row = cursorStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row + "\n")
	}
	return panelStyle.Width(a.width - 2).Render(b.String())
}

func (a *App) trackingCard() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Verify tracking code") + "\n\n")
	b.WriteString("Scan the shipping label to confirm this order.\n\n")
	b.WriteString(a.gateInput.View() + "\n")
	if a.gateNote != "" {
		b.WriteString(errorStyle.Render(a.gateNote) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter verify · esc cancel"))
	return b.String()
}

func (a *App) productCard() string {
	l := a.currentLine()
	if l == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(l.Name) + "\n\n")
	b.WriteString("SKU        " + l.SKU + "\n")
	b.WriteString("Bar code   " + l.BarCode + "\n")
	b.WriteString("Warehouse  " + l.WarehouseCode + "\n")
	if l.ImageURL != "" {
		b.WriteString("Image      " + l.ImageURL + "\n")
	}
	b.WriteString(fmt.Sprintf("\nScanned    %d/%d", l.Scanned, l.Required))
	b.WriteString("\n\n" + dimStyle.Render("esc close"))
	return b.String()
}
