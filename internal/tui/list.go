package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch msg.String() {
		case "enter":
			a.searching = false
			a.search.Blur()
			a.query = trimmed(a.search)
			return a, a.loadProcessesCmd(a.query)
		case "esc":
			a.searching = false
			a.search.Blur()
			a.search.SetValue(a.query)
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit

	case "ctrl+l":
		return a, a.logoutCmd()

	case "/":
		a.searching = true
		a.search.Focus()
		return a, nil

	case "r":
		return a, a.loadProcessesCmd(a.query)

	case "t":
		a.status = "sending test page..."
		a.statusErr = false
		return a, a.printTestCmd()

	case "s":
		a.cfg.UI.Sound = !a.cfg.UI.Sound
		if a.cfg.UI.Sound {
			a.status = "scan sound on"
		} else {
			a.status = "scan sound off"
		}
		a.statusErr = false
		return a, a.saveConfigCmd()

	case "tab":
		a.focusRight = !a.focusRight
		return a, nil

	case "up", "k":
		if a.focusRight {
			if a.waitCursor > 0 {
				a.waitCursor--
			}
		} else if a.procCursor > 0 {
			a.procCursor--
		}
		return a, nil

	case "down", "j":
		if a.focusRight {
			if a.waitCursor < len(a.waiting)-1 {
				a.waitCursor++
			}
		} else if a.procCursor < len(a.processes)-1 {
			a.procCursor++
		}
		return a, nil

	case "enter":
		if a.focusRight {
			if a.waitCursor < len(a.waiting) {
				p := a.waiting[a.waitCursor]
				a.status = fmt.Sprintf("creating packing from %s...", p.Name)
				a.statusErr = false
				return a, a.createPackingCmd(p.ID)
			}
			return a, nil
		}
		if a.procCursor < len(a.processes) {
			return a, a.openProcessCmd(a.processes[a.procCursor].ID)
		}
		return a, nil

	case "n":
		if a.waitCursor < len(a.waiting) {
			return a, a.createPackingCmd(a.waiting[a.waitCursor].ID)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) viewList() string {
	leftWidth := a.width * 2 / 3
	rightWidth := a.width - leftWidth - 4

	var left strings.Builder
	left.WriteString(headerStyle.Render("Packing processes"))
	left.WriteString("\n")
	if a.query != "" {
		left.WriteString(dimStyle.Render("filter: "+a.query) + "\n")
	}
	if a.searching {
		left.WriteString(a.search.View() + "\n")
	}
	if len(a.processes) == 0 {
		left.WriteString(dimStyle.Render("no processes"))
	}
	for i, p := range a.processes {
		state := okStyle.Render("open")
		if p.FinishedAt != nil {
			state = dimStyle.Render("finished")
		}
		row := fmt.Sprintf("#%-6d %-26s %-19s %-10s %s",
			p.ID, clip(p.Name, 26), p.StartedAt, clip(p.CreatedBy.Name, 10), state)
		if i == a.procCursor && !a.focusRight {
			row = cursorStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		left.WriteString(row + "\n")
	}

	var right strings.Builder
	right.WriteString(headerStyle.Render("Waiting picking"))
	right.WriteString("\n")
	if len(a.waiting) == 0 {
		right.WriteString(dimStyle.Render("nothing waiting"))
	}
	for i, p := range a.waiting {
		row := fmt.Sprintf("%-24s %3d orders", clip(p.Name, 24), p.OrderCount)
		if i == a.waitCursor && a.focusRight {
			row = cursorStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		right.WriteString(row + "\n")
	}

	leftPanel := panelStyle.Width(leftWidth)
	rightPanel := panelStyle.Width(rightWidth)
	if a.focusRight {
		rightPanel = focusStyle.Width(rightWidth)
	} else {
		leftPanel = focusStyle.Width(leftWidth)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		leftPanel.Render(left.String()),
		rightPanel.Render(right.String()),
	)
	help := dimStyle.Render("enter open · / search · tab panel · n create packing · t test print · s sound · r refresh · ctrl+l sign out · q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Cerebro Packing")+"  "+dimStyle.Render(a.user.Name),
		body,
		help,
		a.statusLine(),
	)
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
