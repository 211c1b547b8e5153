// Package widgets holds small ANSI-aware rendering helpers shared by
// the TUI views.
package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal composites a bordered card over the base view, centered. The
// base stays visible around the card, which is what makes the tracking
// gate read as blocking rather than as a navigation.
func Modal(base, content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(content)
	overlay := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	return composite(canvas(base, width, height), canvas(overlay, width, height), width, height)
}

func composite(base, overlay string, width, height int) string {
	baseLines := lines(base, height)
	overlayLines := lines(overlay, height)
	out := make([]string, height)
	for i := 0; i < height; i++ {
		b := pad(baseLines[i], width)
		o := pad(overlayLines[i], width)
		start, end, ok := cardBounds(o, width)
		if !ok {
			out[i] = b
			continue
		}
		left := ansi.Truncate(b, start, "")
		segment := ansi.Truncate(dropCols(o, start), end-start, "")
		right := dropCols(b, end)
		out[i] = pad(left+segment+right, width)
	}
	return strings.Join(out, "\n")
}

// cardBounds finds the non-blank span of an overlay line.
func cardBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	for start < len(plain) && plain[start] == ' ' {
		start++
	}
	end = len(trimmed)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func canvas(s string, width, height int) string {
	ls := lines(s, height)
	for i := range ls {
		ls[i] = pad(ls[i], width)
	}
	return strings.Join(ls, "\n")
}

func lines(s string, height int) []string {
	ls := strings.Split(s, "\n")
	if len(ls) > height {
		ls = ls[:height]
	}
	for len(ls) < height {
		ls = append(ls, "")
	}
	return ls
}

func dropCols(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Bar renders a simple determinate progress bar.
func Bar(width int, done, total int) string {
	if width < 2 {
		return ""
	}
	frac := 0.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
