package tui

import (
	"fmt"
	"strings"

	"board-cli/internal/docs"
	"board-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const overlayW = 22

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.showHelp {
		body, _ := docs.Get("keys")
		return normalizePane(docs.Render(body, m.mdStyle, m.width-2), m.width, m.height)
	}

	b := m.engine.Snapshot()
	title := m.renderTitle()
	status := m.renderStatus()
	helpLine := m.renderHelpLine()
	bodyH := m.height - 3
	if bodyH < 1 {
		bodyH = 1
	}

	boardW := m.width
	var overlay string
	if ov, ok := m.engine.Overlay(); ok && m.width > overlayW*2 {
		boardW = m.width - overlayW - 2
		overlay = renderOverlay(ov, overlayW, bodyH)
	}
	cols := renderColumns(b, m.columnsView(), boardW, bodyH)
	body := cols
	if overlay != "" {
		body = joinWithGap(2, cols, overlay)
	}

	return strings.Join([]string{
		fitLine(title, m.width),
		normalizePane(body, m.width, bodyH),
		fitLine(status, m.width),
		fitLine(helpLine, m.width),
	}, "\n")
}

func (m appModel) renderTitle() string {
	st := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	state := m.engine.State().String()
	return st.Render("board") + styleMuted().Render(fmt.Sprintf("  v%d  %s", m.engine.Model().Version(), state))
}

func (m appModel) renderStatus() string {
	if m.jumping {
		line := "/" + m.query
		if len(m.matches) > 0 {
			line += styleMuted().Render("  " + strings.Join(m.matches, " "))
		}
		return line
	}
	if m.flash != "" {
		if m.flashErr {
			return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorFlashErrorBg).Render(" " + m.flash + " ")
		}
		return styleMuted().Render(m.flash)
	}
	if m.dragging() {
		over, _ := m.hovered(m.engine.Snapshot())
		side := "above"
		if m.ptr.Half%2 == 1 {
			side = "below"
		}
		return styleMuted().Render(fmt.Sprintf("holding %s  over %s (%s)", m.active, over, side))
	}
	return ""
}

func (m appModel) renderHelpLine() string {
	if m.dragging() {
		return m.help.ShortHelpView(m.keys.dragKeys())
	}
	return m.help.View(m.keys)
}

type columnsView struct {
	sel      selection
	dragging bool
	active   string
	ptr      pointer
}

func (m appModel) columnsView() columnsView {
	return columnsView{sel: m.sel, dragging: m.dragging(), active: m.active, ptr: m.ptr}
}

// renderColumns draws containers left to right, one row per item under a header row, so
// screen rows line up with pointer rows.
func renderColumns(b model.Board, v columnsView, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := len(b.Containers)
	if n == 0 {
		return normalizePane(styleMuted().Render("(no containers: press a)"), width, height)
	}

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 8 {
		colW = 8
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	heldStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	itemStyle := lipgloss.NewStyle()
	itemSelectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	muted := styleMuted()

	marker := func(col, row int) string {
		if !v.dragging || v.ptr.Col != col || v.ptr.Half/2 != row {
			return "  "
		}
		if v.ptr.Half%2 == 1 {
			return "▾ "
		}
		return "▸ "
	}

	renderCol := func(ci int, c string) string {
		items := b.Items[c]
		lines := make([]string, 0, len(items)+2)

		hs := headerStyle
		switch {
		case v.dragging && c == v.active:
			hs = heldStyle
		case !v.dragging && v.sel.Col == ci && v.sel.Row == 0:
			hs = headerSelectedStyle
		}
		head := fitLine(marker(ci, 0)+fmt.Sprintf("%s (%d)", c, len(items)), colW)
		lines = append(lines, hs.Render(head))

		for i, it := range items {
			st := itemStyle
			switch {
			case v.dragging && it == v.active:
				st = heldStyle
			case !v.dragging && v.sel.Col == ci && v.sel.Row == i+1:
				st = itemSelectedStyle
			}
			lines = append(lines, st.Render(fitLine(marker(ci, i+1)+it, colW)))
		}

		body := len(items) + 1
		switch {
		case v.dragging && v.ptr.Col == ci && v.ptr.Half/2 >= body:
			lines = append(lines, muted.Render(fitLine(marker(ci, v.ptr.Half/2)+"(drop at end)", colW)))
		case len(items) == 0:
			lines = append(lines, muted.Render(fitLine("  (empty)", colW)))
		}
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	rendered := make([]string, 0, n)
	for i, c := range b.Containers {
		rendered = append(rendered, renderCol(i, c))
	}
	return normalizePane(joinWithGap(gap, rendered...), width, height)
}

// renderOverlay draws what is held: a single card for an item, the header plus its items
// for a container.
func renderOverlay(ov model.Overlay, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(width - 2)

	var lines []string
	if ov.Kind == model.KindContainer {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(ov.ID))
		for _, it := range ov.Items {
			lines = append(lines, "  "+it)
		}
		if len(ov.Items) == 0 {
			lines = append(lines, styleMuted().Render("  (empty)"))
		}
	} else {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(ov.ID))
	}
	return normalizePane(box.Render(strings.Join(lines, "\n")), width, height)
}
