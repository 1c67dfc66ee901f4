// Package render draws the application state onto a tcell screen.
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/vdir/internal/state"
)

// ListStartY is the first screen row of the listing. Row 0 holds the
// breadcrumb header and the bottom row holds the status line.
const ListStartY = 1

// Renderer handles all UI rendering.
type Renderer struct {
	screen         tcell.Screen
	theme          ColorTheme
	runeWidthCache [128]int // ASCII cache (0-127)
	scrollOffset   int
}

// NewRenderer creates a new renderer.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state. The cursor row is kept
// visible by adjusting the scroll offset first.
func (r *Renderer) Render(state *statepkg.AppState, cursor int) {
	r.screen.Clear()

	w, h := r.screen.Size()
	visible := r.VisibleRows(h)
	r.ensureVisible(cursor, visible, len(state.DisplayList()))

	r.drawHeader(state, w)
	r.drawListing(state, cursor, w, h)
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// ScrollOffset returns the index of the first visible listing row.
func (r *Renderer) ScrollOffset() int {
	return r.scrollOffset
}

// VisibleRows returns how many listing rows fit on a screen of the
// given height.
func (r *Renderer) VisibleRows(height int) int {
	rows := height - 2 // header and status line
	if rows < 0 {
		rows = 0
	}
	return rows
}

// IndexAt maps a screen row to a listing index, or -1 when the row is
// outside the listing area or past the last entry.
func (r *Renderer) IndexAt(state *statepkg.AppState, y, height int) int {
	if y < ListStartY || y >= ListStartY+r.VisibleRows(height) {
		return -1
	}
	index := y - ListStartY + r.scrollOffset
	if index >= len(state.DisplayList()) {
		return -1
	}
	return index
}

func (r *Renderer) ensureVisible(cursor, visible, total int) {
	if visible <= 0 || total == 0 {
		r.scrollOffset = 0
		return
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	if cursor < r.scrollOffset {
		r.scrollOffset = cursor
	}
	if cursor >= r.scrollOffset+visible {
		r.scrollOffset = cursor - visible + 1
	}
	if r.scrollOffset > total-visible {
		r.scrollOffset = total - visible
	}
	if r.scrollOffset < 0 {
		r.scrollOffset = 0
	}
}

// drawHeader renders the breadcrumb from the root down to the current
// folder.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	names := make([]string, 0, 4)
	for _, node := range state.Path() {
		names = append(names, node.Name)
	}
	crumb := strings.Join(names, " › ")
	crumb = r.truncateTextToWidth(crumb, w)

	endX := r.drawTextLine(0, 0, w, crumb, headerStyle.Bold(true))
	r.fillLine(endX, 0, w, headerStyle)
}

func (r *Renderer) drawListing(state *statepkg.AppState, cursor, w, h int) {
	nodes := state.DisplayList()
	visible := r.VisibleRows(h)

	for row := 0; row < visible; row++ {
		index := r.scrollOffset + row
		if index >= len(nodes) {
			break
		}
		node := nodes[index]
		y := ListStartY + row

		style := tcell.StyleDefault.Foreground(r.theme.FileFg)
		switch {
		case node.IsDir:
			style = style.Foreground(r.theme.DirectoryFg)
		case !node.Selectable:
			style = style.Foreground(r.theme.DisabledFg)
		}
		if state.Staging != nil && state.Staging.Contains(node.ID) {
			style = style.Foreground(r.theme.StagedFg)
		}
		if state.Selection.Contains(node.ID) {
			style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		if index == cursor {
			style = style.Background(r.theme.CursorBg).Foreground(r.theme.CursorFg)
		}

		name := node.Name
		if node.IsDir {
			name += "/"
		}
		marker := "  "
		if state.Selection.Contains(node.ID) {
			marker = "• "
		}

		endX := r.drawTextLine(0, y, w, marker, style)
		endX = r.drawTextLine(endX, y, w-endX, r.truncateTextToWidth(name, w-endX), style)
		r.fillLine(endX, y, w, style)
	}
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	statusStyle := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)

	text := r.formatStatus(state)
	if state.LastError != nil {
		text = state.LastError.Error()
		statusStyle = statusStyle.Foreground(r.theme.ErrorFg)
	}

	endX := r.drawTextLine(0, y, w, r.truncateTextToWidth(text, w), statusStyle)
	r.fillLine(endX, y, w, statusStyle)
}

func (r *Renderer) formatStatus(state *statepkg.AppState) string {
	parts := make([]string, 0, 4)
	parts = append(parts, fmt.Sprintf("%d items", len(state.DisplayList())))

	if n := len(state.Selection.IDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if state.Staging != nil {
		parts = append(parts, fmt.Sprintf("%d cut", len(state.Staging.NodeIDs)))
	}
	if state.SelectionMode {
		parts = append(parts, "SELECT")
	}
	if state.SortByName {
		parts = append(parts, "sorted")
	}
	return strings.Join(parts, "  |  ")
}
