package state

import "github.com/kk-code-lab/vdir/internal/vfs"

// applyClick implements the selection transitions driven by click events.
//
//   - plain click: replace the selection with the clicked node
//   - ctrl click, or any click while selection mode is on: toggle membership
//   - shift click with an anchor: select the inclusive display-index range,
//     replacing the prior selection; without an anchor it degrades to toggle
//   - unmodified click on a non-selectable node: clear the selection
//
// The anchor index is recorded on every click except range clicks, so
// successive shift-clicks pivot around the same reference point. While
// selection is administratively disabled only the bookkeeping happens.
func (r *StateReducer) applyClick(state *AppState, c ClickCommand) error {
	node, ok := state.Snapshot.Get(c.NodeID)
	if !ok {
		return nil
	}

	recordAnchor := func() {
		state.Selection.LastClickIndex = c.Index
		state.Selection.LastClickID = c.NodeID
	}

	if state.SelectionDisabled {
		recordAnchor()
		return nil
	}

	toggle := c.Toggle || state.SelectionMode
	useRange := c.Range && state.Selection.LastClickIndex >= 0
	if c.Range && !useRange {
		toggle = true
	}

	switch {
	case useRange:
		lo, hi := state.Selection.LastClickIndex, c.Index
		if lo > hi {
			lo, hi = hi, lo
		}
		list := state.DisplayList()
		if hi >= len(list) {
			hi = len(list) - 1
		}
		if lo < 0 {
			lo = 0
		}
		ids := make(map[vfs.ID]struct{}, hi-lo+1)
		for i := lo; i <= hi; i++ {
			if list[i].Selectable {
				ids[list[i].ID] = struct{}{}
			}
		}
		state.Selection.IDs = ids

	case toggle:
		if node.Selectable {
			if state.Selection.Contains(node.ID) {
				delete(state.Selection.IDs, node.ID)
			} else {
				state.Selection.IDs[node.ID] = struct{}{}
			}
		}
		recordAnchor()

	case !node.Selectable:
		state.Selection.IDs = make(map[vfs.ID]struct{})
		recordAnchor()

	default:
		state.Selection.IDs = map[vfs.ID]struct{}{node.ID: {}}
		recordAnchor()
	}

	return nil
}
