package state

import (
	"github.com/kk-code-lab/vdir/internal/vfs"
)

// StateReducer applies commands to state
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies one command. The AppState holder is updated in place, but
// the node tree inside it only ever moves between immutable snapshots: a
// failed tree operation leaves the previously published snapshot installed.
func (r *StateReducer) Reduce(state *AppState, cmd Command) (*AppState, error) {
	switch c := cmd.(type) {

	// ===== TREE =====

	case CreateFolderCommand:
		snap, _, err := state.Snapshot.CreateFolder(c.ParentID, c.Name)
		if err != nil {
			return state, err
		}
		state.Snapshot = snap
		state.invalidateDisplay()
		return state, nil

	case CreateFileCommand:
		snap, _, err := state.Snapshot.CreateFile(c.ParentID, c.Name, c.Size)
		if err != nil {
			return state, err
		}
		state.Snapshot = snap
		state.invalidateDisplay()
		return state, nil

	case DeleteNodesCommand:
		snap, err := state.Snapshot.DeleteNodes(c.IDs)
		if err != nil {
			return state, err
		}
		state.Snapshot = snap
		state.invalidateDisplay()
		r.pruneAfterDelete(state, c.IDs)
		return state, nil

	case MoveNodesCommand:
		snap, err := state.Snapshot.MoveNodes(c.IDs, c.SourceFolderID, c.DestinationFolderID)
		if err != nil {
			return state, err
		}
		state.Snapshot = snap
		state.invalidateDisplay()
		return state, nil

	// ===== NAVIGATION =====

	case OpenFolderCommand:
		node, ok := state.Snapshot.Get(c.ID)
		if !ok || !node.IsDir {
			// Not openable; valid request, nothing to do.
			return state, nil
		}
		state.CurrentFolderID = c.ID
		state.Selection = NewSelection()
		state.invalidateDisplay()
		return state, nil

	// ===== SELECTION =====

	case ClickCommand:
		return state, r.applyClick(state, c)

	case SelectAllCommand:
		if state.SelectionDisabled {
			return state, nil
		}
		ids := make(map[vfs.ID]struct{})
		for _, node := range state.DisplayList() {
			if node.Selectable {
				ids[node.ID] = struct{}{}
			}
		}
		state.Selection.IDs = ids
		return state, nil

	case ClearSelectionCommand:
		if state.SelectionDisabled {
			return state, nil
		}
		// The range anchor survives an explicit clear; only clicks move it.
		state.Selection.IDs = make(map[vfs.ID]struct{})
		return state, nil

	case SetSelectionModeCommand:
		state.SelectionMode = c.Enabled
		return state, nil

	case SetSelectionDisabledCommand:
		state.SelectionDisabled = c.Disabled
		return state, nil

	// ===== STAGING =====

	case StageCommand:
		ids := make([]vfs.ID, len(c.NodeIDs))
		copy(ids, c.NodeIDs)
		state.Staging = &Staging{SourceFolderID: c.SourceFolderID, NodeIDs: ids}
		return state, nil

	case ClearStagingCommand:
		state.Staging = nil
		return state, nil

	// ===== VIEW =====

	case SortByNameCommand:
		state.SortByName = c.Enabled
		state.invalidateDisplay()
		return state, nil

	case ResizeCommand:
		state.ScreenWidth = c.Width
		state.ScreenHeight = c.Height
		return state, nil
	}

	return state, nil
}

// pruneAfterDelete drops deleted ids from the selection and from any staged
// record so neither holds a dangling reference.
func (r *StateReducer) pruneAfterDelete(state *AppState, ids []vfs.ID) {
	for _, id := range ids {
		delete(state.Selection.IDs, id)
	}
	if state.Staging == nil {
		return
	}
	kept := state.Staging.NodeIDs[:0]
	for _, id := range state.Staging.NodeIDs {
		if _, ok := state.Snapshot.Get(id); ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		state.Staging = nil
		return
	}
	state.Staging.NodeIDs = kept
}
