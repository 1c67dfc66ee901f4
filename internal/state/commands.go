package state

import "github.com/kk-code-lab/vdir/internal/vfs"

// Command is a request to change state. Commands carry data only; the
// reducer holds all of the transition logic.
type Command interface{}

// ===== TREE =====

// CreateFolderCommand creates an empty folder under a parent.
type CreateFolderCommand struct {
	ParentID vfs.ID
	Name     string
}

// CreateFileCommand creates a file under a parent folder.
type CreateFileCommand struct {
	ParentID vfs.ID
	Name     string
	Size     int64
}

// DeleteNodesCommand removes the listed nodes. Unknown ids and the root
// are skipped, so the command is idempotent.
type DeleteNodesCommand struct {
	IDs []vfs.ID
}

// MoveNodesCommand reparents the listed nodes from the source folder to
// the destination folder.
type MoveNodesCommand struct {
	IDs                 []vfs.ID
	SourceFolderID      vfs.ID
	DestinationFolderID vfs.ID
}

// ===== NAVIGATION =====

// OpenFolderCommand makes the given folder current. Opening a non-folder
// is a no-op.
type OpenFolderCommand struct {
	ID vfs.ID
}

// ===== SELECTION =====

// ClickCommand records one pointer click on a listing row. Index is the
// display index of the row, which is what range selection anchors to.
type ClickCommand struct {
	Index  int
	NodeID vfs.ID
	Toggle bool // ctrl held, or selection mode active
	Range  bool // shift held
}

// SelectAllCommand selects every selectable node in the open folder.
type SelectAllCommand struct{}

// ClearSelectionCommand empties the selection, keeping the range anchor.
type ClearSelectionCommand struct{}

// SetSelectionModeCommand toggles the persistent toggle-select mode.
type SetSelectionModeCommand struct {
	Enabled bool
}

// SetSelectionDisabledCommand flips the administrative kill switch. While
// disabled, clicks still track their index but the selection never changes.
type SetSelectionDisabledCommand struct {
	Disabled bool
}

// ===== STAGING =====

// StageCommand records a pending cut, replacing any previous record.
type StageCommand struct {
	SourceFolderID vfs.ID
	NodeIDs        []vfs.ID
}

// ClearStagingCommand drops the pending cut record.
type ClearStagingCommand struct{}

// ===== VIEW =====

// SortByNameCommand switches the display list between stored order and
// folders-first name order.
type SortByNameCommand struct {
	Enabled bool
}

// ResizeCommand records the new terminal dimensions.
type ResizeCommand struct {
	Width  int
	Height int
}
