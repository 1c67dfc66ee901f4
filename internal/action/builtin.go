package action

import (
	"fmt"

	"github.com/kk-code-lab/vdir/internal/state"
	"github.com/kk-code-lab/vdir/internal/vfs"
)

// Built-in action ids.
const (
	OpenFiles           = "open_files"
	OpenParentFolder    = "open_parent_folder"
	CreateFolder        = "create_folder"
	DeleteFiles         = "delete_files"
	CutFiles            = "cut_files"
	PasteFiles          = "paste_files"
	SelectAllFiles      = "select_all_files"
	ClearSelection      = "clear_selection"
	ToggleSelectionMode = "toggle_selection_mode"
	SortFilesByName     = "sort_files_by_name"
	MouseClickFile      = "mouse_click_file"
)

// OpenFilesPayload names an explicit open target. Without a payload the
// action falls back to the selection.
type OpenFilesPayload struct {
	TargetID vfs.ID
}

// CreateFolderPayload carries the name of the folder to create.
type CreateFolderPayload struct {
	Name string
}

// MouseClickPayload is the UI boundary's translation of a pointer click.
type MouseClickPayload struct {
	NodeID vfs.ID
	Index  int // display index of the clicked row
	Ctrl   bool
	Shift  bool
}

// Defaults returns the built-in catalog. Callers compose their own
// definitions on top before building the registry.
func Defaults() []Definition {
	return []Definition{
		{
			ID:          OpenFiles,
			Description: "Open",
			Effect:      openFilesEffect,
		},
		{
			ID:          OpenParentFolder,
			Description: "Go up a directory",
			Hotkeys:     []string{"backspace"},
			Effect:      openParentEffect,
		},
		{
			ID:          CreateFolder,
			Description: "Create folder",
			Hotkeys:     []string{"ctrl+n"},
			Effect:      createFolderEffect,
		},
		{
			ID:                DeleteFiles,
			Description:       "Delete files",
			RequiresSelection: true,
			Hotkeys:           []string{"delete"},
			Effect:            deleteFilesEffect,
		},
		{
			ID:                CutFiles,
			Description:       "Cut files",
			RequiresSelection: true,
			Hotkeys:           []string{"ctrl+x"},
			Effect:            cutFilesEffect,
		},
		{
			ID:          PasteFiles,
			Description: "Paste files",
			Hotkeys:     []string{"ctrl+v"},
			Effect:      pasteFilesEffect,
		},
		{
			ID:          SelectAllFiles,
			Description: "Select all files",
			Hotkeys:     []string{"ctrl+a"},
			Effect: func(env *Env) error {
				return env.Apply(state.SelectAllCommand{})
			},
		},
		{
			ID:          ClearSelection,
			Description: "Clear selection",
			Hotkeys:     []string{"escape"},
			Effect: func(env *Env) error {
				return env.Apply(state.ClearSelectionCommand{})
			},
		},
		{
			ID:          ToggleSelectionMode,
			Description: "Toggle selection mode",
			Hotkeys:     []string{"s"},
			Effect: func(env *Env) error {
				return env.Apply(state.SetSelectionModeCommand{Enabled: !env.State.SelectionMode})
			},
		},
		{
			ID:          SortFilesByName,
			Description: "Sort by name",
			Hotkeys:     []string{"n"},
			Effect: func(env *Env) error {
				return env.Apply(state.SortByNameCommand{Enabled: !env.State.SortByName})
			},
		},
		{
			ID:          MouseClickFile,
			Description: "Click",
			Effect:      mouseClickEffect,
		},
	}
}

// openFilesEffect opens the payload target, or failing that the first
// openable node in the selection. Double-activation bypasses selection
// entirely, so the UI sends the target explicitly.
func openFilesEffect(env *Env) error {
	var target vfs.ID
	if p, ok := env.Payload.(OpenFilesPayload); ok {
		target = p.TargetID
	}
	if target == "" {
		for _, node := range env.Selection {
			if node.IsDir {
				target = node.ID
				break
			}
		}
	}
	if target == "" {
		return nil
	}
	return env.Apply(state.OpenFolderCommand{ID: target})
}

func openParentEffect(env *Env) error {
	cur := env.State.CurrentFolder()
	if cur == nil || cur.IsRoot() {
		// Nothing above the root; silently ignore.
		return nil
	}
	return env.Apply(state.OpenFolderCommand{ID: cur.ParentID})
}

func createFolderEffect(env *Env) error {
	name := "New folder"
	if p, ok := env.Payload.(CreateFolderPayload); ok && p.Name != "" {
		name = p.Name
	}
	return env.Apply(state.CreateFolderCommand{
		ParentID: env.State.CurrentFolderID,
		Name:     name,
	})
}

// deleteFilesEffect removes the selection along with the descendant closure
// of every selected folder, so no orphaned subtree survives.
func deleteFilesEffect(env *Env) error {
	ids := make([]vfs.ID, 0, len(env.Selection))
	for _, node := range env.Selection {
		ids = append(ids, node.ID)
		if node.IsDir {
			ids = append(ids, env.State.Snapshot.Descendants(node.ID)...)
		}
	}
	return env.Apply(state.DeleteNodesCommand{IDs: ids})
}

func cutFilesEffect(env *Env) error {
	ids := make([]vfs.ID, len(env.Selection))
	for i, node := range env.Selection {
		ids[i] = node.ID
	}
	return env.Apply(state.StageCommand{
		SourceFolderID: env.State.CurrentFolderID,
		NodeIDs:        ids,
	})
}

// pasteFilesEffect moves the staged nodes into the open folder. Pasting with
// nothing staged, back into the staged source folder, or inside a staged
// folder's own subtree is a guarded no-op that leaves the staging record
// untouched. On a real paste the record is cleared once the move is
// requested, and the selection is cleared through a follow-up dispatch.
func pasteFilesEffect(env *Env) error {
	staged := env.State.Staging
	if staged == nil || len(staged.NodeIDs) == 0 {
		return nil
	}
	if staged.SourceFolderID == env.State.CurrentFolderID {
		return nil
	}
	for cur := env.State.CurrentFolderID; cur != ""; {
		if staged.Contains(cur) {
			return nil
		}
		node, ok := env.State.Snapshot.Get(cur)
		if !ok {
			break
		}
		cur = node.ParentID
	}

	err := env.Apply(
		state.MoveNodesCommand{
			IDs:                 staged.NodeIDs,
			SourceFolderID:      staged.SourceFolderID,
			DestinationFolderID: env.State.CurrentFolderID,
		},
		state.ClearStagingCommand{},
	)
	if err != nil {
		return err
	}
	env.Dispatch(ClearSelection, nil)
	return nil
}

func mouseClickEffect(env *Env) error {
	p, ok := env.Payload.(MouseClickPayload)
	if !ok {
		return fmt.Errorf("action: %s requires a MouseClickPayload, got %T", MouseClickFile, env.Payload)
	}
	return env.Apply(state.ClickCommand{
		Index:  p.Index,
		NodeID: p.NodeID,
		Toggle: p.Ctrl,
		Range:  p.Shift,
	})
}
