package state

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kk-code-lab/vdir/internal/vfs"
)

// Selection tracks the selected node set plus the anchor of the last explicit
// click, which only exists to give range clicks a reference point.
type Selection struct {
	IDs            map[vfs.ID]struct{}
	LastClickIndex int // display index, -1 when unset
	LastClickID    vfs.ID
}

// NewSelection returns an empty selection with no anchor.
func NewSelection() Selection {
	return Selection{IDs: make(map[vfs.ID]struct{}), LastClickIndex: -1}
}

// Contains reports whether id is selected.
func (sel Selection) Contains(id vfs.ID) bool {
	_, ok := sel.IDs[id]
	return ok
}

// Empty reports whether nothing is selected.
func (sel Selection) Empty() bool {
	return len(sel.IDs) == 0
}

// Count returns the number of selected nodes.
func (sel Selection) Count() int {
	return len(sel.IDs)
}

// Staging is the pending cut record. A nil *Staging means nothing is staged.
type Staging struct {
	SourceFolderID vfs.ID
	NodeIDs        []vfs.ID
}

// Contains reports whether id is staged.
func (st *Staging) Contains(id vfs.ID) bool {
	if st == nil {
		return false
	}
	for _, v := range st.NodeIDs {
		if v == id {
			return true
		}
	}
	return false
}

// AppState is the single source of truth
type AppState struct {
	Snapshot        vfs.Snapshot
	CurrentFolderID vfs.ID
	Selection       Selection
	Staging         *Staging

	SelectionMode     bool // persistent toggle-select flag
	SelectionDisabled bool // administrative kill switch
	SortByName        bool

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Error state
	LastError error

	// Version increments once per published top-level dispatch so consumers
	// can diff old vs. new state cheaply.
	Version uint64

	// Display list cache (optimization to reduce allocations)
	displayCache      []*vfs.Node
	displayCacheDirty bool
}

// NewAppState creates state rooted at the snapshot's root folder.
func NewAppState(snap vfs.Snapshot) *AppState {
	return &AppState{
		Snapshot:          snap,
		CurrentFolderID:   snap.RootID(),
		Selection:         NewSelection(),
		displayCacheDirty: true,
	}
}

var nameCollator = collate.New(language.Und, collate.IgnoreCase)

// DisplayList returns the current folder's children in display order:
// stored (append) order, or folders-first name order when SortByName is on.
// Range selection and row hit-testing both index into this list.
func (s *AppState) DisplayList() []*vfs.Node {
	if !s.displayCacheDirty && s.displayCache != nil {
		return s.displayCache
	}

	nodes := s.Snapshot.Children(s.CurrentFolderID)
	if s.SortByName {
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].IsDir != nodes[j].IsDir {
				return nodes[i].IsDir
			}
			return nameCollator.CompareString(nodes[i].Name, nodes[j].Name) < 0
		})
	}

	s.displayCache = nodes
	s.displayCacheDirty = false
	return nodes
}

// NodeAt returns the node at the given display index, or nil.
func (s *AppState) NodeAt(index int) *vfs.Node {
	list := s.DisplayList()
	if index < 0 || index >= len(list) {
		return nil
	}
	return list[index]
}

// CurrentFolder resolves the currently open folder.
func (s *AppState) CurrentFolder() *vfs.Node {
	n, _ := s.Snapshot.Get(s.CurrentFolderID)
	return n
}

// Path returns the chain of folders from the root to the current folder.
func (s *AppState) Path() []*vfs.Node {
	var chain []*vfs.Node
	id := s.CurrentFolderID
	for i := 0; id != "" && i < 1024; i++ {
		node, ok := s.Snapshot.Get(id)
		if !ok {
			break
		}
		chain = append(chain, node)
		id = node.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// SelectedNodes resolves the selection to nodes in a deterministic order
// (collated by name, id as tie-break) so handlers see a stable view.
func (s *AppState) SelectedNodes() []*vfs.Node {
	if s.Selection.Empty() {
		return nil
	}
	out := make([]*vfs.Node, 0, len(s.Selection.IDs))
	for id := range s.Selection.IDs {
		if node, ok := s.Snapshot.Get(id); ok {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := nameCollator.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SelectedIDs returns the selected ids in the same order as SelectedNodes.
func (s *AppState) SelectedIDs() []vfs.ID {
	nodes := s.SelectedNodes()
	out := make([]vfs.ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// invalidateDisplay marks the display list cache as dirty. Called whenever
// the snapshot, the open folder, or the sort flag changes.
func (s *AppState) invalidateDisplay() {
	s.displayCacheDirty = true
}
