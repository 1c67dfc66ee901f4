package vfs

import (
	"errors"
	"fmt"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

var (
	// ErrInvalidParent reports a create against a parent that is missing or
	// not a folder. This is a wiring error, not a user condition.
	ErrInvalidParent = errors.New("vfs: parent is not an existing folder")

	// ErrUnknownFolder reports a move whose source or destination does not
	// resolve to an existing folder.
	ErrUnknownFolder = errors.New("vfs: folder does not exist")

	// ErrCyclicMove reports a move whose destination lies inside a moved
	// folder's own subtree, which would detach that subtree from the root.
	ErrCyclicMove = errors.New("vfs: cannot move a folder into its own subtree")
)

// Snapshot is an immutable point-in-time view of the node tree. Structural
// operations return a new Snapshot; a snapshot handed out to a reader never
// changes underneath it. The backing store is a persistent radix tree, so an
// edit shares everything except the touched nodes.
type Snapshot struct {
	tree   *iradix.Tree[*Node]
	rootID ID
}

// NewSnapshot creates a tree holding a single root folder.
func NewSnapshot(rootName string) Snapshot {
	root := &Node{ID: NewID(), Name: rootName, IsDir: true, Selectable: true}
	tree, _, _ := iradix.New[*Node]().Insert([]byte(root.ID), root)
	return Snapshot{tree: tree, rootID: root.ID}
}

// RootID returns the id of the root folder.
func (s Snapshot) RootID() ID {
	return s.rootID
}

// Root returns the root folder node.
func (s Snapshot) Root() *Node {
	n, _ := s.Get(s.rootID)
	return n
}

// Get looks up a node by id.
func (s Snapshot) Get(id ID) (*Node, bool) {
	if s.tree == nil || id == "" {
		return nil, false
	}
	return s.tree.Get([]byte(id))
}

// Len returns the number of nodes in the tree.
func (s Snapshot) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Children resolves a folder's child ids to nodes, preserving stored order.
// Unresolvable ids are skipped.
func (s Snapshot) Children(id ID) []*Node {
	folder, ok := s.Get(id)
	if !ok || !folder.IsDir {
		return nil
	}
	out := make([]*Node, 0, len(folder.ChildrenIDs))
	for _, childID := range folder.ChildrenIDs {
		if child, ok := s.Get(childID); ok {
			out = append(out, child)
		}
	}
	return out
}

// Descendants collects the ids of everything below id, depth first. The node
// itself is not included. Deletion is shallow at the store level; callers
// that want a deep delete pass this closure along with the node id.
func (s Snapshot) Descendants(id ID) []ID {
	node, ok := s.Get(id)
	if !ok || !node.IsDir {
		return nil
	}
	var out []ID
	stack := make([]ID, len(node.ChildrenIDs))
	copy(stack, node.ChildrenIDs)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		child, ok := s.Get(cur)
		if !ok {
			continue
		}
		out = append(out, cur)
		stack = append(stack, child.ChildrenIDs...)
	}
	return out
}

func (s Snapshot) folder(id ID) (*Node, bool) {
	n, ok := s.Get(id)
	if !ok || !n.IsDir {
		return nil, false
	}
	return n, true
}

// CreateFolder inserts a new empty folder under parentID and returns the new
// snapshot and the fresh id. The new child is appended to the parent's
// children.
func (s Snapshot) CreateFolder(parentID ID, name string) (Snapshot, ID, error) {
	return s.createNode(parentID, name, true, 0)
}

// CreateFile inserts a new file node under parentID.
func (s Snapshot) CreateFile(parentID ID, name string, size int64) (Snapshot, ID, error) {
	return s.createNode(parentID, name, false, size)
}

func (s Snapshot) createNode(parentID ID, name string, isDir bool, size int64) (Snapshot, ID, error) {
	parent, ok := s.folder(parentID)
	if !ok {
		return s, "", fmt.Errorf("%w: %q", ErrInvalidParent, parentID)
	}

	node := &Node{
		ID:         NewID(),
		Name:       name,
		IsDir:      isDir,
		ParentID:   parentID,
		Selectable: true,
		Size:       size,
	}

	txn := s.tree.Txn()
	txn.Insert([]byte(node.ID), node)
	np := parent.clone()
	np.ChildrenIDs = append(np.ChildrenIDs, node.ID)
	np.ChildrenCount = len(np.ChildrenIDs)
	txn.Insert([]byte(np.ID), np)

	return Snapshot{tree: txn.Commit(), rootID: s.rootID}, node.ID, nil
}

// SetSelectable flips the selectable flag on a node. Unknown ids are a no-op.
func (s Snapshot) SetSelectable(id ID, selectable bool) Snapshot {
	node, ok := s.Get(id)
	if !ok || node.Selectable == selectable {
		return s
	}
	nn := node.clone()
	nn.Selectable = selectable
	tree, _, _ := s.tree.Insert([]byte(id), nn)
	return Snapshot{tree: tree, rootID: s.rootID}
}

// DeleteNodes removes the listed nodes and detaches each from its parent's
// children, preserving sibling order. Ids that do not resolve are skipped, so
// repeated delivery of the same delete is a no-op. The root cannot be
// deleted. Descendants of a deleted folder are not removed implicitly; see
// Descendants.
func (s Snapshot) DeleteNodes(ids []ID) (Snapshot, error) {
	if s.tree == nil || len(ids) == 0 {
		return s, nil
	}

	txn := s.tree.Txn()
	changed := false
	for _, id := range ids {
		if id == s.rootID {
			continue
		}
		node, ok := txn.Get([]byte(id))
		if !ok {
			continue
		}
		txn.Delete([]byte(id))
		changed = true

		if node.ParentID == "" {
			continue
		}
		// Re-read the parent from the transaction so sibling deletes
		// accumulate instead of clobbering each other.
		if parent, ok := txn.Get([]byte(node.ParentID)); ok {
			pp := parent.clone()
			pp.ChildrenIDs = removeID(pp.ChildrenIDs, id)
			pp.ChildrenCount = len(pp.ChildrenIDs)
			txn.Insert([]byte(pp.ID), pp)
		}
	}
	if !changed {
		return s, nil
	}
	return Snapshot{tree: txn.Commit(), rootID: s.rootID}, nil
}

// MoveNodes reparents the listed nodes from sourceID to destID in one
// transition: each id is removed from the source's children, appended to the
// destination's children (duplicates skipped), and its ParentID rewritten.
// Ids that do not resolve, or that are not actually parented under sourceID,
// are skipped; the source folder owns what it lists and nothing else. Moving
// a folder into its own subtree fails with ErrCyclicMove. Either the whole
// move commits or the receiver snapshot stands untouched; no intermediate
// state is ever observable.
func (s Snapshot) MoveNodes(ids []ID, sourceID, destID ID) (Snapshot, error) {
	source, ok := s.folder(sourceID)
	if !ok {
		return s, fmt.Errorf("%w: source %q", ErrUnknownFolder, sourceID)
	}
	dest, ok := s.folder(destID)
	if !ok {
		return s, fmt.Errorf("%w: destination %q", ErrUnknownFolder, destID)
	}
	if len(ids) == 0 {
		return s, nil
	}

	// The destination's parent chain, destination included. Reparenting any
	// node on it under destID would cut a cycle loose from the root, so the
	// whole move is rejected before anything commits.
	ancestors := make(map[ID]struct{})
	for cur := destID; cur != ""; {
		node, ok := s.Get(cur)
		if !ok {
			break
		}
		ancestors[cur] = struct{}{}
		cur = node.ParentID
	}
	for _, id := range ids {
		node, ok := s.Get(id)
		if !ok || id == s.rootID || node.ParentID != sourceID {
			continue
		}
		if _, cyclic := ancestors[id]; cyclic {
			return s, fmt.Errorf("%w: %q", ErrCyclicMove, id)
		}
	}

	src := source.clone()
	dst := dest.clone()
	if sourceID == destID {
		// Degenerate self-move; higher layers guard against it, the store
		// just keeps the books consistent.
		dst = src
	}

	txn := s.tree.Txn()
	moved := false
	for _, id := range ids {
		node, ok := txn.Get([]byte(id))
		if !ok || id == s.rootID || node.ParentID != sourceID {
			continue
		}
		src.ChildrenIDs = removeID(src.ChildrenIDs, id)
		if !containsID(dst.ChildrenIDs, id) {
			dst.ChildrenIDs = append(dst.ChildrenIDs, id)
		}
		nn := node.clone()
		nn.ParentID = dst.ID
		txn.Insert([]byte(nn.ID), nn)
		moved = true
	}
	if !moved {
		return s, nil
	}

	src.ChildrenCount = len(src.ChildrenIDs)
	dst.ChildrenCount = len(dst.ChildrenIDs)
	txn.Insert([]byte(src.ID), src)
	txn.Insert([]byte(dst.ID), dst)

	return Snapshot{tree: txn.Commit(), rootID: s.rootID}, nil
}

// Walk visits every node in the snapshot in key order. Returning false from
// fn stops the walk.
func (s Snapshot) Walk(fn func(*Node) bool) {
	if s.tree == nil {
		return
	}
	it := s.tree.Root().Iterator()
	for _, n, ok := it.Next(); ok; _, n, ok = it.Next() {
		if !fn(n) {
			return
		}
	}
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			out := make([]ID, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...)
		}
	}
	return ids
}

func containsID(ids []ID, id ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
