package vfs

import "github.com/google/uuid"

// ID identifies a node for its whole lifetime. IDs are never reused.
type ID string

// NewID allocates a fresh store-unique id.
func NewID() ID {
	return ID(uuid.NewString())
}

// Node is one file or folder in the virtual tree.
type Node struct {
	ID            ID
	Name          string
	IsDir         bool
	ParentID      ID   // zero for the root
	ChildrenIDs   []ID // folders only; order is display order
	ChildrenCount int  // always len(ChildrenIDs)
	Selectable    bool
	Size          int64
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == ""
}

// clone returns a copy safe to modify without touching the original,
// including its children slice.
func (n *Node) clone() *Node {
	c := *n
	if n.ChildrenIDs != nil {
		c.ChildrenIDs = make([]ID, len(n.ChildrenIDs))
		copy(c.ChildrenIDs, n.ChildrenIDs)
	}
	return &c
}
