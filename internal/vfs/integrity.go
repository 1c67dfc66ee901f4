package vfs

import "fmt"

// CheckIntegrity verifies the referential invariants of the tree: every
// non-root node's ParentID resolves to an existing folder whose children list
// contains the node, every child id resolves back to a node naming that
// parent, cached counts match, files carry no children, and every node is
// reachable from the root (a detached cycle can satisfy all the local checks
// while orphaning a whole subtree). A violation means a structural operation
// is defective, so tests assert this after every edit rather than handling it
// at runtime.
func (s Snapshot) CheckIntegrity() error {
	if s.tree == nil {
		return nil
	}
	if _, ok := s.Get(s.rootID); !ok {
		return fmt.Errorf("vfs: root %q missing", s.rootID)
	}

	var err error
	s.Walk(func(n *Node) bool {
		if n.ChildrenCount != len(n.ChildrenIDs) {
			err = fmt.Errorf("vfs: node %q children count %d != %d", n.ID, n.ChildrenCount, len(n.ChildrenIDs))
			return false
		}
		if !n.IsDir && len(n.ChildrenIDs) > 0 {
			err = fmt.Errorf("vfs: file %q has children", n.ID)
			return false
		}

		if n.ID != s.rootID {
			parent, ok := s.Get(n.ParentID)
			if !ok {
				err = fmt.Errorf("vfs: node %q parent %q missing", n.ID, n.ParentID)
				return false
			}
			if !parent.IsDir {
				err = fmt.Errorf("vfs: node %q parent %q is not a folder", n.ID, n.ParentID)
				return false
			}
			if !containsID(parent.ChildrenIDs, n.ID) {
				err = fmt.Errorf("vfs: node %q not listed by parent %q", n.ID, n.ParentID)
				return false
			}
		}

		seen := make(map[ID]struct{}, len(n.ChildrenIDs))
		for _, childID := range n.ChildrenIDs {
			if _, dup := seen[childID]; dup {
				err = fmt.Errorf("vfs: folder %q lists child %q twice", n.ID, childID)
				return false
			}
			seen[childID] = struct{}{}
			child, ok := s.Get(childID)
			if !ok {
				err = fmt.Errorf("vfs: folder %q lists missing child %q", n.ID, childID)
				return false
			}
			if child.ParentID != n.ID {
				err = fmt.Errorf("vfs: child %q of %q claims parent %q", childID, n.ID, child.ParentID)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	// Local parent/child checks cannot see a subtree that loops onto
	// itself, so sweep everything the root can reach and compare counts.
	reached := make(map[ID]struct{}, s.Len())
	stack := []ID{s.rootID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := reached[cur]; seen {
			continue
		}
		reached[cur] = struct{}{}
		if node, ok := s.Get(cur); ok {
			stack = append(stack, node.ChildrenIDs...)
		}
	}
	if len(reached) != s.Len() {
		s.Walk(func(n *Node) bool {
			if _, ok := reached[n.ID]; !ok {
				err = fmt.Errorf("vfs: node %q unreachable from root", n.ID)
				return false
			}
			return true
		})
	}
	return err
}
