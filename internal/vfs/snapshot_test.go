package vfs

import (
	"errors"
	"math/rand"
	"testing"
)

// buildTree creates R/{A/{x}, b} and returns the snapshot plus ids.
func buildTree(t *testing.T) (Snapshot, ID, ID, ID, ID) {
	t.Helper()
	snap := NewSnapshot("R")
	root := snap.RootID()

	snap, folderA, err := snap.CreateFolder(root, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	snap, fileX, err := snap.CreateFile(folderA, "x", 10)
	if err != nil {
		t.Fatalf("create x: %v", err)
	}
	snap, fileB, err := snap.CreateFile(root, "b", 20)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Fatalf("integrity after build: %v", err)
	}
	return snap, root, folderA, fileX, fileB
}

func TestCreateFolderAppendsChild(t *testing.T) {
	snap := NewSnapshot("R")
	root := snap.RootID()

	snap, a, err := snap.CreateFolder(root, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	snap, b, err := snap.CreateFolder(root, "B")
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	rootNode := snap.Root()
	if len(rootNode.ChildrenIDs) != 2 || rootNode.ChildrenIDs[0] != a || rootNode.ChildrenIDs[1] != b {
		t.Errorf("expected children [A B], got %v", rootNode.ChildrenIDs)
	}
	if rootNode.ChildrenCount != 2 {
		t.Errorf("expected count 2, got %d", rootNode.ChildrenCount)
	}
	if node, _ := snap.Get(b); node.ChildrenCount != 0 || len(node.ChildrenIDs) != 0 {
		t.Errorf("new folder should be empty, got %v", node.ChildrenIDs)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestCreateFolderInvalidParent(t *testing.T) {
	snap, _, _, fileX, _ := buildTree(t)

	if _, _, err := snap.CreateFolder("nope", "C"); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent for missing parent, got %v", err)
	}
	// Files cannot own children either.
	if _, _, err := snap.CreateFolder(fileX, "C"); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent for file parent, got %v", err)
	}
}

func TestCreateDoesNotMutateOldSnapshot(t *testing.T) {
	snap := NewSnapshot("R")
	before := snap

	after, _, err := snap.CreateFolder(snap.RootID(), "A")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if before.Root().ChildrenCount != 0 {
		t.Errorf("old snapshot mutated: count %d", before.Root().ChildrenCount)
	}
	if after.Root().ChildrenCount != 1 {
		t.Errorf("new snapshot missing child: count %d", after.Root().ChildrenCount)
	}
}

func TestDeleteNodes(t *testing.T) {
	snap, _, folderA, _, fileB := buildTree(t)

	snap, err := snap.DeleteNodes([]ID{fileB})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := snap.Get(fileB); ok {
		t.Error("deleted node still resolvable")
	}
	rootNode := snap.Root()
	if len(rootNode.ChildrenIDs) != 1 || rootNode.ChildrenIDs[0] != folderA {
		t.Errorf("expected root children [A], got %v", rootNode.ChildrenIDs)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	snap, _, _, fileX, _ := buildTree(t)

	once, err := snap.DeleteNodes([]ID{fileX})
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	twice, err := once.DeleteNodes([]ID{fileX})
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if once.Len() != twice.Len() {
		t.Errorf("second delete changed node count: %d vs %d", once.Len(), twice.Len())
	}
	if err := twice.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestDeleteSiblingsPreservesOrder(t *testing.T) {
	snap := NewSnapshot("R")
	root := snap.RootID()

	var ids []ID
	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		var id ID
		var err error
		snap, id, err = snap.CreateFile(root, name, 0)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids = append(ids, id)
	}

	snap, err := snap.DeleteNodes([]ID{ids[1], ids[3]})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	rootNode := snap.Root()
	if len(rootNode.ChildrenIDs) != 2 || rootNode.ChildrenIDs[0] != ids[0] || rootNode.ChildrenIDs[1] != ids[2] {
		t.Errorf("expected [a c], got %v", rootNode.ChildrenIDs)
	}
}

func TestDeleteRootIsNoOp(t *testing.T) {
	snap, root, _, _, _ := buildTree(t)

	after, err := snap.DeleteNodes([]ID{root})
	if err != nil {
		t.Fatalf("delete root: %v", err)
	}
	if _, ok := after.Get(root); !ok {
		t.Error("root was deleted")
	}
}

func TestMoveNodes(t *testing.T) {
	snap, root, folderA, fileX, _ := buildTree(t)

	snap, folderB, err := snap.CreateFolder(root, "B")
	if err != nil {
		t.Fatalf("create B: %v", err)
	}
	snap, err = snap.MoveNodes([]ID{fileX}, folderA, folderB)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	moved, _ := snap.Get(fileX)
	if moved.ParentID != folderB {
		t.Errorf("expected parent B, got %q", moved.ParentID)
	}
	a, _ := snap.Get(folderA)
	if len(a.ChildrenIDs) != 0 || a.ChildrenCount != 0 {
		t.Errorf("source still lists moved node: %v", a.ChildrenIDs)
	}
	b, _ := snap.Get(folderB)
	if len(b.ChildrenIDs) != 1 || b.ChildrenIDs[0] != fileX {
		t.Errorf("destination children wrong: %v", b.ChildrenIDs)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestMoveAtomicOnBadDestination(t *testing.T) {
	snap, _, folderA, fileX, _ := buildTree(t)

	after, err := snap.MoveNodes([]ID{fileX}, folderA, "missing")
	if !errors.Is(err, ErrUnknownFolder) {
		t.Fatalf("expected ErrUnknownFolder, got %v", err)
	}

	// Failed move publishes nothing: the returned snapshot is the old one.
	a, _ := after.Get(folderA)
	if len(a.ChildrenIDs) != 1 || a.ChildrenIDs[0] != fileX {
		t.Errorf("source changed after failed move: %v", a.ChildrenIDs)
	}
	moved, _ := after.Get(fileX)
	if moved.ParentID != folderA {
		t.Errorf("node reparented after failed move: %q", moved.ParentID)
	}
	if err := after.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestMoveSkipsDuplicatesAndUnknownIDs(t *testing.T) {
	snap, root, folderA, fileX, _ := buildTree(t)

	snap, err := snap.MoveNodes([]ID{fileX, fileX, "ghost"}, folderA, root)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	rootNode := snap.Root()
	count := 0
	for _, id := range rootNode.ChildrenIDs {
		if id == fileX {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected x listed once under root, got %d", count)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

// Moving a folder under its own descendant would detach the subtree from
// the root as a self-contained cycle; the store must refuse outright.
func TestMoveFolderIntoOwnSubtreeFails(t *testing.T) {
	snap, root, folderA, _, _ := buildTree(t)

	snap, sub, err := snap.CreateFolder(folderA, "sub")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	after, err := snap.MoveNodes([]ID{folderA}, root, sub)
	if !errors.Is(err, ErrCyclicMove) {
		t.Fatalf("expected ErrCyclicMove, got %v", err)
	}
	a, _ := after.Get(folderA)
	if a.ParentID != root {
		t.Errorf("A reparented after rejected move: %q", a.ParentID)
	}
	rootNode := after.Root()
	if !containsID(rootNode.ChildrenIDs, folderA) {
		t.Error("root no longer lists A after rejected move")
	}
	if err := after.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}

	// A folder moved into itself is the same class of cycle.
	if _, err := snap.MoveNodes([]ID{folderA}, root, folderA); !errors.Is(err, ErrCyclicMove) {
		t.Errorf("expected ErrCyclicMove for self-destination, got %v", err)
	}
}

// The source folder owns what it lists: ids parented elsewhere are skipped
// instead of being torn out of their true parent.
func TestMoveSkipsNodesOutsideSourceFolder(t *testing.T) {
	snap, root, folderA, fileX, fileB := buildTree(t)

	snap, folderB, err := snap.CreateFolder(root, "B")
	if err != nil {
		t.Fatalf("create B: %v", err)
	}
	snap, err = snap.MoveNodes([]ID{fileX, fileB}, root, folderB)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	x, _ := snap.Get(fileX)
	if x.ParentID != folderA {
		t.Errorf("x was not under the named source, parent now %q", x.ParentID)
	}
	a, _ := snap.Get(folderA)
	if !containsID(a.ChildrenIDs, fileX) {
		t.Error("A no longer lists x")
	}
	b, _ := snap.Get(fileB)
	if b.ParentID != folderB {
		t.Errorf("b should have moved, parent %q", b.ParentID)
	}
	if err := snap.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

// A subtree looping onto itself satisfies every local parent/child check;
// only the reachability sweep can see it.
func TestIntegrityDetectsDetachedCycle(t *testing.T) {
	snap := NewSnapshot("R")
	root := snap.RootID()
	snap, folderA, err := snap.CreateFolder(root, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	snap, sub, err := snap.CreateFolder(folderA, "sub")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	// Hand-build the corruption a guarded move must never produce: A
	// reparented under its own child and dropped from the root's children.
	rootNode, _ := snap.Get(root)
	a, _ := snap.Get(folderA)
	subNode, _ := snap.Get(sub)

	txn := snap.tree.Txn()
	nr := rootNode.clone()
	nr.ChildrenIDs = removeID(nr.ChildrenIDs, folderA)
	nr.ChildrenCount = len(nr.ChildrenIDs)
	txn.Insert([]byte(nr.ID), nr)
	na := a.clone()
	na.ParentID = sub
	txn.Insert([]byte(na.ID), na)
	ns := subNode.clone()
	ns.ChildrenIDs = append(ns.ChildrenIDs, folderA)
	ns.ChildrenCount = len(ns.ChildrenIDs)
	txn.Insert([]byte(ns.ID), ns)
	corrupt := Snapshot{tree: txn.Commit(), rootID: root}

	if err := corrupt.CheckIntegrity(); err == nil {
		t.Error("detached cycle passed the integrity check")
	}
}

func TestDescendants(t *testing.T) {
	snap, root, folderA, fileX, _ := buildTree(t)

	snap, sub, err := snap.CreateFolder(folderA, "sub")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}
	snap, deep, err := snap.CreateFile(sub, "deep", 0)
	if err != nil {
		t.Fatalf("create deep: %v", err)
	}

	got := snap.Descendants(folderA)
	want := map[ID]bool{fileX: true, sub: true, deep: true}
	if len(got) != len(want) {
		t.Fatalf("expected %d descendants, got %d (%v)", len(want), len(got), got)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected descendant %q", id)
		}
	}
	if ids := snap.Descendants(root); len(ids) != 5 {
		t.Errorf("expected 5 descendants of root, got %d", len(ids))
	}
}

// Referential integrity must hold after any sequence of structural edits.
func TestIntegrityUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	snap := NewSnapshot("R")

	folders := []ID{snap.RootID()}
	var files []ID

	for i := 0; i < 400; i++ {
		switch rng.Intn(4) {
		case 0:
			parent := folders[rng.Intn(len(folders))]
			var id ID
			var err error
			snap, id, err = snap.CreateFolder(parent, "d")
			if err != nil {
				t.Fatalf("op %d create folder: %v", i, err)
			}
			folders = append(folders, id)
		case 1:
			parent := folders[rng.Intn(len(folders))]
			var id ID
			var err error
			snap, id, err = snap.CreateFile(parent, "f", int64(i))
			if err != nil {
				t.Fatalf("op %d create file: %v", i, err)
			}
			files = append(files, id)
		case 2:
			if len(files) == 0 {
				continue
			}
			idx := rng.Intn(len(files))
			id := files[idx]
			var err error
			snap, err = snap.DeleteNodes([]ID{id})
			if err != nil {
				t.Fatalf("op %d delete: %v", i, err)
			}
			files = append(files[:idx], files[idx+1:]...)
		case 3:
			if len(files) == 0 {
				continue
			}
			id := files[rng.Intn(len(files))]
			node, ok := snap.Get(id)
			if !ok {
				continue
			}
			dest := folders[rng.Intn(len(folders))]
			if dest == node.ParentID {
				continue
			}
			var err error
			snap, err = snap.MoveNodes([]ID{id}, node.ParentID, dest)
			if err != nil {
				t.Fatalf("op %d move: %v", i, err)
			}
		}

		if err := snap.CheckIntegrity(); err != nil {
			t.Fatalf("integrity broken after op %d: %v", i, err)
		}
	}
}
