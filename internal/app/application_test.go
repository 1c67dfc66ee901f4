package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	actionpkg "github.com/kk-code-lab/vdir/internal/action"
	"github.com/kk-code-lab/vdir/internal/config"
	renderui "github.com/kk-code-lab/vdir/internal/ui/render"
	"github.com/kk-code-lab/vdir/internal/vfs"
)

// newTestApp wires the app over a simulation screen with root children
// a, b, c and folder D, in that display order.
func newTestApp(t *testing.T) (*Application, []vfs.ID) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init sim screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)

	snap := vfs.NewSnapshot("R")
	var ids []vfs.ID
	for _, name := range []string{"a", "b", "c"} {
		var id vfs.ID
		var err error
		snap, id, err = snap.CreateFile(snap.RootID(), name, 1)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids = append(ids, id)
	}
	var folderD vfs.ID
	var err error
	snap, folderD, err = snap.CreateFolder(snap.RootID(), "D")
	if err != nil {
		t.Fatalf("create D: %v", err)
	}
	ids = append(ids, folderD)

	cfg := config.Config{}
	cfg.UI.DoubleClickMs = 300

	app, err := newApplication(screen, cfg, snap, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	return app, ids
}

func key(k tcell.Key, r rune, mods tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mods)
}

func TestCursorMovementClamps(t *testing.T) {
	app, _ := newTestApp(t)

	app.handleEvent(key(tcell.KeyUp, 0, tcell.ModNone))
	if app.cursor != 0 {
		t.Errorf("cursor went above top: %d", app.cursor)
	}

	for i := 0; i < 10; i++ {
		app.handleEvent(key(tcell.KeyDown, 0, tcell.ModNone))
	}
	if app.cursor != 3 {
		t.Errorf("cursor past end: %d, want 3", app.cursor)
	}

	app.handleEvent(key(tcell.KeyHome, 0, tcell.ModNone))
	if app.cursor != 0 {
		t.Errorf("home: cursor = %d", app.cursor)
	}
	app.handleEvent(key(tcell.KeyEnd, 0, tcell.ModNone))
	if app.cursor != 3 {
		t.Errorf("end: cursor = %d", app.cursor)
	}
}

func TestSpaceClicksCursorRow(t *testing.T) {
	app, ids := newTestApp(t)

	app.handleEvent(key(tcell.KeyDown, 0, tcell.ModNone))
	app.handleEvent(key(tcell.KeyRune, ' ', tcell.ModNone))

	if !app.state.Selection.Contains(ids[1]) {
		t.Error("space did not select the cursor row")
	}
	if app.state.Selection.Count() != 1 {
		t.Errorf("selection count = %d, want 1", app.state.Selection.Count())
	}
}

func TestEnterOpensFolderUnderCursor(t *testing.T) {
	app, ids := newTestApp(t)
	folderD := ids[3]

	app.handleEvent(key(tcell.KeyEnd, 0, tcell.ModNone))
	app.handleEvent(key(tcell.KeyEnter, 0, tcell.ModNone))

	if app.state.CurrentFolderID != folderD {
		t.Errorf("current folder = %q, want D", app.state.CurrentFolderID)
	}
	if app.cursor != 0 {
		t.Errorf("cursor should clamp to empty folder, got %d", app.cursor)
	}
}

func TestQuitKeyStopsLoop(t *testing.T) {
	app, _ := newTestApp(t)

	app.handleEvent(key(tcell.KeyRune, 'q', tcell.ModNone))
	if !app.shouldQuit {
		t.Error("q should quit")
	}
}

func TestMouseClickSelectsRow(t *testing.T) {
	app, ids := newTestApp(t)

	// Row for index 2 ("c") with no scroll.
	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY+2, tcell.Button1, tcell.ModNone))

	if !app.state.Selection.Contains(ids[2]) {
		t.Error("click did not select row 2")
	}
	if app.cursor != 2 {
		t.Errorf("cursor = %d, want 2", app.cursor)
	}
}

func TestDoubleClickOpensFolder(t *testing.T) {
	app, ids := newTestApp(t)
	folderD := ids[3]
	row := renderui.ListStartY + 3

	app.handleEvent(tcell.NewEventMouse(5, row, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(5, row, tcell.ButtonNone, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(5, row, tcell.Button1, tcell.ModNone))

	if app.state.CurrentFolderID != folderD {
		t.Errorf("double click should open D, folder = %q", app.state.CurrentFolderID)
	}
}

func TestHeaderClickGoesUp(t *testing.T) {
	app, ids := newTestApp(t)
	folderD := ids[3]
	root := app.state.Snapshot.RootID()

	app.dispatch(actionpkg.OpenFiles, actionpkg.OpenFilesPayload{TargetID: folderD})
	if app.state.CurrentFolderID != folderD {
		t.Fatalf("setup: not inside D")
	}

	app.handleEvent(tcell.NewEventMouse(3, 0, tcell.Button1, tcell.ModNone))
	if app.state.CurrentFolderID != root {
		t.Errorf("header click should go up, folder = %q", app.state.CurrentFolderID)
	}
}

func TestEmptyAreaClickClearsSelection(t *testing.T) {
	app, ids := newTestApp(t)

	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY, tcell.Button1, tcell.ModNone))
	if !app.state.Selection.Contains(ids[0]) {
		t.Fatal("setup: row 0 not selected")
	}
	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY, tcell.ButtonNone, tcell.ModNone))

	// Rows 4.. are past the listing on this tree.
	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY+5, tcell.Button1, tcell.ModNone))
	if !app.state.Selection.Empty() {
		t.Error("plain click on empty space should clear the selection")
	}
}

func TestCtrlClickOnEmptyAreaKeepsSelection(t *testing.T) {
	app, ids := newTestApp(t)

	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY, tcell.ButtonNone, tcell.ModNone))

	app.handleEvent(tcell.NewEventMouse(5, renderui.ListStartY+5, tcell.Button1, tcell.ModCtrl))
	if !app.state.Selection.Contains(ids[0]) {
		t.Error("modified click on empty space should not clear the selection")
	}
}
