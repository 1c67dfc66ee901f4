package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	actionpkg "github.com/kk-code-lab/vdir/internal/action"
	statepkg "github.com/kk-code-lab/vdir/internal/state"
)

// Run drives the event loop until the user quits.
func (app *Application) Run() {
	app.renderer.Render(app.state, app.cursor)

	for !app.shouldQuit {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		app.handleEvent(ev)
		app.renderer.Render(app.state, app.cursor)
	}
}

func (app *Application) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		app.apply(statepkg.ResizeCommand{Width: w, Height: h})
		app.screen.Sync()
	case *tcell.EventKey:
		app.handleKey(e)
	case *tcell.EventMouse:
		app.handleMouse(e)
	}
}

// handleKey covers the view-level keys (cursor movement, activation)
// before handing the event to the hotkey table.
func (app *Application) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		app.moveCursor(-1)
		return
	case tcell.KeyDown:
		app.moveCursor(1)
		return
	case tcell.KeyHome:
		app.cursor = 0
		return
	case tcell.KeyEnd:
		app.cursor = len(app.state.DisplayList()) - 1
		app.clampCursor()
		return
	case tcell.KeyEnter:
		if node := app.state.NodeAt(app.cursor); node != nil {
			app.dispatch(actionpkg.OpenFiles, actionpkg.OpenFilesPayload{TargetID: node.ID})
		}
		return
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			app.clickAtCursor(ev.Modifiers())
			return
		}
	}

	if !app.input.ProcessEvent(ev) {
		app.shouldQuit = true
	}
}

func (app *Application) moveCursor(delta int) {
	app.cursor += delta
	app.clampCursor()
}

// clickAtCursor synthesizes a pointer click on the cursor row so the
// keyboard drives the same selection semantics as the mouse.
func (app *Application) clickAtCursor(mods tcell.ModMask) {
	node := app.state.NodeAt(app.cursor)
	if node == nil {
		return
	}
	app.dispatch(actionpkg.MouseClickFile, actionpkg.MouseClickPayload{
		NodeID: node.ID,
		Index:  app.cursor,
		Ctrl:   mods&(tcell.ModCtrl|tcell.ModMeta) != 0,
		Shift:  mods&tcell.ModShift != 0,
	})
}

func (app *Application) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		app.moveCursor(-1)
		return
	case buttons&tcell.WheelDown != 0:
		app.moveCursor(1)
		return
	}

	// Act on the press transition only, not on drag or release.
	pressed := buttons&tcell.Button1 != 0 && app.lastButtons&tcell.Button1 == 0
	app.lastButtons = buttons
	if !pressed {
		return
	}

	_, y := ev.Position()
	_, h := app.screen.Size()

	if y == 0 {
		app.dispatch(actionpkg.OpenParentFolder, nil)
		return
	}

	ctrl := ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta) != 0
	shift := ev.Modifiers()&tcell.ModShift != 0

	index := app.renderer.IndexAt(app.state, y, h)
	if index < 0 {
		// A plain click on empty space deselects; modified clicks there
		// are ignored.
		if !ctrl && !shift {
			app.dispatch(actionpkg.ClearSelection, nil)
		}
		return
	}

	node := app.state.NodeAt(index)
	if node == nil {
		return
	}
	app.cursor = index

	now := time.Now()
	if !ctrl && !shift && index == app.lastClickIndex && now.Sub(app.lastClickTime) <= app.doubleClick {
		app.lastClickIndex = -1
		app.dispatch(actionpkg.OpenFiles, actionpkg.OpenFilesPayload{TargetID: node.ID})
		return
	}
	app.lastClickIndex = index
	app.lastClickTime = now

	app.dispatch(actionpkg.MouseClickFile, actionpkg.MouseClickPayload{
		NodeID: node.ID,
		Index:  index,
		Ctrl:   ctrl,
		Shift:  shift,
	})
}
