// Package app wires the screen, state, dispatcher and renderer together
// and owns the event loop.
package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	actionpkg "github.com/kk-code-lab/vdir/internal/action"
	"github.com/kk-code-lab/vdir/internal/config"
	statepkg "github.com/kk-code-lab/vdir/internal/state"
	inputui "github.com/kk-code-lab/vdir/internal/ui/input"
	renderui "github.com/kk-code-lab/vdir/internal/ui/render"
	"github.com/kk-code-lab/vdir/internal/vfs"
)

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	dispatcher *actionpkg.Dispatcher
	renderer   *renderui.Renderer
	input      *inputui.Handler
	logger     *zap.Logger

	cursor         int
	lastClickIndex int
	lastClickTime  time.Time
	doubleClick    time.Duration
	lastButtons    tcell.ButtonMask
	shouldQuit     bool
}

// NewApplication creates the terminal screen and wires the app over the
// given starting tree.
func NewApplication(cfg config.Config, snap vfs.Snapshot, logger *zap.Logger) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app, err := newApplication(screen, cfg, snap, logger)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, cfg config.Config, snap vfs.Snapshot, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	st := statepkg.NewAppState(snap)
	st.SortByName = cfg.UI.SortByName
	w, h := screen.Size()
	st.ScreenWidth = w
	st.ScreenHeight = h

	registry, err := actionpkg.NewRegistry(actionpkg.Defaults()...)
	if err != nil {
		return nil, err
	}
	dispatcher := actionpkg.NewDispatcher(registry, st, logger)

	app := &Application{
		screen:         screen,
		state:          st,
		reducer:        statepkg.NewStateReducer(),
		dispatcher:     dispatcher,
		renderer:       renderui.NewRenderer(screen),
		logger:         logger,
		lastClickIndex: -1,
		doubleClick:    time.Duration(cfg.UI.DoubleClickMs) * time.Millisecond,
	}
	app.input = inputui.NewHandler(registry, cfg.Keymap, app.dispatch)
	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.screen.Fini()
	return nil
}

// dispatch runs an action and records the outcome for the status line.
// The dispatcher already logs failures on the operator channel.
func (app *Application) dispatch(id string, payload actionpkg.Payload) {
	app.state.LastError = app.dispatcher.Dispatch(id, payload)
	app.clampCursor()
}

// apply runs view-level commands, such as resize bookkeeping, that have no
// action behind them.
func (app *Application) apply(cmd statepkg.Command) {
	if _, err := app.reducer.Reduce(app.state, cmd); err != nil {
		app.logger.Error("command failed", zap.Error(err))
	}
}

func (app *Application) clampCursor() {
	total := len(app.state.DisplayList())
	if app.cursor >= total {
		app.cursor = total - 1
	}
	if app.cursor < 0 {
		app.cursor = 0
	}
}
