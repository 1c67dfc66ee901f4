// Package input converts tcell key events into action requests.
package input

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	actionpkg "github.com/kk-code-lab/vdir/internal/action"
)

// DispatchFunc sends an action request into the dispatcher.
type DispatchFunc func(id string, payload actionpkg.Payload)

// Handler routes key chords to action ids using the table built from the
// registry's declared hotkeys plus config overrides.
type Handler struct {
	dispatch DispatchFunc
	bindings map[string]string // normalized chord -> action id
}

// NewHandler builds the hotkey table. An override entry replaces the
// action's built-in hotkeys entirely, so an empty list unbinds it.
func NewHandler(registry *actionpkg.Registry, overrides map[string][]string, dispatch DispatchFunc) *Handler {
	bindings := make(map[string]string)
	for _, def := range registry.Definitions() {
		keys := def.Hotkeys
		if custom, ok := overrides[def.ID]; ok {
			keys = custom
		}
		for _, key := range keys {
			chord := NormalizeChord(key)
			if chord != "" {
				bindings[chord] = def.ID
			}
		}
	}
	return &Handler{dispatch: dispatch, bindings: bindings}
}

// Binding returns the action id bound to a chord, if any.
func (h *Handler) Binding(chord string) (string, bool) {
	id, ok := h.bindings[NormalizeChord(chord)]
	return id, ok
}

// ProcessEvent handles one tcell event. It returns false when the
// application should quit.
func (h *Handler) ProcessEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	return h.processKey(key)
}

func (h *Handler) processKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	chord := ChordForKey(ev)
	if chord == "" {
		return true
	}
	if id, ok := h.bindings[chord]; ok {
		h.dispatch(id, nil)
		return true
	}
	if chord == "q" {
		return false
	}
	return true
}

// NormalizeChord canonicalizes a configured hotkey string.
func NormalizeChord(chord string) string {
	chord = strings.ToLower(strings.TrimSpace(chord))
	chord = strings.ReplaceAll(chord, " ", "")
	if chord == "esc" {
		return "escape"
	}
	return chord
}

// ChordForKey names a key event the way hotkeys are written: "enter",
// "escape", "delete", "ctrl+x", plain runes as themselves.
func ChordForKey(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if r == ' ' {
			return "space"
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "alt+" + string(r)
		}
		return string(r)
	}

	// Ctrl+letter arrives as a dedicated key constant. Tab, Enter and
	// Backspace alias into this range and were handled above.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		letter := rune('a' + ev.Key() - tcell.KeyCtrlA)
		return "ctrl+" + string(letter)
	}
	return ""
}
