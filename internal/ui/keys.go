package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// Action names shared by the key map, the status bar and the toolbar.
const (
	actionUndo          = "undo"
	actionRedo          = "redo"
	actionGrid          = "grid"
	actionErase         = "erase"
	actionClear         = "clear"
	actionSave          = "save"
	actionSaveGenerated = "savegenerated"
	actionPDF           = "pdf"
	actionCopy          = "copy"
	actionCopyGenerated = "copygenerated"
	actionPrompt        = "prompt"
	actionQuit          = "quit"
)

func ctrl(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }

func ctrlShift(r rune) KeyShortcut {
	return KeyShortcut{Rune: r, Modifiers: key.ModControl | key.ModShift}
}

// defaultBindings lists the keyboard shortcuts of the drawing window.
func defaultBindings() map[string]KeyboardShortcuts {
	return map[string]KeyboardShortcuts{
		actionUndo:          shortcutList{ctrl('z')},
		actionRedo:          shortcutList{ctrl('y'), ctrlShift('z')},
		actionGrid:          shortcutList{{Rune: 'g'}},
		actionErase:         shortcutList{{Rune: 'e'}},
		actionClear:         shortcutList{ctrl('n')},
		actionSave:          shortcutList{ctrl('s')},
		actionSaveGenerated: shortcutList{ctrlShift('s')},
		actionPDF:           shortcutList{ctrl('p')},
		actionCopy:          shortcutList{ctrl('c')},
		actionCopyGenerated: shortcutList{ctrlShift('c')},
		actionPrompt:        shortcutList{ctrl('g')},
		actionQuit:          shortcutList{{Rune: 'q'}},
	}
}

// keymap resolves key events to action names.
type keymap map[KeyShortcut]string

func newKeymap(bindings map[string]KeyboardShortcuts) keymap {
	km := keymap{}
	for name, keys := range bindings {
		for _, sc := range keys.KeyboardShortcuts() {
			km[sc] = name
		}
	}
	return km
}

// lookup normalises the rune so Shift+Z and z with ModShift match the same
// entry.
func (km keymap) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers & (key.ModControl | key.ModShift | key.ModAlt | key.ModMeta)
	r := e.Rune
	if mods&key.ModControl != 0 && r > 0 && r < 27 {
		r = 'a' + r - 1
	}
	if r <= 0 {
		r = runeForCode(e.Code)
	}
	if unicode.IsUpper(r) {
		mods |= key.ModShift
	}
	ks := KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods}
	if r == 0 {
		ks.Code = e.Code
	}
	name, ok := km[ks]
	return name, ok
}

func runeForCode(c key.Code) rune {
	if c >= key.CodeA && c <= key.CodeZ {
		return 'a' + rune(c-key.CodeA)
	}
	return 0
}
