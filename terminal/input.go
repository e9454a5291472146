package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/memory-space/scene"
)

// Default cell size in logical pixels
const (
	CellW = 8
	CellH = 16
)

// dragModifiers stand in for shift; many terminals keep shift+click for text selection
const dragModifiers = tcell.ModShift | tcell.ModCtrl | tcell.ModAlt

// Input converts tcell events into scene events in logical pixels
type Input struct {
	cellW, cellH float64
	mouse        mouseTracker
}

// NewInput creates a translator for cells of cellW×cellH logical pixels
func NewInput(cellW, cellH float64) *Input {
	return &Input{cellW: cellW, cellH: cellH}
}

// Pointer maps a mouse report to a pointer event; only the primary button and motion map
// The point is the center of the reported cell
func (in *Input) Pointer(ev *tcell.EventMouse) (scene.PointerEvent, bool) {
	action, btn := in.mouse.classify(ev)
	if btn != MouseBtnNone && btn != MouseBtnLeft {
		return scene.PointerEvent{}, false
	}
	col, row := ev.Position()
	out := scene.PointerEvent{
		X:     (float64(col) + 0.5) * in.cellW,
		Y:     (float64(row) + 0.5) * in.cellH,
		Shift: ev.Modifiers()&dragModifiers != 0,
	}
	switch action {
	case MouseActionPress:
		out.Kind = scene.PointerDown
	case MouseActionRelease:
		out.Kind = scene.PointerUp
	case MouseActionMove, MouseActionDrag:
		out.Kind = scene.PointerMove
	default:
		return scene.PointerEvent{}, false
	}
	return out, true
}

// Cancel ends a held gesture, for focus loss or resize
func (in *Input) Cancel() (scene.PointerEvent, bool) {
	if in.mouse.held == MouseBtnNone {
		return scene.PointerEvent{}, false
	}
	in.mouse.held = MouseBtnNone
	return scene.PointerEvent{Kind: scene.PointerCancel}, true
}

var keyMap = map[tcell.Key]scene.Key{
	tcell.KeyEnter:      scene.KeyEnter,
	tcell.KeyEscape:     scene.KeyEscape,
	tcell.KeyBackspace:  scene.KeyBackspace,
	tcell.KeyBackspace2: scene.KeyBackspace,
	tcell.KeyTab:        scene.KeyTab,
	tcell.KeyUp:         scene.KeyUp,
	tcell.KeyDown:       scene.KeyDown,
	tcell.KeyLeft:       scene.KeyLeft,
	tcell.KeyRight:      scene.KeyRight,
	tcell.KeyDelete:     scene.KeyDelete,
}

// Key maps a key press; control chords other than the mapped keys are dropped
func Key(ev *tcell.EventKey) (scene.KeyEvent, bool) {
	if ev.Key() == tcell.KeyRune {
		return scene.KeyEvent{Key: scene.KeyRune, Rune: ev.Rune()}, true
	}
	k, ok := keyMap[ev.Key()]
	return scene.KeyEvent{Key: k}, ok
}

// Quit reports the chords that end the program regardless of view
func Quit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ
}
