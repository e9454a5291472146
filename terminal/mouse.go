package terminal

import "github.com/gdamore/tcell/v2"

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	case MouseBtnWheelUp:
		return "WheelUp"
	case MouseBtnWheelDown:
		return "WheelDown"
	default:
		return "None"
	}
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "Press"
	case MouseActionRelease:
		return "Release"
	case MouseActionMove:
		return "Move"
	case MouseActionDrag:
		return "Drag"
	default:
		return "None"
	}
}

// buttonOf picks the reported button; the primary wins when several are held
func buttonOf(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.ButtonPrimary != 0:
		return MouseBtnLeft
	case m&tcell.ButtonSecondary != 0:
		return MouseBtnRight
	case m&tcell.ButtonMiddle != 0:
		return MouseBtnMiddle
	case m&tcell.WheelUp != 0:
		return MouseBtnWheelUp
	case m&tcell.WheelDown != 0:
		return MouseBtnWheelDown
	default:
		return MouseBtnNone
	}
}

// mouseTracker derives edges from tcell's level-triggered button state
type mouseTracker struct {
	held     MouseButton
	col, row int
	seen     bool
}

// classify returns what ev means relative to the previous report
func (t *mouseTracker) classify(ev *tcell.EventMouse) (MouseAction, MouseButton) {
	col, row := ev.Position()
	moved := !t.seen || col != t.col || row != t.row
	t.col, t.row, t.seen = col, row, true

	btn := buttonOf(ev.Buttons())
	switch {
	case btn == MouseBtnWheelUp || btn == MouseBtnWheelDown:
		return MouseActionPress, btn
	case t.held == MouseBtnNone && btn != MouseBtnNone:
		t.held = btn
		return MouseActionPress, btn
	case t.held != MouseBtnNone && btn == MouseBtnNone:
		released := t.held
		t.held = MouseBtnNone
		return MouseActionRelease, released
	case t.held != MouseBtnNone:
		if !moved {
			return MouseActionNone, t.held
		}
		return MouseActionDrag, t.held
	case moved:
		return MouseActionMove, MouseBtnNone
	}
	return MouseActionNone, MouseBtnNone
}
