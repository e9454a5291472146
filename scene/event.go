package scene

// PointerKind is the phase of a pointer sample
type PointerKind uint8

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
	PointerCancel
)

// PointerEvent is a pointer sample in logical pixels
type PointerEvent struct {
	Kind  PointerKind
	X, Y  float64
	Shift bool
}

// Key identifies a non-character key
type Key uint8

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyDelete
)

// KeyEvent is a key press; Rune is set for KeyRune
type KeyEvent struct {
	Key  Key
	Rune rune
}

// Is reports whether the event is the rune r
func (k KeyEvent) Is(r rune) bool { return k.Key == KeyRune && k.Rune == r }
