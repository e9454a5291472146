package scene

import (
	"fmt"
	"unicode"
)

// Action is the outcome of a key routed into a Modal
type Action uint8

const (
	ActionNone Action = iota
	ActionConfirm
	ActionCancel
	ActionDelete
)

// Modal is a one-line text prompt with a character limit
type Modal struct {
	Title string
	Input []rune
	Max   int
	// DeletePrompt enables Del; the question must be answered with y
	DeletePrompt string
	// Confirm is the pending question, empty when none
	Confirm string
}

// NewModal opens a prompt prefilled with value, truncated to limit runes
func NewModal(title, value string, limit int) *Modal {
	m := &Modal{Title: title, Max: limit}
	for _, r := range value {
		if len(m.Input) == limit {
			break
		}
		m.Input = append(m.Input, r)
	}
	return m
}

// Value returns the typed text
func (m *Modal) Value() string { return string(m.Input) }

// Key edits the input or reports an action
func (m *Modal) Key(ev KeyEvent) Action {
	if m.Confirm != "" {
		m.Confirm = ""
		if ev.Is('y') || ev.Is('Y') {
			return ActionDelete
		}
		return ActionNone
	}
	switch ev.Key {
	case KeyEnter:
		return ActionConfirm
	case KeyEscape:
		return ActionCancel
	case KeyDelete:
		m.Confirm = m.DeletePrompt
	case KeyBackspace:
		if n := len(m.Input); n > 0 {
			m.Input = m.Input[:n-1]
		}
	case KeyRune:
		if len(m.Input) < m.Max && unicode.IsPrint(ev.Rune) {
			m.Input = append(m.Input, ev.Rune)
		}
	}
	return ActionNone
}

// Texts lays the modal out centered in a vw×vh viewport
func (m *Modal) Texts(cw, ch, vw, vh float64) []Text {
	lines := []Text{
		{S: m.Title, FG: AccentColor, Bold: true},
		{S: "> " + m.Value() + "_", FG: TextColor},
		{S: fmt.Sprintf("%d/%d", len(m.Input), m.Max), FG: MutedColor},
		{S: "[Enter] Confirm  [Esc] Cancel", FG: MutedColor},
	}
	if m.DeletePrompt != "" {
		lines[3].S = "[Enter] Rename  [Del] Delete  [Esc] Cancel"
	}
	if m.Confirm != "" {
		lines[3] = Text{S: m.Confirm + " (y/n)", FG: AccentColor}
	}
	return boxed(lines, cw, ch, vw/2, vh/2)
}

// within reports whether (x,y) falls on the rows and columns covered by texts
func within(texts []Text, cw, ch, x, y float64) bool {
	for _, t := range texts {
		w := float64(len([]rune(t.S))) * cw
		if x >= t.X && x < t.X+w && y >= t.Y && y < t.Y+ch {
			return true
		}
	}
	return false
}

// boxed pads lines to a common width on the panel color, centered on (cx,cy)
func boxed(lines []Text, cw, ch, cx, cy float64) []Text {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l.S)))
	}
	width += 4
	x := cx - float64(width)*cw/2
	y := cy - float64(len(lines)+2)*ch/2
	out := make([]Text, 0, len(lines)+2)
	out = append(out, Text{X: x, Y: y, S: pad("", width), BG: PanelColor})
	for i, l := range lines {
		l.X, l.Y = x, y+float64(i+1)*ch
		l.S = pad("  "+l.S, width)
		l.BG = PanelColor
		out = append(out, l)
	}
	out = append(out, Text{X: x, Y: y + float64(len(lines)+1)*ch, S: pad("", width), BG: PanelColor})
	return out
}

func pad(s string, width int) string {
	r := []rune(s)
	for len(r) < width {
		r = append(r, ' ')
	}
	return string(r)
}
