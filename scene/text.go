package scene

import (
	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/vmath"
)

// Text is a run of characters anchored at a logical pixel; the presenter snaps it to cells
type Text struct {
	X, Y   float64
	S      string
	FG     canvas.Color
	BG     canvas.Color // transparent keeps the pixels beneath
	Bold   bool
	Dimmed bool
}

// Text colors
var (
	TextColor   = canvas.RGBA(235, 240, 255, 1)
	MutedColor  = canvas.RGBA(150, 160, 190, 1)
	AccentColor = canvas.RGBA(255, 214, 120, 1)
	PanelColor  = canvas.RGBA(10, 14, 32, 0.85)
)

// Tooltip is a hover box that stays inside the viewport
type Tooltip struct {
	Visible bool
	Title   string
	Desc    string
	X, Y    float64
}

// tooltipEdge keeps the box this far from the viewport edges
const tooltipEdge = 8

// Show places the box at (x+offX, y+offY), clamped so a w×h box fits inside the viewport
func (t *Tooltip) Show(title, desc string, x, y, offX, offY, w, h, vw, vh float64) {
	t.Visible = true
	t.Title, t.Desc = title, desc
	t.X = vmath.Clamp(x+offX, tooltipEdge, vw-w-tooltipEdge)
	t.Y = vmath.Clamp(y+offY, tooltipEdge, vh-h-tooltipEdge)
}

// Hide hides the box
func (t *Tooltip) Hide() { t.Visible = false }

// Size estimates the box size for the current text with cell metrics cw×ch
func (t *Tooltip) Size(cw, ch float64) (w, h float64) {
	n := max(len([]rune(t.Title)), len([]rune(t.Desc)))
	return float64(n+2) * cw, 2 * ch
}

// Texts returns the box lines
func (t *Tooltip) Texts(cw, ch float64) []Text {
	if !t.Visible {
		return nil
	}
	w, _ := t.Size(cw, ch)
	pad := func(s string) string {
		r := []rune(" " + s)
		for float64(len(r))*cw < w {
			r = append(r, ' ')
		}
		return string(r)
	}
	return []Text{
		{X: t.X, Y: t.Y, S: pad(t.Title), FG: AccentColor, BG: PanelColor, Bold: true},
		{X: t.X, Y: t.Y + ch, S: pad(t.Desc), FG: TextColor, BG: PanelColor},
	}
}
