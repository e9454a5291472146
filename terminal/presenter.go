package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/scene"
)

// halfBlock paints the top pixel as foreground over the bottom pixel as background
const halfBlock = '▀'

// Presenter composites stage layers and text onto a tcell screen
type Presenter struct {
	screen       tcell.Screen
	frame        *canvas.Surface
	cellW, cellH float64
	cols, rows   int
}

// NewPresenter draws to screen with cells of cellW×cellH logical pixels
func NewPresenter(screen tcell.Screen, cellW, cellH float64) *Presenter {
	return &Presenter{screen: screen, frame: canvas.New(1, 1, 0, 0), cellW: cellW, cellH: cellH}
}

// Viewport returns the logical size and backing grid for the current screen size
// changed is false when the screen has not been resized since the last call
func (p *Presenter) Viewport() (w, h float64, pxW, pxH int, changed bool) {
	cols, rows := p.screen.Size()
	changed = cols != p.cols || rows != p.rows
	if changed {
		p.cols, p.rows = cols, rows
		p.frame.Resize(float64(cols)*p.cellW, float64(rows)*p.cellH, cols, rows*2)
	}
	w, h = p.frame.LogicalSize()
	pxW, pxH = p.frame.PixelSize()
	return w, h, pxW, pxH, changed
}

// Draw composites layers bottom first over black, overlays texts and shows the result
func (p *Presenter) Draw(layers []*canvas.Surface, texts []scene.Text) {
	f := p.frame
	f.Clear()
	f.SetComposite(canvas.SourceOver)
	f.Fill(canvas.Black)
	for _, l := range layers {
		f.DrawSurface(l)
	}
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			top, bottom := f.At(col, 2*row), f.At(col, 2*row+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			p.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	for _, t := range texts {
		p.drawText(t)
	}
	p.screen.Show()
}

func (p *Presenter) drawText(t scene.Text) {
	col, row := int(t.X/p.cellW), int(t.Y/p.cellH)
	if row < 0 || row >= p.rows {
		return
	}
	fg := t.FG
	if fg.A == 0 {
		fg = canvas.White
	}
	for _, r := range t.S {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= p.cols {
			return
		}
		if col >= 0 {
			bg := mix(p.frame.At(col, 2*row), p.frame.At(col, 2*row+1))
			if t.BG.A > 0 {
				bg = over(t.BG, bg)
			}
			style := tcell.StyleDefault.
				Foreground(toTcell(over(fg, bg))).
				Background(toTcell(bg)).
				Bold(t.Bold).
				Dim(t.Dimmed)
			p.screen.SetContent(col, row, r, nil, style)
		}
		col += w
	}
}
