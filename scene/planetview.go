package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/archive"
	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/orbit"
)

// prompt is an open modal plus what its answers do
type prompt struct {
	modal    *Modal
	onOK     func(value string)
	onDelete func()
	onClose  func()
}

// PlanetView is one star's planet system in orbit around it
type PlanetView struct {
	env      *Env
	system   *archive.PlanetSystem
	renderer *orbit.Renderer
	loop     loop

	surf     *canvas.Surface
	bg       *canvas.Surface
	w, h     float64
	labels   []orbit.Label
	press    int
	mediaSel int
	prompt   *prompt
}

// NewPlanetView mounts the planet system of star starID and loads it
func NewPlanetView(env *Env, starID int64) *PlanetView {
	v := &PlanetView{
		env:  env,
		surf: canvas.New(1, 1, 0, 0),
		bg:   canvas.New(1, 1, 0, 0),
		loop: loop{sched: env.Sched},
	}
	v.system = archive.NewPlanetSystem(env.Ctx, env.Client, starID, env.Sched, env.Notifier, env.Sched.Clock(), env.Rand, env.Log)
	v.renderer = orbit.NewRenderer(v.surf, env.Log)
	v.renderer.SetBackground(v.bg)
	v.system.Load()
	v.loop.start(v.draw)
	return v
}

// Surface implements View
func (v *PlanetView) Surface() *canvas.Surface { return v.surf }

// System returns the planet state
func (v *PlanetView) System() *archive.PlanetSystem { return v.system }

// Labels returns the labels of the last frame
func (v *PlanetView) Labels() []orbit.Label { return v.labels }

// Prompt returns the open modal, nil when none
func (v *PlanetView) Prompt() *Modal {
	if v.prompt == nil {
		return nil
	}
	return v.prompt.modal
}

// Resize implements View; the static backdrop is redrawn once per size
func (v *PlanetView) Resize(w, h float64, pxW, pxH int) {
	v.w, v.h = w, h
	v.surf.Resize(w, h, pxW, pxH)
	v.bg.Resize(w, h, pxW, pxH)
	drawNebula(v.bg)
	NewSmallStars(v.env.Rand, SmallStarCountCalm, false).Draw(v.bg, 0)
}

func (v *PlanetView) draw(time.Time) {
	if v.w == 0 {
		return
	}
	v.labels = v.renderer.Tick(v.system.RunState(), v.system.Focus(), v.system.Bodies())
}

// Pointer implements View
func (v *PlanetView) Pointer(ev PointerEvent) {
	if v.prompt != nil {
		cw, ch := v.env.CellW, v.env.CellH
		if ev.Kind == PointerDown && !within(v.prompt.modal.Texts(cw, ch, v.w, v.h), cw, ch, ev.X, ev.Y) {
			v.closePrompt()
		}
		return
	}
	id := v.renderer.PlanetAt(v.system.Bodies(), ev.X, ev.Y)
	switch ev.Kind {
	case PointerMove:
		v.system.Hover(id)
	case PointerDown:
		v.press = id
	case PointerUp:
		if v.press != 0 && v.press == id {
			v.openMedia(id)
		} else if id == 0 && v.system.Focus().MediaPlanet != 0 && ev.X < v.w-v.panelWidth() {
			v.system.CloseMedia()
		}
		v.press = 0
	case PointerCancel:
		v.press = 0
	}
}

func (v *PlanetView) openMedia(id int) {
	v.system.OpenMedia(id)
	v.mediaSel = 0
}

func (v *PlanetView) panelWidth() float64 { return 44 * v.env.CellW }

func (v *PlanetView) open(p *prompt) {
	v.prompt = p
}

func (v *PlanetView) closePrompt() {
	if v.prompt != nil && v.prompt.onClose != nil {
		v.prompt.onClose()
	}
	v.prompt = nil
}

// Key implements View
func (v *PlanetView) Key(ev KeyEvent) bool {
	if v.prompt != nil {
		v.promptKey(ev)
		return true
	}
	if v.system.Focus().MediaPlanet != 0 {
		return v.mediaKey(ev)
	}
	switch {
	case ev.Is('a'):
		v.AddPlanet()
	case ev.Key == KeyRune && ev.Rune >= '1' && ev.Rune <= '7':
		if _, ok := v.system.Planet(int(ev.Rune - '0')); ok {
			v.openMedia(int(ev.Rune - '0'))
		}
	default:
		return false
	}
	return true
}

func (v *PlanetView) promptKey(ev KeyEvent) {
	p := v.prompt
	switch p.modal.Key(ev) {
	case ActionCancel:
		v.closePrompt()
	case ActionConfirm:
		v.closePrompt()
		if p.onOK != nil {
			p.onOK(p.modal.Value())
		}
	case ActionDelete:
		v.closePrompt()
		if p.onDelete != nil {
			p.onDelete()
		}
	}
}

// AddPlanet asks for a name, then an optional thumbnail file
func (v *PlanetView) AddPlanet() {
	if len(v.system.Planets()) >= archive.MaxPlanetsPerStar {
		v.env.Notifier.Notify(archive.ErrTooManyPlanets.Error())
		return
	}
	v.system.OpenAddPopup()
	v.open(&prompt{
		modal:   NewModal("New Planet", "", archive.MaxPlanetNameLength),
		onClose: v.system.CloseAddPopup,
		onOK: func(name string) {
			v.system.OpenAddPopup()
			v.open(&prompt{
				modal:   NewModal("Thumbnail file (optional)", "", 240),
				onClose: v.system.CloseAddPopup,
				onOK: func(path string) {
					var thumb *api.Upload
					if strings.TrimSpace(path) != "" {
						up, err := readUpload(path)
						if err != nil {
							v.env.Notifier.Notify(err.Error())
							return
						}
						thumb = up
					}
					if _, err := v.system.Add(name, thumb); err == nil {
						v.env.sound().Chime()
					}
				},
			})
		},
	})
}

func (v *PlanetView) selected() (planet *archive.Planet, item *archive.MediaItem) {
	p, ok := v.system.Planet(v.system.Focus().MediaPlanet)
	if !ok {
		return nil, nil
	}
	if v.mediaSel >= 0 && v.mediaSel < len(p.Media) {
		return p, &p.Media[v.mediaSel]
	}
	return p, nil
}

func (v *PlanetView) mediaKey(ev KeyEvent) bool {
	p, item := v.selected()
	if p == nil {
		v.system.CloseMedia()
		return true
	}
	id := p.ID()
	switch {
	case ev.Key == KeyEscape:
		v.system.CloseMedia()
	case ev.Key == KeyDown && len(p.Media) > 0:
		v.mediaSel = (v.mediaSel + 1) % len(p.Media)
	case ev.Key == KeyUp && len(p.Media) > 0:
		v.mediaSel = (v.mediaSel - 1 + len(p.Media)) % len(p.Media)
	case ev.Is('u'):
		v.open(&prompt{
			modal: NewModal("Upload file", "", 240),
			onOK: func(path string) {
				up, err := readUpload(path)
				if err != nil {
					v.env.Notifier.Notify(err.Error())
					return
				}
				v.system.AddMedia(id, []api.MediaUpload{{File: *up}})
			},
		})
	case ev.Is('e'):
		v.system.OpenEdit(id)
		m := NewModal("Edit Planet", p.Name, archive.MaxPlanetNameLength)
		m.DeletePrompt = fmt.Sprintf("Delete planet '%s'?", p.Name)
		v.open(&prompt{
			modal:    m,
			onClose:  v.system.CloseEdit,
			onOK:     func(name string) { v.system.Update(id, &name, nil) },
			onDelete: func() { v.system.Delete(id) },
		})
	case item == nil:
		return false
	case ev.Is('l'):
		v.system.ToggleLike(id, v.mediaSel)
	case ev.Is('s'):
		v.system.ToggleStar(id, v.mediaSel)
	case ev.Is('x'), ev.Key == KeyDelete:
		v.system.DeleteMedia(id, v.mediaSel)
		v.mediaSel = max(0, v.mediaSel-1)
	case ev.Is('r'):
		index := v.mediaSel
		v.open(&prompt{
			modal: NewModal("Report reason", "", 120),
			onOK:  func(reason string) { v.system.Report(id, index, reason) },
		})
	case ev.Is('d'), ev.Is('g'), ev.Is('t'):
		v.editMeta(id, v.mediaSel, item, ev.Rune)
	default:
		return false
	}
	return true
}

// editMeta prompts for one metadata field and saves the item
func (v *PlanetView) editMeta(id, index int, item *archive.MediaItem, field rune) {
	meta := api.MediaMeta{Description: item.Description, Location: item.Location, Tags: item.Tags}
	title, value := "Description", item.Description
	switch field {
	case 'g':
		title, value = "Location", item.Location
	case 't':
		title, value = "Tags (comma separated)", item.Tags.CSV()
	}
	v.open(&prompt{
		modal: NewModal(title, value, 240),
		onOK: func(s string) {
			switch field {
			case 'g':
				meta.Location = strings.TrimSpace(s)
			case 't':
				meta.Tags = splitTags(s)
			default:
				meta.Description = s
			}
			v.system.UpdateMedia(id, index, meta)
		},
	})
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// readUpload loads a local file for a multipart upload
func readUpload(path string) (*api.Upload, error) {
	path = strings.TrimSpace(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	return &api.Upload{Filename: filepath.Base(path), Body: bytes.NewReader(data)}, nil
}

// Texts implements View
func (v *PlanetView) Texts() []Text {
	cw, ch := v.env.CellW, v.env.CellH
	var out []Text
	for _, l := range v.labels {
		p, ok := v.system.Planet(l.ID)
		if !ok {
			continue
		}
		fg := TextColor
		if l.Dimmed {
			fg = MutedColor
		}
		out = append(out, Text{X: l.X, Y: l.Y, S: p.Name, FG: fg, Dimmed: l.Dimmed})
	}
	out = append(out, Text{X: cw, Y: ch, S: fmt.Sprintf("Planets %d/%d", len(v.system.Planets()), archive.MaxPlanetsPerStar), FG: AccentColor, Bold: true})
	out = append(out, v.mediaPanel()...)
	if v.prompt != nil {
		out = append(out, v.prompt.modal.Texts(cw, ch, v.w, v.h)...)
	}
	return out
}

func (v *PlanetView) mediaPanel() []Text {
	p, _ := v.selected()
	if p == nil {
		return nil
	}
	cw, ch := v.env.CellW, v.env.CellH
	width := int(v.panelWidth() / cw)
	x := v.w - v.panelWidth()
	line := func(row int, s string, fg canvas.Color, bold bool) Text {
		r := []rune(s)
		if len(r) > width-2 {
			r = append(r[:width-3], '~')
		}
		return Text{X: x, Y: float64(row) * ch, S: pad(" "+string(r), width), FG: fg, BG: PanelColor, Bold: bold}
	}
	out := []Text{line(1, fmt.Sprintf("%s (%d)", p.Name, len(p.Media)), AccentColor, true)}
	if p.DBID == 0 {
		out = append(out, line(2, "not saved on the server", MutedColor, false))
	}
	for i, m := range p.Media {
		mark := "  "
		if i == v.mediaSel {
			mark = "> "
		}
		flags := ""
		if m.Liked {
			flags += " ♥"
		}
		if m.Starred {
			flags += " ★"
		}
		if m.Reported {
			flags += " !"
		}
		desc := m.Description
		if desc == "" {
			desc = filepath.Base(m.URL)
		}
		if m.Temp() {
			desc = "uploading..."
		}
		fg := TextColor
		if i == v.mediaSel {
			fg = AccentColor
		}
		out = append(out, line(3+i, fmt.Sprintf("%s[%s] %s%s", mark, m.MediaType, desc, flags), fg, i == v.mediaSel))
	}
	if _, item := v.selected(); item != nil {
		row := 4 + len(p.Media)
		out = append(out,
			line(row, "location: "+item.Location, MutedColor, false),
			line(row+1, "tags: "+item.Tags.CSV(), MutedColor, false))
	}
	return out
}

// Hints lists the keys of the current mode
func (v *PlanetView) Hints() string {
	if v.system.Focus().MediaPlanet != 0 {
		return "u upload  l like  s star  r report  x delete  d/g/t edit  e planet  Esc close"
	}
	return "a add planet  1-7 open  click planet for media  Esc back"
}

// Close stops the loop and cancels requests
func (v *PlanetView) Close() {
	v.loop.stop()
	v.system.Close()
}
