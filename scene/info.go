package scene

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/memory-space/canvas"
)

// Page is a static information page
type Page struct {
	Title string
	Lines []string
}

// Pages are the static routes opened from the home stars
var Pages = map[string]Page{
	"/introduction": {
		Title: "Welcome to Memory Space, where you create your own universe",
		Lines: []string{
			"## Engrave Your Memories into the Universe",
			"Turn ordinary moments from daily life into unforgettable stars.",
			"Memory Space is a personalized memory archive that preserves",
			"your precious moments forever in a cosmic space.",
			"",
			"## Key Features",
			"* Your Own Stars: create collections of stars to hold your memories.",
			"* Create Your Own Planets: design planets around meaningful themes.",
			"* Elements of Memory: store photos, videos and journals as media.",
			"",
			"## Start Your Journey Now!",
			"Your memories are precious. As a Recorder of Stars, turn moments",
			"you never want to forget into a beautiful digital universe.",
			"",
			"[Enter] Start Creating My Universe",
		},
	},
	"/tutorial": {
		Title: "Star Recorder User Tutorial",
		Lines: []string{
			"## 1. Sign Up & Sign In",
			"* Create an account, then sign in to activate your personal universe.",
			"",
			"## 2. Creating Planets & Stars",
			"* Create Planets and Stars that match your categories.",
			"* You can create up to 12 stars and 7 planets.",
			"* Each planet can contain photos, videos and notes as Media.",
			"* Adding tags to media groups related memories for later.",
			"",
			"## 3. Tags & Location",
			"* Filter your memories using the tags attached to media.",
			"* Saved locations are geocoded for the world map.",
			"",
			"## 4. Have Questions While Using the Service?",
			"Leave a post on the 1:1 Inquiry Board; an administrator will respond.",
		},
	},
	"/example": {
		Title: "Examples of How to Use Stars & Planets",
		Lines: []string{
			"## Example 1. A Family Star",
			"Collect your most precious family memories in one star. Add holidays,",
			"trips and family events as planets, tagged #Family #Travel #Holidays.",
			"",
			"## Example 2. My Growth Record Star",
			"Create a planet for each stage of your life and save photos and notes",
			"for each period to reflect on how your life has unfolded.",
			"",
			"## Example 3. A Hobby & Project Star",
			"Build planets around one theme such as gaming, coding or music.",
			"A Game Development Log planet becomes your growth log and portfolio.",
			"",
			"## Create Your Own Category",
			"If you ever think \"Is this moment worth recording?\", it probably is.",
		},
	},
	"/inquiries": {
		Title: "Inquiries",
	},
}

// Inquiry is a board post
type Inquiry struct {
	ID     int
	Title  string
	Author string
	Date   string
}

var inquiries = []Inquiry{
	{5, "Question about signing in", "UserC", "2025-11-17"},
	{4, "Question about planets", "UserA", "2025-11-15"},
	{3, "Photo edit error", "UserB", "2025-11-14"},
	{2, "Request for a usage guide", "UserC", "2025-11-13"},
	{1, "Password reset", "UserD", "2025-11-12"},
}

// Inquiry board messages
const (
	MsgInquiryIncomplete = "Please enter both a title and content."
	MsgInquirySent       = "Your inquiry has been submitted."
)

// InfoView shows a static page over the non-interactive home background
type InfoView struct {
	env    *Env
	route  string
	page   Page
	bg     *Home
	scroll int
	query  string
	prompt *prompt
	w, h   float64
}

// NewInfoView mounts the page for route
func NewInfoView(env *Env, route string) *InfoView {
	return &InfoView{env: env, route: route, page: Pages[route], bg: NewHome(env, false)}
}

// Surface implements View
func (v *InfoView) Surface() *canvas.Surface { return v.bg.Surface() }

// Resize implements View
func (v *InfoView) Resize(w, h float64, pxW, pxH int) {
	v.w, v.h = w, h
	v.bg.Resize(w, h, pxW, pxH)
}

// Pointer implements View
func (v *InfoView) Pointer(PointerEvent) {}

// Matches returns the inquiries whose title contains the search query
func (v *InfoView) Matches() []Inquiry {
	q := strings.ToLower(v.query)
	var out []Inquiry
	for _, in := range inquiries {
		if strings.Contains(strings.ToLower(in.Title), q) {
			out = append(out, in)
		}
	}
	return out
}

// Key implements View
func (v *InfoView) Key(ev KeyEvent) bool {
	if v.prompt != nil {
		p := v.prompt
		switch p.modal.Key(ev) {
		case ActionCancel:
			v.prompt = nil
		case ActionConfirm:
			v.prompt = nil
			p.onOK(p.modal.Value())
		}
		return true
	}
	switch {
	case ev.Key == KeyDown:
		v.scroll++
	case ev.Key == KeyUp:
		v.scroll = max(0, v.scroll-1)
	case ev.Key == KeyEnter && v.route == "/introduction":
		v.env.navigate("/")
	case ev.Is('/') && v.route == "/inquiries":
		v.prompt = &prompt{modal: NewModal("Search by title", v.query, 60), onOK: func(s string) { v.query = s }}
	case ev.Is('w') && v.route == "/inquiries":
		v.writeInquiry()
	default:
		return false
	}
	return true
}

func (v *InfoView) writeInquiry() {
	v.prompt = &prompt{
		modal: NewModal("Inquiry title", "", 60),
		onOK: func(title string) {
			v.prompt = &prompt{
				modal: NewModal("Inquiry content", "", 240),
				onOK: func(content string) {
					if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
						v.env.Notifier.Notify(MsgInquiryIncomplete)
						return
					}
					v.env.Log.Info().Str("title", title).Msg("inquiry submitted")
					v.env.Notifier.Notify(MsgInquirySent)
				},
			}
		},
	}
}

func (v *InfoView) lines() []string {
	if v.route != "/inquiries" {
		return v.page.Lines
	}
	lines := []string{
		fmt.Sprintf("Search: %q   [/] search  [w] write inquiry", v.query),
		"",
		fmt.Sprintf("%-4s %-32s %-8s %s", "No.", "Title", "Author", "Date"),
	}
	matches := v.Matches()
	for _, in := range matches {
		lines = append(lines, fmt.Sprintf("%-4d %-32s %-8s %s", in.ID, in.Title, in.Author, in.Date))
	}
	if len(matches) == 0 {
		lines = append(lines, "No results found.")
	}
	return lines
}

// Texts implements View
func (v *InfoView) Texts() []Text {
	cw, ch := v.env.CellW, v.env.CellH
	lines := v.lines()
	v.scroll = min(v.scroll, max(0, len(lines)-1))
	x := 4 * cw
	out := []Text{{X: x, Y: 2 * ch, S: v.page.Title, FG: AccentColor, BG: PanelColor, Bold: true}}
	rows := int(v.h/ch) - 6
	for i, l := range lines[v.scroll:] {
		if i >= rows {
			break
		}
		t := Text{X: x, Y: float64(4+i) * ch, S: l, FG: TextColor, BG: PanelColor}
		if rest, ok := strings.CutPrefix(l, "## "); ok {
			t.S, t.FG, t.Bold = rest, AccentColor, true
		}
		out = append(out, t)
	}
	if v.prompt != nil {
		out = append(out, v.prompt.modal.Texts(cw, ch, v.w, v.h)...)
	}
	return out
}

// Hints implements the stage hint line
func (v *InfoView) Hints() string { return "Up/Down scroll  Esc home" }

// Close stops the background
func (v *InfoView) Close() { v.bg.Close() }
