// Package appstate implements the paint window: a sidebar of tools, swatches
// and a width slider next to the canvas of a drawing session.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/session"
	"github.com/example/sketchpad/internal/theme"
)

const messageDuration = 2 * time.Second

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

// AppState holds the window's collaborators and the UI state that the event
// loop mutates.
type AppState struct {
	Session  *session.Session
	Exporter export.Exporter
	Notifier *notify.Notifier
	Theme    *theme.Theme
	Palette  []PaletteColor
	Title    string

	copyImage func(image.Image) error
	now       func() time.Time
	onClose   func()

	layout  layout
	shadow  dropShadow
	buttons []*CacheButton
	slider  widthSlider

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string

	ctx          context.Context
	hover        int
	pressed      int
	drawing      bool
	sliding      bool
	quit         bool
	message      string
	messageUntil time.Time
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the drawing session shown in the canvas.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithExporter sets how Save writes the drawing.
func WithExporter(e export.Exporter) Option { return func(a *AppState) { a.Exporter = e } }

// WithNotifier sets the desktop notifier used for clipboard copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithPalette replaces the sidebar swatches.
func WithPalette(p []PaletteColor) Option { return func(a *AppState) { a.Palette = p } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(image.Image) error) Option {
	return func(a *AppState) { a.copyImage = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// DefaultPalette is the sidebar swatch set used when none is configured.
func DefaultPalette() []PaletteColor {
	return []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
	}
}

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Title:     "Sketchpad",
		copyImage: clipboard.WriteImage,
		now:       time.Now,
		ctx:       context.Background(),
		hover:     -1,
		pressed:   -1,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = session.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if len(a.Palette) == 0 {
		a.Palette = DefaultPalette()
	}
	if a.Exporter == nil {
		a.Exporter = export.NewFileExporter(export.PortalChooser{}, nil)
	}
	a.configure()
	return a
}

func (a *AppState) configure() {
	a.layout = computeLayout(a.Session.Bounds().Size(), len(a.Palette))
	l := a.layout
	th := a.Theme
	a.shadow = newDropShadow(l.canvas, shadowRadius, shadowOffset, shadowOpacity)

	selectTool := func(t session.Tool) { a.Session.SelectTool(t) }
	a.buttons = []*CacheButton{
		{Button: &ToolButton{tool: session.ToolStraightLine, rect: l.line, th: th, onSelect: selectTool}},
		{Button: &ToolButton{tool: session.ToolParticleTrace, rect: l.trace, th: th, onSelect: selectTool}},
	}
	for i, p := range a.Palette {
		a.buttons = append(a.buttons, &CacheButton{Button: &SwatchButton{
			entry: p, rect: l.swatches[i], th: th,
			onSelect: func(c color.RGBA) { a.Session.SetStrokeColor(c) },
		}})
	}
	a.buttons = append(a.buttons,
		&CacheButton{Button: &ToolButton{tool: session.ToolErase, rect: l.erase, th: th, onSelect: selectTool}},
		&CacheButton{Button: &ActionButton{label: "Save", rect: l.save, th: th, onActivate: a.save}},
		&CacheButton{Button: &ActionButton{label: "Copy", rect: l.copy, th: th, onActivate: a.copy}},
		&CacheButton{Button: &ActionButton{label: "Clear", rect: l.clear, th: th, onActivate: a.clear}},
	)
	a.slider = widthSlider{rect: l.slider, rng: a.Session.WidthRange(), th: th,
		onSet: func(v float64) { a.Session.SetStrokeWidth(v) }}

	a.actions = map[string]func(){}
	a.keyboardAction = map[KeyShortcut]string{}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		a.actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				a.keyboardAction[sc] = name
			}
		}
	}
	register("line", shortcutList{{Rune: 'l'}}, func() { selectTool(session.ToolStraightLine) })
	register("trace", shortcutList{{Rune: 'p'}}, func() { selectTool(session.ToolParticleTrace) })
	register("erase", shortcutList{{Rune: 'e'}}, func() { selectTool(session.ToolErase) })
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, a.save)
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, a.copy)
	register("clear", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, a.clear)
	register("thinner", shortcutList{{Rune: '['}, {Rune: '-'}}, func() { a.Session.SetStrokeWidth(a.Session.StrokeWidth() - 1) })
	register("thicker", shortcutList{{Rune: ']'}, {Rune: '+'}, {Rune: '='}}, func() { a.Session.SetStrokeWidth(a.Session.StrokeWidth() + 1) })
	register("quit", shortcutList{{Rune: 'q'}, {Code: key.CodeEscape}}, func() { a.quit = true })
}

// WindowSize is the initial window size in pixels.
func (a *AppState) WindowSize() image.Point { return a.layout.window }

func (a *AppState) showMessage(msg string) {
	a.message = msg
	a.messageUntil = a.now().Add(messageDuration)
	log.Print(msg)
}

func (a *AppState) messageVisible() bool {
	return a.message != "" && a.now().Before(a.messageUntil)
}

func (a *AppState) save() {
	res, err := a.Session.Export(a.ctx, a.Exporter)
	switch {
	case errors.Is(err, export.ErrCancelled):
		// declining the dialog is not an error
	case err != nil:
		cause := err
		if u := errors.Unwrap(err); u != nil {
			cause = u
		}
		a.message = fmt.Sprintf("save failed: %v", cause)
		a.messageUntil = a.now().Add(messageDuration)
	default:
		a.message = fmt.Sprintf("saved %s", res.Path)
		a.messageUntil = a.now().Add(messageDuration)
	}
}

func (a *AppState) copy() {
	img := a.Session.Snapshot()
	if err := a.copyImage(img); err != nil {
		log.Printf("copy: %v", err)
		a.message = "copy failed"
		a.messageUntil = a.now().Add(messageDuration)
		return
	}
	a.Notifier.Copy("drawing", img)
	a.showMessage("image copied to clipboard")
}

func (a *AppState) clear() {
	a.Session.Clear()
	a.showMessage("canvas cleared")
}

// trigger runs the named action.
func (a *AppState) trigger(action string) bool {
	fn, ok := a.actions[action]
	if ok {
		fn()
	}
	return ok
}

// shortcutFor normalises a key press. With Control held some drivers report
// a control character instead of the letter, so letter codes are mapped back.
func shortcutFor(e key.Event) KeyShortcut {
	r := unicode.ToLower(e.Rune)
	if (r < 0x20 || r == -1) && e.Code >= key.CodeA && e.Code <= key.CodeZ {
		r = 'a' + rune(e.Code-key.CodeA)
	}
	mods := e.Modifiers &^ key.ModShift
	return KeyShortcut{Rune: r, Modifiers: mods}
}

// handleKey applies a key event and reports whether the window should close.
func (a *AppState) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return a.quit
	}
	if action, ok := a.keyboardAction[shortcutFor(e)]; ok {
		a.trigger(action)
		return a.quit
	}
	if action, ok := a.keyboardAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers &^ key.ModShift}]; ok {
		a.trigger(action)
	}
	return a.quit
}

// handleMouse routes a pointer event to the sidebar or the session.
func (a *AppState) handleMouse(e mouse.Event) {
	p := image.Pt(int(e.X), int(e.Y))
	left := e.Button == mouse.ButtonLeft

	if e.Direction == mouse.DirPress && a.messageVisible() && !p.In(a.layout.canvas) {
		a.messageUntil = time.Time{}
	}

	switch {
	case a.drawing:
		x, y := a.layout.toCanvas(e.X, e.Y)
		switch {
		case e.Direction == mouse.DirNone:
			a.Session.PointerMove(x, y)
		case e.Direction == mouse.DirRelease && left:
			a.Session.PointerUp(x, y)
			a.drawing = false
		}
		return
	case a.sliding:
		a.slider.set(p.X)
		if e.Direction == mouse.DirRelease && left {
			a.sliding = false
		}
		return
	}

	if e.Direction == mouse.DirNone {
		a.hover = a.buttonAt(p)
		return
	}
	if !left {
		return
	}

	switch e.Direction {
	case mouse.DirPress:
		switch {
		case p.In(a.layout.canvas):
			x, y := a.layout.toCanvas(e.X, e.Y)
			a.Session.PointerDown(x, y)
			a.drawing = true
		case p.In(a.layout.slider):
			a.sliding = true
			a.slider.set(p.X)
		default:
			a.pressed = a.buttonAt(p)
		}
	case mouse.DirRelease:
		if a.pressed >= 0 && a.pressed == a.buttonAt(p) {
			a.buttons[a.pressed].Activate()
		}
		a.pressed = -1
	}
}

func (a *AppState) buttonAt(p image.Point) int {
	for i, b := range a.buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// buttonState picks how button i is drawn.
func (a *AppState) buttonState(i int) ButtonState {
	switch b := a.buttons[i].Button.(type) {
	case *ToolButton:
		if b.tool == a.Session.Tool() {
			return StateSelected
		}
	case *SwatchButton:
		if b.entry.Color == a.Session.StrokeColor() {
			return StateSelected
		}
	}
	switch i {
	case a.pressed:
		return StatePressed
	case a.hover:
		return StateHover
	}
	return StateDefault
}

func (a *AppState) notifyClose() {
	if a.onClose != nil {
		a.onClose()
	}
}
