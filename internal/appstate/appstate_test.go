package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/session"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

type fakeExporter struct {
	calls int
	res   export.Result
	err   error
}

func (f *fakeExporter) Export(context.Context, image.Image) (export.Result, error) {
	f.calls++
	return f.res, f.err
}

func newTestApp(t *testing.T, opts ...Option) *AppState {
	t.Helper()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := New(append([]Option{WithClipboard(func(image.Image) error { return nil })}, opts...)...)
	a.now = func() time.Time { return now }
	return a
}

func center(r image.Rectangle) (float32, float32) {
	c := r.Min.Add(r.Max).Div(2)
	return float32(c.X), float32(c.Y)
}

func click(a *AppState, r image.Rectangle) {
	x, y := center(r)
	a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func TestDefaultLayoutMatchesWindow(t *testing.T) {
	a := newTestApp(t)
	if got := a.WindowSize(); got != image.Pt(600, 450) {
		t.Fatalf("window = %v, want 600x450", got)
	}
	if got := a.layout.canvas; got != image.Rect(185, 15, 585, 415) {
		t.Fatalf("canvas = %v", got)
	}
	for i, b := range a.buttons {
		if !b.Rect().In(a.layout.sidebar) {
			t.Fatalf("button %d at %v outside sidebar %v", i, b.Rect(), a.layout.sidebar)
		}
		for j := i + 1; j < len(a.buttons); j++ {
			if b.Rect().Overlaps(a.buttons[j].Rect()) {
				t.Fatalf("buttons %d and %d overlap", i, j)
			}
		}
	}
}

func TestLayoutGrowsWithCanvas(t *testing.T) {
	l := computeLayout(image.Pt(800, 100), 16)
	if l.window.X != 15+155+15+800+15 {
		t.Fatalf("window width = %d", l.window.X)
	}
	if l.window.Y < l.clear.Max.Y+padding {
		t.Fatalf("window height %d cuts off the sidebar", l.window.Y)
	}
}

func TestPointerRoutingDrawsLine(t *testing.T) {
	a := newTestApp(t)
	a.Session.SetStrokeWidth(5)
	c := a.layout.canvas.Min
	press := mouse.Event{X: float32(c.X + 10), Y: float32(c.Y + 10), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
	move := mouse.Event{X: float32(c.X + 60), Y: float32(c.Y + 200), Direction: mouse.DirNone}
	release := mouse.Event{X: float32(c.X + 100), Y: float32(c.Y + 10), Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
	a.handleMouse(press)
	a.handleMouse(move)
	a.handleMouse(release)
	if got := a.Session.At(50, 10); got != black {
		t.Fatalf("canvas-local (50,10) = %v, want black", got)
	}
	if got := a.Session.At(60, 200); got != white {
		t.Fatalf("move in line mode drew at (60,200): %v", got)
	}
}

func TestMovesOnlyDrawWhileHeld(t *testing.T) {
	a := newTestApp(t)
	a.Session.SelectTool(session.ToolParticleTrace)
	a.Session.SetStrokeWidth(6)
	c := a.layout.canvas.Min
	a.handleMouse(mouse.Event{X: float32(c.X + 100), Y: float32(c.Y + 100), Direction: mouse.DirNone})
	if got := a.Session.At(100, 100); got != white {
		t.Fatalf("hover drew a dot: %v", got)
	}
	a.handleMouse(mouse.Event{X: float32(c.X + 100), Y: float32(c.Y + 100), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: float32(c.X + 150), Y: float32(c.Y + 150), Direction: mouse.DirNone})
	a.handleMouse(mouse.Event{X: float32(c.X + 150), Y: float32(c.Y + 150), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if got := a.Session.At(150, 150); got != black {
		t.Fatalf("drag did not draw: %v", got)
	}
	a.handleMouse(mouse.Event{X: float32(c.X + 200), Y: float32(c.Y + 200), Direction: mouse.DirNone})
	if got := a.Session.At(200, 200); got != white {
		t.Fatalf("move after release drew: %v", got)
	}
}

func TestSidebarButtons(t *testing.T) {
	a := newTestApp(t)
	click(a, a.layout.trace)
	if a.Session.Tool() != session.ToolParticleTrace {
		t.Fatalf("tool = %v, want trace", a.Session.Tool())
	}
	click(a, a.layout.swatches[2])
	if got := a.Session.StrokeColor(); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("colour = %v, want red", got)
	}
	click(a, a.layout.erase)
	if a.Session.Tool() != session.ToolErase || a.Session.StrokeColor() != white {
		t.Fatalf("erase: tool %v colour %v", a.Session.Tool(), a.Session.StrokeColor())
	}
	click(a, a.layout.line)
	if a.Session.Tool() != session.ToolStraightLine {
		t.Fatalf("tool = %v, want line", a.Session.Tool())
	}
}

func TestPressThenReleaseElsewhereDoesNotActivate(t *testing.T) {
	a := newTestApp(t)
	x, y := center(a.layout.trace)
	a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	x, y = center(a.layout.save)
	a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if a.Session.Tool() != session.ToolStraightLine {
		t.Fatalf("tool changed to %v", a.Session.Tool())
	}
}

func TestSliderSetsWidth(t *testing.T) {
	a := newTestApp(t)
	r := a.layout.slider
	y := float32(r.Min.Y + r.Dy()/2)
	a.handleMouse(mouse.Event{X: float32(r.Min.X + 1), Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: float32(r.Max.X + 100), Y: y, Direction: mouse.DirNone})
	if got := a.Session.StrokeWidth(); got != 25 {
		t.Fatalf("dragged past the end: width = %v, want 25", got)
	}
	a.handleMouse(mouse.Event{X: float32(r.Min.X - 100), Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if got := a.Session.StrokeWidth(); got != 1 {
		t.Fatalf("released before the start: width = %v, want 1", got)
	}
}

func TestSliderRoundTrip(t *testing.T) {
	s := widthSlider{rect: image.Rect(0, 0, 155, 20), rng: session.WidthRange{Min: 1, Max: 25}}
	for _, v := range []float64{1, 5, 13, 25} {
		k := s.knobRect(v)
		if got := s.valueAt(k.Min.X + knobWidth/2); got != v {
			t.Errorf("valueAt(knob(%v)) = %v", v, got)
		}
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	a := newTestApp(t)
	press := func(e key.Event) bool {
		e.Direction = key.DirPress
		return a.handleKey(e)
	}
	press(key.Event{Rune: 'p', Code: key.CodeP})
	if a.Session.Tool() != session.ToolParticleTrace {
		t.Fatalf("p: tool = %v", a.Session.Tool())
	}
	press(key.Event{Rune: 'E', Code: key.CodeE, Modifiers: key.ModShift})
	if a.Session.Tool() != session.ToolErase {
		t.Fatalf("E: tool = %v", a.Session.Tool())
	}
	press(key.Event{Rune: ']', Code: key.CodeRightSquareBracket})
	press(key.Event{Rune: ']', Code: key.CodeRightSquareBracket})
	if got := a.Session.StrokeWidth(); got != 3 {
		t.Fatalf("width = %v, want 3", got)
	}
	press(key.Event{Rune: '[', Code: key.CodeLeftSquareBracket})
	if got := a.Session.StrokeWidth(); got != 2 {
		t.Fatalf("width = %v, want 2", got)
	}
	if press(key.Event{Rune: 'x', Code: key.CodeX}) {
		t.Fatalf("unbound key closed the window")
	}
	if !press(key.Event{Rune: -1, Code: key.CodeEscape}) {
		t.Fatalf("escape did not close the window")
	}
}

func TestControlShortcutWithControlCharacter(t *testing.T) {
	e := &fakeExporter{res: export.Result{Path: "/tmp/a.png"}}
	a := newTestApp(t, WithExporter(e))
	a.handleKey(key.Event{Rune: 0x13, Code: key.CodeS, Modifiers: key.ModControl, Direction: key.DirPress})
	if e.calls != 1 {
		t.Fatalf("ctrl+s exported %d times", e.calls)
	}
}

func TestSaveMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		visible bool
	}{
		{name: "saved", want: "saved /tmp/a.png", visible: true},
		{name: "cancelled", err: export.ErrCancelled},
		{name: "failed", err: errors.New("disk full"), want: "save failed: disk full", visible: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &fakeExporter{res: export.Result{Path: "/tmp/a.png"}, err: tt.err}
			a := newTestApp(t, WithExporter(e))
			click(a, a.layout.save)
			if e.calls != 1 {
				t.Fatalf("exporter called %d times", e.calls)
			}
			if a.messageVisible() != tt.visible {
				t.Fatalf("message visible = %v (%q)", a.messageVisible(), a.message)
			}
			if tt.visible && a.message != tt.want {
				t.Fatalf("message = %q, want %q", a.message, tt.want)
			}
		})
	}
}

func TestCopyAndClear(t *testing.T) {
	var copied image.Image
	a := newTestApp(t, WithClipboard(func(img image.Image) error { copied = img; return nil }))
	a.Session.SetStrokeWidth(8)
	a.Session.PointerDown(10, 10)
	a.Session.PointerUp(100, 10)

	click(a, a.layout.copy)
	if copied == nil || copied.Bounds() != a.Session.Bounds() {
		t.Fatalf("clipboard got %v", copied)
	}
	click(a, a.layout.clear)
	if got := a.Session.At(50, 10); got != white {
		t.Fatalf("clear left %v", got)
	}
	if !strings.Contains(a.message, "cleared") {
		t.Fatalf("message = %q", a.message)
	}
}

func TestCopyFailureShowsMessage(t *testing.T) {
	a := newTestApp(t, WithClipboard(func(image.Image) error { return errors.New("no display") }))
	click(a, a.layout.copy)
	if a.message != "copy failed" {
		t.Fatalf("message = %q", a.message)
	}
}

func TestRenderShowsCanvas(t *testing.T) {
	a := newTestApp(t)
	a.Session.SetStrokeWidth(5)
	a.Session.PointerDown(10, 10)
	a.Session.PointerUp(100, 10)
	st := a.frame(a.WindowSize())
	dst := image.NewRGBA(image.Rectangle{Max: st.size})
	a.render(context.Background(), dst, st)
	c := a.layout.canvas.Min
	if got := dst.RGBAAt(c.X+50, c.Y+10); got != black {
		t.Fatalf("window pixel over the line = %v, want black", got)
	}
	if got := dst.RGBAAt(c.X+200, c.Y+200); got != white {
		t.Fatalf("window pixel over blank canvas = %v, want white", got)
	}
	if got := dst.RGBAAt(2, 2); got != a.Theme.Background {
		t.Fatalf("window background = %v, want %v", got, a.Theme.Background)
	}
}

func TestMessageExpires(t *testing.T) {
	a := newTestApp(t)
	start := a.now()
	a.showMessage("hello")
	if !a.messageVisible() {
		t.Fatalf("message not visible")
	}
	a.now = func() time.Time { return start.Add(messageDuration + time.Millisecond) }
	if a.messageVisible() {
		t.Fatalf("message still visible after %v", messageDuration)
	}
}

func TestPainterDeliversLatestFrame(t *testing.T) {
	p := newPainter()
	got := make(chan image.Point, 4)
	go p.run(func(_ context.Context, st paintState) { got <- st.size })
	defer p.stop()
	p.submit(paintState{size: image.Pt(1, 1)})
	p.submit(paintState{size: image.Pt(2, 2)})
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s := <-got:
			if s == image.Pt(2, 2) {
				return
			}
		case <-timeout:
			t.Fatalf("newest frame was never drawn")
		}
	}
}

func TestPainterStopWaitsForFrame(t *testing.T) {
	p := newPainter()
	started := make(chan struct{})
	var finished atomic.Bool
	go p.run(func(ctx context.Context, _ paintState) {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})
	p.submit(paintState{})
	<-started
	p.stop()
	if !finished.Load() {
		t.Fatalf("stop returned while a frame was still drawing")
	}
}

