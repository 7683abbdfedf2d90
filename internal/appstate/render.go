package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/sketchpad/internal/session"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	messageFaceOnce sync.Once
	messageFace     font.Face
)

// loadMessageFace returns the large face used for status overlays, falling
// back to the fixed bitmap font if the embedded TTF cannot be parsed.
func loadMessageFace() font.Face {
	messageFaceOnce.Do(func() {
		messageFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse font: %v", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("font face: %v", err)
			return
		}
		messageFace = face
	})
	return messageFace
}

// paintState is an immutable copy of what a frame shows, so the painter
// goroutine never reads the live session.
type paintState struct {
	size        image.Point
	canvas      *image.RGBA
	state       session.ToolState
	buttonState []ButtonState
	message     string
}

func (a *AppState) frame(size image.Point) paintState {
	st := paintState{
		size:   size,
		canvas: a.Session.Snapshot(),
		state:  a.Session.State(),
	}
	for i := range a.buttons {
		st.buttonState = append(st.buttonState, a.buttonState(i))
	}
	if a.messageVisible() {
		st.message = a.message
	}
	return st
}

// render draws st into dst. It returns early once ctx is cancelled.
func (a *AppState) render(ctx context.Context, dst *image.RGBA, st paintState) {
	th := a.Theme
	l := a.layout
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	draw.Draw(dst, l.sidebar, &image.Uniform{th.SidebarBackground}, image.Point{}, draw.Src)

	a.shadow.draw(dst)
	xdraw.Copy(dst, l.canvas.Min, st.canvas, st.canvas.Bounds(), xdraw.Src, nil)
	drawRect(dst, l.canvas.Inset(-1), th.CanvasBorder, 1)
	if ctx.Err() != nil {
		return
	}

	for i, b := range a.buttons {
		b.Draw(dst, st.buttonState[i])
	}
	draw.Draw(dst, l.current, &image.Uniform{st.state.Color}, image.Point{}, draw.Src)
	drawRect(dst, l.current, th.SwatchBorder, 1)
	drawText(dst, l.label, a.slider.label(st.state.Width), th.Foreground)
	a.slider.draw(dst, st.state.Width)
	drawText(dst, l.status, fmt.Sprintf("%s  width %g  %s", st.state.Tool.Label(), st.state.Width, hexColor(st.state.Color)), th.Foreground)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" {
		face := loadMessageFace()
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: face}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := face.Metrics().Ascent.Ceil()
		descent := face.Metrics().Descent.Ceil()
		px := l.canvas.Min.X + (l.canvas.Dx()-wmsg)/2
		py := l.canvas.Min.Y + (l.canvas.Dy()-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}
}

func drawText(dst *image.RGBA, r image.Rectangle, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(r.Min.X, r.Min.Y+(r.Dy()+10)/2)}
	d.DrawString(s)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// drawFrame renders st into a fresh buffer and publishes it to the window.
func (a *AppState) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(st.size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	a.render(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// painter runs frames on its own goroutine, cancelling a frame in progress
// when a newer one arrives.
type painter struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	dropCount int
	stopped   bool
	ch        chan paintState
	done      chan struct{}
}

func newPainter() *painter {
	return &painter{ch: make(chan paintState, 1), done: make(chan struct{})}
}

func (p *painter) run(drawFn func(context.Context, paintState)) {
	defer close(p.done)
	for st := range p.ch {
		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.mu.Unlock()
		drawFn(ctx, st)
		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.dropCount = 0
		}
		p.mu.Unlock()
		cancel()
	}
}

// submit queues st, replacing any frame that has not started.
func (p *painter) submit(st paintState) {
	p.mu.Lock()
	if p.cancel != nil && p.dropCount < frameDropThreshold {
		p.cancel()
		p.dropCount++
	}
	p.mu.Unlock()
	select {
	case p.ch <- st:
	default:
		select {
		case <-p.ch:
		default:
		}
		p.ch <- st
	}
}

// stop cancels the current frame, drops queued ones and returns once run has
// exited, so the window can be released safely.
func (p *painter) stop() {
	p.mu.Lock()
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	close(p.ch)
	<-p.done
}

// refreshMessage schedules a repaint when the current message expires.
func (a *AppState) refreshMessage(send func()) {
	if !a.messageVisible() {
		return
	}
	time.AfterFunc(time.Until(a.messageUntil), send)
}
