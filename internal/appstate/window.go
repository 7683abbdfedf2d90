package appstate

import (
	"context"
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the window on s and processes events until it is closed.
func (a *AppState) Main(s screen.Screen) {
	winSize := a.WindowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.ctx = ctx

	p := newPainter()
	go p.run(func(ctx context.Context, st paintState) { a.drawFrame(ctx, s, w, st) })
	defer p.stop()

	repaint := func() { w.Send(paint.Event{}) }

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			winSize = image.Pt(e.WidthPx, e.HeightPx)
			repaint()
		case paint.Event:
			p.submit(a.frame(winSize))
		case mouse.Event:
			before := a.messageUntil
			a.handleMouse(e)
			if a.messageUntil != before {
				a.refreshMessage(repaint)
			}
			repaint()
		case key.Event:
			before := a.messageUntil
			if a.handleKey(e) {
				return
			}
			if a.messageUntil != before {
				a.refreshMessage(repaint)
			}
			repaint()
		case error:
			log.Printf("window: %v", e)
		}
	}
}
