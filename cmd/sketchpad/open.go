package main

import (
	"flag"
	"log"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/export"
)

// openCmd starts the paint window.
type openCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	brush  brushFlags
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	o := &openCmd{root: r, fs: fs}
	defaultOutput := ""
	if r != nil && r.config != nil {
		defaultOutput = r.config.Output
	}
	fs.StringVar(&o.output, "output", defaultOutput, "file to save to when no save dialog is available")
	o.brush.register(fs)
	fs.Usage = usageFunc(o)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: o}
	}
	return o, nil
}

// exporter prefers the desktop save dialog and falls back to -output.
func (o *openCmd) exporter() *export.FileExporter {
	chooser := export.ChainChooser{
		export.PortalChooser{},
		export.FixedChooser{Path: o.output},
	}
	e := export.NewFileExporter(chooser, o.root.exportNotifier())
	e.Request.Folder = o.root.config.SaveDir
	return e
}

func (o *openCmd) Run() error {
	s, err := o.brush.newSession(o.root.config)
	if err != nil {
		return err
	}
	app := appstate.New(
		appstate.WithSession(s),
		appstate.WithExporter(o.exporter()),
		appstate.WithNotifier(o.root.notifier),
		appstate.WithTheme(o.root.activeTheme),
		appstate.WithPalette(paletteColors(o.root.config)),
		appstate.WithOnClose(func() { log.Print("window closed") }),
	)
	app.Run()
	return nil
}
