package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/sketchpad/internal/export"
)

// renderCmd replays a drawing script without a window and saves the result.
type renderCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	script string
	exprs  multiFlag
	brush  brushFlags
}

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, "; ") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c := &renderCmd{root: r, fs: fs}
	defaultOutput := "drawing.png"
	if r != nil && r.config != nil && r.config.Output != "" {
		defaultOutput = r.config.Output
	}
	fs.StringVar(&c.output, "output", defaultOutput, "PNG file to write")
	fs.StringVar(&c.script, "script", "", "read instructions from this file (- for stdin)")
	fs.Var(&c.exprs, "e", "instruction to run; may be repeated")
	c.brush.register(fs)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if strings.TrimSpace(c.output) == "" {
		return nil, &UsageError{of: c, msg: "an output file is required"}
	}
	if c.script != "" && len(c.exprs) > 0 {
		return nil, &UsageError{of: c, msg: "-script and -e cannot be combined"}
	}
	return c, nil
}

func (c *renderCmd) source() (io.ReadCloser, error) {
	switch {
	case len(c.exprs) > 0:
		return io.NopCloser(strings.NewReader(strings.Join(c.exprs, "\n"))), nil
	case c.script != "" && c.script != "-":
		f, err := os.Open(c.script)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		return f, nil
	}
	in := c.root.stdin
	if in == nil {
		in = os.Stdin
	}
	return io.NopCloser(in), nil
}

func (c *renderCmd) Run() error {
	src, err := c.source()
	if err != nil {
		return err
	}
	defer src.Close()
	ops, err := parseScript(src, c.root.config.EffectivePalette())
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}

	s, err := c.brush.newSession(c.root.config)
	if err != nil {
		return err
	}
	for _, op := range ops {
		op.apply(s)
	}

	e := export.NewFileExporter(export.FixedChooser{Path: c.output}, c.root.exportNotifier())
	res, err := s.Export(context.Background(), e)
	if err != nil {
		if errors.Is(err, export.ErrCancelled) {
			return nil
		}
		return fmt.Errorf("failed to save %s: %w", c.output, err)
	}
	out := c.root.stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "saved %s\n", res.Path)
	return nil
}
