package main

import (
	"flag"
	"fmt"
	"math"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	palette := c.root.config.EffectivePalette()
	if len(palette) == 0 {
		fmt.Fprintln(c.root.stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(c.root.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range palette {
		marker := " "
		if entry.Color == c.root.config.Brush.Color {
			marker = "*"
		}
		hex := fmt.Sprintf("#%02X%02X%02X", entry.Color.R, entry.Color.G, entry.Color.B)
		name := entry.Name
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.root.stdout, "%s %2d: %-12s %s %s\n", marker, idx, name, hex, block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ContinueOnError)
	cmd := &widthsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

// Run lists the whole-pixel widths in the configured range.
func (c *widthsCmd) Run() error {
	b := c.root.config.Brush
	fmt.Fprintf(c.root.stdout, "stroke widths %gpx to %gpx (* marks the default width):\n", b.MinWidth, b.MaxWidth)
	for w := math.Ceil(b.MinWidth); w <= b.MaxWidth; w++ {
		marker := " "
		if w == b.Width {
			marker = "*"
		}
		fmt.Fprintf(c.root.stdout, "%s %3gpx\n", marker, w)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
