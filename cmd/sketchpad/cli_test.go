package main

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/session"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func newTestRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &root{program: "sketchpad", config: config.New(), stdout: out}, out
}

func readPNG(t *testing.T, path string) func(x, y int) color.RGBA {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return func(x, y int) color.RGBA {
		return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	}
}

func TestParseScript(t *testing.T) {
	src := `# a red cross
tool line
color red
width 5
line 10 10 100 10
down 50 0
up 50 100

tool trace
trace 10 20 30 40 50 60
clear
`
	ops, err := parseScript(strings.NewReader(src), config.DefaultPalette())
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	want := []opKind{opTool, opColor, opWidth, opLine, opDown, opUp, opTool, opTrace, opClear}
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if op.kind != want[i] {
			t.Errorf("op %d kind = %v, want %v", i, op.kind, want[i])
		}
	}
	if ops[1].color != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("color = %v, want red", ops[1].color)
	}
	if ops[6].tool != session.ToolParticleTrace {
		t.Errorf("tool = %v, want trace", ops[6].tool)
	}
	if len(ops[7].pts) != 6 {
		t.Errorf("trace points = %v", ops[7].pts)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"tool brush", "line 1"},
		{"width\n", "width takes one argument"},
		{"\nline 1 2 3", "line 2: line takes x0 y0 x1 y1"},
		{"trace 1 2 3", "x y pairs"},
		{"down a b", "invalid coordinate"},
		{"color notacolor", "unknown color"},
		{"clear now", "no arguments"},
		{"fill 1 1", "unknown instruction"},
	}
	for _, tt := range tests {
		_, err := parseScript(strings.NewReader(tt.src), nil)
		if err == nil {
			t.Errorf("%q: expected error", tt.src)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: error %q does not mention %q", tt.src, err, tt.want)
		}
	}
}

func TestRenderWritesPNG(t *testing.T) {
	r, out := newTestRoot(t)
	dir := t.TempDir()
	cmd, err := parseRenderCmd([]string{
		"-output", filepath.Join(dir, "line"),
		"-e", "width 5",
		"-e", "line 10 10 100 10",
	}, r)
	if err != nil {
		t.Fatalf("parseRenderCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	path := filepath.Join(dir, "line.png")
	at := readPNG(t, path)
	if got := at(50, 10); got != black {
		t.Fatalf("(50,10) = %v, want black", got)
	}
	if got := at(200, 200); got != white {
		t.Fatalf("(200,200) = %v, want white", got)
	}
	if !strings.Contains(out.String(), "saved "+path) {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestRenderReadsStdin(t *testing.T) {
	r, _ := newTestRoot(t)
	r.stdin = strings.NewReader("tool erase\nwidth 25\n")
	path := filepath.Join(t.TempDir(), "blank.png")
	cmd, err := parseRenderCmd([]string{"-output", path, "-canvas-width", "64", "-canvas-height", "32"}, r)
	if err != nil {
		t.Fatalf("parseRenderCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Fatalf("size = %dx%d, want 64x32", cfg.Width, cfg.Height)
	}
}

func TestRenderScriptFile(t *testing.T) {
	r, _ := newTestRoot(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "draw.txt")
	if err := os.WriteFile(script, []byte("tool trace\nwidth 10\ntrace 100 100 200 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "dots.png")
	cmd, err := parseRenderCmd([]string{"-script", script, "-output", path, "-color", "blue"}, r)
	if err != nil {
		t.Fatalf("parseRenderCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	at := readPNG(t, path)
	blue := color.RGBA{0, 0, 255, 255}
	for _, p := range [][2]int{{100, 100}, {200, 200}} {
		if got := at(p[0], p[1]); got != blue {
			t.Fatalf("dot at %v = %v, want blue", p, got)
		}
	}
	if got := at(150, 150); got != white {
		t.Fatalf("between dots = %v, want white", got)
	}
}

func TestRenderWriteFailure(t *testing.T) {
	r, _ := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	cmd, err := parseRenderCmd([]string{"-output", path, "-e", "line 0 0 10 10"}, r)
	if err != nil {
		t.Fatalf("parseRenderCmd: %v", err)
	}
	err = cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "failed to save"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q does not mention %q", err, want)
	}
}

func TestParseRenderRejectsScriptWithExpressions(t *testing.T) {
	r, _ := newTestRoot(t)
	_, err := parseRenderCmd([]string{"-script", "a.txt", "-e", "clear"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("error %q", err)
	}
}

func TestBrushFlagsOverrideConfig(t *testing.T) {
	cfg := config.New()
	b := brushFlags{width: 40, colorSpec: "Red", toolName: "trace", canvasWidth: 50}
	s, err := b.newSession(cfg)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if s.StrokeWidth() != 25 {
		t.Errorf("width = %v, want clamped 25", s.StrokeWidth())
	}
	if s.StrokeColor() != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("color = %v, want red", s.StrokeColor())
	}
	if s.Tool() != session.ToolParticleTrace {
		t.Errorf("tool = %v", s.Tool())
	}
	if got := s.Bounds().Size(); got.X != 50 || got.Y != 400 {
		t.Errorf("size = %v, want 50x400", got)
	}

	b = brushFlags{toolName: "erase"}
	s, err = b.newSession(cfg)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if s.StrokeColor() != white {
		t.Errorf("erase color = %v, want background", s.StrokeColor())
	}

	if _, err := (&brushFlags{toolName: "spray"}).newSession(cfg); err == nil {
		t.Errorf("unknown tool accepted")
	}
	if _, err := (&brushFlags{colorSpec: "#12"}).newSession(cfg); err == nil {
		t.Errorf("bad color accepted")
	}
}

func TestNonFiniteBrushRange(t *testing.T) {
	for _, v := range []string{"nan", "inf"} {
		if _, err := config.Parse(strings.NewReader("[brush]\nmax_width = " + v + "\n")); err == nil {
			t.Errorf("max_width = %s accepted", v)
		}
	}

	cfg := config.New()
	cfg.Brush.MaxWidth = math.Inf(1)
	s, err := (&brushFlags{}).newSession(cfg)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	s.SetStrokeWidth(1e9)
	if got := s.StrokeWidth(); got != session.DefaultMaxWidth {
		t.Fatalf("width = %v, want %v", got, session.DefaultMaxWidth)
	}
}

func TestRootUsage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SKETCHPAD_THEME", "")
	r := newRoot()
	r.fs.SetOutput(&bytes.Buffer{})
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := err.Error()
	for _, want := range []string{"Usage: sketchpad", "render", "-theme", "SKETCHPAD_THEME"} {
		if !strings.Contains(help, want) {
			t.Errorf("help does not mention %q:\n%s", want, help)
		}
	}
}

func TestSubcommandUsage(t *testing.T) {
	r, _ := newTestRoot(t)
	c, err := parseRenderCmd(nil, r)
	if err != nil {
		t.Fatalf("parseRenderCmd: %v", err)
	}
	help := (&UsageError{of: c}).Error()
	for _, want := range []string{"Usage: sketchpad render", "-output", "trace x y"} {
		if !strings.Contains(help, want) {
			t.Errorf("help does not mention %q:\n%s", want, help)
		}
	}
}

func TestConfigSaveAndPrint(t *testing.T) {
	r, out := newTestRoot(t)
	r.config.Brush.Width = 7
	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	c, err := parseConfigCmd([]string{"-path", path, "save"}, r)
	if err != nil {
		t.Fatalf("parseConfigCmd: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved config: %v", err)
	}
	defer f.Close()
	cfg, err := config.Parse(f)
	if err != nil {
		t.Fatalf("parse saved config: %v", err)
	}
	if cfg.Brush.Width != 7 {
		t.Fatalf("saved width = %v, want 7", cfg.Brush.Width)
	}

	c, err = parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parseConfigCmd: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out.String(), "[brush]") {
		t.Fatalf("print output = %q", out.String())
	}
}

func TestWidthsAndColors(t *testing.T) {
	r, out := newTestRoot(t)
	w, err := parseWidthsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "*   1px") || !strings.Contains(out.String(), "  25px") {
		t.Fatalf("widths output = %q", out.String())
	}
	out.Reset()
	c, err := parseColorsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "*  0: Black") {
		t.Fatalf("colors output = %q", out.String())
	}
}
