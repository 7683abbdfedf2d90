package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/session"
)

type opKind int

const (
	opTool opKind = iota
	opColor
	opWidth
	opDown
	opMove
	opUp
	opLine
	opTrace
	opClear
)

// scriptOp is one parsed render instruction.
type scriptOp struct {
	kind  opKind
	tool  session.Tool
	color color.RGBA
	width float64
	pts   []float64
}

// parseScript reads one instruction per line. Blank lines and lines starting
// with # are ignored.
func parseScript(r io.Reader, palette []config.PaletteEntry) ([]scriptOp, error) {
	var ops []scriptOp
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, err := parseOp(line, palette)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseOp(line string, palette []config.PaletteEntry) (scriptOp, error) {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "tool":
		if len(args) != 1 {
			return scriptOp{}, fmt.Errorf("tool takes one argument")
		}
		t, err := session.ParseTool(args[0])
		if err != nil {
			return scriptOp{}, err
		}
		return scriptOp{kind: opTool, tool: t}, nil
	case "color", "colour":
		if len(args) != 1 {
			return scriptOp{}, fmt.Errorf("color takes one argument")
		}
		c, err := parseColor(args[0], palette)
		if err != nil {
			return scriptOp{}, err
		}
		return scriptOp{kind: opColor, color: c}, nil
	case "width":
		if len(args) != 1 {
			return scriptOp{}, fmt.Errorf("width takes one argument")
		}
		w, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return scriptOp{}, fmt.Errorf("invalid width %q", args[0])
		}
		return scriptOp{kind: opWidth, width: w}, nil
	case "down", "move", "up":
		pts, err := parsePoints(args)
		if err != nil {
			return scriptOp{}, err
		}
		if len(pts) != 2 {
			return scriptOp{}, fmt.Errorf("%s takes x y", name)
		}
		kind := map[string]opKind{"down": opDown, "move": opMove, "up": opUp}[name]
		return scriptOp{kind: kind, pts: pts}, nil
	case "line":
		pts, err := parsePoints(args)
		if err != nil {
			return scriptOp{}, err
		}
		if len(pts) != 4 {
			return scriptOp{}, fmt.Errorf("line takes x0 y0 x1 y1")
		}
		return scriptOp{kind: opLine, pts: pts}, nil
	case "trace":
		pts, err := parsePoints(args)
		if err != nil {
			return scriptOp{}, err
		}
		if len(pts) == 0 || len(pts)%2 != 0 {
			return scriptOp{}, fmt.Errorf("trace takes one or more x y pairs")
		}
		return scriptOp{kind: opTrace, pts: pts}, nil
	case "clear":
		if len(args) != 0 {
			return scriptOp{}, fmt.Errorf("clear takes no arguments")
		}
		return scriptOp{kind: opClear}, nil
	}
	return scriptOp{}, fmt.Errorf("unknown instruction %q", fields[0])
}

func parsePoints(args []string) ([]float64, error) {
	pts := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", a)
		}
		pts = append(pts, v)
	}
	return pts, nil
}

// apply replays op as the pointer events the window would send.
func (op scriptOp) apply(s *session.Session) {
	switch op.kind {
	case opTool:
		s.SelectTool(op.tool)
	case opColor:
		s.SetStrokeColor(op.color)
	case opWidth:
		s.SetStrokeWidth(op.width)
	case opDown:
		s.PointerDown(op.pts[0], op.pts[1])
	case opMove:
		s.PointerMove(op.pts[0], op.pts[1])
	case opUp:
		s.PointerUp(op.pts[0], op.pts[1])
	case opLine:
		s.PointerDown(op.pts[0], op.pts[1])
		s.PointerMove(op.pts[2], op.pts[3])
		s.PointerUp(op.pts[2], op.pts[3])
	case opTrace:
		n := len(op.pts)
		s.PointerDown(op.pts[0], op.pts[1])
		for i := 0; i < n; i += 2 {
			s.PointerMove(op.pts[i], op.pts[i+1])
		}
		s.PointerUp(op.pts[n-2], op.pts[n-1])
	case opClear:
		s.Clear()
	}
}
