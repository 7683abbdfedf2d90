package session

import (
	"fmt"
	"strings"
)

// Tool is the active drawing behaviour.
type Tool int

const (
	ToolStraightLine Tool = iota
	ToolParticleTrace
	ToolErase
)

var toolNames = []string{
	ToolStraightLine:  "line",
	ToolParticleTrace: "trace",
	ToolErase:         "erase",
}

// Tools lists every tool in sidebar order.
func Tools() []Tool {
	return []Tool{ToolStraightLine, ToolParticleTrace, ToolErase}
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool {
	return t >= ToolStraightLine && t <= ToolErase
}

func (t Tool) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Label is the human readable button text.
func (t Tool) Label() string {
	switch t {
	case ToolStraightLine:
		return "Straight Line"
	case ToolParticleTrace:
		return "Particle Trace"
	case ToolErase:
		return "Erase"
	}
	return t.String()
}

// ParseTool accepts the short names printed by String along with a few
// longer aliases.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "line", "straight", "straight-line", "straightline":
		return ToolStraightLine, nil
	case "trace", "particle", "particle-trace", "particletrace":
		return ToolParticleTrace, nil
	case "erase", "eraser":
		return ToolErase, nil
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}
