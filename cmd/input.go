package cmd

import (
	"fmt"
	"strings"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

var wordCommands = map[string]sim.Command{
	"up":       sim.TurnOrMove(sim.DirUp),
	"down":     sim.TurnOrMove(sim.DirDown),
	"left":     sim.TurnOrMove(sim.DirLeft),
	"right":    sim.TurnOrMove(sim.DirRight),
	"interact": sim.Interact(),
	"dispatch": sim.Dispatch(),
	"continue": sim.ContinueWithNewOrder(),
	"finish":   sim.Finish(),
	"quit":     sim.Finish(),
}

var keyCommands = map[rune]sim.Command{
	'w': sim.TurnOrMove(sim.DirUp),
	's': sim.TurnOrMove(sim.DirDown),
	'a': sim.TurnOrMove(sim.DirLeft),
	'd': sim.TurnOrMove(sim.DirRight),
	'e': sim.Interact(),
	'x': sim.Dispatch(),
	'c': sim.ContinueWithNewOrder(),
	'q': sim.Finish(),
}

const inputHelp = "keys: w/a/s/d turn or move, e interact, x dispatch, c continue, q finish (several keys per line allowed)"

// parseLine turns one input line into commands. A line is either a single
// word ("left", "dispatch") or a run of keys ("ddde").
func parseLine(line string) ([]sim.Command, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return nil, nil
	}
	if cmd, ok := wordCommands[line]; ok {
		return []sim.Command{cmd}, nil
	}
	var cmds []sim.Command
	for _, r := range line {
		if r == ' ' {
			continue
		}
		cmd, ok := keyCommands[r]
		if !ok {
			return nil, fmt.Errorf("unknown input %q; %s", line, inputHelp)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
