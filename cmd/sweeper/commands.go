package main

import (
	"errors"
	"strconv"
	"strings"

	"sweeper/internal/sweep"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"r":  1, // reveal
	"f":  1, // flag
	"q":  1, // question
	"u":  1, // unmark
	"tf": 1, // toggle flag
	"tq": 1, // toggle question
	"s":  0, // sync, no action
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New("argument must be an int")
	}
	return index, nil
}

func executeCommand(g *sweep.Grid, c string) error {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	if parts[0] == "s" {
		return nil
	}
	index, err := parseIndex(parts[1])
	if err != nil {
		return err
	}
	if err := g.CheckIndex(index); err != nil {
		return errors.New("invalid cell index")
	}
	switch parts[0] {
	case "r":
		return g.RevealCell(index)
	case "f":
		return g.FlagCell(index)
	case "q":
		return g.QuestionCell(index)
	case "u":
		return g.UnmarkCell(index)
	case "tf":
		return g.ToggleFlag(index)
	case "tq":
		return g.ToggleQuestion(index)
	}
	return errors.New("invalid command")
}
