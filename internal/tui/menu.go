package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	KEY-BOUND ACTIONS
---------------------------------------- */

// Action is one command the browser offers. Run mutates the model and may
// return a command to run in the background.
type Action struct {
	Keys  []string
	Help  string
	Label string
	Run   func(m *Model) tea.Cmd
}

func buildActions() []Action {
	return []Action{
		{Keys: []string{" ", "x"}, Help: "space", Label: "toggle", Run: (*Model).toggleRow},
		{Keys: []string{"a"}, Help: "a", Label: "select page", Run: (*Model).selectAll},
		{Keys: []string{"d"}, Help: "d", Label: "deselect page", Run: (*Model).deselectAll},
		{Keys: []string{"n"}, Help: "n", Label: "select first N", Run: (*Model).promptCount},
		{Keys: []string{"c"}, Help: "c", Label: "clear", Run: (*Model).clearSelection},
		{Keys: []string{"left", "h"}, Help: "←", Label: "prev", Run: (*Model).prevPage},
		{Keys: []string{"right", "l"}, Help: "→", Label: "next", Run: (*Model).nextPage},
		{Keys: []string{"r"}, Help: "r", Label: "reload", Run: (*Model).reload},
		{Keys: []string{"q", "ctrl+c"}, Help: "q", Label: "quit", Run: func(*Model) tea.Cmd { return tea.Quit }},
	}
}

// lookup returns the action bound to key.
func lookup(actions []Action, key string) (Action, bool) {
	for _, a := range actions {
		for _, k := range a.Keys {
			if k == key {
				return a, true
			}
		}
	}
	return Action{}, false
}

func helpLine(actions []Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, a.Help+" "+a.Label)
	}
	return strings.Join(parts, "  ")
}
