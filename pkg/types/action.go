package types

import (
	"fmt"
	"strings"
)

// Action is the merge action resolved for one logical file
type Action string

const (
	// ActionMerge fuses the per-architecture copies into one universal binary
	ActionMerge Action = "merge"

	// ActionSkip leaves the file out of the universal tree
	ActionSkip Action = "skip"

	// ActionCopy copies the primary root's file byte for byte
	ActionCopy Action = "copy"

	// ActionLink recreates the primary root's symbolic link
	ActionLink Action = "link"
)

// Actions lists every valid action
var Actions = []Action{ActionMerge, ActionSkip, ActionCopy, ActionLink}

func (a Action) String() string {
	return string(a)
}

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	switch a {
	case ActionMerge, ActionSkip, ActionCopy, ActionLink:
		return true
	}
	return false
}

// ParseAction converts a case-insensitive action name into an Action
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q (expected one of merge, skip, copy, link)", s)
	}
	return a, nil
}
