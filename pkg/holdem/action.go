package holdem

import "fmt"

// Action is an action a player can take on their turn
type Action string

// action constants
const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all-in"
)

var allowedActions = map[Action]bool{
	ActionFold:  true,
	ActionCheck: true,
	ActionCall:  true,
	ActionRaise: true,
	ActionAllIn: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// LogMessage returns a message formatted for the table log
func (a Action) LogMessage(amount int) string {
	switch a {
	case ActionFold:
		return "folded"
	case ActionCheck:
		return "checked"
	case ActionCall:
		return fmt.Sprintf("called %d", amount)
	case ActionRaise:
		return fmt.Sprintf("raised %d", amount)
	case ActionAllIn:
		return fmt.Sprintf("went all-in for %d", amount)
	}

	return ""
}
