package holdem

import "errors"

// validation errors returned to the acting caller; state is unchanged
var (
	ErrNotYourTurn       = errors.New("it is not your turn")
	ErrTableFull         = errors.New("the table is full")
	ErrHandInProgress    = errors.New("a hand is already in progress")
	ErrNotEnoughPlayers  = errors.New("there must be at least two players")
	ErrNameTaken         = errors.New("that name is already taken")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrIllegalCheck      = errors.New("you cannot check with an active bet")
	ErrNothingToCall     = errors.New("you cannot call without an active bet")
	ErrInsufficientChips = errors.New("you do not have enough chips")
	ErrRaiseBelowMinimum = errors.New("raise is below the minimum")
	ErrNoBettingRound    = errors.New("not in a betting round")
	ErrStaleTimer        = errors.New("timer fired for a decision that already passed")
)

// InvariantError is a fatal defect, never user error. The table must halt
// rather than continue with an inconsistent chip count.
type InvariantError struct {
	message string
}

func (e *InvariantError) Error() string {
	return e.message
}

func newInvariantError(message string) *InvariantError {
	return &InvariantError{message: message}
}

// IsInvariantError returns true if the error is fatal to the table
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
