package holdem

import (
	"errors"
	"time"
)

// Options configures a table
type Options struct {
	SmallBlind int
	BigBlind   int
	MaxPlayers int
	MinBuyIn   int
	MaxBuyIn   int

	// WinnerHold is how long the winner display is shown before the table
	// moves on to the next hand (or to game over)
	WinnerHold time.Duration

	// GameOverHold is how long the game-over display is shown before the
	// table resets to waiting and clears the player list
	GameOverHold time.Duration
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		SmallBlind:   10,
		BigBlind:     20,
		MaxPlayers:   9,
		MinBuyIn:     100,
		MaxBuyIn:     10000,
		WinnerHold:   time.Second * 5,
		GameOverHold: time.Second * 5,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be greater than zero")
	}

	if opts.SmallBlind >= opts.BigBlind {
		return errors.New("small blind must be less than the big blind")
	}

	if opts.MaxPlayers < 2 || opts.MaxPlayers > 9 {
		return errors.New("max players must be between 2 and 9")
	}

	if opts.MinBuyIn < opts.BigBlind {
		return errors.New("minimum buy-in must cover the big blind")
	}

	if opts.MaxBuyIn < opts.MinBuyIn {
		return errors.New("maximum buy-in must not be less than the minimum")
	}

	return nil
}
