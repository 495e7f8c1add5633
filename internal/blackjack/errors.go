package blackjack

import "errors"

// All game-state errors are locally recoverable: the action is refused, the
// round and bankroll are left untouched, and play continues. Deck exhaustion
// surfaces as deck.ErrEmpty wrapped with the action that hit it.
var (
	// ErrInsufficientFunds is returned when a bet, double down or split
	// would require more funds than the bankroll holds.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCannotSplit is returned when a split is requested on a hand that
	// is not a two-card pair, or when the hand limit has been reached.
	ErrCannotSplit = errors.New("cannot split")

	// ErrWrongPhase is returned when an action arrives outside the phase
	// it belongs to, e.g. a hit after the round is over.
	ErrWrongPhase = errors.New("action not valid in current phase")
)
