package blackjack

import "fmt"

// Bankroll tracks the player's funds across rounds. It never goes negative:
// a debit that would overdraw is refused with ErrInsufficientFunds and the
// balance is left unchanged.
type Bankroll struct {
	funds int
}

// NewBankroll creates a bankroll with the given starting funds.
func NewBankroll(funds int) *Bankroll {
	if funds < 0 {
		funds = 0
	}
	return &Bankroll{funds: funds}
}

// Funds returns the current balance.
func (b *Bankroll) Funds() int {
	return b.funds
}

// Debit removes amount from the bankroll for a bet. It fails if the amount
// exceeds the available funds rather than clamping.
func (b *Bankroll) Debit(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	if amount > b.funds {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, b.funds)
	}
	b.funds -= amount
	return nil
}

// Credit adds a payout to the bankroll. It always succeeds.
func (b *Bankroll) Credit(amount int) {
	if amount <= 0 {
		return
	}
	b.funds += amount
}
