package blackjack

import (
	"strings"

	"github.com/lox/blackjack-cli/internal/deck"
)

// BustThreshold is the value above which a hand is bust.
const BustThreshold = 21

// Hand is an ordered sequence of cards held by the player or dealer.
type Hand []deck.Card

// cardPoints returns the blackjack point value of a card. Aces count as 11
// here; Value downgrades them to 1 as needed.
func cardPoints(c deck.Card) int {
	switch {
	case c.IsAce():
		return 11
	case c.IsFaceCard():
		return 10
	default:
		return int(c.Rank)
	}
}

// Value returns the best blackjack value of the hand. Each ace counts as 11
// unless that would push the total over 21, in which case it counts as 1.
// A return value over 21 means the hand is bust under every interpretation.
func (h Hand) Value() int {
	value := 0
	aces := 0

	for _, c := range h {
		if c.IsAce() {
			aces++
		}
		value += cardPoints(c)
	}

	for aces > 0 && value > BustThreshold {
		value -= 10
		aces--
	}

	return value
}

// IsBust returns true if the hand's value exceeds 21.
func (h Hand) IsBust() bool {
	return h.Value() > BustThreshold
}

// IsSplittable returns true if the hand is exactly two cards of identical
// rank. Ranks must match literally: a ten and a king both count 10 but do
// not make a splittable pair.
func (h Hand) IsSplittable() bool {
	return len(h) == 2 && h[0].Rank == h[1].Rank
}

// IsBlackjack returns true for a two-card 21. It only affects display; this
// variant settles a natural at even money like any other winning hand.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == BustThreshold
}

// String returns the hand as space-separated cards (e.g., "A♠ K♦").
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
