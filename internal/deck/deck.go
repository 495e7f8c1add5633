package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmpty is returned when a draw is requested from an empty deck.
var ErrEmpty = errors.New("deck is empty")

// Size is the number of cards in a standard deck.
const Size = 52

// Deck represents a deck of playing cards. Cards are drawn from the end of
// the slice, so the last element is the top of the deck.
type Deck struct {
	cards []Card
}

// New creates a standard 52-card deck in fixed enumeration order, unshuffled.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewShuffled creates a standard deck and shuffles it with the given RNG.
func NewShuffled(rng *rand.Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// Stacked creates a deck containing exactly the given cards, in order.
// The last card is the first one drawn. Used by tests to rig deals.
func Stacked(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the order of cards in the deck using Fisher-Yates.
// The RNG is injected so shuffles are reproducible under a fixed seed.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. It returns ErrEmpty if no cards
// remain; callers decide whether that is recoverable.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmpty
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
