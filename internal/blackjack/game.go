package blackjack

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/deck"
)

const (
	// dealerStandsAt is the dealer's draw threshold. The dealer stands on
	// any 17, soft or hard.
	dealerStandsAt = 17

	// minRoundCards is the minimum draw a fresh round needs: two for the
	// player and two for the dealer.
	minRoundCards = 4
)

// Game owns a single blackjack session: the deck, the current round and the
// bankroll. It is not safe for concurrent use; every action runs to
// completion before the next is accepted, and the final stand plays the
// dealer and settles synchronously.
type Game struct {
	rng      *rand.Rand
	logger   *log.Logger
	deck     *deck.Deck
	bankroll *Bankroll
	baseBet  int
	maxHands int
	round    *Round
}

// GameOption configures a Game during creation.
type GameOption func(*Game)

// WithLogger sets the logger used for action tracing.
func WithLogger(logger *log.Logger) GameOption {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithBankroll sets the starting funds.
func WithBankroll(funds int) GameOption {
	return func(g *Game) {
		g.bankroll = NewBankroll(funds)
	}
}

// WithBaseBet sets the bet placed on each fresh round.
func WithBaseBet(bet int) GameOption {
	return func(g *Game) {
		g.baseBet = bet
	}
}

// WithMaxSplitHands caps how many hands a player can hold after splits.
func WithMaxSplitHands(n int) GameOption {
	return func(g *Game) {
		g.maxHands = n
	}
}

// WithDeck seeds the game with a specific deck, bypassing the initial
// shuffle. Used by tests to rig deals; the round-start reshuffle still
// replaces it once it runs low.
func WithDeck(d *deck.Deck) GameOption {
	return func(g *Game) {
		g.deck = d
	}
}

// NewGame creates a game session. The RNG is required so shuffles are
// explicit and reproducible under a fixed seed.
func NewGame(rng *rand.Rand, opts ...GameOption) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}

	g := &Game{
		rng:      rng,
		logger:   log.New(io.Discard),
		bankroll: NewBankroll(100),
		baseBet:  10,
		maxHands: 4,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Bankroll returns the player's current funds.
func (g *Game) Bankroll() int {
	return g.bankroll.Funds()
}

// BaseBet returns the bet a fresh round opens with.
func (g *Game) BaseBet() int {
	return g.baseBet
}

// Round returns the current round, or nil before the first deal.
func (g *Game) Round() *Round {
	return g.round
}

// NewRound discards the previous round, places the base bet and deals two
// cards each to the player and the dealer. If fewer than four cards remain
// the deck is replaced with a freshly shuffled one first; this is the only
// point a reshuffle happens, mid-round exhaustion is reported instead.
func (g *Game) NewRound() error {
	if g.round != nil && g.round.phase != RoundOver {
		return fmt.Errorf("new round: %w (phase %s)", ErrWrongPhase, g.round.phase)
	}

	if err := g.bankroll.Debit(g.baseBet); err != nil {
		return fmt.Errorf("new round: %w", err)
	}

	if g.deck == nil || g.deck.Remaining() < minRoundCards {
		g.deck = deck.NewShuffled(g.rng)
		g.logger.Debug("shuffled fresh deck")
	}

	player := Hand{g.mustDraw(), g.mustDraw()}
	dealer := Hand{g.mustDraw(), g.mustDraw()}

	g.round = &Round{
		dealer:     dealer,
		seats:      []seat{{cards: player, bet: g.baseBet}},
		activeSeat: 0,
		phase:      PlayerTurn,
	}

	g.logger.Debug("new round",
		"player", player.String(), "value", player.Value(),
		"dealerUp", dealer[0].String(),
		"bet", g.baseBet, "bankroll", g.bankroll.Funds())

	return nil
}

// mustDraw draws a card after the caller has established enough remain.
func (g *Game) mustDraw() deck.Card {
	card, err := g.deck.Draw()
	if err != nil {
		panic("draw from verified deck failed")
	}
	return card
}

// Hit draws one card onto the active hand. A hand that busts stands
// automatically, which may advance play to the next split hand or to the
// dealer.
func (g *Game) Hit() error {
	if err := g.requirePhase(PlayerTurn); err != nil {
		return fmt.Errorf("hit: %w", err)
	}

	card, err := g.deck.Draw()
	if err != nil {
		return fmt.Errorf("hit: %w", err)
	}

	s := g.round.activeHand()
	s.cards = append(s.cards, card)

	g.logger.Debug("hit", "hand", g.round.activeSeat+1, "card", card.String(), "value", s.cards.Value())

	if s.cards.IsBust() {
		g.logger.Debug("hand busted", "hand", g.round.activeSeat+1, "value", s.cards.Value())
		g.advanceTurn()
	}

	return nil
}

// Stand ends the active hand's turn. The next split hand begins, or if this
// was the last hand the dealer plays out and the round settles before Stand
// returns.
func (g *Game) Stand() error {
	if err := g.requirePhase(PlayerTurn); err != nil {
		return fmt.Errorf("stand: %w", err)
	}

	g.advanceTurn()
	return nil
}

// DoubleDown doubles the active hand's bet in exchange for exactly one more
// card, then stands. It is refused if the bankroll cannot cover the second
// bet or the deck has no card to deal; either way nothing changes.
func (g *Game) DoubleDown() error {
	if err := g.requirePhase(PlayerTurn); err != nil {
		return fmt.Errorf("double down: %w", err)
	}

	if g.deck.IsEmpty() {
		return fmt.Errorf("double down: %w", deck.ErrEmpty)
	}

	s := g.round.activeHand()
	if err := g.bankroll.Debit(s.bet); err != nil {
		return fmt.Errorf("double down: %w", err)
	}

	s.bet *= 2
	s.doubled = true

	card := g.mustDraw()
	s.cards = append(s.cards, card)

	g.logger.Debug("double down",
		"hand", g.round.activeSeat+1, "card", card.String(),
		"value", s.cards.Value(), "bet", s.bet)

	// One card only, win or lose; a bust stands itself.
	g.advanceTurn()
	return nil
}

// Split divides the active two-card pair into two hands, deals one fresh
// card to each, and places a second bet equal to the first on the new hand.
// The new hand is inserted directly after the active one and the active hand
// is played first. The deck is not reshuffled for a split; with fewer than
// two cards left the split is refused.
func (g *Game) Split() error {
	if err := g.requirePhase(PlayerTurn); err != nil {
		return fmt.Errorf("split: %w", err)
	}

	s := g.round.activeHand()
	if !s.cards.IsSplittable() {
		return fmt.Errorf("split: %w", ErrCannotSplit)
	}
	if len(g.round.seats) >= g.maxHands {
		return fmt.Errorf("split: %w: at hand limit of %d", ErrCannotSplit, g.maxHands)
	}
	if g.deck.Remaining() < 2 {
		return fmt.Errorf("split: %w", deck.ErrEmpty)
	}
	if err := g.bankroll.Debit(s.bet); err != nil {
		return fmt.Errorf("split: %w", err)
	}

	second := s.cards[1]
	s.cards = Hand{s.cards[0], g.mustDraw()}
	fresh := seat{cards: Hand{second, g.mustDraw()}, bet: s.bet}

	i := g.round.activeSeat
	g.round.seats = append(g.round.seats[:i+1], append([]seat{fresh}, g.round.seats[i+1:]...)...)

	g.logger.Debug("split",
		"hand", i+1,
		"first", g.round.seats[i].cards.String(),
		"second", g.round.seats[i+1].cards.String(),
		"bankroll", g.bankroll.Funds())

	return nil
}

// advanceTurn moves play to the next hand, or to the dealer once every hand
// has been resolved. The dealer's turn runs to completion here.
func (g *Game) advanceTurn() {
	if g.round.activeSeat+1 < len(g.round.seats) {
		g.round.activeSeat++
		return
	}

	g.round.phase = DealerTurn
	g.dealerTurn()
}

// dealerTurn draws until the dealer reaches 17, soft or hard. If the deck
// runs dry the dealer stops short, the historically rare everything-dealt
// case, and the round settles as it stands.
func (g *Game) dealerTurn() {
	for g.round.dealer.Value() < dealerStandsAt {
		card, err := g.deck.Draw()
		if err != nil {
			g.logger.Warn("deck exhausted during dealer turn", "dealerValue", g.round.dealer.Value())
			break
		}
		g.round.dealer = append(g.round.dealer, card)
		g.logger.Debug("dealer draws", "card", card.String(), "value", g.round.dealer.Value())
	}

	g.settle()
}

func (g *Game) requirePhase(p Phase) error {
	if g.round == nil {
		return fmt.Errorf("%w (no round in progress)", ErrWrongPhase)
	}
	if g.round.phase != p {
		return fmt.Errorf("%w (phase %s)", ErrWrongPhase, g.round.phase)
	}
	return nil
}

// State returns a read-only snapshot for the presentation layer. The
// dealer's hole card is withheld until the player's turn is over.
func (g *Game) State() State {
	if g.round == nil {
		return State{
			Phase:    Betting,
			Bankroll: g.bankroll.Funds(),
			BaseBet:  g.baseBet,
		}
	}

	r := g.round
	hidden := r.phase == PlayerTurn

	dealerCards := r.dealer
	if hidden && len(dealerCards) > 0 {
		dealerCards = dealerCards[:1]
	}

	state := State{
		Phase:        r.phase,
		Dealer:       append([]deck.Card(nil), dealerCards...),
		DealerValue:  Hand(dealerCards).Value(),
		DealerHidden: hidden,
		Hands:        make([]HandView, len(r.seats)),
		ActiveHand:   r.activeSeat,
		Bankroll:     g.bankroll.Funds(),
		BaseBet:      g.baseBet,
		CardsLeft:    g.deck.Remaining(),
		Summary:      r.summary,
		Outcomes:     r.outcomes,
	}

	for i, s := range r.seats {
		state.Hands[i] = HandView{
			Cards:     append([]deck.Card(nil), s.cards...),
			Value:     s.cards.Value(),
			Bet:       s.bet,
			Busted:    s.cards.IsBust(),
			Blackjack: s.cards.IsBlackjack(),
			Doubled:   s.doubled,
			Active:    r.phase == PlayerTurn && i == r.activeSeat,
		}
	}

	if r.phase == PlayerTurn {
		active := r.activeHand()
		funds := g.bankroll.Funds()
		state.CanHit = !g.deck.IsEmpty()
		state.CanDouble = funds >= active.bet && !g.deck.IsEmpty()
		state.CanSplit = active.cards.IsSplittable() &&
			len(r.seats) < g.maxHands &&
			funds >= active.bet &&
			g.deck.Remaining() >= 2
	}

	return state
}
