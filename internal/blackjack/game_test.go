package blackjack

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/randutil"
)

// riggedGame creates a game whose deck deals the given cards in listed
// order: the first two go to the player, the next two to the dealer, and
// later cards are drawn for hits, doubles, splits and the dealer in turn.
func riggedGame(t *testing.T, cards string, opts ...GameOption) *Game {
	t.Helper()
	dealt := deck.MustParseCards(cards)
	slices.Reverse(dealt) // cards are drawn from the end of the deck
	opts = append([]GameOption{WithDeck(deck.Stacked(dealt...))}, opts...)
	return NewGame(randutil.New(1), opts...)
}

func TestNewRoundDealsTwoCardsEach(t *testing.T) {
	g := riggedGame(t, "Th6h Ks9h")
	require.NoError(t, g.NewRound())

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	require.Len(t, state.Hands, 1)
	assert.Len(t, state.Hands[0].Cards, 2)
	assert.Equal(t, 16, state.Hands[0].Value)
	assert.Equal(t, 10, state.Hands[0].Bet)
	assert.Equal(t, 0, state.ActiveHand)
	assert.Equal(t, 90, state.Bankroll)

	// Only the dealer's upcard is visible while the player acts.
	assert.True(t, state.DealerHidden)
	require.Len(t, state.Dealer, 1)
	assert.Equal(t, "K♠", state.Dealer[0].String())
}

func TestNewRoundRefusedWhenBetUnaffordable(t *testing.T) {
	g := riggedGame(t, "Th6h Ks9h", WithBankroll(5))

	err := g.NewRound()
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 5, g.Bankroll())
	assert.Nil(t, g.Round())
}

func TestNewRoundRefusedMidRound(t *testing.T) {
	g := riggedGame(t, "Th6h Ks9h")
	require.NoError(t, g.NewRound())

	err := g.NewRound()
	require.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 90, g.Bankroll())
}

func TestNewRoundReshufflesDepletedDeck(t *testing.T) {
	// Three cards is below the four a round needs, so the stacked deck is
	// discarded for a freshly shuffled 52 before any draw happens.
	g := NewGame(randutil.New(7), WithDeck(deck.Stacked(deck.MustParseCards("2s3s4s")...)))
	require.NoError(t, g.NewRound())

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Equal(t, deck.Size-minRoundCards, state.CardsLeft)
}

func TestDealtTwentyOneBeatsDealerBust(t *testing.T) {
	// Player Tc Ad (21), dealer 9s 7h (16, must hit), the
	// draw Kd busts the dealer. Settlement credits 2x the bet.
	g := riggedGame(t, "TcAd 9s7h Kd")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	assert.Equal(t, 110, state.Bankroll)
	assert.Equal(t, "Round Over: Hand 1 Won! ", state.Summary)
	require.Len(t, state.Outcomes, 1)
	assert.Equal(t, OutcomeWon, state.Outcomes[0].Outcome)
	assert.Equal(t, 20, state.Outcomes[0].Payout)
	assert.False(t, state.DealerHidden)
	assert.Equal(t, 26, state.DealerValue)
}

func TestPushReturnsStake(t *testing.T) {
	g := riggedGame(t, "Th9h Ks9s")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	assert.Equal(t, 100, state.Bankroll)
	assert.Equal(t, "Round Over: Hand 1 Push. ", state.Summary)
	assert.Equal(t, OutcomePush, state.Outcomes[0].Outcome)
}

func TestDealerWinsOnHigherValue(t *testing.T) {
	g := riggedGame(t, "Th8h Ks9s")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())

	state := g.State()
	assert.Equal(t, 90, state.Bankroll)
	assert.Equal(t, OutcomeLost, state.Outcomes[0].Outcome)
	assert.Equal(t, 0, state.Outcomes[0].Payout)
}

func TestHitBustAutoStands(t *testing.T) {
	// A hit taking the hand to 22 marks it busted and
	// advances play; with a single hand that means the dealer's turn and
	// settlement run immediately.
	g := riggedGame(t, "Th6h Ks9h 6s")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Hit())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	require.Len(t, state.Hands, 1)
	assert.True(t, state.Hands[0].Busted)
	assert.Equal(t, 22, state.Hands[0].Value)
	assert.Equal(t, "Round Over: Hand 1 Busted. ", state.Summary)
	assert.Equal(t, 90, state.Bankroll)
	// Dealer had 19 and never drew.
	assert.Len(t, state.Dealer, 2)
}

func TestHitNonBustStaysInPlayerTurn(t *testing.T) {
	g := riggedGame(t, "Th6h Ks9h 2s")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Hit())

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Equal(t, 18, state.Hands[0].Value)
}

func TestHitOnEmptyDeckRefused(t *testing.T) {
	// Exactly the four round-start cards: the first mid-round hit finds an
	// empty deck. No mid-round reshuffle; the hand is left untouched.
	g := riggedGame(t, "Th6h Ks9h")
	require.NoError(t, g.NewRound())

	err := g.Hit()
	require.ErrorIs(t, err, deck.ErrEmpty)

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Len(t, state.Hands[0].Cards, 2)
	assert.Equal(t, 90, state.Bankroll)
}

func TestDoubleDown(t *testing.T) {
	g := riggedGame(t, "5h6h Ts9h 9c")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.DoubleDown())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	require.Len(t, state.Hands, 1)
	assert.True(t, state.Hands[0].Doubled)
	assert.Len(t, state.Hands[0].Cards, 3)
	assert.Equal(t, 20, state.Hands[0].Value)
	assert.Equal(t, 20, state.Hands[0].Bet)
	// 100 - 10 - 10 + 40: doubled bet paid back at even money.
	assert.Equal(t, 120, state.Bankroll)
	assert.Equal(t, OutcomeWon, state.Outcomes[0].Outcome)
}

func TestDoubleDownBustLosesDoubledBet(t *testing.T) {
	g := riggedGame(t, "Th6h Ks9h 8s")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.DoubleDown())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	assert.True(t, state.Hands[0].Busted)
	assert.Equal(t, 20, state.Hands[0].Bet)
	assert.Equal(t, 80, state.Bankroll)
	assert.Equal(t, OutcomeBusted, state.Outcomes[0].Outcome)
}

func TestDoubleDownInsufficientFundsLeavesStateUntouched(t *testing.T) {
	g := riggedGame(t, "5h6h Ts9h 9c", WithBankroll(15))
	require.NoError(t, g.NewRound())
	require.Equal(t, 5, g.Bankroll())

	err := g.DoubleDown()
	require.ErrorIs(t, err, ErrInsufficientFunds)

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Equal(t, 10, state.Hands[0].Bet)
	assert.Len(t, state.Hands[0].Cards, 2)
	assert.Equal(t, 5, state.Bankroll)
}

func TestSplitPairOfEights(t *testing.T) {
	// Splitting 8d 8c with bankroll 100 and bet 10 yields two
	// two-card hands, bankroll 80, both bets 10, still the first hand's turn.
	g := riggedGame(t, "8d8c Ks7h 2c3c")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Split())

	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Equal(t, 0, state.ActiveHand)
	assert.Equal(t, 80, state.Bankroll)
	require.Len(t, state.Hands, 2)

	assert.Equal(t, "8♦ 2♣", Hand(state.Hands[0].Cards).String())
	assert.Equal(t, "8♣ 3♣", Hand(state.Hands[1].Cards).String())
	assert.Equal(t, 10, state.Hands[0].Bet)
	assert.Equal(t, 10, state.Hands[1].Bet)
}

func TestSplitHandsPlayInOrder(t *testing.T) {
	g := riggedGame(t, "8d8c Ks7h 2c3c Td 9c")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Split())

	// First hand: 8d 2c, hit to 20, stand moves to the second hand.
	require.NoError(t, g.Hit())
	assert.Equal(t, 20, g.State().Hands[0].Value)
	require.NoError(t, g.Stand())
	assert.Equal(t, 1, g.State().ActiveHand)
	assert.Equal(t, PlayerTurn, g.State().Phase)

	// Second hand stands on 11; the dealer then plays out and settles.
	require.NoError(t, g.Stand())
	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	require.Len(t, state.Outcomes, 2)
	// Dealer drew 9c onto 17 from K7: 26, bust. Both hands win.
	assert.Equal(t, OutcomeWon, state.Outcomes[0].Outcome)
	assert.Equal(t, OutcomeWon, state.Outcomes[1].Outcome)
	assert.Equal(t, 120, state.Bankroll)
}

func TestSplitInsertsNewHandAfterActive(t *testing.T) {
	// Split twice from a rigged run of eights: the fresh hand always lands
	// directly after the active one.
	g := riggedGame(t, "8d8c Ks7h 8h2c 3c4c 5d")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Split())
	// Hand 0 is now 8d 8h, still splittable.
	require.NoError(t, g.Split())

	state := g.State()
	require.Len(t, state.Hands, 3)
	assert.Equal(t, "8♦ 3♣", Hand(state.Hands[0].Cards).String())
	assert.Equal(t, "8♥ 4♣", Hand(state.Hands[1].Cards).String())
	assert.Equal(t, "8♣ 2♣", Hand(state.Hands[2].Cards).String())
	assert.Equal(t, 70, state.Bankroll)
}

func TestSplitNonPairRefused(t *testing.T) {
	g := riggedGame(t, "ThKs 9s7h 2c3c")
	require.NoError(t, g.NewRound())

	err := g.Split()
	require.ErrorIs(t, err, ErrCannotSplit)
	state := g.State()
	assert.Len(t, state.Hands, 1)
	assert.Equal(t, 90, state.Bankroll)
}

func TestSplitInsufficientFundsRefused(t *testing.T) {
	g := riggedGame(t, "8d8c Ks7h 2c3c", WithBankroll(15))
	require.NoError(t, g.NewRound())

	err := g.Split()
	require.ErrorIs(t, err, ErrInsufficientFunds)
	state := g.State()
	assert.Len(t, state.Hands, 1)
	assert.Equal(t, 5, state.Bankroll)
}

func TestSplitAtHandLimitRefused(t *testing.T) {
	g := riggedGame(t, "8d8c Ks7h 8h2c 3c", WithMaxSplitHands(2))
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Split())

	// Hand 0 drew another eight but the table caps at two hands.
	err := g.Split()
	require.ErrorIs(t, err, ErrCannotSplit)
	assert.Len(t, g.State().Hands, 2)
}

func TestSplitWithDepletedDeckRefused(t *testing.T) {
	// Five cards: one spare after the deal. A split needs two and does not
	// trigger the round-start reshuffle.
	g := riggedGame(t, "8d8c Ks7h 2c")
	require.NoError(t, g.NewRound())

	err := g.Split()
	require.ErrorIs(t, err, deck.ErrEmpty)
	state := g.State()
	assert.Len(t, state.Hands, 1)
	assert.Equal(t, 90, state.Bankroll)
}

func TestDealerStopsWhenDeckExhausted(t *testing.T) {
	// The dealer holds 4 and has nothing to draw; the round still settles,
	// with the dealer short of 17.
	g := riggedGame(t, "Th9h 2s2h")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())

	state := g.State()
	require.Equal(t, RoundOver, state.Phase)
	assert.Equal(t, 4, state.DealerValue)
	assert.Equal(t, OutcomeWon, state.Outcomes[0].Outcome)
	assert.Equal(t, 110, state.Bankroll)
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	// Dealer holds A6: soft 17. No soft-17 hit in this variant.
	g := riggedGame(t, "Th9h As6s 5c")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())

	state := g.State()
	assert.Equal(t, 17, state.DealerValue)
	assert.Len(t, state.Dealer, 2)
	assert.Equal(t, OutcomeWon, state.Outcomes[0].Outcome)
}

func TestActionsOutsidePlayerTurnRefused(t *testing.T) {
	g := riggedGame(t, "Th9h Ks9s")

	require.ErrorIs(t, g.Hit(), ErrWrongPhase)
	require.ErrorIs(t, g.Stand(), ErrWrongPhase)
	require.ErrorIs(t, g.DoubleDown(), ErrWrongPhase)
	require.ErrorIs(t, g.Split(), ErrWrongPhase)

	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())
	require.Equal(t, RoundOver, g.State().Phase)

	require.ErrorIs(t, g.Hit(), ErrWrongPhase)
	require.ErrorIs(t, g.DoubleDown(), ErrWrongPhase)
}

func TestNewRoundAfterRoundOverReusesDeck(t *testing.T) {
	g := riggedGame(t, "Th9h Ks9s 2c3c4c5c")
	require.NoError(t, g.NewRound())
	require.NoError(t, g.Stand())
	require.Equal(t, RoundOver, g.State().Phase)

	// Four spare cards remain, enough for the next round without a
	// reshuffle.
	require.NoError(t, g.NewRound())
	state := g.State()
	assert.Equal(t, PlayerTurn, state.Phase)
	assert.Equal(t, 0, state.CardsLeft)
	assert.Equal(t, "2♣ 3♣", Hand(state.Hands[0].Cards).String())
}

func TestBankrollNeverNegativeAcrossRounds(t *testing.T) {
	g := NewGame(randutil.New(99), WithBankroll(30), WithBaseBet(10))

	for round := 0; round < 20; round++ {
		if err := g.NewRound(); err != nil {
			require.ErrorIs(t, err, ErrInsufficientFunds)
			break
		}
		for g.State().Phase == PlayerTurn {
			if g.State().Hands[g.State().ActiveHand].Value < 17 {
				if err := g.Hit(); err != nil {
					require.ErrorIs(t, err, deck.ErrEmpty)
					require.NoError(t, g.Stand())
				}
			} else {
				require.NoError(t, g.Stand())
			}
		}
		require.GreaterOrEqual(t, g.Bankroll(), 0)
	}
	assert.GreaterOrEqual(t, g.Bankroll(), 0)
}

func TestStateAffordances(t *testing.T) {
	g := riggedGame(t, "8d8c Ks7h 2c3c")
	require.NoError(t, g.NewRound())

	state := g.State()
	assert.True(t, state.CanHit)
	assert.True(t, state.CanDouble)
	assert.True(t, state.CanSplit)

	require.NoError(t, g.Hit())
	state = g.State()
	assert.False(t, state.CanSplit, "three-card hand is not splittable")

	require.NoError(t, g.Stand())
	state = g.State()
	assert.False(t, state.CanHit)
	assert.False(t, state.CanDouble)
	assert.False(t, state.CanSplit)
}

func TestStateBeforeFirstRound(t *testing.T) {
	g := NewGame(randutil.New(1))

	state := g.State()
	assert.Equal(t, Betting, state.Phase)
	assert.Equal(t, 100, state.Bankroll)
	assert.Equal(t, 10, state.BaseBet)
	assert.Empty(t, state.Hands)
}

func TestErrorKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrCannotSplit, ErrInsufficientFunds))
	assert.False(t, errors.Is(ErrWrongPhase, ErrCannotSplit))
	assert.False(t, errors.Is(deck.ErrEmpty, ErrWrongPhase))
}
