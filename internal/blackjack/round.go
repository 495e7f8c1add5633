package blackjack

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack-cli/internal/deck"
)

// Phase represents where a round is in its lifecycle
type Phase int

const (
	// Betting is the implicit phase between rounds; this variant auto-starts
	// each round with the base bet, so play never pauses here.
	Betting Phase = iota
	PlayerTurn
	DealerTurn
	RoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Betting:
		return "Betting"
	case PlayerTurn:
		return "PlayerTurn"
	case DealerTurn:
		return "DealerTurn"
	case RoundOver:
		return "RoundOver"
	default:
		return "Unknown"
	}
}

// seat pairs a player hand with its bet so the two can never fall out of
// lockstep. A split inserts a whole new seat.
type seat struct {
	cards   Hand
	bet     int
	doubled bool
}

// Outcome classifies how a single hand settled against the dealer.
type Outcome int

const (
	OutcomeBusted Outcome = iota
	OutcomeLost
	OutcomeWon
	OutcomePush
)

// String returns the display form used in the round summary
func (o Outcome) String() string {
	switch o {
	case OutcomeBusted:
		return "Busted."
	case OutcomeLost:
		return "Lost."
	case OutcomeWon:
		return "Won!"
	case OutcomePush:
		return "Push."
	default:
		return "?"
	}
}

// HandOutcome is the settled result of one player hand.
type HandOutcome struct {
	Hand    int // 1-based position, matching the summary text
	Outcome Outcome
	Bet     int
	Payout  int
}

// Round holds the state of a single play-through: the dealer's hand, one or
// more player seats, whose turn it is, and the phase. Outcomes and the
// summary are the RoundOver payload, populated by settlement.
type Round struct {
	dealer     Hand
	seats      []seat
	activeSeat int
	phase      Phase
	outcomes   []HandOutcome
	summary    string
}

// Phase returns the round's current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Summary returns the human-readable outcome summary. Empty until the round
// is over.
func (r *Round) Summary() string {
	return r.summary
}

// Outcomes returns the settled per-hand outcomes. Nil until the round is over.
func (r *Round) Outcomes() []HandOutcome {
	return r.outcomes
}

// activeHand returns the seat currently being played.
func (r *Round) activeHand() *seat {
	return &r.seats[r.activeSeat]
}

// buildSummary renders outcomes in the original table-talk form:
// "Round Over: Hand 1 Busted. Hand 2 Won! "
func buildSummary(outcomes []HandOutcome) string {
	var sb strings.Builder
	sb.WriteString("Round Over: ")
	for _, o := range outcomes {
		fmt.Fprintf(&sb, "Hand %d %s ", o.Hand, o.Outcome)
	}
	return sb.String()
}

// HandView is a read-only snapshot of one player hand for the presentation
// layer.
type HandView struct {
	Cards     []deck.Card
	Value     int
	Bet       int
	Busted    bool
	Blackjack bool
	Doubled   bool
	Active    bool
}

// State is a read-only snapshot of everything the presentation layer may
// observe. The dealer's hole card is elided while the player is still acting.
type State struct {
	Phase        Phase
	Dealer       []deck.Card
	DealerValue  int
	DealerHidden bool
	Hands        []HandView
	ActiveHand   int
	Bankroll     int
	BaseBet      int
	CardsLeft    int
	CanHit       bool
	CanDouble    bool
	CanSplit     bool
	Summary      string
	Outcomes     []HandOutcome
}
