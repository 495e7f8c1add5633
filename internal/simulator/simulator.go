// Package simulator plays out large numbers of blackjack rounds to estimate
// the house edge of the table rules. Rounds are sharded across workers, each
// with an independently seeded RNG so results are reproducible for a given
// seed and worker count.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-cli/internal/blackjack"
	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/randutil"
)

// standBelow is the fixed player policy: draw to 17, stand on 17 or better,
// mirroring the dealer. Deliberately simple; the simulator measures the
// rules, not strategy.
const standBelow = 17

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Seed    int64
	Bet     int
	Logger  *log.Logger
	Clock   quartz.Clock
}

// Results aggregates settled hands across all simulated rounds.
type Results struct {
	Rounds   int
	Hands    int
	Wins     int
	Pushes   int
	Losses   int
	Busts    int
	Wagered  int
	Returned int
	Elapsed  time.Duration
}

// merge folds another result set into this one.
func (r *Results) merge(other Results) {
	r.Rounds += other.Rounds
	r.Hands += other.Hands
	r.Wins += other.Wins
	r.Pushes += other.Pushes
	r.Losses += other.Losses
	r.Busts += other.Busts
	r.Wagered += other.Wagered
	r.Returned += other.Returned
}

// NetUnits returns the player's net result measured in base bets.
func (r *Results) NetUnits(bet int) float64 {
	if bet == 0 {
		return 0
	}
	return float64(r.Returned-r.Wagered) / float64(bet)
}

// HouseEdge returns the house's take as a fraction of the total wagered.
func (r *Results) HouseEdge() float64 {
	if r.Wagered == 0 {
		return 0
	}
	return float64(r.Wagered-r.Returned) / float64(r.Wagered)
}

// Report renders a human-readable summary of the run.
func (r *Results) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rounds:     %d\n", r.Rounds)
	fmt.Fprintf(&sb, "Hands:      %d\n", r.Hands)
	fmt.Fprintf(&sb, "Won:        %d (%.1f%%)\n", r.Wins, pct(r.Wins, r.Hands))
	fmt.Fprintf(&sb, "Pushed:     %d (%.1f%%)\n", r.Pushes, pct(r.Pushes, r.Hands))
	fmt.Fprintf(&sb, "Lost:       %d (%.1f%%)\n", r.Losses, pct(r.Losses, r.Hands))
	fmt.Fprintf(&sb, "Busted:     %d (%.1f%%)\n", r.Busts, pct(r.Busts, r.Hands))
	fmt.Fprintf(&sb, "Wagered:    %d\n", r.Wagered)
	fmt.Fprintf(&sb, "Returned:   %d\n", r.Returned)
	fmt.Fprintf(&sb, "House edge: %.2f%%\n", r.HouseEdge()*100)
	if r.Elapsed > 0 {
		fmt.Fprintf(&sb, "Elapsed:    %s (%.0f rounds/sec)\n", r.Elapsed.Round(time.Millisecond),
			float64(r.Rounds)/r.Elapsed.Seconds())
	}
	return sb.String()
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Bet <= 0 {
		config.Bet = 10
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns aggregated results.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	start := s.config.Clock.Now()

	perWorker := s.config.Rounds / s.config.Workers
	remainder := s.config.Rounds % s.config.Workers

	shards := make([]Results, s.config.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < s.config.Workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		shardSeed := s.config.Seed + int64(w)
		shard := &shards[w]

		g.Go(func() error {
			return s.runShard(ctx, shardSeed, rounds, shard)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &Results{}
	for _, shard := range shards {
		results.merge(shard)
	}
	results.Elapsed = s.config.Clock.Since(start)

	s.config.Logger.Debug("simulation complete",
		"rounds", results.Rounds, "houseEdge", results.HouseEdge())

	return results, nil
}

// runShard plays a batch of rounds on its own game session. The bankroll is
// sized so it can never block a bet; the simulator measures settlement, not
// ruin.
func (s *Simulator) runShard(ctx context.Context, seed int64, rounds int, out *Results) error {
	bankroll := (rounds + 1) * s.config.Bet
	game := blackjack.NewGame(randutil.New(seed),
		blackjack.WithBankroll(bankroll),
		blackjack.WithBaseBet(s.config.Bet))

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := game.NewRound(); err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}

		if err := playRound(game); err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}

		state := game.State()
		out.Rounds++
		for _, o := range state.Outcomes {
			out.Hands++
			out.Wagered += o.Bet
			out.Returned += o.Payout
			switch o.Outcome {
			case blackjack.OutcomeWon:
				out.Wins++
			case blackjack.OutcomePush:
				out.Pushes++
			case blackjack.OutcomeBusted:
				out.Busts++
			default:
				out.Losses++
			}
		}
	}

	return nil
}

// playRound drives one round with the fixed draw-to-17 policy.
func playRound(g *blackjack.Game) error {
	for {
		state := g.State()
		if state.Phase != blackjack.PlayerTurn {
			return nil
		}

		if state.Hands[state.ActiveHand].Value < standBelow && state.CanHit {
			if err := g.Hit(); err != nil {
				// Deck ran dry mid-round; stand the hand and let the
				// round settle as it lies.
				if !errors.Is(err, deck.ErrEmpty) {
					return err
				}
				if err := g.Stand(); err != nil {
					return err
				}
			}
			continue
		}

		if err := g.Stand(); err != nil {
			return err
		}
	}
}
