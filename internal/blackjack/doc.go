// Package blackjack implements the rules engine for a single-player casino
// blackjack variant with hand splitting, doubling down and wagering against
// a fixed bankroll.
//
// The main type is Game, which owns the deck, the current Round and the
// Bankroll for one session. Player actions mutate the active hand and may
// advance play automatically; the final stand plays the dealer and settles
// the round synchronously.
//
// # Basic Usage
//
//	g := blackjack.NewGame(rng)
//	if err := g.NewRound(); err != nil { ... }
//	g.Hit()
//	g.Stand() // dealer plays and the round settles before this returns
//	state := g.State()
//	if state.Phase == blackjack.RoundOver {
//	    fmt.Println(state.Summary)
//	}
//
// # Deterministic Testing
//
// Randomness is injected: pass a fixed-seed RNG, or rig the deal entirely
// with a stacked deck:
//
//	rng := randutil.New(42)
//	g := blackjack.NewGame(rng,
//	    blackjack.WithDeck(deck.Stacked(deck.MustParseCards("7h9s TcAd 8d8c")...)))
//
// Cards in a stacked deck are drawn from the end, so the player receives the
// last two cards listed, then the dealer the two before those.
//
// # Architecture
//
// Game delegates to specialized components:
//   - Hand: ace-flex valuation, bust and splittable checks
//   - Bankroll: funds ledger that refuses overdrawing bets
//   - Round: per-play-through state, including the RoundOver summary
//   - deck.Deck: draw and shuffle primitives with RNG injection
//
// All errors are locally recoverable; a refused action leaves the round and
// bankroll exactly as they were.
package blackjack
