package blackjack

// settle compares every player hand against the dealer's final value, pays
// winners and pushes, and moves the round to RoundOver with its summary.
// Bets were taken when placed, so a loss pays nothing: a win returns the
// stake plus even-money winnings (2x the bet), a push returns the stake.
func (g *Game) settle() {
	dealerValue := g.round.dealer.Value()
	dealerBust := dealerValue > BustThreshold

	outcomes := make([]HandOutcome, 0, len(g.round.seats))

	for i, s := range g.round.seats {
		o := HandOutcome{Hand: i + 1, Bet: s.bet}
		value := s.cards.Value()

		switch {
		case value > BustThreshold:
			o.Outcome = OutcomeBusted
		case !dealerBust && dealerValue > value:
			o.Outcome = OutcomeLost
		case dealerBust || value > dealerValue:
			o.Outcome = OutcomeWon
			o.Payout = s.bet * 2
		default:
			o.Outcome = OutcomePush
			o.Payout = s.bet
		}

		if o.Payout > 0 {
			g.bankroll.Credit(o.Payout)
		}
		outcomes = append(outcomes, o)
	}

	g.round.outcomes = outcomes
	g.round.summary = buildSummary(outcomes)
	g.round.phase = RoundOver

	g.logger.Debug("round settled",
		"dealer", g.round.dealer.String(), "dealerValue", dealerValue,
		"summary", g.round.summary, "bankroll", g.bankroll.Funds())
}
