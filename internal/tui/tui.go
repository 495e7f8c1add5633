package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/blackjack"
	"github.com/lox/blackjack-cli/internal/deck"
)

// Model is the Bubble Tea model for the blackjack table. The game core is
// synchronous, so every key press applies its action before the next render;
// there is no background state to reconcile.
type Model struct {
	game   *blackjack.Game
	logger *log.Logger

	logViewport viewport.Model
	roundLog    []string
	message     string

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates a TUI model around an existing game session.
func NewModel(game *blackjack.Game, logger *log.Logger) *Model {
	vp := viewport.New(40, 6)
	vp.SetContent("")

	return &Model{
		game:        game,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		roundLog:    []string{},
	}
}

// Init deals the first round; this variant auto-starts with the base bet
// rather than pausing for a bet prompt.
func (m *Model) Init() tea.Cmd {
	m.startRound()
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = max(3, msg.Height-16)
		m.initialized = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "h":
			m.applyAction("hit", m.game.Hit)
		case "s":
			m.applyAction("stand", m.game.Stand)
		case "d":
			m.applyAction("double down", m.game.DoubleDown)
		case "p":
			m.applyAction("split", m.game.Split)
		case "n":
			if phase := m.game.State().Phase; phase == blackjack.RoundOver || phase == blackjack.Betting {
				m.startRound()
			}
		case "up", "k":
			m.logViewport.ScrollUp(1)
		case "down", "j":
			m.logViewport.ScrollDown(1)
		}
	}

	return m, nil
}

// startRound begins a fresh round, reporting an unaffordable bet instead of
// dealing.
func (m *Model) startRound() {
	if err := m.game.NewRound(); err != nil {
		m.logger.Warn("new round refused", "error", err)
		if errors.Is(err, blackjack.ErrInsufficientFunds) {
			m.message = ErrorStyle.Render(fmt.Sprintf("Out of funds: bankroll %d cannot cover the %d bet.", m.game.Bankroll(), m.game.BaseBet()))
		} else {
			m.message = ErrorStyle.Render(err.Error())
		}
		return
	}

	m.message = ""
	state := m.game.State()
	m.appendLog(fmt.Sprintf("New round: dealt %s (%d), dealer shows %s, bet %d",
		blackjack.Hand(state.Hands[0].Cards), state.Hands[0].Value,
		state.Dealer[0], state.BaseBet))
	if state.Hands[0].Blackjack {
		m.appendLog(SuccessStyle.Render("Blackjack!"))
	}
}

// applyAction runs a player action and reflects the result in the log and
// message line. Refused actions change nothing, so the previous view stays
// truthful.
func (m *Model) applyAction(name string, action func() error) {
	before := m.game.State()
	if before.Phase != blackjack.PlayerTurn {
		return
	}

	if err := action(); err != nil {
		m.logger.Debug("action refused", "action", name, "error", err)
		m.message = ErrorStyle.Render(friendlyError(name, err))
		return
	}
	m.message = ""

	after := m.game.State()
	m.logAction(name, before, after)

	if after.Phase == blackjack.RoundOver {
		m.appendLog(fmt.Sprintf("Dealer: %s (%d)", blackjack.Hand(after.Dealer), after.DealerValue))
		m.appendLog(SuccessStyle.Render(after.Summary))
	}
}

// logAction describes what just happened to the hand that was acted on.
func (m *Model) logAction(name string, before, after blackjack.State) {
	i := before.ActiveHand
	hand := after.Hands[i]

	switch name {
	case "hit", "double down":
		card := hand.Cards[len(hand.Cards)-1]
		line := fmt.Sprintf("Hand %d %s: %s (%d)", i+1, name, card, hand.Value)
		if hand.Busted {
			line += " BUST"
		}
		m.appendLog(line)
	case "split":
		m.appendLog(fmt.Sprintf("Split into %s (%d) and %s (%d)",
			blackjack.Hand(after.Hands[i].Cards), after.Hands[i].Value,
			blackjack.Hand(after.Hands[i+1].Cards), after.Hands[i+1].Value))
	case "stand":
		m.appendLog(fmt.Sprintf("Hand %d stands on %d", i+1, before.Hands[i].Value))
	}
}

func (m *Model) appendLog(line string) {
	m.roundLog = append(m.roundLog, line)
	m.logViewport.SetContent(strings.Join(m.roundLog, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	sb.WriteString("\n\n")

	state := m.game.State()

	sb.WriteString(m.renderDealer(state))
	sb.WriteString("\n")
	sb.WriteString(m.renderHands(state))
	sb.WriteString("\n")
	sb.WriteString(BankrollStyle.Render(fmt.Sprintf("Bankroll: %d   Bet: %d   Deck: %d cards", state.Bankroll, state.BaseBet, state.CardsLeft)))
	sb.WriteString("\n\n")
	sb.WriteString(ActionsStyle.Render(m.renderActions(state)))
	sb.WriteString("\n")

	if m.message != "" {
		sb.WriteString(m.message)
		sb.WriteString("\n")
	}

	if m.initialized && len(m.roundLog) > 0 {
		sb.WriteString(InfoStyle.Render(strings.Repeat("─", max(20, m.width-4))))
		sb.WriteString("\n")
		sb.WriteString(m.logViewport.View())
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderDealer shows the dealer's hand, hole card hidden until the player's
// turn is done.
func (m *Model) renderDealer(state blackjack.State) string {
	if len(state.Dealer) == 0 {
		return "Dealer: -\n"
	}

	cards := make([]string, 0, len(state.Dealer)+1)
	for _, c := range state.Dealer {
		cards = append(cards, renderCard(c))
	}
	if state.DealerHidden {
		cards = append(cards, HiddenCardStyle.Render("[?]"))
		return fmt.Sprintf("Dealer: %s\n", strings.Join(cards, " "))
	}
	return fmt.Sprintf("Dealer: %s %s\n", strings.Join(cards, " "),
		HandInfoStyle.Render(fmt.Sprintf("(%d)", state.DealerValue)))
}

func (m *Model) renderHands(state blackjack.State) string {
	var sb strings.Builder

	for i, hand := range state.Hands {
		marker := " "
		label := fmt.Sprintf("Hand %d", i+1)
		if hand.Active {
			marker = "▸"
			label = ActiveHandStyle.Render(label)
		}

		cards := make([]string, 0, len(hand.Cards))
		for _, c := range hand.Cards {
			cards = append(cards, renderCard(c))
		}

		info := fmt.Sprintf("(%d)", hand.Value)
		switch {
		case hand.Busted:
			info = ErrorStyle.Render(fmt.Sprintf("(%d) BUST", hand.Value))
		case hand.Blackjack:
			info = SuccessStyle.Render("(21) BLACKJACK")
		default:
			info = HandInfoStyle.Render(info)
		}

		fmt.Fprintf(&sb, "%s %s: %s %s  bet %d", marker, label, strings.Join(cards, " "), info, hand.Bet)
		if hand.Doubled {
			sb.WriteString(InfoStyle.Render(" (doubled)"))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderActions lists only the keys the current state permits, so the player
// is never offered a move the engine would refuse.
func (m *Model) renderActions(state blackjack.State) string {
	var actions []string

	switch state.Phase {
	case blackjack.PlayerTurn:
		if state.CanHit {
			actions = append(actions, "[h]it")
		}
		actions = append(actions, "[s]tand")
		if state.CanDouble {
			actions = append(actions, "[d]ouble")
		}
		if state.CanSplit {
			actions = append(actions, "s[p]lit")
		}
	case blackjack.RoundOver:
		actions = append(actions, "[n]ew round")
	}

	actions = append(actions, "[q]uit")
	return strings.Join(actions, "  ")
}

func renderCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// Run starts the TUI event loop and blocks until the player quits.
func Run(game *blackjack.Game, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(game, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// friendlyError maps engine errors to table talk.
func friendlyError(action string, err error) string {
	switch {
	case errors.Is(err, blackjack.ErrInsufficientFunds):
		return fmt.Sprintf("Not enough funds to %s.", action)
	case errors.Is(err, blackjack.ErrCannotSplit):
		return "This hand cannot be split."
	case errors.Is(err, deck.ErrEmpty):
		return "The deck is out of cards."
	default:
		return err.Error()
	}
}
