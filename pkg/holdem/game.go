package holdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/deck"
)

// Game is a single authoritative Texas Hold'em table. A Game has exactly one
// logical writer: callers must serialize JoinTable, LeaveTable, StartGame,
// PlayerAction, TimeoutFold, and Tick (the room's run loop does this). The
// turn timer is not a side channel; its synthesized fold goes through
// PlayerAction like any other action.
type Game struct {
	options Options
	tableID string
	log     logrus.FieldLogger

	players            []*Player
	phase              Phase
	dealerPosition     int
	currentPlayerIndex int
	pot                int
	currentBet         int
	community          []*deck.Card
	tranche            []*deck.Card
	playerCards        [][]*deck.Card
	handNumber         int64
	seed               int64

	// toAct holds the names of players still owed a decision this round.
	// a raise re-populates it with every other active player.
	toAct map[string]bool

	result       *HandResult
	pendingPhase *pendingPhase
	events       chan Event

	// bankroll is the total chips on the table; it must equal
	// sum(player chips) + pot after every action
	bankroll int
	halted   bool
}

// NewGame returns a new table
func NewGame(tableID string, logger logrus.FieldLogger, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	return &Game{
		options: opts,
		tableID: tableID,
		log:     logger.WithField("table", tableID),
		phase:   PhaseWaiting,
		toAct:   make(map[string]bool),
		events:  make(chan Event, 256),
	}, nil
}

// JoinTable seats a new player with the given buy-in
func (g *Game) JoinTable(name string, buyIn int) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}

	if g.phase != PhaseWaiting && g.phase != PhaseReadyForNextHand {
		return ErrHandInProgress
	}

	if name == "" {
		return fmt.Errorf("a player name is required")
	}

	if len(g.players) >= g.options.MaxPlayers {
		return ErrTableFull
	}

	if g.playerByName(name) != nil {
		return ErrNameTaken
	}

	if buyIn < g.options.MinBuyIn || buyIn > g.options.MaxBuyIn {
		return fmt.Errorf("buy-in must be between %d and %d", g.options.MinBuyIn, g.options.MaxBuyIn)
	}

	player := newPlayer(name, len(g.players), buyIn)
	g.players = append(g.players, player)
	g.bankroll += buyIn

	g.emitEvent(EventPlayerJoined, name, buyIn, fmt.Sprintf("%s joined with %d chips", name, buyIn), nil)
	return nil
}

// LeaveTable removes a player. A player who leaves mid-hand is folded
// immediately; their seat is cleared once the hand finishes. Chips already
// in the pot stay in the pot.
//
// Removal is deferred for every seat while a hand runs, not just for
// players still contesting it. Pulling a seat mid-hand would shift every
// later seat and invalidate the dealer and actor indexes.
func (g *Game) LeaveTable(name string) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}

	player := g.playerByName(name)
	if player == nil {
		return ErrPlayerNotFound
	}

	g.emitEvent(EventPlayerLeft, name, 0, fmt.Sprintf("%s left the table", name), nil)

	if g.phase.InHand() {
		player.leaving = true
		wasActor := g.phase.IsBettingRound() && g.players[g.currentPlayerIndex] == player

		if player.Status == StatusActive {
			player.Status = StatusFolded
			player.LastAction = ActionFold
			delete(g.toAct, name)
			g.afterAction(wasActor)
		}

		return g.checkConservation()
	}

	g.removePlayer(player)
	return nil
}

// StartGame starts the next hand. It shuffles from a seed every player can
// derive, deals, rotates the dealer, posts blinds, and opens pre-flop.
func (g *Game) StartGame() error {
	if err := g.ensureRunning(); err != nil {
		return err
	}

	if g.phase != PhaseWaiting && g.phase != PhaseReadyForNextHand {
		return ErrHandInProgress
	}

	for _, p := range g.players {
		p.newHand()
	}

	names := make([]string, 0, len(g.players))
	for _, p := range g.players {
		if p.canAct() {
			names = append(names, p.Name)
		}
	}

	if len(names) < 2 {
		return ErrNotEnoughPlayers
	}

	g.handNumber++
	g.seed = deck.Seed(g.tableID, g.handNumber, names)
	g.result = nil
	g.pot = 0
	g.currentBet = 0
	g.community = nil

	d := deck.New()
	d.Shuffle(g.seed)

	// cannot happen with nine seats and a full deck, but a short deal must
	// never be silently coerced
	if !d.CanDraw(2*len(names) + 8) {
		return g.halt(fmt.Sprintf("deck underflow: %d cards for %d players", d.CardsLeft(), len(names)))
	}

	if err := g.deal(d); err != nil {
		return err
	}

	g.rotateDealer()

	headsUp := len(names) == 2

	sbSeat := g.dealerPosition
	if !headsUp {
		sbSeat = g.nextSeat(g.dealerPosition, (*Player).canAct)
	}
	bbSeat := g.nextSeat(sbSeat, (*Player).inHand)

	g.emitEvent(EventHandStarted, "", 0,
		fmt.Sprintf("hand #%d started, dealer %s", g.handNumber, g.players[g.dealerPosition].Name),
		map[string]interface{}{"seed": g.seed})

	g.postBlind(sbSeat, g.options.SmallBlind, "small blind")
	g.postBlind(bbSeat, g.options.BigBlind, "big blind")
	g.currentBet = g.options.BigBlind

	g.phase = PhasePreFlop
	g.resetToAct()

	firstFrom := bbSeat
	if headsUp {
		// the dealer posts the small blind and acts first pre-flop
		firstFrom = g.nextSeat(g.dealerPosition, (*Player).inHand)
	}

	if len(g.toAct) == 0 {
		// both blinds are all-in; run the streets out
		g.closeRound()
	} else {
		g.currentPlayerIndex = g.nextSeat(firstFrom, (*Player).canAct)
	}

	return g.checkConservation()
}

// PlayerAction applies one action from the current actor. Validation errors
// leave the state untouched.
func (g *Game) PlayerAction(name string, action Action, amount int) error {
	if err := g.ensureRunning(); err != nil {
		return err
	}

	if !g.phase.IsBettingRound() {
		return ErrNoBettingRound
	}

	if !action.IsValid() {
		return fmt.Errorf("%s is not a valid action", action)
	}

	actor := g.players[g.currentPlayerIndex]
	if actor.Name != name {
		return ErrNotYourTurn
	}

	if amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}

	// a player with no chips behind can only fold or check
	if actor.Chips == 0 && action != ActionFold && action != ActionCheck {
		action = ActionFold
	}

	paid := 0
	switch action {
	case ActionFold:
		actor.Status = StatusFolded

	case ActionCheck:
		if actor.CurrentBet != g.currentBet {
			return ErrIllegalCheck
		}

	case ActionCall:
		owe := g.currentBet - actor.CurrentBet
		if owe <= 0 {
			return ErrNothingToCall
		}

		paid = actor.pay(owe)

	case ActionRaise:
		if amount < g.options.BigBlind {
			return fmt.Errorf("%w: the minimum raise is %d", ErrRaiseBelowMinimum, g.options.BigBlind)
		}

		callPortion := g.currentBet - actor.CurrentBet
		if callPortion < 0 {
			callPortion = 0
		}

		if actor.Chips <= callPortion {
			return ErrInsufficientChips
		}

		raisePortion := amount
		if raisePortion > actor.Chips-callPortion {
			raisePortion = actor.Chips - callPortion
		}

		paid = actor.pay(callPortion + raisePortion)
		g.currentBet = actor.CurrentBet
		g.reopenAction(actor)

	case ActionAllIn:
		paid = actor.pay(actor.Chips)
		if actor.CurrentBet > g.currentBet {
			// an all-in that lifts the bet counts as a raise
			g.currentBet = actor.CurrentBet
			g.reopenAction(actor)
		}
	}

	g.pot += paid
	actor.LastAction = action
	delete(g.toAct, actor.Name)

	g.emitEvent(EventPlayerActed, actor.Name, paid,
		fmt.Sprintf("%s %s", actor.Name, action.LogMessage(paid)),
		map[string]interface{}{"action": action, "phase": g.phase.String()})

	g.afterAction(true)
	return g.checkConservation()
}

// afterAction runs the immediate-win check and round advancement after any
// mutation that folds or bets. wasActor is true if the mutation came from
// the player who was on the clock.
func (g *Game) afterAction(wasActor bool) {
	if !g.phase.IsBettingRound() {
		return
	}

	if g.inHandCount() == 1 {
		g.finishByFold()
		return
	}

	if len(g.toAct) == 0 {
		g.closeRound()
	} else if wasActor {
		g.advanceActor()
	}
}

// TurnScope identifies the exact decision a turn timer was armed for
type TurnScope struct {
	TableID    string `json:"tableId"`
	HandNumber int64  `json:"handNumber"`
	ActorIndex int    `json:"actorIndex"`
}

// TurnScope returns the scope of the current decision, if a betting round is
// in progress
func (g *Game) TurnScope() (TurnScope, bool) {
	if g.halted || !g.phase.IsBettingRound() {
		return TurnScope{}, false
	}

	return TurnScope{
		TableID:    g.tableID,
		HandNumber: g.handNumber,
		ActorIndex: g.currentPlayerIndex,
	}, true
}

// TimeoutFold applies a synthesized fold for an expired turn timer. The fold
// is rejected if the decision it was armed for has already passed.
func (g *Game) TimeoutFold(scope TurnScope) error {
	current, ok := g.TurnScope()
	if !ok || current != scope {
		return ErrStaleTimer
	}

	actor := g.players[g.currentPlayerIndex]
	g.log.WithFields(logrus.Fields{
		"player": actor.Name,
		"hand":   scope.HandNumber,
	}).Info("turn timer expired, folding")

	return g.PlayerAction(actor.Name, ActionFold, 0)
}

// Players returns the seated players in seat order
func (g *Game) Players() []*Player {
	return g.players
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Pot returns the current pot
func (g *Game) Pot() int {
	return g.pot
}

// CurrentBet returns the bet players must match this round
func (g *Game) CurrentBet() int {
	return g.currentBet
}

// HandNumber returns the current hand number
func (g *Game) HandNumber() int64 {
	return g.handNumber
}

// Seed returns the shuffle seed of the current hand
func (g *Game) Seed() int64 {
	return g.seed
}

// DealerPosition returns the dealer's seat
func (g *Game) DealerPosition() int {
	return g.dealerPosition
}

// CommunityCards returns the revealed community cards
func (g *Game) CommunityCards() []*deck.Card {
	return g.community
}

// Result returns the result of the last finished hand, if any
func (g *Game) Result() *HandResult {
	return g.result
}

// CurrentActor returns the player on the clock
func (g *Game) CurrentActor() (*Player, error) {
	if !g.phase.IsBettingRound() {
		return nil, ErrNoBettingRound
	}

	return g.players[g.currentPlayerIndex], nil
}

// deal gives two cards to each participating player in seat order, then
// pre-deals the community tranche: burn, flop, burn, turn, burn, river
func (g *Game) deal(d *deck.Deck) error {
	g.playerCards = make([][]*deck.Card, len(g.players))
	for seat, p := range g.players {
		if !p.canAct() {
			continue
		}

		cards := make([]*deck.Card, 0, 2)
		for i := 0; i < 2; i++ {
			card, err := d.Draw()
			if err != nil {
				return g.halt(err.Error())
			}

			cards = append(cards, card)
		}

		p.holeCards = cards
		g.playerCards[seat] = cards
	}

	tranche := make([]*deck.Card, 0, 5)
	for _, count := range []int{3, 1, 1} {
		if _, err := d.Draw(); err != nil { // burn
			return g.halt(err.Error())
		}

		for i := 0; i < count; i++ {
			card, err := d.Draw()
			if err != nil {
				return g.halt(err.Error())
			}

			tranche = append(tranche, card)
		}
	}

	g.tranche = tranche
	return nil
}

func (g *Game) postBlind(seat, amount int, label string) {
	p := g.players[seat]
	paid := p.pay(amount)
	g.pot += paid

	g.emitEvent(EventBlindPosted, p.Name, paid,
		fmt.Sprintf("%s posted the %s of %d", p.Name, label, paid), nil)
}

func (g *Game) rotateDealer() {
	if g.handNumber == 1 {
		g.dealerPosition = g.nextSeat(len(g.players)-1, (*Player).canAct)
		return
	}

	g.dealerPosition = g.nextSeat(g.dealerPosition, (*Player).canAct)
}

// nextSeat returns the first seat after from (wrapping) whose player
// satisfies pred. Returns from itself after a full loop.
func (g *Game) nextSeat(from int, pred func(*Player) bool) int {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if pred(g.players[seat]) {
			return seat
		}
	}

	return from
}

func (g *Game) resetToAct() {
	g.toAct = make(map[string]bool)
	for _, p := range g.players {
		if p.canAct() {
			g.toAct[p.Name] = true
		}
	}
}

// reopenAction is called after a raise: everyone else gets to act again
func (g *Game) reopenAction(raiser *Player) {
	g.toAct = make(map[string]bool)
	for _, p := range g.players {
		if p.canAct() && p != raiser {
			g.toAct[p.Name] = true
		}
	}
}

func (g *Game) advanceActor() {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		seat := (g.currentPlayerIndex + i) % n
		p := g.players[seat]
		if p.canAct() && g.toAct[p.Name] {
			g.currentPlayerIndex = seat
			return
		}
	}
}

// closeRound advances to the next street, or to showdown after the river.
// Streets with fewer than two players able to act are run out immediately.
func (g *Game) closeRound() {
	for {
		if g.phase == PhaseRiver {
			g.showdown()
			return
		}

		g.phase++
		g.community = g.tranche[:g.phase.communityCardCount()]
		g.currentBet = 0
		for _, p := range g.players {
			p.newRound()
		}

		g.resetToAct()
		if len(g.toAct) >= 2 {
			g.currentPlayerIndex = g.nextSeat(g.dealerPosition, (*Player).canAct)
			return
		}

		// nobody left to bet against; reveal the rest of the board
		g.toAct = make(map[string]bool)
	}
}

func (g *Game) inHandCount() int {
	count := 0
	for _, p := range g.players {
		if p.inHand() {
			count++
		}
	}

	return count
}

func (g *Game) playerByName(name string) *Player {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// removePlayer takes a player off the table and re-seats everyone after them
func (g *Game) removePlayer(player *Player) {
	g.bankroll -= player.Chips

	players := make([]*Player, 0, len(g.players)-1)
	for _, p := range g.players {
		if p != player {
			p.Seat = len(players)
			players = append(players, p)
		}
	}

	g.players = players

	if len(g.players) > 0 {
		g.dealerPosition %= len(g.players)
		g.currentPlayerIndex %= len(g.players)
	} else {
		g.dealerPosition = 0
		g.currentPlayerIndex = 0
	}
}

func (g *Game) removeLeavingPlayers() {
	for _, p := range append([]*Player(nil), g.players...) {
		if p.leaving {
			g.removePlayer(p)
		}
	}
}

func (g *Game) ensureRunning() error {
	if g.halted {
		return newInvariantError("the table is halted")
	}

	return nil
}

// halt stops the table permanently. Better a dead table than a wrong one.
func (g *Game) halt(reason string) error {
	g.halted = true
	g.log.WithField("reason", reason).Error("halting table")
	return newInvariantError(reason)
}

// checkConservation verifies that chips were moved, never created or
// destroyed, and that no stack went negative
func (g *Game) checkConservation() error {
	total := g.pot
	for _, p := range g.players {
		if p.Chips < 0 {
			return g.halt(fmt.Sprintf("player %s has a negative balance", p.Name))
		}

		total += p.Chips
	}

	if total != g.bankroll {
		return g.halt(fmt.Sprintf("chip conservation violated: have %d, want %d", total, g.bankroll))
	}

	return nil
}
