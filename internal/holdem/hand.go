// Package holdem implements the Texas Hold'em hand state machine: deck
// and dealing, round advancement, betting validation, auto-actions and
// showdown. It holds no goroutines of its own; the room actor drives it
// synchronously, exactly as Table drives it in the room's single-writer
// mailbox.
package holdem

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"pokerhall/card"
	"pokerhall/internal/poker"
)

// RoundData is the betting state for the current street.
type RoundData struct {
	Bet         poker.ChipInt
	MinRaise    poker.ChipInt
	PlayerBet   []poker.ChipInt
	RoundActive []bool
	ToActIdx    int
}

// GamePlayer is a seat's per-hand behavioural state. CheckFold and
// CallAny are rebuilt (cleared) at the start of every hand and are set
// directly by the room actor while this hand is in progress.
type GamePlayer struct {
	Info      poker.Player
	CheckFold bool
	CallAny   bool
}

// HandState is the mutable state of one hand in progress.
type HandState struct {
	Round        Phase
	DealerIdx    int
	Stacks       []poker.ChipInt
	PlayerActive []bool
	AllIn        []bool
	Board        []card.Card
	Hands        [][]card.Card
	TotalPot     poker.ChipInt
	RoundData    RoundData
}

// Result records the pot award once a hand reaches Complete.
type Result struct {
	Winners []int
	Amounts []poker.ChipInt
}

// Hand is one hand of play at a table.
type Hand struct {
	ID      poker.GameId
	Players []GamePlayer
	State   HandState
	Result  *Result

	deck card.Deck
	rng  *mrand.Rand
	cfg  Config
}

func seedFromCrypto() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// New deals a fresh hand to seated, which must already be the eligible,
// ordered set of players dealt into this hand (the table computes
// eligibility; the hand engine does not filter seats).
func New(id poker.GameId, seated []poker.TablePlayer, dealerIdx int, cfg Config) (*Hand, error) {
	n := len(seated)
	if n < 2 {
		return nil, poker.PreconditionError("cannot start a hand with fewer than 2 players")
	}
	if cfg.ForcedDealerSeat != nil {
		dealerIdx = *cfg.ForcedDealerSeat
	}
	if dealerIdx < 0 || dealerIdx >= n {
		return nil, poker.InternalError("dealer seat %d out of range for %d players", dealerIdx, n)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = seedFromCrypto()
	}

	h := &Hand{
		ID:      id,
		Players: make([]GamePlayer, n),
		rng:     mrand.New(mrand.NewSource(seed)),
		cfg:     cfg,
		State: HandState{
			Round:        Starting,
			DealerIdx:    dealerIdx,
			Stacks:       make([]poker.ChipInt, n),
			PlayerActive: make([]bool, n),
			AllIn:        make([]bool, n),
			Hands:        make([][]card.Card, n),
		},
	}
	for i, tp := range seated {
		h.Players[i] = GamePlayer{Info: tp.Player}
		h.State.Stacks[i] = tp.Stack
		h.State.PlayerActive[i] = true
	}

	if len(cfg.DeckOverride) > 0 {
		h.deck = append(card.Deck{}, cfg.DeckOverride...)
	} else {
		h.deck = card.NewDeck()
		h.deck.Shuffle(h.rng)
	}

	h.dealHoleCards()
	if err := h.advanceRound(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hand) dealHoleCards() {
	n := len(h.Players)
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			seat := (h.State.DealerIdx + 1 + i) % n
			h.State.Hands[seat] = append(h.State.Hands[seat], h.deck.DrawOne())
		}
	}
}

func (h *Hand) activeCount() int {
	n := 0
	for _, active := range h.State.PlayerActive {
		if active {
			n++
		}
	}
	return n
}

// nextEligibleFrom scans forward from start (inclusive) for a seat that
// is still in the hand and not all-in.
func (h *Hand) nextEligibleFrom(start int) (int, bool) {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if h.State.PlayerActive[seat] && !h.State.AllIn[seat] {
			return seat, true
		}
	}
	return 0, false
}

func (h *Hand) commit(seat int, amount poker.ChipInt) {
	h.State.Stacks[seat] -= amount
	h.State.RoundData.PlayerBet[seat] += amount
	h.State.TotalPot += amount
	if h.State.Stacks[seat] == 0 {
		h.State.AllIn[seat] = true
	}
}

func (h *Hand) postBlinds() {
	n := len(h.Players)
	sb := (h.State.DealerIdx + 1) % n
	bb := (h.State.DealerIdx + 2) % n

	h.State.RoundData = RoundData{
		PlayerBet:   make([]poker.ChipInt, n),
		RoundActive: make([]bool, n),
	}
	sbAmt := poker.ChipInt(h.cfg.SmallBlind)
	if sbAmt > h.State.Stacks[sb] {
		sbAmt = h.State.Stacks[sb]
	}
	bbAmt := poker.ChipInt(h.cfg.BigBlind)
	if bbAmt > h.State.Stacks[bb] {
		bbAmt = h.State.Stacks[bb]
	}
	h.commit(sb, sbAmt)
	h.commit(bb, bbAmt)

	h.State.RoundData.Bet = h.State.RoundData.PlayerBet[bb]
	h.State.RoundData.MinRaise = poker.ChipInt(h.cfg.BigBlind)
	for i := range h.State.RoundData.RoundActive {
		h.State.RoundData.RoundActive[i] = h.State.PlayerActive[i] && !h.State.AllIn[i]
	}
	if seat, ok := h.nextEligibleFrom((h.State.DealerIdx + 3) % n); ok {
		h.State.RoundData.ToActIdx = seat
	}
}

func (h *Hand) resetRoundData() {
	n := len(h.Players)
	h.State.RoundData = RoundData{
		MinRaise:    poker.ChipInt(h.cfg.BigBlind),
		PlayerBet:   make([]poker.ChipInt, n),
		RoundActive: make([]bool, n),
	}
	for i := range h.State.RoundData.RoundActive {
		h.State.RoundData.RoundActive[i] = h.State.PlayerActive[i] && !h.State.AllIn[i]
	}
	if seat, ok := h.nextEligibleFrom((h.State.DealerIdx + 1) % n); ok {
		h.State.RoundData.ToActIdx = seat
	}
}

func (h *Hand) dealBoard(n int) {
	cards, ok := h.deck.Draw(n)
	if !ok {
		return
	}
	h.State.Board = append(h.State.Board, cards...)
}

// advanceRound moves the hand to its next street, dealing community
// cards as needed, and either keeps running (all-in runout, direct
// showdown) or hands control back with a fresh RoundData awaiting
// action.
func (h *Hand) advanceRound() error {
	switch h.State.Round {
	case Starting:
		h.State.Round = Preflop
		h.postBlinds()
	case Preflop:
		h.dealBoard(3)
		h.State.Round = Flop
		h.resetRoundData()
	case Flop:
		h.dealBoard(1)
		h.State.Round = Turn
		h.resetRoundData()
	case Turn:
		h.dealBoard(1)
		h.State.Round = River
		h.resetRoundData()
	case River:
		return h.showdown()
	default:
		return poker.InternalError("advanceRound called in terminal phase %s", h.State.Round)
	}
	if h.activeCount() <= 1 {
		return h.awardUncontested()
	}
	return h.progress()
}

// progress finds the next seat obligated to act and either dispatches
// an auto-action for it or stops, waiting for player input.
func (h *Hand) progress() error {
	seat, ok := h.nextToAct()
	if !ok {
		return h.advanceRound()
	}
	h.State.RoundData.ToActIdx = seat
	return h.dispatchAutoAction(seat)
}

func (h *Hand) nextToAct() (int, bool) {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (h.State.RoundData.ToActIdx + i) % n
		if h.State.RoundData.RoundActive[seat] {
			return seat, true
		}
	}
	return 0, false
}

func (h *Hand) dispatchAutoAction(seat int) error {
	gp := &h.Players[seat]
	switch {
	case gp.CheckFold:
		if h.State.RoundData.PlayerBet[seat] == h.State.RoundData.Bet {
			return h.act(seat, h.State.RoundData.PlayerBet[seat])
		}
		return h.foldSeat(seat)
	case gp.CallAny:
		return h.act(seat, h.State.RoundData.Bet)
	default:
		return nil
	}
}

func (h *Hand) validateTurn(seat int) error {
	if !h.State.Round.isBettingRound() {
		return poker.PreconditionError("no active betting round")
	}
	if seat < 0 || seat >= len(h.Players) {
		return poker.LookupError("no such seat %d", seat)
	}
	if !h.State.PlayerActive[seat] {
		return poker.RulesError("seat %d is not in the hand", seat)
	}
	if seat != h.State.RoundData.ToActIdx {
		return poker.RulesError("it is not seat %d's turn", seat)
	}
	return nil
}

// Bet commits amount as the seat's total desired commitment this
// betting round (not an incremental raise size). amount == current bet
// is a check/call; amount > current bet is a raise; amount < current
// bet is only legal as an all-in for the seat's remaining stack.
func (h *Hand) Bet(seat int, amount poker.ChipInt) error {
	if err := h.validateTurn(seat); err != nil {
		return err
	}
	return h.act(seat, amount)
}

// Fold removes seat from the hand.
func (h *Hand) Fold(seat int) error {
	if err := h.validateTurn(seat); err != nil {
		return err
	}
	return h.foldSeat(seat)
}

func (h *Hand) act(seat int, amount poker.ChipInt) error {
	cur := h.State.RoundData.PlayerBet[seat]
	if amount < cur {
		return poker.RulesError("cannot reduce a prior commitment")
	}
	need := amount - cur
	if need > h.State.Stacks[seat] {
		return poker.RulesError("insufficient stack for bet of %d", amount)
	}
	isAllIn := need == h.State.Stacks[seat]

	if amount < h.State.RoundData.Bet && !isAllIn {
		return poker.RulesError("bet %d does not call the current bet of %d", amount, h.State.RoundData.Bet)
	}
	if amount > h.State.RoundData.Bet {
		raiseSize := amount - h.State.RoundData.Bet
		if raiseSize < h.State.RoundData.MinRaise && !isAllIn {
			return poker.RulesError("raise of %d is below the minimum raise of %d", raiseSize, h.State.RoundData.MinRaise)
		}
	}

	isRaise := amount > h.State.RoundData.Bet
	h.commit(seat, need)

	if isRaise {
		if amount-h.State.RoundData.Bet >= h.State.RoundData.MinRaise {
			h.State.RoundData.MinRaise = amount - h.State.RoundData.Bet
		}
		h.State.RoundData.Bet = amount
		for i := range h.State.RoundData.RoundActive {
			h.State.RoundData.RoundActive[i] = h.State.PlayerActive[i] && !h.State.AllIn[i]
		}
	}
	h.State.RoundData.RoundActive[seat] = false

	return h.afterAction()
}

func (h *Hand) foldSeat(seat int) error {
	h.State.PlayerActive[seat] = false
	h.State.RoundData.RoundActive[seat] = false
	return h.afterAction()
}

func (h *Hand) afterAction() error {
	if h.activeCount() <= 1 {
		return h.awardUncontested()
	}
	return h.progress()
}

func (h *Hand) awardUncontested() error {
	winner := -1
	for seat, active := range h.State.PlayerActive {
		if active {
			winner = seat
			break
		}
	}
	if winner < 0 {
		return poker.InternalError("hand ended with no active seats")
	}
	h.State.Round = Complete
	h.awardPot(winner)
	return nil
}

func (h *Hand) awardPot(seat int) {
	amt := h.State.TotalPot
	h.State.Stacks[seat] += amt
	h.State.TotalPot = 0
	h.Result = &Result{Winners: []int{seat}, Amounts: []poker.ChipInt{amt}}
}

// SetCheckFold toggles a seat's auto-check-fold flag. If it is
// currently that seat's turn, the action is applied immediately.
func (h *Hand) SetCheckFold(seat int, on bool) error {
	if seat < 0 || seat >= len(h.Players) {
		return poker.LookupError("no such seat %d", seat)
	}
	h.Players[seat].CheckFold = on
	return h.maybeActNow(seat)
}

// SetCallAny toggles a seat's auto-call-any flag. If it is currently
// that seat's turn, the action is applied immediately.
func (h *Hand) SetCallAny(seat int, on bool) error {
	if seat < 0 || seat >= len(h.Players) {
		return poker.LookupError("no such seat %d", seat)
	}
	h.Players[seat].CallAny = on
	return h.maybeActNow(seat)
}

func (h *Hand) maybeActNow(seat int) error {
	if !h.State.Round.isBettingRound() {
		return nil
	}
	if seat != h.State.RoundData.ToActIdx {
		return nil
	}
	return h.dispatchAutoAction(seat)
}
