package room

import (
	"context"
	"time"

	"pokerhall/internal/holdem"
	"pokerhall/internal/poker"
	"pokerhall/internal/wire"
)

func (r *room) run() {
	for req := range r.ops {
		r.handle(req)
	}
}

func (r *room) handle(req request) {
	switch req.kind {
	case opGetConfig:
		req.reply <- response{config: r.table.Config, seatedCount: len(r.table.Players)}

	case opSubscribe:
		r.subs[req.player] = req.sub

	case opUnsubscribe:
		delete(r.subs, req.player)

	case opSitTable:
		if err := r.chips.Reserve(context.Background(), req.player, req.amount); err != nil {
			req.reply <- response{err: poker.PreconditionError("reserve buy-in: %v", err)}
			return
		}
		err := r.table.SitDown(poker.Player{ID: req.player, Username: req.username}, req.amount)
		if err != nil {
			if relErr := r.chips.Release(context.Background(), req.player, req.amount); relErr != nil {
				err = poker.InternalError("sit down failed (%v) and buy-in release failed: %v", err, relErr)
			}
		} else {
			seat := len(r.table.Players) - 1
			r.broadcast(wire.SitTableAck(string(r.id), wire.PlayerRef{ID: string(req.player), Username: req.username}, seat))
			r.tryStartNewGame()
		}
		req.reply <- response{err: err}

	case opStandUp:
		if r.hand != nil && r.seatOf(req.player) >= 0 {
			req.reply <- response{err: poker.PreconditionError("cannot stand up mid-hand")}
			return
		}
		var stack poker.ChipInt
		found := false
		for _, tp := range r.table.Players {
			if tp.Player.ID == req.player {
				stack = tp.Stack
				found = true
				break
			}
		}
		if !found {
			req.reply <- response{err: poker.LookupError("player not seated")}
			return
		}
		if err := r.table.StandUp(req.player); err != nil {
			req.reply <- response{err: err}
			return
		}
		if err := r.chips.Release(context.Background(), req.player, stack); err != nil {
			req.reply <- response{err: poker.InternalError("stood up but balance release failed: %v", err)}
			return
		}
		req.reply <- response{}

	case opChat:
		r.broadcast(wire.Chat(string(r.id), string(req.player), req.text))

	case opBet:
		req.reply <- response{err: r.act(req.player, func(seat int) error { return r.hand.Bet(seat, req.amount) })}

	case opFold:
		req.reply <- response{err: r.act(req.player, func(seat int) error { return r.hand.Fold(seat) })}

	case opSetSitOutNextHand:
		req.reply <- response{err: r.table.SetSitOutNextHand(req.player, req.flag)}

	case opSetSitOutNextBigBlind:
		req.reply <- response{err: r.table.SetSitOutNextBigBlind(req.player, req.flag)}

	case opSetWaitForBigBlind:
		req.reply <- response{err: r.table.SetWaitForBigBlind(req.player, req.flag)}

	case opSetCheckFold:
		req.reply <- response{err: r.act(req.player, func(seat int) error { return r.hand.SetCheckFold(seat, req.flag) })}

	case opSetCallAny:
		req.reply <- response{err: r.act(req.player, func(seat int) error { return r.hand.SetCallAny(seat, req.flag) })}

	case opTimerFold:
		if req.timerArm != r.timerArm {
			return // stale arm; a newer timer (or none) has since replaced it
		}
		if r.hand != nil {
			seat := r.hand.State.RoundData.ToActIdx
			_ = r.hand.Fold(seat)
			r.afterHandMutation()
		}
	}
}

// seatOf returns the hand-local seat index for player, or -1 if no hand
// is in progress or the player was not dealt into it.
func (r *room) seatOf(player poker.PlayerId) int {
	if r.hand == nil {
		return -1
	}
	for i, gp := range r.hand.Players {
		if gp.Info.ID == player {
			return i
		}
	}
	return -1
}

// act runs fn against the calling player's hand seat and, on success,
// syncs state and advances bookkeeping (broadcast, timer, next hand).
func (r *room) act(player poker.PlayerId, fn func(seat int) error) error {
	if r.hand == nil {
		return poker.PreconditionError("no hand in progress")
	}
	seat := r.seatOf(player)
	if seat < 0 {
		return poker.LookupError("player %s is not in the current hand", player)
	}
	if err := fn(seat); err != nil {
		return err
	}
	r.afterHandMutation()
	return nil
}

// afterHandMutation syncs stacks, broadcasts the new state, rearms the
// turn timer, and starts the next hand once this one completes.
func (r *room) afterHandMutation() {
	if r.hand == nil {
		return
	}
	r.table.SyncStacks(r.hand, r.handIdxs)
	r.broadcast(wire.GameUpdate(string(r.id), r.snapshot()))
	if r.hand.State.Round == holdem.Complete {
		r.hand = nil
		r.handIdxs = nil
		r.cancelTimer()
		r.tryStartNewGame()
		return
	}
	r.rearmTimer()
}

// tryStartNewGame deals a new hand if the table has enough eligible
// players and none is already running: it asks the table for the next
// hand, publishes a newGame broadcast with the public state, privately
// delivers each dealt player's hole cards, and arms the turn timer.
func (r *room) tryStartNewGame() {
	if r.hand != nil {
		return
	}
	hand, idxs, err := r.table.StartNewGame(r.genID(), holdem.Config{})
	if err != nil {
		return
	}
	r.hand = hand
	r.handIdxs = idxs
	r.broadcast(wire.NewGame(string(r.id), r.snapshot()))
	for seat, gp := range hand.Players {
		cards := make([]string, len(hand.State.Hands[seat]))
		for i, c := range hand.State.Hands[seat] {
			cards[i] = c.String()
		}
		if d, ok := r.sessions.Get(gp.Info.ID); ok {
			d.Deliver(wire.DealHand(string(r.id), cards))
		}
	}
	r.rearmTimer()
}

func (r *room) cancelTimer() {
	if r.timerArm != nil {
		close(r.timerArm)
		r.timerArm = nil
	}
}

// rearmTimer cancels any previous timer and, if a human decision is
// pending, arms a new one. An auto-acted hand (checkFold/callAny) never
// needs a timer since Round stays in the same betting phase only while
// action genuinely awaits a person.
func (r *room) rearmTimer() {
	r.cancelTimer()
	if r.hand == nil || !bettingRound(r.hand.State.Round) {
		return
	}
	arm := make(chan struct{})
	r.timerArm = arm
	go func() {
		select {
		case <-time.After(TurnTimeout):
			r.ops <- request{kind: opTimerFold, timerArm: arm}
		case <-arm:
		}
	}()
}

// bettingRound reports whether p is one of the four betting streets
// (Preflop through River).
func bettingRound(p holdem.Phase) bool {
	return p >= holdem.Preflop && p <= holdem.River
}

func (r *room) broadcast(msg wire.ServerMessage) {
	for _, sub := range r.subs {
		select {
		case sub <- msg:
		default:
			// Lagging subscriber; drop rather than block the room actor.
		}
	}
}

func (r *room) snapshot() wire.PublicGameState {
	h := r.hand
	players := make([]string, len(h.Players))
	gameActive := []int{}
	roundActive := []int{}
	stacks := make([]int64, len(h.Players))
	bets := make([]int64, len(h.Players))
	board := make([]string, len(h.State.Board))
	for i, c := range h.State.Board {
		board[i] = c.String()
	}
	for i, gp := range h.Players {
		players[i] = string(gp.Info.ID)
		stacks[i] = int64(h.State.Stacks[i])
		bets[i] = int64(h.State.RoundData.PlayerBet[i])
		if h.State.PlayerActive[i] {
			gameActive = append(gameActive, i)
		}
		if h.State.RoundData.RoundActive[i] {
			roundActive = append(roundActive, i)
		}
	}
	toCall := int64(0)
	if bettingRound(h.State.Round) {
		toCall = int64(h.State.RoundData.Bet)
	}
	return wire.PublicGameState{
		ID:                 string(h.ID),
		Players:            players,
		DealerIdx:          h.State.DealerIdx,
		GameActivePlayers:  gameActive,
		RoundActivePlayers: roundActive,
		CurrentPlayerIdx:   h.State.RoundData.ToActIdx,
		CommunityCards:     board,
		Stacks:             stacks,
		Bets:               bets,
		MinRaise:           int64(h.State.RoundData.MinRaise),
		ToCall:             toCall,
		Pot:                int64(h.State.TotalPot),
	}
}
