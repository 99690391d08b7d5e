// Package table implements the seating roster and the eligibility and
// dealer-rotation rules that decide who is dealt into the next hand. It
// holds no goroutine of its own; its methods are invoked synchronously
// from inside the room actor's single-writer mailbox, exactly as the
// teacher's table actor drove its own embedded holdem.Game.
package table

import (
	"pokerhall/internal/holdem"
	"pokerhall/internal/poker"
)

// Table is one room's seating roster and dealing history.
type Table struct {
	Config poker.TableConfig
	// Players preserves seat order from sit time: appending adds a new
	// seat at the end, so sitting down never shifts existing seat
	// indices. StandUp removes the seat and shifts later seats down by one.
	Players []poker.TablePlayer

	lastDealerIdx int
	hasDealt      bool
}

// New creates an empty table for cfg.
func New(cfg poker.TableConfig) *Table {
	return &Table{Config: cfg, lastDealerIdx: -1}
}

func (t *Table) indexOf(id poker.PlayerId) int {
	for i, tp := range t.Players {
		if tp.Player.ID == id {
			return i
		}
	}
	return -1
}

// SitDown seats a new player at the end of the table.
func (t *Table) SitDown(p poker.Player, buyIn poker.ChipInt) error {
	if len(t.Players) >= t.Config.MaxPlayers {
		return poker.PreconditionError("table %s is full", t.Config.ID)
	}
	if t.indexOf(p.ID) >= 0 {
		return poker.PreconditionError("player %s is already seated", p.ID)
	}
	if buyIn <= 0 {
		return poker.RulesError("buy-in must be positive")
	}
	t.Players = append(t.Players, poker.TablePlayer{Player: p, Stack: buyIn})
	return nil
}

// StandUp removes a seated player. It is a no-op error (LookupError) if
// the player was never seated.
func (t *Table) StandUp(id poker.PlayerId) error {
	idx := t.indexOf(id)
	if idx < 0 {
		return poker.LookupError("player %s is not seated", id)
	}
	t.Players = append(t.Players[:idx], t.Players[idx+1:]...)
	return nil
}

func (t *Table) setFlag(id poker.PlayerId, set func(tp *poker.TablePlayer)) error {
	idx := t.indexOf(id)
	if idx < 0 {
		return poker.LookupError("player %s is not seated", id)
	}
	set(&t.Players[idx])
	return nil
}

func (t *Table) SetSitOutNextHand(id poker.PlayerId, on bool) error {
	return t.setFlag(id, func(tp *poker.TablePlayer) { tp.SitOutNextHand = on })
}

func (t *Table) SetSitOutNextBigBlind(id poker.PlayerId, on bool) error {
	return t.setFlag(id, func(tp *poker.TablePlayer) { tp.SitOutNextBigBlind = on })
}

func (t *Table) SetWaitForBigBlind(id poker.PlayerId, on bool) error {
	return t.setFlag(id, func(tp *poker.TablePlayer) { tp.WaitForBigBlind = on })
}

// eligible returns the seat indices dealt into the next hand: survivors
// of the last hand in seat order followed by players who joined since,
// also in join order. Because Players already preserves that ordering
// (new seats are always appended), a plain left-to-right filter over
// Players satisfies both parts at once.
//
// Filtering by WaitForBigBlind is intentionally not applied here; see
// the decision recorded in DESIGN.md.
func (t *Table) eligible() []int {
	out := make([]int, 0, len(t.Players))
	for i, tp := range t.Players {
		if !tp.SitOutNextHand {
			out = append(out, i)
		}
	}
	return out
}

// StartNewGame deals a new hand if enough players are eligible. It
// returns the hand, and the mapping from hand seat index to table seat
// index (so the caller can translate actions and sync stacks back).
func (t *Table) StartNewGame(id poker.GameId, cfg holdem.Config) (*holdem.Hand, []int, error) {
	idxs := t.eligible()
	if len(idxs) < t.Config.MinPlayers {
		return nil, nil, poker.PreconditionError("not enough eligible players (%d, need %d)", len(idxs), t.Config.MinPlayers)
	}

	seated := make([]poker.TablePlayer, len(idxs))
	for i, si := range idxs {
		seated[i] = t.Players[si]
	}

	dealerIdx := 0
	if t.hasDealt {
		dealerIdx = (t.lastDealerIdx + 1) % len(idxs)
	}

	cfg.SmallBlind = int64(t.Config.SmallBlind)
	cfg.BigBlind = int64(t.Config.BigBlind)

	hand, err := holdem.New(id, seated, dealerIdx, cfg)
	if err != nil {
		return nil, nil, err
	}
	t.lastDealerIdx = dealerIdx
	t.hasDealt = true
	for _, si := range idxs {
		t.Players[si].SitOutNextHand = false
	}
	return hand, idxs, nil
}

// SyncStacks writes a completed or in-progress hand's stacks back onto
// the seats it was dealt from.
func (t *Table) SyncStacks(hand *holdem.Hand, idxs []int) {
	for i, si := range idxs {
		t.Players[si].Stack = hand.State.Stacks[i]
	}
}
