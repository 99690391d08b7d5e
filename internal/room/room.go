// Package room implements the per-table actor: a single goroutine
// owning one table.Table and at most one holdem.Hand, serializing every
// operation through a bounded mailbox and fanning hand updates out to
// subscribers over a broadcast-style publisher.
package room

import (
	"time"

	"pokerhall/internal/chipsource"
	"pokerhall/internal/holdem"
	"pokerhall/internal/poker"
	"pokerhall/internal/registry"
	"pokerhall/internal/table"
	"pokerhall/internal/wire"
)

// TurnTimeout is how long a seat is given to act before the room folds
// it automatically.
const TurnTimeout = 30 * time.Second

// Deliverer is the narrow view of a connected player's session that the
// room needs in order to deliver a private message (hole cards). A
// session.Handle implements it; the room package never imports session
// to avoid a import cycle (session.Handle holds a room.Handle).
type Deliverer interface {
	Deliver(msg wire.ServerMessage)
}

// Sessions is the shared registry the room consults to reach a seated
// player's connection for private delivery.
type Sessions = registry.Registry[poker.PlayerId, Deliverer]

// IDGenerator produces a fresh GameId for each new hand.
type IDGenerator func() poker.GameId

type opKind int

const (
	opGetConfig opKind = iota
	opSubscribe
	opUnsubscribe
	opSitTable
	opStandUp
	opChat
	opBet
	opFold
	opSetSitOutNextHand
	opSetSitOutNextBigBlind
	opSetWaitForBigBlind
	opSetCheckFold
	opSetCallAny
	opTimerFold
)

type request struct {
	kind      opKind
	player    poker.PlayerId
	username  string
	text      string
	amount    poker.ChipInt
	flag      bool
	sub       chan wire.ServerMessage
	timerArm  chan struct{}
	reply     chan response
}

type response struct {
	err         error
	config      poker.TableConfig
	seat        int
	seatedCount int
}

// Handle is the public, concurrency-safe face of a room actor.
type Handle struct {
	ID  poker.RoomId
	ops chan request
}

// New starts a room's goroutine over an empty table configured by cfg.
// chips validates and tracks each seat's buy-in against an external
// balance; pass chipsource.NewMemorySource() for a no-op default.
func New(id poker.RoomId, cfg poker.TableConfig, sessions *Sessions, genID IDGenerator, chips chipsource.Source) Handle {
	h := Handle{ID: id, ops: make(chan request, registry.MailboxSize)}
	r := &room{
		id:       id,
		table:    table.New(cfg),
		ops:      h.ops,
		sessions: sessions,
		genID:    genID,
		chips:    chips,
		subs:     make(map[poker.PlayerId]chan wire.ServerMessage),
	}
	go r.run()
	return h
}

func (h Handle) request(req request) response {
	req.reply = make(chan response, 1)
	h.ops <- req
	return <-req.reply
}

// GetTableConfig returns the room's table configuration.
func (h Handle) GetTableConfig() poker.TableConfig {
	return h.request(request{kind: opGetConfig}).config
}

// SeatedCount returns the number of players currently seated.
func (h Handle) SeatedCount() int {
	return h.request(request{kind: opGetConfig}).seatedCount
}

// Subscribe registers sub to receive every broadcast message (chat,
// newGame, gameUpdate, sitTable) for this room. Call the returned
// cancel function to stop receiving.
func (h Handle) Subscribe(player poker.PlayerId, sub chan wire.ServerMessage) func() {
	h.ops <- request{kind: opSubscribe, player: player, sub: sub}
	return func() {
		h.ops <- request{kind: opUnsubscribe, player: player}
	}
}

func (h Handle) SitTable(player poker.Player, buyIn poker.ChipInt) error {
	return h.request(request{kind: opSitTable, player: player.ID, username: player.Username, amount: buyIn}).err
}

func (h Handle) StandUp(player poker.PlayerId) error {
	return h.request(request{kind: opStandUp, player: player}).err
}

func (h Handle) Chat(from poker.PlayerId, message string) {
	h.ops <- request{kind: opChat, player: from, text: message}
}

func (h Handle) Bet(player poker.PlayerId, amount poker.ChipInt) error {
	return h.request(request{kind: opBet, player: player, amount: amount}).err
}

func (h Handle) Fold(player poker.PlayerId) error {
	return h.request(request{kind: opFold, player: player}).err
}

func (h Handle) SetSitOutNextHand(player poker.PlayerId, on bool) error {
	return h.request(request{kind: opSetSitOutNextHand, player: player, flag: on}).err
}

func (h Handle) SetSitOutNextBigBlind(player poker.PlayerId, on bool) error {
	return h.request(request{kind: opSetSitOutNextBigBlind, player: player, flag: on}).err
}

func (h Handle) SetWaitForBigBlind(player poker.PlayerId, on bool) error {
	return h.request(request{kind: opSetWaitForBigBlind, player: player, flag: on}).err
}

func (h Handle) SetCheckFold(player poker.PlayerId, on bool) error {
	return h.request(request{kind: opSetCheckFold, player: player, flag: on}).err
}

func (h Handle) SetCallAny(player poker.PlayerId, on bool) error {
	return h.request(request{kind: opSetCallAny, player: player, flag: on}).err
}

// room is the actor's private state, touched only from run's goroutine.
type room struct {
	id       poker.RoomId
	ops      chan request
	table    *table.Table
	sessions *Sessions
	genID    IDGenerator
	chips    chipsource.Source

	hand     *holdem.Hand
	handIdxs []int // hand seat -> table seat

	subs map[poker.PlayerId]chan wire.ServerMessage

	timerArm chan struct{}
}
