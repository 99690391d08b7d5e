// Package session implements the per-connection player actor: it owns
// one client's outbound channel, decodes inbound wire messages and
// routes them to the lobby (table listing) or to a room, and relays a
// room's broadcast stream back to the connection while subscribed.
package session

import (
	"encoding/json"

	"pokerhall/internal/registry"
	"pokerhall/internal/poker"
	"pokerhall/internal/room"
	"pokerhall/internal/wire"
)

// Rooms is the shared room registry every session consults to route a
// room-scoped message.
type Rooms = registry.Registry[poker.RoomId, room.Handle]

type opKind int

const (
	opInbound opKind = iota
	opDeliver
)

type request struct {
	kind opKind
	raw  []byte
	msg  wire.ServerMessage
}

// Handle is the public face of a player's session actor. It satisfies
// room.Deliverer, so rooms can hold it directly without importing this
// package.
type Handle struct {
	ops      chan request
	sessions *room.Sessions
	playerID poker.PlayerId
}

func (h Handle) Deliver(msg wire.ServerMessage) {
	// A room that looked this handle up just before Close may deliver
	// after the mailbox is closed; that send panics and the message is
	// dropped here.
	defer func() { _ = recover() }()
	select {
	case h.ops <- request{kind: opDeliver, msg: msg}:
	default:
		// Session mailbox full; drop rather than block the room actor.
	}
}

// Inbound hands a raw client message to the session for decoding and
// routing. Called from the transport's read loop.
func (h Handle) Inbound(raw []byte) {
	h.ops <- request{kind: opInbound, raw: raw}
}

// Close deregisters this player from the shared session registry and
// then stops the session goroutine. Deregistering first means a room
// that looks the player up after this point misses the lookup; a room
// that obtained the handle just before it and delivers afterwards has
// its message dropped by Deliver.
func (h Handle) Close() {
	h.sessions.Delete(h.playerID)
	close(h.ops)
}

// New starts a session actor for player, writing outbound wire frames
// to out and registering itself in sessions so rooms can deliver
// private messages (hole cards) to this player.
func New(player poker.Player, rooms *Rooms, sessions *room.Sessions, out chan<- []byte) Handle {
	h := Handle{ops: make(chan request, registry.MailboxSize), sessions: sessions, playerID: player.ID}
	s := &session{
		player: player,
		rooms:  rooms,
		out:    out,
	}
	sessions.Set(player.ID, h)
	go s.run(h.ops)
	return h
}

type session struct {
	player poker.Player
	rooms  *Rooms
	out    chan<- []byte

	roomID     poker.RoomId
	subscribed bool
	sub        chan wire.ServerMessage
	unsubscribe func()
}

func (s *session) run(ops chan request) {
	defer s.teardown()
	for req := range ops {
		switch req.kind {
		case opInbound:
			s.handleInbound(req.raw)
		case opDeliver:
			s.sendOut(req.msg)
		}
	}
}

// teardown runs when the session's mailbox is closed (connection gone).
// If the player was subscribed to a room, it asks that room to fold them
// before dropping the subscription. The room accepts the fold only when
// it is that player's turn; otherwise the player stays in the hand until
// the turn timer folds them on their turn. The seat is not removed: the
// player stays seated after the hand completes. Registry deregistration
// already happened synchronously in Close, ahead of the mailbox close
// that triggers this.
func (s *session) teardown() {
	if s.subscribed {
		if h, ok := s.rooms.Get(s.roomID); ok {
			h.Fold(s.player.ID) // best-effort; rejected if no hand, already folded, or not this player's turn
		}
		s.unsubscribe()
	}
}

func (s *session) sendOut(msg wire.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.out <- data
}

func (s *session) handleInbound(raw []byte) {
	msg, err := wire.DecodeClientMessage(raw)
	if err != nil {
		s.sendOut(wire.LobbyError("malformed message"))
		return
	}
	if msg.IsLobby() {
		s.handleLobby(msg)
		return
	}
	s.handleRoom(msg)
}

func (s *session) handleLobby(msg wire.ClientMessage) {
	switch msg.Type {
	case wire.TypeGetTables:
		entries := make([]wire.TableListEntry, 0)
		for _, h := range s.rooms.GetAll() {
			cfg := h.GetTableConfig()
			entries = append(entries, wire.TableListEntry{
				RoomID:      string(cfg.ID),
				Name:        cfg.Name,
				MinPlayers:  cfg.MinPlayers,
				MaxPlayers:  cfg.MaxPlayers,
				SmallBlind:  int64(cfg.SmallBlind),
				BigBlind:    int64(cfg.BigBlind),
				SeatedCount: h.SeatedCount(),
			})
		}
		s.sendOut(wire.TableList(entries))
	default:
		s.sendOut(wire.LobbyError("unknown lobby message type " + msg.Type))
	}
}

func (s *session) handleRoom(msg wire.ClientMessage) {
	h, ok := s.rooms.Get(poker.RoomId(msg.RoomID))
	if !ok {
		s.sendOut(wire.RoomError(msg.RoomID, "no such room"))
		return
	}

	var err error
	switch msg.Type {
	case wire.TypeSubscribe:
		s.subscribeTo(h, poker.RoomId(msg.RoomID))
		return
	case wire.TypeChat:
		text, decErr := wire.DecodeChat(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		h.Chat(s.player.ID, text)
		return
	case wire.TypeSitTable:
		chips, decErr := wire.DecodeSitTable(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		if poker.ChipInt(chips) > poker.DefaultChips {
			err = poker.PreconditionError("Insufficient Chips")
			break
		}
		err = h.SitTable(s.player, poker.ChipInt(chips))
	case wire.TypeBet:
		amount, decErr := wire.DecodeBet(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.Bet(s.player.ID, poker.ChipInt(amount))
	case wire.TypeFold:
		err = h.Fold(s.player.ID)
	case wire.TypeSitOutNextHand:
		on, decErr := wire.DecodeBool(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.SetSitOutNextHand(s.player.ID, on)
	case wire.TypeSitOutNextBigBlind:
		on, decErr := wire.DecodeBool(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.SetSitOutNextBigBlind(s.player.ID, on)
	case wire.TypeWaitForBigBlind:
		on, decErr := wire.DecodeBool(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.SetWaitForBigBlind(s.player.ID, on)
	case wire.TypeCheckFold:
		on, decErr := wire.DecodeBool(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.SetCheckFold(s.player.ID, on)
	case wire.TypeCallAny:
		on, decErr := wire.DecodeBool(msg.Payload)
		if decErr != nil {
			err = decErr
			break
		}
		err = h.SetCallAny(s.player.ID, on)
	default:
		err = poker.ProtocolError("unknown room message type %s", msg.Type)
	}
	if err != nil {
		s.sendOut(wire.RoomError(msg.RoomID, err.Error()))
	}
}

func (s *session) subscribeTo(h room.Handle, roomID poker.RoomId) {
	if s.subscribed {
		if s.roomID == roomID {
			return
		}
		s.unsubscribe()
		s.subscribed = false
	}
	sub := make(chan wire.ServerMessage, registry.MailboxSize)
	cancel := h.Subscribe(s.player.ID, sub)
	s.sub = sub
	s.unsubscribe = cancel
	s.roomID = roomID
	s.subscribed = true
	go s.relay(sub)
}

func (s *session) relay(sub chan wire.ServerMessage) {
	for msg := range sub {
		s.sendOut(msg)
	}
}
