package room

import (
	"testing"
	"time"

	"pokerhall/internal/chipsource"
	"pokerhall/internal/poker"
	"pokerhall/internal/registry"
	"pokerhall/internal/wire"
)

func newTestRoom(t *testing.T, maxPlayers int) Handle {
	t.Helper()
	sessions := registry.New[poker.PlayerId, Deliverer]()
	return New("room1", poker.TableConfig{
		ID:         "room1",
		Name:       "test table",
		MinPlayers: 2,
		MaxPlayers: maxPlayers,
		SmallBlind: 1,
		BigBlind:   2,
	}, sessions, sequentialIDGenerator(), chipsource.NewMemorySource())
}

func sequentialIDGenerator() IDGenerator {
	n := 0
	return func() poker.GameId {
		n++
		return poker.GameId(string(rune('a' + n)))
	}
}

func recvWithin(t *testing.T, ch <-chan wire.ServerMessage, d time.Duration) wire.ServerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d):
		t.Fatalf("timed out waiting for a broadcast")
		return wire.ServerMessage{}
	}
}

func TestTwoPlayerSitStartsHand(t *testing.T) {
	h := newTestRoom(t, 9)

	sub := make(chan wire.ServerMessage, 16)
	cancel := h.Subscribe("p1", sub)
	defer cancel()

	if err := h.SitTable(poker.Player{ID: "p1", Username: "p1"}, 100); err != nil {
		t.Fatalf("p1 sit: %v", err)
	}
	ack := recvWithin(t, sub, time.Second)
	if ack.MessageType != wire.TypeSitTableAck {
		t.Fatalf("first broadcast = %s, want %s", ack.MessageType, wire.TypeSitTableAck)
	}

	if err := h.SitTable(poker.Player{ID: "p2", Username: "p2"}, 100); err != nil {
		t.Fatalf("p2 sit: %v", err)
	}
	ack2 := recvWithin(t, sub, time.Second)
	if ack2.MessageType != wire.TypeSitTableAck {
		t.Fatalf("second broadcast = %s, want %s", ack2.MessageType, wire.TypeSitTableAck)
	}

	newGame := recvWithin(t, sub, time.Second)
	if newGame.MessageType != wire.TypeNewGame {
		t.Fatalf("third broadcast = %s, want %s", newGame.MessageType, wire.TypeNewGame)
	}
	state, ok := newGame.Payload.(wire.PublicGameState)
	if !ok {
		t.Fatalf("newGame payload is %T, want wire.PublicGameState", newGame.Payload)
	}
	if state.Pot != 3 {
		t.Fatalf("pot = %d, want 3 (SB+BB)", state.Pot)
	}
	if state.ToCall != 2 {
		t.Fatalf("toCall = %d, want 2", state.ToCall)
	}
}

func TestBetRejectedOutOfTurn(t *testing.T) {
	h := newTestRoom(t, 9)
	if err := h.SitTable(poker.Player{ID: "p1", Username: "p1"}, 100); err != nil {
		t.Fatalf("p1 sit: %v", err)
	}
	if err := h.SitTable(poker.Player{ID: "p2", Username: "p2"}, 100); err != nil {
		t.Fatalf("p2 sit: %v", err)
	}

	// Seat order is join order: p1 is seat 0 (dealer/big blind here,
	// not first to act), so p1 acting immediately should be rejected.
	if err := h.Bet("p1", 2); err == nil {
		t.Fatalf("expected an out-of-turn bet to be rejected")
	}
}

func TestTableFullRejectsSitTable(t *testing.T) {
	h := newTestRoom(t, 2)

	if err := h.SitTable(poker.Player{ID: "p1"}, 100); err != nil {
		t.Fatalf("p1 sit: %v", err)
	}
	if err := h.SitTable(poker.Player{ID: "p2"}, 100); err != nil {
		t.Fatalf("p2 sit: %v", err)
	}
	if err := h.SitTable(poker.Player{ID: "p3"}, 100); err == nil {
		t.Fatalf("expected a third sit on a 2-max table to be rejected")
	}
}

func TestInsufficientBuyInRejected(t *testing.T) {
	h := newTestRoom(t, 9)
	if err := h.SitTable(poker.Player{ID: "p1"}, 0); err == nil {
		t.Fatalf("expected a non-positive buy-in to be rejected")
	}
}
