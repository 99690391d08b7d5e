package table

import (
	"testing"

	"pokerhall/internal/holdem"
	"pokerhall/internal/poker"
)

func testConfig(max int) poker.TableConfig {
	return poker.TableConfig{ID: "t1", Name: "test", MinPlayers: 2, MaxPlayers: max, SmallBlind: 1, BigBlind: 2}
}

func TestSitDownRejectsFullTable(t *testing.T) {
	tb := New(testConfig(2))
	if err := tb.SitDown(poker.Player{ID: "p1"}, 100); err != nil {
		t.Fatalf("p1 sit: %v", err)
	}
	if err := tb.SitDown(poker.Player{ID: "p2"}, 100); err != nil {
		t.Fatalf("p2 sit: %v", err)
	}
	if err := tb.SitDown(poker.Player{ID: "p3"}, 100); err == nil {
		t.Fatalf("expected sitting at a full table to be rejected")
	}
}

func TestSitDownRejectsDuplicateSeat(t *testing.T) {
	tb := New(testConfig(9))
	if err := tb.SitDown(poker.Player{ID: "p1"}, 100); err != nil {
		t.Fatalf("p1 sit: %v", err)
	}
	if err := tb.SitDown(poker.Player{ID: "p1"}, 50); err == nil {
		t.Fatalf("expected sitting twice to be rejected")
	}
}

func TestStandUpPreservesOtherSeatOrder(t *testing.T) {
	tb := New(testConfig(9))
	tb.SitDown(poker.Player{ID: "p1"}, 100)
	tb.SitDown(poker.Player{ID: "p2"}, 100)
	tb.SitDown(poker.Player{ID: "p3"}, 100)

	if err := tb.StandUp("p2"); err != nil {
		t.Fatalf("stand up: %v", err)
	}
	if len(tb.Players) != 2 {
		t.Fatalf("len(Players) = %d, want 2", len(tb.Players))
	}
	if tb.Players[0].Player.ID != "p1" || tb.Players[1].Player.ID != "p3" {
		t.Fatalf("unexpected remaining seat order: %+v", tb.Players)
	}
}

func TestStandUpUnknownPlayerIsLookupError(t *testing.T) {
	tb := New(testConfig(9))
	if err := tb.StandUp("nobody"); err == nil {
		t.Fatalf("expected standing up an unseated player to fail")
	}
}

func TestStartNewGameRequiresMinPlayers(t *testing.T) {
	tb := New(testConfig(9))
	tb.SitDown(poker.Player{ID: "p1"}, 100)
	if _, _, err := tb.StartNewGame("g1", holdem.Config{}); err == nil {
		t.Fatalf("expected starting a hand with one seated player to fail")
	}
}

func TestStartNewGameExcludesSitOutNextHand(t *testing.T) {
	tb := New(testConfig(9))
	tb.SitDown(poker.Player{ID: "p1"}, 100)
	tb.SitDown(poker.Player{ID: "p2"}, 100)
	tb.SitDown(poker.Player{ID: "p3"}, 100)
	if err := tb.SetSitOutNextHand("p2", true); err != nil {
		t.Fatalf("SetSitOutNextHand: %v", err)
	}

	hand, idxs, err := tb.StartNewGame("g1", holdem.Config{})
	if err != nil {
		t.Fatalf("StartNewGame: %v", err)
	}
	if len(idxs) != 2 {
		t.Fatalf("dealt %d seats, want 2 (p2 sitting out)", len(idxs))
	}
	for _, gp := range hand.Players {
		if gp.Info.ID == "p2" {
			t.Fatalf("p2 should not have been dealt into the hand")
		}
	}
}

func TestDealerRotatesBetweenHands(t *testing.T) {
	tb := New(testConfig(9))
	tb.SitDown(poker.Player{ID: "p1"}, 100)
	tb.SitDown(poker.Player{ID: "p2"}, 100)
	tb.SitDown(poker.Player{ID: "p3"}, 100)

	hand1, idxs1, err := tb.StartNewGame("g1", holdem.Config{})
	if err != nil {
		t.Fatalf("StartNewGame 1: %v", err)
	}
	tb.SyncStacks(hand1, idxs1)
	if hand1.State.DealerIdx != 0 {
		t.Fatalf("first hand dealerIdx = %d, want 0", hand1.State.DealerIdx)
	}

	hand2, _, err := tb.StartNewGame("g2", holdem.Config{})
	if err != nil {
		t.Fatalf("StartNewGame 2: %v", err)
	}
	if hand2.State.DealerIdx != 1 {
		t.Fatalf("second hand dealerIdx = %d, want 1", hand2.State.DealerIdx)
	}
}
