package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pokerhall/internal/chipsource"
	"pokerhall/internal/poker"
	"pokerhall/internal/registry"
	"pokerhall/internal/room"
	"pokerhall/internal/wire"
)

func TestServeHTTPUpgradesAndRoutesLobby(t *testing.T) {
	rooms := registry.New[poker.RoomId, room.Handle]()
	sessions := registry.New[poker.PlayerId, room.Deliverer]()
	cfg := poker.TableConfig{ID: "69420", Name: "Pocket Rocket Dreams", MinPlayers: 2, MaxPlayers: 9, SmallBlind: 1, BigBlind: 2}
	h := room.New("69420", cfg, sessions, func() poker.GameId { return "g1" }, chipsource.NewMemorySource())
	rooms.Set("69420", h)

	gw := New(func(r *http.Request) (poker.Player, error) {
		id := r.URL.Query().Get("player")
		return poker.Player{ID: poker.PlayerId(id), Username: id}, nil
	}, rooms, sessions)

	srv := httptest.NewServer(gw)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player=p1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"GetTables"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg wire.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.MessageType != wire.TypeTableList {
		t.Fatalf("messageType = %s, want %s", msg.MessageType, wire.TypeTableList)
	}
}

func TestServeHTTPRejectsUnauthenticated(t *testing.T) {
	rooms := registry.New[poker.RoomId, room.Handle]()
	sessions := registry.New[poker.PlayerId, room.Deliverer]()

	gw := New(func(r *http.Request) (poker.Player, error) {
		return poker.Player{}, poker.ProtocolError("missing player query parameter")
	}, rooms, sessions)

	srv := httptest.NewServer(gw)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for an unauthenticated connection")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected a 401 response, got %+v", resp)
	}
}
