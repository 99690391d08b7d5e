package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"pokerhall/internal/bootstrap"
	"pokerhall/internal/poker"
)

func main() {
	srv, err := bootstrap.New(identifyFromQuery)
	if err != nil {
		log.Fatalf("[Server] failed to bootstrap: %v", err)
	}
	defer srv.Chips.Close()

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[Server] starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, srv.Mux()); err != nil {
		log.Fatalf("[Server] failed to start: %v", err)
	}
}

// identifyFromQuery is the placeholder identity resolver: it trusts a
// "player" query parameter as the connecting player's ID, and a
// "username" query parameter as the username (the ID when absent).
// Real authentication (token verification, session cookies) is an
// external collaborator the room/session core does not depend on.
func identifyFromQuery(r *http.Request) (poker.Player, error) {
	id := strings.TrimSpace(r.URL.Query().Get("player"))
	if id == "" {
		return poker.Player{}, poker.ProtocolError("missing player query parameter")
	}
	name := strings.TrimSpace(r.URL.Query().Get("username"))
	if name == "" {
		name = id
	}
	return poker.Player{ID: poker.PlayerId(id), Username: name}, nil
}
