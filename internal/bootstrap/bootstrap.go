// Package bootstrap wires the shared registries, the chip source, and
// the seeded tables together before handing them to the gateway.
package bootstrap

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"pokerhall/internal/chipsource"
	"pokerhall/internal/gateway"
	"pokerhall/internal/poker"
	"pokerhall/internal/registry"
	"pokerhall/internal/room"
	"pokerhall/internal/session"
)

// Server bundles everything cmd/server needs to start listening.
type Server struct {
	Gateway *gateway.Gateway
	Chips   chipsource.Source
	Rooms   *session.Rooms
}

// defaultTables seeds a single Pocket Rocket Dreams heads-up-to-full-ring
// table at startup.
var defaultTables = []poker.TableConfig{
	{
		ID:         "69420",
		Name:       "Pocket Rocket Dreams",
		MinPlayers: 2,
		MaxPlayers: 9,
		SmallBlind: 1,
		BigBlind:   2,
	},
}

// New constructs the registries, chip source and seeded rooms, and
// returns a Server ready to be mounted onto an http.ServeMux.
func New(identify gateway.IdentityFunc) (*Server, error) {
	chips, chipsMode, err := chipsource.NewFromEnv()
	if err != nil {
		return nil, err
	}
	log.Printf("bootstrap: chip source mode=%s", chipsMode)

	sessions := registry.New[poker.PlayerId, room.Deliverer]()
	rooms := registry.New[poker.RoomId, room.Handle]()

	genID := func() poker.GameId {
		return poker.GameId(uuid.NewString())
	}

	for _, cfg := range defaultTables {
		h := room.New(poker.RoomId(cfg.ID), cfg, sessions, genID, chips)
		rooms.Set(poker.RoomId(cfg.ID), h)
		log.Printf("bootstrap: seeded room %s (%s)", cfg.ID, cfg.Name)
	}

	gw := gateway.New(identify, rooms, sessions)

	return &Server{Gateway: gw, Chips: chips, Rooms: rooms}, nil
}

// Mux builds the HTTP handler passed directly to http.ListenAndServe:
// /ws for the gateway, /health for liveness.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Gateway)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
