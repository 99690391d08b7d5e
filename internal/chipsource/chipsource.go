// Package chipsource implements the injectable buy-in validation hook:
// before a player's SitTable request is applied to a table, the room
// asks a Source to reserve that many chips from whatever external
// balance backs the player's account; when they stand up, their
// remaining stack is released back. The hook is deliberately external
// to the room/table/hand core: a small interface behind an env-selected
// backend with a safe in-memory default.
package chipsource

import (
	"context"
	"errors"

	"pokerhall/internal/poker"
)

// ErrInsufficientBalance is returned by Reserve when the player's
// external balance cannot cover the requested buy-in.
var ErrInsufficientBalance = errors.New("chipsource: insufficient balance")

// Source validates and tracks chip reservations against an external
// balance store.
type Source interface {
	Reserve(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error
	Release(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error
	Close() error
}

// memorySource always approves reservations; it is the zero-config
// default when no backing store is configured.
type memorySource struct{}

// NewMemorySource returns a Source that never rejects a buy-in and
// tracks no external balance at all.
func NewMemorySource() Source { return memorySource{} }

func (memorySource) Reserve(context.Context, poker.PlayerId, poker.ChipInt) error { return nil }
func (memorySource) Release(context.Context, poker.PlayerId, poker.ChipInt) error { return nil }
func (memorySource) Close() error                                                { return nil }
