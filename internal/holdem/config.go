package holdem

import "pokerhall/card"

// Config parameterizes a single hand. Seed, ForcedDealerSeat and
// DeckOverride exist so tests can deal a reproducible hand; production
// callers leave them at their zero values.
type Config struct {
	SmallBlind int64
	BigBlind   int64

	// Seed seeds the shuffle RNG. Zero means "seed from crypto/rand".
	Seed int64

	// ForcedDealerSeat overrides the dealer seat chosen by the table.
	ForcedDealerSeat *int

	// DeckOverride, if non-empty, is drawn from verbatim instead of a
	// shuffled 52-card deck. Cards are drawn from the front.
	DeckOverride []card.Card
}
