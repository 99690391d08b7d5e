package card

import "math/rand"

// Deck is a sequence of cards consumed from the front as they are dealt.
type Deck []Card

// NewDeck returns a full, unshuffled 52-card deck in canonical order.
func NewDeck() Deck {
	d := make(Deck, 0, 52)
	for _, s := range []Suit{Spade, Heart, Club, Diamond} {
		for rank := byte(1); rank <= 13; rank++ {
			d = append(d, New(s, rank))
		}
	}
	return d
}

// Shuffle permutes the deck in place using rng. Callers that need
// reproducible deals supply a seeded *rand.Rand.
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes and returns the top n cards, or false if the deck holds
// fewer than n cards.
func (d *Deck) Draw(n int) ([]Card, bool) {
	if n > len(*d) {
		return nil, false
	}
	out := make([]Card, n)
	copy(out, (*d)[:n])
	*d = (*d)[n:]
	return out, true
}

// DrawOne removes and returns a single card, or Invalid if the deck is
// empty.
func (d *Deck) DrawOne() Card {
	cards, ok := d.Draw(1)
	if !ok {
		return Invalid
	}
	return cards[0]
}

// Len reports how many cards remain.
func (d Deck) Len() int {
	return len(d)
}
