package holdem

import (
	"pokerhall/card"
	"pokerhall/internal/poker"

	keval "github.com/chehsunliu/poker"
)

// evaluateSeven scores a 7-card hand; lower is better, matching
// github.com/chehsunliu/poker's convention.
func evaluateSeven(cards []card.Card) int32 {
	kc := make([]keval.Card, len(cards))
	for i, c := range cards {
		kc[i] = keval.NewCard(c.String())
	}
	return keval.Evaluate(kc)
}

// showdown ranks every still-active seat's best 7-card hand and awards
// the pot to the single lowest-scoring (best) seat. Ties are not split:
// the lowest-indexed seat among the tied top-ranked seats wins, and
// the pot is never split across more than one all-in contributor —
// both are explicit simplifications relative to a full side-pot engine.
func (h *Hand) showdown() error {
	h.State.Round = Showdown

	best := -1
	var bestScore int32
	for seat, active := range h.State.PlayerActive {
		if !active {
			continue
		}
		seven := make([]card.Card, 0, 7)
		seven = append(seven, h.State.Hands[seat]...)
		seven = append(seven, h.State.Board...)
		score := evaluateSeven(seven)
		if best < 0 || score < bestScore {
			best = seat
			bestScore = score
		}
	}
	if best < 0 {
		return poker.InternalError("showdown reached with no active seats")
	}
	h.State.Round = Complete
	h.awardPot(best)
	return nil
}
