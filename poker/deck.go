package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// Deck represents a standard 52-card deck. A Deck is owned by the caller
// that created it and must not be shared between goroutines.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full 52-card deck with explicit RNG. The order is
// deterministic (clubs through spades, deuce through ace) until shuffled.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
}

// Shuffle shuffles the remaining cards in place using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards.
// Fails with ErrInsufficientCards when n exceeds the cards remaining,
// leaving the deck untouched.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remove removes each given card from the deck. Fails with ErrCardNotFound
// if any card is absent or repeated within the call, in which case the deck
// is left untouched. This guards against dealing the same card twice.
func (d *Deck) Remove(cards ...Card) error {
	var remove Hand
	for _, c := range cards {
		if !d.contains(c) || remove.HasCard(c) {
			return fmt.Errorf("%w: %s", ErrCardNotFound, c)
		}
		remove.AddCard(c)
	}
	kept := d.cards[:0]
	for _, c := range d.cards {
		if !remove.HasCard(c) {
			kept = append(kept, c)
		}
	}
	d.cards = kept
	return nil
}

func (d *Deck) contains(c Card) bool {
	for _, have := range d.cards {
		if have == c {
			return true
		}
	}
	return false
}

// Reset restores the deck to the full 52 cards, discarding prior
// removals and shuffle state.
func (d *Deck) Reset() {
	d.fill()
}

// CardsRemaining returns the number of cards left in the deck.
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Remaining returns a copy of the cards still in the deck, in order.
func (d *Deck) Remaining() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
