package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank constants (0-12, deuce through ace)
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit constants
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card represents a single playing card as a one-bit uint64.
// Bit position = suit*13 + rank, so a Card is also a singleton Hand and
// card sets compose with bitwise OR.
type Card uint64

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint64(suit)*13 + uint64(rank))
}

func (c Card) index() int {
	return bits.TrailingZeros64(uint64(c))
}

// Rank returns the card's rank (0-12, Two..Ace).
func (c Card) Rank() uint8 {
	return uint8(c.index() % 13)
}

// Suit returns the card's suit (0-3, Clubs..Spades).
func (c Card) Suit() uint8 {
	return uint8(c.index() / 13)
}

// String returns the canonical two-character form, e.g. "As" or "Td".
func (c Card) String() string {
	r, s := c.Rank(), c.Suit()
	if r > 12 || s > 3 {
		return "??"
	}
	return string([]byte{rankChars[r], suitChars[s]})
}

// ParseCard parses a two-character card like "As" or "Td".
// Failures wrap ErrCardFormat.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q must be exactly 2 characters", ErrCardFormat, s)
	}
	rank := strings.IndexByte(rankChars, s[0])
	if rank < 0 {
		return 0, fmt.Errorf("%w: unknown rank %q in %q", ErrCardFormat, s[0], s)
	}
	suit := strings.IndexByte(suitChars, s[1])
	if suit < 0 {
		return 0, fmt.Errorf("%w: unknown suit %q in %q", ErrCardFormat, s[1], s)
	}
	return NewCard(uint8(rank), uint8(suit)), nil
}

// ParseCards parses concatenated card text like "AsKh" into cards.
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has odd length", ErrCardFormat, s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards parses concatenated card text and panics on error.
// Intended for tests and fixed tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards as space-separated text ("As Kh Qd").
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Hand is a bitfield of up to 52 cards. It doubles as a card set:
// adding a card twice is a no-op, so CountCards detects duplicates
// across concatenated inputs.
type Hand uint64

// NewHand creates a hand from the given cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard reports whether the hand contains the card.
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// CountCards returns the number of distinct cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the 13-bit rank mask for a suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16((uint64(h) >> (uint64(suit) * 13)) & 0x1FFF)
}

// Cards expands the bitfield back into individual cards, lowest bit first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	v := uint64(h)
	for v != 0 {
		low := v & -v
		cards = append(cards, Card(low))
		v &^= low
	}
	return cards
}
