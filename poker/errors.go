package poker

import "errors"

// Error kinds reported by the core. All are synchronous and non-retryable;
// callers are expected to match with errors.Is and translate.
var (
	// ErrCardFormat reports malformed card text.
	ErrCardFormat = errors.New("invalid card format")

	// ErrInvalidHandSize reports the wrong number of cards for an operation.
	ErrInvalidHandSize = errors.New("invalid hand size")

	// ErrDuplicateCard reports the same card appearing twice in one input.
	ErrDuplicateCard = errors.New("duplicate card")

	// ErrInsufficientCards reports a deal exceeding the cards remaining.
	ErrInsufficientCards = errors.New("insufficient cards in deck")

	// ErrCardNotFound reports removal of a card the deck does not hold.
	ErrCardNotFound = errors.New("card not in deck")
)
