package poker

import "fmt"

// HoleCardCategory represents the strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

var rankNames = [13]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

// HoleNotation converts two hole cards to standard range notation:
// "AA" for pairs, "AKs" suited, "72o" offsuit. The higher rank always
// comes first.
func HoleNotation(c1, c2 Card) string {
	r1, r2 := c1.Rank(), c2.Rank()
	if r1 < r2 {
		r1, r2 = r2, r1
	}
	if r1 == r2 {
		return string([]byte{rankChars[r1], rankChars[r2]})
	}
	suffix := byte('o')
	if c1.Suit() == c2.Suit() {
		suffix = 's'
	}
	return string([]byte{rankChars[r1], rankChars[r2], suffix})
}

// HoleName returns a spoken name for a starting hand, e.g.
// "Pocket Aces", "Ace-King suited", "Seven-Two offsuit".
func HoleName(c1, c2 Card) string {
	r1, r2 := c1.Rank(), c2.Rank()
	if r1 < r2 {
		r1, r2 = r2, r1
	}
	if r1 == r2 {
		if r1 == Six {
			return "Pocket Sixes"
		}
		return fmt.Sprintf("Pocket %ss", rankNames[r1])
	}
	kind := "offsuit"
	if c1.Suit() == c2.Suit() {
		kind = "suited"
	}
	return fmt.Sprintf("%s-%s %s", rankNames[r1], rankNames[r2], kind)
}

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited
// broadway), Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(c1, c2 Card) HoleCardCategory {
	r1, r2 := c1.Rank(), c2.Rank()
	if r1 > 12 || r2 > 12 {
		return CategoryUnknown
	}

	small, big := r1, r2
	if small > big {
		small, big = big, small
	}
	suited := c1.Suit() == c2.Suit()
	isPair := small == big

	if isPair && small >= Jack {
		return CategoryPremium
	}
	if small == King && big == Ace {
		return CategoryPremium
	}

	if isPair && small == Ten {
		return CategoryStrong
	}
	if big == Ace && (small == Queen || small == Jack) {
		return CategoryStrong
	}

	if isPair && small >= Seven && small <= Nine {
		return CategoryMedium
	}
	if suited && small >= Ten {
		return CategoryMedium
	}

	if isPair {
		return CategoryWeak
	}
	if suited && big-small <= 2 {
		return CategoryWeak
	}

	return CategoryTrash
}
