package poker

import "fmt"

// Evaluation is the outcome of a single fixed-board comparison between
// two players' best 5-of-7 hands.
type Evaluation struct {
	Winner       string   `json:"winner"` // "hero", "villain" or "tie"
	HeroType     HandType `json:"-"`
	VillainType  HandType `json:"-"`
	HeroHand     string   `json:"hero_hand"`
	VillainHand  string   `json:"villain_hand"`
	HeroRank     HandRank `json:"hero_score"`
	VillainRank  HandRank `json:"villain_score"`
	Description  string   `json:"description"`
}

// Compare evaluates hero and villain against a complete 5-card board and
// reports the winner. Pure delegation to Evaluate on each side's 7-card
// union; no randomness. All preconditions are checked before any
// evaluation work.
func Compare(hero, villain, board []Card) (Evaluation, error) {
	if len(hero) != 2 {
		return Evaluation{}, fmt.Errorf("%w: hero must hold exactly 2 cards, got %d", ErrInvalidHandSize, len(hero))
	}
	if len(villain) != 2 {
		return Evaluation{}, fmt.Errorf("%w: villain must hold exactly 2 cards, got %d", ErrInvalidHandSize, len(villain))
	}
	if len(board) != 5 {
		return Evaluation{}, fmt.Errorf("%w: board must hold exactly 5 cards, got %d", ErrInvalidHandSize, len(board))
	}
	if err := checkDistinct(hero, villain, board); err != nil {
		return Evaluation{}, err
	}

	heroRank, err := Evaluate(append(append([]Card{}, hero...), board...))
	if err != nil {
		return Evaluation{}, err
	}
	villainRank, err := Evaluate(append(append([]Card{}, villain...), board...))
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		HeroType:    heroRank.Type(),
		VillainType: villainRank.Type(),
		HeroHand:    heroRank.Type().String(),
		VillainHand: villainRank.Type().String(),
		HeroRank:    heroRank,
		VillainRank: villainRank,
	}

	switch CompareHands(heroRank, villainRank) {
	case 1:
		ev.Winner = "hero"
		ev.Description = fmt.Sprintf("Hero wins with %s", ev.HeroHand)
	case -1:
		ev.Winner = "villain"
		ev.Description = fmt.Sprintf("Villain wins with %s", ev.VillainHand)
	default:
		ev.Winner = "tie"
		ev.Description = fmt.Sprintf("Tie with %s", ev.HeroHand)
	}
	return ev, nil
}

// checkDistinct verifies no card appears twice across the given groups.
func checkDistinct(groups ...[]Card) error {
	var seen Hand
	for _, group := range groups {
		for _, c := range group {
			if seen.HasCard(c) {
				return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
			}
			seen.AddCard(c)
		}
	}
	return nil
}
