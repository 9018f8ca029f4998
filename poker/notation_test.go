package poker

import "testing"

func TestHoleNotation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  string
	}{
		{"AsAh", "AA"},
		{"AsKs", "AKs"},
		{"AsKh", "AKo"},
		{"KhAs", "AKo"},
		{"7c2d", "72o"},
		{"2d7c", "72o"},
		{"Td9d", "T9s"},
		{"2c2s", "22"},
	}

	for _, tc := range tests {
		t.Run(tc.cards, func(t *testing.T) {
			t.Parallel()
			cards := MustParseCards(tc.cards)
			if got := HoleNotation(cards[0], cards[1]); got != tc.want {
				t.Errorf("HoleNotation(%s) = %q, want %q", tc.cards, got, tc.want)
			}
		})
	}
}

func TestHoleName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  string
	}{
		{"AsAh", "Pocket Aces"},
		{"AsKs", "Ace-King suited"},
		{"AsKh", "Ace-King offsuit"},
		{"7c2d", "Seven-Two offsuit"},
		{"2c2s", "Pocket Twos"},
		{"JdTd", "Jack-Ten suited"},
	}

	for _, tc := range tests {
		t.Run(tc.cards, func(t *testing.T) {
			t.Parallel()
			cards := MustParseCards(tc.cards)
			if got := HoleName(cards[0], cards[1]); got != tc.want {
				t.Errorf("HoleName(%s) = %q, want %q", tc.cards, got, tc.want)
			}
		})
	}
}

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  HoleCardCategory
	}{
		{"AsAh", CategoryPremium},
		{"JcJd", CategoryPremium},
		{"AsKh", CategoryPremium},
		{"TsTh", CategoryStrong},
		{"AsQh", CategoryStrong},
		{"AsJh", CategoryStrong},
		{"9s9h", CategoryMedium},
		{"KsQs", CategoryMedium},
		{"5s5h", CategoryWeak},
		{"8s7s", CategoryWeak},
		{"7c2d", CategoryTrash},
		{"Kh4c", CategoryTrash},
	}

	for _, tc := range tests {
		t.Run(tc.cards, func(t *testing.T) {
			t.Parallel()
			cards := MustParseCards(tc.cards)
			if got := CategorizeHoleCards(cards[0], cards[1]); got != tc.want {
				t.Errorf("CategorizeHoleCards(%s) = %s, want %s", tc.cards, got, tc.want)
			}
		})
	}
}
