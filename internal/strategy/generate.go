package strategy

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lox/holdem-analyzer/internal/fileutil"
)

// handRanking orders all 169 starting hands from strongest to weakest, a
// Sklansky-Malmuth style equity ranking. Range construction takes prefixes
// of this list.
var handRanking = []string{
	// Premium
	"AA", "KK", "QQ", "AKs", "JJ",
	// Strong
	"AQs", "TT", "AKo", "AJs", "KQs", "99",
	// Good
	"ATs", "AQo", "KJs", "88", "QJs", "KTs", "A9s", "AJo",
	// Playable
	"77", "KQo", "QTs", "A8s", "K9s", "JTs", "A5s", "A7s",
	"KJo", "A4s", "A6s", "66", "QJo", "A3s",
	// Marginal
	"T9s", "55", "A2s", "KTo", "J9s", "Q9s", "ATo", "K8s",
	"QTo", "44", "98s", "JTo", "K7s",
	// Speculative
	"33", "87s", "Q8s", "T8s", "K6s", "76s", "J8s", "22",
	"K5s", "97s", "K4s", "65s", "K9o", "K3s", "86s", "T7s",
	"Q7s", "K2s", "54s", "Q9o", "75s", "J9o", "96s",
	// Weak suited
	"64s", "J7s", "T9o", "Q6s", "85s", "53s", "A9o", "Q5s",
	"T6s", "74s", "98o", "Q4s", "43s", "J6s", "95s", "Q3s",
	"87o", "A8o", "63s", "Q2s", "J5s", "84s", "52s", "T8o",
	// Weak
	"76o", "97o", "J4s", "J8o", "A7o", "J3s", "73s", "T5s",
	"42s", "65o", "J2s", "A5o", "A6o", "86o", "54o", "T4s",
	"32s", "T3s", "75o", "96o", "A4o", "T2s", "Q8o",
	// Very weak
	"64o", "A3o", "K8o", "85o", "Q7o", "T7o", "J7o", "53o",
	"A2o", "74o", "K7o", "95o", "Q6o", "43o", "K6o", "63o",
	"94s", "84o", "J6o", "T6o",
	// Trash
	"K5o", "52o", "93s", "Q5o", "K4o", "83s", "73o", "Q4o",
	"92s", "K3o", "42o", "82s", "Q3o", "K2o", "62s", "72s",
	"32o", "Q2o", "94o", "J5o", "93o", "J4o", "83o", "92o",
	"J3o", "82o", "J2o", "72o", "62o", "T5o", "T4o", "T3o",
	"T2o",
}

// openingRanges gives the fraction of hands each position raises first-in.
var openingRanges = map[Position]float64{
	UTG: 0.15,
	MP:  0.20,
	CO:  0.30,
	BTN: 0.50,
	SB:  0.40,
}

// positionStrength scales EV estimates; later positions realise more.
var positionStrength = map[Position]float64{
	UTG: 0.6,
	MP:  0.7,
	CO:  0.85,
	BTN: 1.0,
	SB:  0.9,
}

type defensePcts struct {
	call     float64
	threeBet float64
}

// bbDefense keys the big blind's calling and 3-bet fractions by the seat
// that opened.
var bbDefense = map[Position]defensePcts{
	UTG: {call: 0.10, threeBet: 0.05},
	MP:  {call: 0.12, threeBet: 0.06},
	CO:  {call: 0.18, threeBet: 0.08},
	BTN: {call: 0.25, threeBet: 0.12},
	SB:  {call: 0.30, threeBet: 0.15},
}

var stackDepths = []string{"100bb", "50bb", "20bb"}

// handIndex returns a hand's position in the ranking, 0 strongest. Unknown
// notation ranks below everything.
func handIndex(hand string) int {
	for i, h := range handRanking {
		if h == hand {
			return i
		}
	}
	return len(handRanking)
}

// evEstimate derives a rough EV in big blinds from the hand's percentile,
// linear from +3 for the best hand to -1 for the worst, scaled by position.
func evEstimate(hand string, strength float64) float64 {
	percentile := 1 - float64(handIndex(hand))/float64(len(handRanking))
	return round2((percentile*4 - 1) * strength)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// openingRange builds the raise-first-in range for a position at a stack
// depth. The top half of the range raises pure; the bottom half mixes with
// fold at a frequency that tapers toward 0.5.
func openingRange(position Position, stack string) map[string]Suggestion {
	pct, ok := openingRanges[position]
	if !ok {
		pct = 0.20
	}
	strength, ok := positionStrength[position]
	if !ok {
		strength = 0.7
	}

	inRange := int(float64(len(handRanking)) * pct)
	action := ActionRaise
	switch stack {
	case "20bb":
		inRange = int(float64(inRange) * 0.7)
		if position == BTN || position == SB {
			action = ActionAllIn
		}
	case "50bb":
		inRange = int(float64(inRange) * 0.9)
	}

	result := make(map[string]Suggestion, len(handRanking))
	for i, hand := range handRanking {
		ev := evEstimate(hand, strength)
		switch {
		case i < inRange/2:
			result[hand] = Suggestion{
				Action:    action,
				Frequency: 1.0,
				EV:        math.Max(ev, 0.1),
			}
		case i < inRange:
			half := float64(inRange) / 2
			freq := math.Max(0.5, 1.0-(float64(i)-half)/half*0.5)
			result[hand] = Suggestion{
				Action:               action,
				Frequency:            round2(freq),
				EV:                   math.Max(ev, 0),
				AlternativeAction:    ActionFold,
				AlternativeFrequency: round2(1 - freq),
			}
		default:
			result[hand] = Suggestion{
				Action:    ActionFold,
				Frequency: 1.0,
				EV:        round2(math.Min(ev, -0.1)),
			}
		}
	}
	return result
}

// bbDefenseRange builds the big blind's response to an open from attacker.
// The range is layered: a polarized 3-bet slice on top, a calling slice
// below it, fold underneath.
func bbDefenseRange(attacker Position, stack string) map[string]Suggestion {
	pcts, ok := bbDefense[attacker]
	if !ok {
		pcts = defensePcts{call: 0.15, threeBet: 0.07}
	}

	n3bet := int(float64(len(handRanking)) * pcts.threeBet)
	nCall := int(float64(len(handRanking)) * pcts.call)

	result := make(map[string]Suggestion, len(handRanking))
	for i, hand := range handRanking {
		// Out of position penalty on EV.
		ev := evEstimate(hand, 0.5)
		switch {
		case i < n3bet:
			freq := 1.0
			if float64(i) >= float64(n3bet)*0.6 {
				freq = 0.7
			}
			result[hand] = Suggestion{
				Action:    ActionRaise,
				Frequency: freq,
				EV:        math.Max(ev+0.5, 0.2),
			}
		case i < n3bet+nCall:
			freq := 1.0
			if float64(i) >= float64(n3bet)+float64(nCall)*0.5 {
				freq = 0.8
			}
			result[hand] = Suggestion{
				Action:    ActionCall,
				Frequency: freq,
				EV:        math.Max(ev, -0.2),
			}
		default:
			result[hand] = Suggestion{
				Action:    ActionFold,
				Frequency: 1.0,
				EV:        round2(math.Min(ev, -0.3)),
			}
		}
	}
	return result
}

var positionOrder = map[Position]int{UTG: 0, MP: 1, CO: 2, BTN: 3, SB: 4, BB: 5}

// facingRaiseRange builds defender's response to attacker's open for
// non-blind defenders. In-position defenders continue wider; everyone
// tightens against earlier-position opens.
func facingRaiseRange(defender, attacker Position, stack string) map[string]Suggestion {
	tightness := 1.0 - float64(positionOrder[attacker])*0.12

	base3bet, baseCall := 0.06, 0.10
	if positionOrder[defender] > positionOrder[attacker] {
		base3bet *= 1.3
		baseCall *= 1.4
	} else {
		base3bet *= 0.8
		baseCall *= 0.7
	}

	n3bet := int(float64(len(handRanking)) * base3bet * tightness)
	nCall := int(float64(len(handRanking)) * baseCall * tightness)

	switch stack {
	case "20bb":
		n3bet = int(float64(n3bet) * 1.5)
		nCall = int(float64(nCall) * 0.5)
	case "50bb":
		n3bet = int(float64(n3bet) * 1.2)
		nCall = int(float64(nCall) * 0.8)
	}

	result := make(map[string]Suggestion, len(handRanking))
	for i, hand := range handRanking {
		ev := evEstimate(hand, 0.6)
		switch {
		case i < n3bet:
			freq := 1.0
			if float64(i) >= float64(n3bet)*0.5 {
				freq = 0.7
			}
			result[hand] = Suggestion{
				Action:    ActionRaise,
				Frequency: freq,
				EV:        math.Max(ev+0.3, 0.1),
			}
		case i < n3bet+nCall:
			freq := 1.0
			if float64(i) >= float64(n3bet)+float64(nCall)*0.6 {
				freq = 0.75
			}
			result[hand] = Suggestion{
				Action:    ActionCall,
				Frequency: freq,
				EV:        math.Max(ev, -0.3),
			}
		default:
			result[hand] = Suggestion{
				Action:    ActionFold,
				Frequency: 1.0,
				EV:        round2(math.Min(ev, -0.2)),
			}
		}
	}
	return result
}

// Generate builds the full preflop database: raise-first-in ranges per
// opening seat, every attacker-vs-defender scenario, and facing-raise
// defense ranges for the in-position seats.
func Generate() Database {
	db := Database{}

	for _, position := range []Position{UTG, MP, CO, BTN, SB} {
		key := fmt.Sprintf("%s_open", position)
		db[key] = map[string]map[string]Suggestion{}
		for _, stack := range stackDepths {
			db[key][stack] = openingRange(position, stack)
		}
	}

	for _, attacker := range Positions {
		for _, defender := range Positions {
			if attacker == defender {
				continue
			}
			key := ScenarioKey(attacker, defender)
			db[key] = map[string]map[string]Suggestion{}
			for _, stack := range stackDepths {
				if defender == BB {
					db[key][stack] = bbDefenseRange(attacker, stack)
				} else {
					db[key][stack] = openingRange(attacker, stack)
				}
			}
		}
	}

	for _, defender := range []Position{MP, CO, BTN, SB} {
		for _, attacker := range Positions {
			if positionOrder[defender] <= positionOrder[attacker] {
				continue
			}
			key := fmt.Sprintf("%s_faces_%s", defender, attacker)
			if _, exists := db[key]; exists {
				continue
			}
			db[key] = map[string]map[string]Suggestion{}
			for _, stack := range stackDepths {
				db[key][stack] = facingRaiseRange(defender, attacker, stack)
			}
		}
	}

	return db
}

// Save writes a database as indented JSON. The write is atomic so a server
// reloading the table never observes a partial file.
func Save(db Database, path string) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding strategy table: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing strategy table: %w", err)
	}
	return nil
}
