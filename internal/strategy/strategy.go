// Package strategy serves pre-computed preflop recommendations from a
// lookup table keyed by scenario, stack depth and hand notation. Lookups
// are static after load, so a single Table can be shared freely.
package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/holdem-analyzer/poker"
)

// Action is a recommended preflop move.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all_in"
	ActionCheck Action = "check"
	ActionBet   Action = "bet"
)

// Position is a 6-max table seat.
type Position string

const (
	UTG Position = "UTG"
	MP  Position = "MP"
	CO  Position = "CO"
	BTN Position = "BTN"
	SB  Position = "SB"
	BB  Position = "BB"
)

// Positions lists every seat in table order.
var Positions = []Position{UTG, MP, CO, BTN, SB, BB}

// ErrInvalidPosition reports a seat name outside the 6-max set.
var ErrInvalidPosition = errors.New("unknown position")

// ParsePosition normalises and validates a seat name.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// Suggestion is the recommended line for one hand in one spot. Mixed
// strategies carry an alternative action with its own frequency.
type Suggestion struct {
	Action               Action  `json:"action"`
	Frequency            float64 `json:"frequency"`
	EV                   float64 `json:"ev"`
	AlternativeAction    Action  `json:"alternative_action,omitempty"`
	AlternativeFrequency float64 `json:"alternative_frequency,omitempty"`
}

// DefaultSuggestion is returned for hands absent from the table.
var DefaultSuggestion = Suggestion{Action: ActionFold, Frequency: 1.0}

// standardStacks are the depths assumed when a scenario lists none.
var standardStacks = []int{20, 50, 100}

// Database maps scenario -> stack bucket -> hand notation -> suggestion.
type Database = map[string]map[string]map[string]Suggestion

// Table is a read-only view over a loaded database.
type Table struct {
	db Database
}

// NewTable wraps an in-memory database.
func NewTable(db Database) *Table {
	if db == nil {
		db = Database{}
	}
	return &Table{db: db}
}

// Load reads a JSON database from path. A missing file yields an empty
// table rather than an error; every lookup then falls back to
// DefaultSuggestion.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading strategy table: %w", err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parsing strategy table %s: %w", path, err)
	}
	return NewTable(db), nil
}

// Empty reports whether the table holds no scenarios.
func (t *Table) Empty() bool {
	return len(t.db) == 0
}

// Scenarios returns the scenario keys in sorted order.
func (t *Table) Scenarios() []string {
	keys := make([]string, 0, len(t.db))
	for k := range t.db {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stacks returns the stack buckets available for a scenario, sorted.
func (t *Table) Stacks(scenario string) []string {
	keys := make([]string, 0, len(t.db[scenario]))
	for k := range t.db[scenario] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Suggestion looks up one hand. The second return reports whether the hand
// was present; absent hands get DefaultSuggestion.
func (t *Table) Suggestion(scenario, stack, hand string) (Suggestion, bool) {
	if s, ok := t.db[scenario][stack][hand]; ok {
		return s, true
	}
	return DefaultSuggestion, false
}

// ScenarioKey builds the lookup key for hero acting against villain,
// e.g. "BTN_vs_BB".
func ScenarioKey(hero, villain Position) string {
	return fmt.Sprintf("%s_vs_%s", hero, villain)
}

// NearestStack maps an arbitrary stack size in big blinds onto the closest
// bucket the scenario actually has. Equidistant sizes resolve to the
// smaller bucket. Scenarios without parseable buckets fall back to the
// standard 20/50/100 depths.
func (t *Table) NearestStack(scenario string, stack int) string {
	candidates := standardStacks
	if buckets := t.db[scenario]; len(buckets) > 0 {
		parsed := make([]int, 0, len(buckets))
		for key := range buckets {
			if v, err := strconv.Atoi(strings.TrimSuffix(key, "bb")); err == nil {
				parsed = append(parsed, v)
			}
		}
		if len(parsed) > 0 {
			candidates = parsed
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		d, bestD := abs(c-stack), abs(best-stack)
		if d < bestD || (d == bestD && c < best) {
			best = c
		}
	}
	return fmt.Sprintf("%dbb", best)
}

// SpotAnalysis is the full answer for one preflop spot.
type SpotAnalysis struct {
	Hand         string     `json:"hand"`
	Scenario     string     `json:"scenario"`
	Stack        string     `json:"stack"`
	Suggestion   Suggestion `json:"suggestion"`
	FoundInTable bool       `json:"found_in_database"`
}

// AnalyzeSpot resolves hero's hole cards and positions into a table lookup.
func (t *Table) AnalyzeSpot(heroPos, villainPos Position, stack int, hole []poker.Card) (SpotAnalysis, error) {
	if _, err := ParsePosition(string(heroPos)); err != nil {
		return SpotAnalysis{}, err
	}
	if _, err := ParsePosition(string(villainPos)); err != nil {
		return SpotAnalysis{}, err
	}
	if len(hole) != 2 {
		return SpotAnalysis{}, fmt.Errorf("need exactly 2 hole cards, got %d: %w",
			len(hole), poker.ErrInvalidHandSize)
	}
	if hole[0] == hole[1] {
		return SpotAnalysis{}, fmt.Errorf("%s appears twice: %w",
			hole[0], poker.ErrDuplicateCard)
	}

	hand := poker.HoleNotation(hole[0], hole[1])
	scenario := ScenarioKey(heroPos, villainPos)
	bucket := t.NearestStack(scenario, stack)
	suggestion, found := t.Suggestion(scenario, bucket, hand)

	return SpotAnalysis{
		Hand:         hand,
		Scenario:     scenario,
		Stack:        bucket,
		Suggestion:   suggestion,
		FoundInTable: found,
	}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
