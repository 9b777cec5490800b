// Package normalizer converts raw roster attribute columns into the
// canonical encodings the constraint compiler operates over: discrete
// attributes become integer category ids plus a per-participant
// admissible-id set, numeric attributes become bounded integers: mapping
// external values to dense internal ids before the compiler ever sees them.
package normalizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/gitrdm/teamforge/pkg/roster"
)

// Discrete is the canonical form of one discrete attribute: a stable
// value -> id assignment plus, per participant, the set of admissible ids.
type Discrete struct {
	Attribute string
	// Values holds each distinct value in its assigned id order (Values[id]).
	Values []roster.ScalarValue
	// Admissible[i] is the set of ids participant i may claim for this
	// attribute (more than one element for "_list" cells).
	Admissible [][]int
	// PopCount[v] is the number of participants admitting value id v -
	// the diversify population prior, counting a multi-valued participant
	// once per admissible value per §4.1.
	PopCount []int
}

// Numeric is the canonical form of one numeric attribute.
type Numeric struct {
	Attribute string
	Values    []int // Values[i] is participant i's integer reading.
	Min, Max  int
}

// Normalizer holds the canonical encodings computed for a roster. Discrete
// encodings are built lazily as the compiler requests each attribute and
// cached by attribute name; Numeric encodings are recomputed on every call.
type Normalizer struct {
	roster []roster.Participant
	cache  map[string]*Discrete
}

// New creates a Normalizer over the given roster's participants.
func New(participants []roster.Participant) *Normalizer {
	return &Normalizer{roster: participants, cache: make(map[string]*Discrete)}
}

// Discrete returns the canonical discrete encoding for attribute, computing
// and caching it on first use.
func (n *Normalizer) Discrete(attribute string) (*Discrete, error) {
	if d, ok := n.cache[attribute]; ok {
		return d, nil
	}

	keyToValue := make(map[string]roster.ScalarValue)
	keySeen := make(map[string]int) // first-occurrence index, for tiebreaks
	order := 0

	for _, p := range n.roster {
		cell, ok := p.Attributes[attribute]
		if !ok {
			return nil, fmt.Errorf("%w: %q missing on participant %q", roster.ErrMissingAttribute, attribute, p.ID)
		}
		for _, v := range cell.Values() {
			k := v.Key()
			if _, seen := keyToValue[k]; !seen {
				keyToValue[k] = v
				keySeen[k] = order
				order++
			}
		}
	}

	if len(keyToValue) == 0 {
		return nil, fmt.Errorf("%w: attribute %q", roster.ErrEmptyDomain, attribute)
	}

	keys := make([]string, 0, len(keyToValue))
	for k := range keyToValue {
		keys = append(keys, k)
	}
	// Canonical order: lexicographic on the key, first-occurrence tiebreak
	// (keys are already unique, so the tiebreak only matters when a
	// caller-visible representation collides under Key() - kept for
	// determinism if that ever happens).
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] != keys[j] {
			return keys[i] < keys[j]
		}
		return keySeen[keys[i]] < keySeen[keys[j]]
	})

	idOf := make(map[string]int, len(keys))
	values := make([]roster.ScalarValue, len(keys))
	for id, k := range keys {
		idOf[k] = id
		values[id] = keyToValue[k]
	}

	admissible := make([][]int, len(n.roster))
	popCount := make([]int, len(values))
	for i, p := range n.roster {
		cell := p.Attributes[attribute]
		ids := make([]int, 0, len(cell.Values()))
		for _, v := range cell.Values() {
			id := idOf[v.Key()]
			ids = append(ids, id)
			popCount[id]++
		}
		admissible[i] = ids
	}

	d := &Discrete{Attribute: attribute, Values: values, Admissible: admissible, PopCount: popCount}
	n.cache[attribute] = d
	return d, nil
}

// Numeric returns the canonical numeric encoding for attribute: every
// value cast to an integer with round-half-to-even, per §4.1.
func (n *Normalizer) Numeric(attribute string) (*Numeric, error) {
	values := make([]int, len(n.roster))
	if len(n.roster) == 0 {
		return nil, fmt.Errorf("%w: attribute %q", roster.ErrEmptyDomain, attribute)
	}
	min, max := math.MaxInt, math.MinInt
	for i, p := range n.roster {
		cell, ok := p.Attributes[attribute]
		if !ok {
			return nil, fmt.Errorf("%w: %q missing on participant %q", roster.ErrMissingAttribute, attribute, p.ID)
		}
		if cell.Numeric == nil {
			return nil, fmt.Errorf("%w: %q on participant %q is not numeric", roster.ErrNonNumericAttribute, attribute, p.ID)
		}
		f := *cell.Numeric
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q on participant %q is non-finite", roster.ErrNonNumericAttribute, attribute, p.ID)
		}
		iv := int(math.RoundToEven(f))
		values[i] = iv
		if iv < min {
			min = iv
		}
		if iv > max {
			max = iv
		}
	}
	return &Numeric{Attribute: attribute, Values: values, Min: min, Max: max}, nil
}
