// Package roster holds the team-formation engine's boundary-stable data
// model: the roster of participants, the constraint specification, the
// request/response wire shapes, and the error kinds every downstream
// package (normalizer, compiler, model builder, search driver, publisher,
// evaluator) shares. Keeping these types in one leaf package, the way the
// teacher keeps its Var/Domain/FDVariable primitives in one package, lets
// every other package use the same definitions from roster instead of
// declaring its own.
package roster

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConstraintKind names one of the four supported objective encodings.
type ConstraintKind string

const (
	Cluster        ConstraintKind = "cluster"
	ClusterNumeric ConstraintKind = "cluster_numeric"
	Different      ConstraintKind = "different"
	Diversify      ConstraintKind = "diversify"
)

// Valid reports whether k is one of the four supported kinds.
func (k ConstraintKind) Valid() bool {
	switch k {
	case Cluster, ClusterNumeric, Different, Diversify:
		return true
	}
	return false
}

// ScalarValue is a single discrete cell value: string, bool, or int.
type ScalarValue struct {
	raw any
}

// NewScalarValue wraps a string/bool/int Go value as a ScalarValue.
func NewScalarValue(v any) ScalarValue { return ScalarValue{raw: v} }

// Key returns a canonical, comparable string form used for id assignment
// and sorting, e.g. "s:Manager", "b:true", "i:5" - the type tag avoids
// collisions between, say, the string "5" and the int 5.
func (s ScalarValue) Key() string {
	switch v := s.raw.(type) {
	case string:
		return "s:" + v
	case bool:
		return "b:" + strconv.FormatBool(v)
	case int:
		return "i:" + strconv.Itoa(v)
	case float64:
		if v == float64(int64(v)) {
			return "i:" + strconv.FormatInt(int64(v), 10)
		}
		return "f:" + strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("?:%v", v)
	}
}

func (s ScalarValue) String() string { return fmt.Sprintf("%v", s.raw) }

// AttrValue is the decoded form of one participant attribute cell: either
// a single scalar, a multi-valued set (for "_list" attributes), or a
// numeric reading. A numeric cell populates both Numeric and Scalar, so it
// can also be used as a discrete value; otherwise exactly one is populated.
type AttrValue struct {
	Scalar  *ScalarValue
	Multi   []ScalarValue
	Numeric *float64
}

// UnmarshalJSON accepts a bare scalar, a JSON array, or a semicolon
// delimited string for multi-valued cells - §6.1's "accept both and
// produce identical S(i,A)" requirement.
func (a *AttrValue) UnmarshalJSON(data []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		a.Multi = make([]ScalarValue, 0, len(arr))
		for _, raw := range arr {
			sv, err := decodeScalar(raw)
			if err != nil {
				return err
			}
			a.Multi = append(a.Multi, sv)
		}
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		a.Numeric = &v
		sv := NewScalarValue(v)
		a.Scalar = &sv
	case string:
		if strings.Contains(v, ";") {
			parts := strings.Split(v, ";")
			a.Multi = make([]ScalarValue, 0, len(parts))
			for _, p := range parts {
				a.Multi = append(a.Multi, NewScalarValue(strings.TrimSpace(p)))
			}
			return nil
		}
		sv := NewScalarValue(v)
		a.Scalar = &sv
	case bool:
		sv := NewScalarValue(v)
		a.Scalar = &sv
	default:
		return fmt.Errorf("roster: unsupported attribute cell type %T", raw)
	}
	return nil
}

func decodeScalar(raw json.RawMessage) (ScalarValue, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ScalarValue{}, err
	}
	return NewScalarValue(v), nil
}

// Values returns every scalar admissible for this cell - one element for
// a single-valued cell, |Multi| elements for a multi-valued one.
func (a AttrValue) Values() []ScalarValue {
	if a.Multi != nil {
		return a.Multi
	}
	if a.Scalar != nil {
		return []ScalarValue{*a.Scalar}
	}
	return nil
}

// IsMultiValued reports whether this cell carries a set rather than one value.
func (a AttrValue) IsMultiValued() bool { return a.Multi != nil }

// Participant is one roster row: an opaque identifier and a typed
// attribute map.
type Participant struct {
	ID         string               `json:"id"`
	Attributes map[string]AttrValue `json:"-"`
}

// UnmarshalJSON decodes a participant from a flat JSON object, treating a
// top-level "id" field specially and everything else as an attribute -
// matching §6.1's `{ <attr>: <value>, ... }` shape.
func (p *Participant) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Attributes = make(map[string]AttrValue, len(raw))
	for k, v := range raw {
		if k == "id" {
			var id any
			if err := json.Unmarshal(v, &id); err != nil {
				return err
			}
			switch t := id.(type) {
			case string:
				p.ID = t
			case float64:
				p.ID = strconv.FormatFloat(t, 'f', -1, 64)
			default:
				p.ID = fmt.Sprintf("%v", t)
			}
			continue
		}
		var av AttrValue
		if err := json.Unmarshal(v, &av); err != nil {
			return fmt.Errorf("roster: attribute %q: %w", k, err)
		}
		p.Attributes[k] = av
	}
	return nil
}

// ConstraintSpec is one declared composition objective.
type ConstraintSpec struct {
	Attribute string         `json:"attribute"`
	Kind      ConstraintKind `json:"type"`
	Weight    float64        `json:"weight"`
}

// Request is the full solve request, §6.1.
type Request struct {
	Participants   []Participant    `json:"participants"`
	Constraints    []ConstraintSpec `json:"constraints"`
	TargetTeamSize int              `json:"target_team_size"`
	LessThanTarget bool             `json:"less_than_target"`
	MaxTime        time.Duration    `json:"-"`
}

type requestWire struct {
	Participants   []Participant    `json:"participants"`
	Constraints    []ConstraintSpec `json:"constraints"`
	TargetTeamSize int              `json:"target_team_size"`
	LessThanTarget bool             `json:"less_than_target"`
	MaxTime        *int             `json:"max_time"`
}

// UnmarshalJSON decodes the §6.1 payload, applying the default max_time of
// 60 seconds when the field is absent.
func (r *Request) UnmarshalJSON(data []byte) error {
	var w requestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Participants = w.Participants
	r.Constraints = w.Constraints
	r.TargetTeamSize = w.TargetTeamSize
	r.LessThanTarget = w.LessThanTarget
	if w.MaxTime != nil {
		r.MaxTime = time.Duration(*w.MaxTime) * time.Second
	} else {
		r.MaxTime = 60 * time.Second
	}
	return nil
}

// Validate enforces the structural checks of §7 BadRequest, independent
// of any particular attribute's data (the normalizer's Discrete and Numeric
// report non-numeric or empty attributes when they encode them).
func (r *Request) Validate() error {
	if len(r.Participants) < 3 {
		return fmt.Errorf("%w: need at least 3 participants, got %d", ErrBadRequest, len(r.Participants))
	}
	if r.TargetTeamSize <= 2 {
		return fmt.Errorf("%w: target_team_size must be > 2, got %d", ErrBadRequest, r.TargetTeamSize)
	}
	if r.MaxTime <= 0 {
		return fmt.Errorf("%w: max_time must be > 0", ErrBadRequest)
	}
	seen := make(map[string]bool, len(r.Participants))
	for i, p := range r.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d missing id", ErrBadRequest, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate participant id %q", ErrBadRequest, p.ID)
		}
		seen[p.ID] = true
	}
	for _, c := range r.Constraints {
		if !c.Kind.Valid() {
			return fmt.Errorf("%w: unknown constraint type %q", ErrBadRequest, c.Kind)
		}
		if c.Weight <= 0 {
			return fmt.Errorf("%w: constraint weight must be > 0, got %v", ErrBadRequest, c.Weight)
		}
		for i, p := range r.Participants {
			if _, ok := p.Attributes[c.Attribute]; !ok {
				return fmt.Errorf("%w: attribute %q missing on participant %d (%s)", ErrMissingAttribute, c.Attribute, i, p.ID)
			}
		}
	}
	return nil
}
