package ptkgraph

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/pkg/errors"
)

// Check names, in the order Validate runs them.
const (
	CheckUniqueNodeID    = "unique_node_id"
	CheckEdgeReference   = "edge_reference"
	CheckEdgePolarity    = "edge_polarity"
	CheckPolarityPairing = "polarity_pairing"
)

// Violation is one failed invariant, carrying the ids needed to locate it.
type Violation struct {
	Check   string
	NodeIDs []string
	EdgeIDs []string
	Detail  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Check, v.Detail)
}

// Violations lists every invariant a Document fails; empty means valid.
type Violations []Violation

// Err returns nil if there are no violations, otherwise an error wrapping ErrInvalid that lists them all.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d violation(s)", len(vs))
	for _, v := range vs {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return errors.Wrap(ErrInvalid, b.String())
}

// Validate runs every check over doc and returns all violations found.
func Validate(doc *Document) Violations {
	var vs Violations
	nodeIDs := checkUniqueNodeIDs(doc, &vs)
	checkEdgeReferences(doc, nodeIDs, &vs)
	checkEdgePolarity(doc, &vs)
	checkPolarityPairing(doc, &vs)
	return vs
}

func checkUniqueNodeIDs(doc *Document, vs *Violations) *hashset.Set {
	seen := hashset.New()
	for i, n := range doc.Nodes {
		if seen.Contains(n.ID) {
			*vs = append(*vs, Violation{
				Check:   CheckUniqueNodeID,
				NodeIDs: []string{n.ID},
				Detail:  fmt.Sprintf("node id %q repeated at node %d", n.ID, i),
			})
			continue
		}
		seen.Add(n.ID)
	}
	return seen
}

func checkEdgeReferences(doc *Document, nodeIDs *hashset.Set, vs *Violations) {
	for _, e := range doc.Edges {
		for _, end := range [2]struct{ name, id string }{
			{"source", e.Source},
			{"target", e.Target},
		} {
			if !nodeIDs.Contains(end.id) {
				*vs = append(*vs, Violation{
					Check:   CheckEdgeReference,
					NodeIDs: []string{end.id},
					EdgeIDs: []string{e.ID},
					Detail:  fmt.Sprintf("edge %q: %s %q is not a node", e.ID, end.name, end.id),
				})
			}
		}
	}
}

func checkEdgePolarity(doc *Document, vs *Violations) {
	for _, e := range doc.Edges {
		if e.Polarity != 1 && e.Polarity != -1 {
			*vs = append(*vs, Violation{
				Check:   CheckEdgePolarity,
				EdgeIDs: []string{e.ID},
				Detail:  fmt.Sprintf("edge %q: polarity %d is not +1 or -1", e.ID, e.Polarity),
			})
		}
	}
}

// pairKey identifies an unordered node pair joined by edges of one type.
type pairKey struct {
	lo, hi string
	typ    EdgeType
}

type pairing struct {
	plus, minus bool
	edgeIDs     []string
}

func comparePairKeys(a, b interface{}) int {
	ka, kb := a.(pairKey), b.(pairKey)
	if c := strings.Compare(ka.lo, kb.lo); c != 0 {
		return c
	}
	if c := strings.Compare(ka.hi, kb.hi); c != 0 {
		return c
	}
	return int(ka.typ) - int(kb.typ)
}

func checkPolarityPairing(doc *Document, vs *Violations) {
	pairs := treemap.NewWith(comparePairKeys)

	for _, e := range doc.Edges {
		if e.Type != CrossSutra && e.Type != Special {
			continue
		}
		key := pairKey{e.Source, e.Target, e.Type}
		if key.hi < key.lo {
			key.lo, key.hi = key.hi, key.lo
		}

		var pair *pairing
		if val, found := pairs.Get(key); found {
			pair = val.(*pairing)
		} else {
			pair = &pairing{}
			pairs.Put(key, pair)
		}
		pair.edgeIDs = append(pair.edgeIDs, e.ID)
		switch e.Polarity {
		case 1:
			pair.plus = true
		case -1:
			pair.minus = true
		}
	}

	itr := pairs.Iterator()
	for itr.Next() {
		key := itr.Key().(pairKey)
		pair := itr.Value().(*pairing)
		if pair.plus && pair.minus {
			continue
		}
		missing := "+1"
		if pair.plus {
			missing = "-1"
		} else if !pair.minus {
			missing = "+1 and -1"
		}
		*vs = append(*vs, Violation{
			Check:   CheckPolarityPairing,
			NodeIDs: []string{key.lo, key.hi},
			EdgeIDs: pair.edgeIDs,
			Detail:  fmt.Sprintf("%s edges between %q and %q lack polarity %s", key.typ, key.lo, key.hi, missing),
		})
	}
}
