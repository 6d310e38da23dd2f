package ptkgraph

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"lukechampine.com/blake3"
)

var (
	ErrMalformed = errors.New("malformed ptk document")
	ErrInvalid   = errors.New("ptk document failed validation")
)

// EdgeType tags the kind of relationship an Edge records.
type EdgeType uint8

const (
	WithinLine EdgeType = iota
	CrossSutra
	Special

	numEdgeTypes
)

var edgeTypeTokens = [numEdgeTypes]string{
	WithinLine: "within_line",
	CrossSutra: "cross_sutra",
	Special:    "special",
}

func (t EdgeType) String() string {
	if t < numEdgeTypes {
		return edgeTypeTokens[t]
	}
	return "EdgeType(?)"
}

func (t EdgeType) MarshalText() ([]byte, error) {
	if t >= numEdgeTypes {
		return nil, errors.Errorf("bad edge type %d", t)
	}
	return []byte(edgeTypeTokens[t]), nil
}

func (t *EdgeType) UnmarshalText(text []byte) error {
	for i, token := range edgeTypeTokens {
		if token == string(text) {
			*t = EdgeType(i)
			return nil
		}
	}
	return errors.Wrapf(ErrMalformed, "unknown edge type %q", text)
}

// Document is a PTK graph document.
//
// Meta, RenderHints and Group.Key are carried as raw JSON and never interpreted.
type Document struct {
	PTKVersion  string          `json:"ptk_version"`
	Universe    string          `json:"universe"`
	Meta        json.RawMessage `json:"meta"`
	Nodes       []Node          `json:"nodes"`
	Edges       []Edge          `json:"edges"`
	Groups      []Group         `json:"groups"`
	RenderHints json.RawMessage `json:"render_hints"`
}

type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Sanskrit *string  `json:"sanskrit,omitempty"`
	Line     uint32   `json:"line"`
	Pos      uint32   `json:"pos"`
	Features []string `json:"features"`
}

type Edge struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     EdgeType `json:"type"`
	Polarity int32    `json:"polarity"`
	Flow     Flow     `json:"flow"`
}

// Flow holds the rendering flow of an Edge.
type Flow struct {
	Dash   [2]uint32 `json:"dash"`
	Speed  float64   `json:"speed"`
	Weight float64   `json:"weight"`
}

type Group struct {
	Name    string          `json:"name"`
	Key     json.RawMessage `json:"key"`
	NodeIDs []string        `json:"node_ids"`
}

// Parse decodes a PTK document, requiring every field to be present (except a node's sanskrit).
// Any decoding failure wraps ErrMalformed.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, malformed(err, "document")
	}
	return doc, nil
}

// Marshal re-serializes this Document.  Raw values are emitted with their key order intact.
func (doc *Document) Marshal() ([]byte, error) {
	return json.Marshal(doc)
}

// Digest returns the hex blake3-256 digest of a raw document.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (doc *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	return decodeStrict(data, (*plain)(doc), "document",
		"ptk_version", "universe", "meta", "nodes", "edges", "groups", "render_hints")
}

func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	return decodeStrict(data, (*plain)(n), "node",
		"id", "label", "line", "pos", "features")
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	type plain Edge
	return decodeStrict(data, (*plain)(e), "edge",
		"id", "source", "target", "type", "polarity", "flow")
}

func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	return decodeStrict(data, (*plain)(g), "group",
		"name", "key", "node_ids")
}

func (f *Flow) UnmarshalJSON(data []byte) error {
	var flow struct {
		Dash   []uint32 `json:"dash"`
		Speed  float64  `json:"speed"`
		Weight float64  `json:"weight"`
	}
	if err := decodeStrict(data, &flow, "flow", "dash", "speed", "weight"); err != nil {
		return err
	}
	if len(flow.Dash) != 2 {
		return errors.Wrapf(ErrMalformed, "flow: dash has %d entries, want 2", len(flow.Dash))
	}
	f.Dash = [2]uint32{flow.Dash[0], flow.Dash[1]}
	f.Speed = flow.Speed
	f.Weight = flow.Weight
	return nil
}

func decodeStrict(data []byte, into any, what string, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return malformed(err, what)
	}
	for _, key := range required {
		if _, present := fields[key]; !present {
			return errors.Wrapf(ErrMalformed, "%s: missing field %q", what, key)
		}
	}
	if err := json.Unmarshal(data, into); err != nil {
		return malformed(err, what)
	}
	return nil
}

func malformed(err error, what string) error {
	if errors.Is(err, ErrMalformed) {
		return err
	}
	return errors.Wrapf(ErrMalformed, "%s: %v", what, err)
}
