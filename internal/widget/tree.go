// Package widget builds declarative render trees for the day grids and
// renders them to the terminal.
package widget

import "encoding/json"

// Axis is the layout direction of a Stack.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Node is one element of the tree: *Stack, Cell, Text or Spacer.
type Node interface {
	nodeType() string
}

// Stack lays children out along an axis.
type Stack struct {
	Axis     Axis
	Children []Node
}

// Cell is a fixed-size coloured rounded rectangle.
type Cell struct {
	Size         int    `json:"size"`
	Color        string `json:"color"`
	CornerRadius int    `json:"corner_radius"`
	Filled       bool   `json:"filled"`
}

// Text is a styled label. Truncate lets a renderer shorten the value to
// the widget width.
type Text struct {
	Value    string `json:"value"`
	Size     int    `json:"size"`
	Bold     bool   `json:"bold,omitempty"`
	Color    string `json:"color"`
	Truncate bool   `json:"truncate,omitempty"`
}

// Spacer is empty space along the parent's axis.
type Spacer struct {
	Length int `json:"length"`
}

func (*Stack) nodeType() string { return "stack" }
func (Cell) nodeType() string   { return "cell" }
func (Text) nodeType() string   { return "text" }
func (Spacer) nodeType() string { return "spacer" }

// Add appends children and returns the stack.
func (s *Stack) Add(children ...Node) *Stack {
	s.Children = append(s.Children, children...)
	return s
}

// Widget is the root of a tree.
type Widget struct {
	Background string `json:"background"`
	Padding    int    `json:"padding"`
	Width      int    `json:"width"`
	Body       *Stack `json:"body"`
}

// MarshalJSON tags every node with its type.
func (s *Stack) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(s.Children))
	for _, c := range s.Children {
		raw, err := marshalNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, raw)
	}
	return json.Marshal(struct {
		Type     string            `json:"type"`
		Axis     string            `json:"axis"`
		Children []json.RawMessage `json:"children"`
	}{"stack", s.Axis.String(), children})
}

func marshalNode(n Node) (json.RawMessage, error) {
	if s, ok := n.(*Stack); ok {
		return s.MarshalJSON()
	}
	body, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"] = n.nodeType()
	return json.Marshal(fields)
}

// Walk calls fn for every node depth first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	if s, ok := n.(*Stack); ok {
		for _, c := range s.Children {
			Walk(c, fn)
		}
	}
}

// Cells returns every cell in the widget in order.
func (w *Widget) Cells() []Cell {
	var out []Cell
	if w == nil || w.Body == nil {
		return out
	}
	Walk(w.Body, func(n Node) {
		if c, ok := n.(Cell); ok {
			out = append(out, c)
		}
	})
	return out
}

// Texts returns every label value in order.
func (w *Widget) Texts() []string {
	var out []string
	if w == nil || w.Body == nil {
		return out
	}
	Walk(w.Body, func(n Node) {
		if t, ok := n.(Text); ok {
			out = append(out, t.Value)
		}
	})
	return out
}
