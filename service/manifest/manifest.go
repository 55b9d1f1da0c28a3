// Package manifest describes module trees declaratively and builds them.
package manifest

import (
	"errors"
	"fmt"
)

// Kinds of nodes.
const (
	KindComposite = "composite"
	KindLeaf      = "leaf"
)

// Node describes one unit.
type Node struct {
	Name     string                 `json:"name" yaml:"name" toml:"name"`
	Kind     string                 `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Hook     string                 `json:"hook,omitempty" yaml:"hook,omitempty" toml:"hook,omitempty"`
	Params   map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Children []*Node                `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// IsComposite reports whether the node builds a composite. Nodes without a
// kind are composites when they have children.
func (n *Node) IsComposite() bool {
	if n.Kind == "" {
		return len(n.Children) > 0
	}
	return n.Kind == KindComposite
}

// Manifest describes a whole tree: the root name and its direct children.
type Manifest struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Children []*Node `json:"children" yaml:"children" toml:"children"`
}

// Validate checks names and kinds of every node.
func (m *Manifest) Validate() error {
	if len(m.Children) == 0 {
		return errors.New("manifest has no children")
	}
	return validate(m.Children, m.Name)
}

func validate(nodes []*Node, parent string) error {
	for i, node := range nodes {
		if node == nil {
			return fmt.Errorf("%v: child %d is empty", parent, i)
		}
		if node.Name == "" {
			return fmt.Errorf("%v: child %d has no name", parent, i)
		}
		switch node.Kind {
		case "", KindComposite:
		case KindLeaf:
			if len(node.Children) > 0 {
				return fmt.Errorf("%v: leaf %v cannot have children", parent, node.Name)
			}
		default:
			return fmt.Errorf("%v: unsupported kind %q of %v", parent, node.Kind, node.Name)
		}
		if err := validate(node.Children, node.Name); err != nil {
			return err
		}
	}
	return nil
}
