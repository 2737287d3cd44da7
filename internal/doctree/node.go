// Package doctree defines the document tree produced from markdown events,
// plus writers that serialize it for display sinks.
//
// Roles are lowercase strings, loosely HTML-shaped: "doc", "text", "p",
// "h1".."h6", "blockquote", "code-block", "code-line", "syntax", "ul", "ol",
// "li", "task-list", "task-item", "checkbox", "table", "thead", "tr", "th",
// "td", "em", "strong", "del", "code", "a", "figure", "img", "figcaption",
// "footnote-ref", "br", "hr". A node carries either a Literal (leaf content)
// or Children, never both.
package doctree

import (
	"fmt"
	"strings"
)

// Attr is a single string attribute on a Node. Attributes keep insertion
// order so serialized output is deterministic.
type Attr struct {
	Key string
	Val string
}

// Node is one node of the document tree. The tree is built bottom-up, each
// node owned exclusively by its parent, with no back-references.
type Node struct {
	Role     string
	Attrs    []Attr
	Literal  string
	Children []*Node
}

// New returns a node with the given role and children.
func New(role string, children ...*Node) *Node {
	return &Node{Role: role, Children: children}
}

// Text returns a plain text leaf.
func Text(s string) *Node {
	return &Node{Role: "text", Literal: s}
}

// Leaf returns a node carrying literal content under the given role.
func Leaf(role, literal string) *Node {
	return &Node{Role: role, Literal: literal}
}

// WithAttr appends an attribute and returns the node for chaining.
func (n *Node) WithAttr(key, val string) *Node {
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

// SetAttr replaces the attribute if present, appends it otherwise.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Append adds children to the node.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// InnerText flattens all literal content in the subtree, in document order.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.innerText(&b)
	return b.String()
}

func (n *Node) innerText(b *strings.Builder) {
	b.WriteString(n.Literal)
	for _, c := range n.Children {
		c.innerText(b)
	}
}

// String renders a compact single-line form of the subtree, meant for
// debugging and test assertions: role{k=v ...}("literal")[child ...].
// Empty parts are omitted; a bare text leaf prints as text("...").
func (n *Node) String() string {
	var b strings.Builder
	n.debug(&b)
	return b.String()
}

func (n *Node) debug(b *strings.Builder) {
	b.WriteString(n.Role)
	if len(n.Attrs) > 0 {
		b.WriteByte('{')
		for i, a := range n.Attrs {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Val)
		}
		b.WriteByte('}')
	}
	if n.Literal != "" || n.Role == "text" {
		fmt.Fprintf(b, "(%q)", n.Literal)
	}
	if len(n.Children) > 0 {
		b.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.debug(b)
		}
		b.WriteByte(']')
	}
}
