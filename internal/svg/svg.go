// Package svg is a minimal mutable vector tree. Attribute order is kept so
// encoded documents are stable byte for byte.
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// Attr is one attribute of a Node.
type Attr struct {
	Name  string
	Value string
}

// A builds an Attr.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// Node is a drawable primitive or a container of primitives.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
}

// El builds a Node.
func El(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

// Num formats f with the shortest exact representation.
func Num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Get returns the value of attribute name.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Float parses attribute name as a number.
func (n *Node) Float(name string) (float64, bool) {
	v, ok := n.Get(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Set overwrites attribute name or appends it when missing.
func (n *Node) Set(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Del removes attribute name.
func (n *Node) Del(name string) {
	out := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	n.Attrs = out
}

// Append adds children at the end and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first descendant (or n itself) with the given tag.
func (n *Node) Find(tag string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Tag == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node with the given tag in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Tag == tag {
			out = append(out, c)
		}
		return true
	})
	return out
}

// InsertBefore places node right before ref inside ref's parent. It reports
// false when ref is not a descendant of n.
func (n *Node) InsertBefore(ref, node *Node) bool {
	for i, c := range n.Children {
		if c == ref {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = node
			return true
		}
		if c.InsertBefore(ref, node) {
			return true
		}
	}
	return false
}

// Remove detaches node from the subtree rooted at n.
func (n *Node) Remove(node *Node) bool {
	for i, c := range n.Children {
		if c == node {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
		if c.Remove(node) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	out := &Node{Tag: n.Tag, Attrs: append([]Attr(nil), n.Attrs...)}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Encode writes n as XML.
func (n *Node) Encode(w io.Writer) error {
	var buf bytes.Buffer
	n.encode(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes returns the encoded document prefixed with an XML declaration.
func (n *Node) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	n.encode(&buf)
	return buf.Bytes()
}

func (n *Node) encode(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		c.encode(buf)
	}
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteByte('>')
}
