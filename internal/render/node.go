// Package render describes dashboard views as plain node trees and turns
// them into HTML. Views never touch the network or session state; callers
// build them from data and store or serve the result.
package render

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// Attr is a single element attribute.
type Attr struct {
	Key, Val string
}

// Node is a view description: an element, or a text node when Tag is empty.
type Node struct {
	Tag      string
	ID       string
	Class    string
	Text     string
	Attrs    []Attr
	Children []*Node
}

// Opts mirrors the fields of Node for the El constructor.
type Opts struct {
	ID       string
	Class    string
	Text     string
	Attrs    []Attr
	Children []*Node
}

// El creates an element. Nil children are dropped.
func El(tag string, o Opts) *Node {
	n := &Node{Tag: tag, ID: o.ID, Class: o.Class, Text: o.Text, Attrs: o.Attrs}
	for _, c := range o.Children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Txt creates a text node.
func Txt(s string) *Node {
	return &Node{Text: s}
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

func (n *Node) toHTML() *html.Node {
	if n.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	h := &html.Node{Type: html.ElementNode, Data: n.Tag}
	if n.ID != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: n.ID})
	}
	if n.Class != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if n.Text != "" {
		h.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		h.AppendChild(c.toHTML())
	}
	return h
}

// Render writes n as HTML.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	return html.Render(w, n.toHTML())
}

// RenderDocument writes n preceded by the HTML5 doctype.
func RenderDocument(w io.Writer, n *Node) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return Render(w, n)
}

// String renders n, returning an empty string for nil.
func String(n *Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
