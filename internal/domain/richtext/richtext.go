// Package richtext flattens stored descriptions into plain text.
//
// Descriptions are either legacy plain strings or a serialized document
// tree of nodes carrying optional "text" and nested "content". Decoding
// maps any input onto a closed set of node variants; extraction is total
// over that set and never fails.
package richtext

import (
	"encoding/json"
	"strings"
)

// Node is one of Text, Block or Fragment.
type Node interface {
	node()
}

// Text is a leaf holding literal text.
type Text struct {
	Value string
}

// Block is a document node (doc, paragraph, heading, ...) with optional own text and children.
type Block struct {
	Type    string
	Text    string
	Content Node
}

// Fragment is an ordered sequence of nodes.
type Fragment []Node

func (Text) node()     {}
func (Block) node()    {}
func (Fragment) node() {}

// ExtractText returns the whitespace-normalized plain text of v.
// v may be a raw string, a serialized document, or already-decoded JSON.
func ExtractText(v any) string {
	return Extract(Decode(v))
}

// Decode converts v into a node tree. Unsupported values decode to nil.
func Decode(v any) Node {
	switch t := v.(type) {
	case nil:
		return nil
	case Node:
		return t
	case string:
		return decodeString(t)
	case []byte:
		return decodeString(string(t))
	case json.RawMessage:
		return decodeString(string(t))
	case []any:
		out := make(Fragment, 0, len(t))
		for _, item := range t {
			if n := Decode(item); n != nil {
				out = append(out, n)
			}
		}
		return out
	case []string:
		out := make(Fragment, 0, len(t))
		for _, item := range t {
			out = append(out, decodeString(item))
		}
		return out
	case map[string]any:
		return decodeBlock(t)
	}
	return nil
}

func decodeString(s string) Node {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if looksLikeJSON(s) {
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			return Decode(parsed)
		}
	}
	return Text{Value: s}
}

func decodeBlock(m map[string]any) Node {
	b := Block{}
	if typ, ok := m["type"].(string); ok {
		b.Type = typ
	}
	if text, ok := m["text"].(string); ok {
		b.Text = text
	}
	if content, ok := m["content"]; ok {
		b.Content = Decode(content)
	}
	return b
}

// looksLikeJSON reports whether s is wrapped in matching braces or brackets.
func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

// Extract flattens a node tree. Unknown or nil nodes yield "".
func Extract(n Node) string {
	switch t := n.(type) {
	case Text:
		return NormalizeSpace(t.Value)
	case Block:
		return NormalizeSpace(t.Text + " " + Extract(t.Content))
	case Fragment:
		parts := make([]string, 0, len(t))
		for _, child := range t {
			if s := Extract(child); s != "" {
				parts = append(parts, s)
			}
		}
		return NormalizeSpace(strings.Join(parts, " "))
	}
	return ""
}

// NormalizeSpace collapses every whitespace run to a single space and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
