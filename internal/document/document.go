// Package document provides path-based lookups over raw JSON documents.
//
// Lookups never fail on missing paths. A missing field yields a Node for which
// Exists reports false, so callers decide which absences matter and only fail
// on validation.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrMalformed is returned by Parse when the input is not valid JSON.
var ErrMalformed = errors.New("malformed JSON document")

// Node is a view of one value inside a JSON document.
// The zero value is a missing node.
type Node struct {
	raw  []byte
	kind jsonparser.ValueType
}

// Parse wraps raw JSON bytes in a Node.
// It returns a nil Node when data is empty, whitespace only or the literal null,
// all of which mean no document was sent.
func Parse(data []byte) (*Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, ErrMalformed
	}

	value, kind, _, err := jsonparser.Get(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if kind == jsonparser.Null {
		return nil, nil
	}
	return &Node{raw: value, kind: kind}, nil
}

// Field walks the given path of object keys and returns the node found there,
// or a missing node when any segment is absent or the walk hits a non-object.
// Array elements can be addressed with "[i]" segments. When an object repeats
// a key, the last occurrence wins.
func (n Node) Field(path ...string) Node {
	current := n
	for _, key := range path {
		current = current.child(key)
		if !current.Exists() {
			return Node{}
		}
	}
	return current
}

func (n Node) child(key string) Node {
	switch n.kind {
	case jsonparser.Object:
		// ObjectEach hands over keys already unescaped
		var found Node
		err := jsonparser.ObjectEach(n.raw, func(k, value []byte, kind jsonparser.ValueType, _ int) error {
			if string(k) == key {
				found = Node{raw: value, kind: kind}
			}
			return nil
		})
		if err != nil {
			return Node{}
		}
		return found
	case jsonparser.Array:
		value, kind, _, err := jsonparser.Get(n.raw, key)
		if err != nil {
			return Node{}
		}
		return Node{raw: value, kind: kind}
	default:
		return Node{}
	}
}

// Exists reports whether the node was present in the document.
func (n Node) Exists() bool {
	return n.kind != jsonparser.NotExist && n.kind != jsonparser.Unknown
}

// IsNull reports whether the node is an explicit JSON null.
func (n Node) IsNull() bool {
	return n.kind == jsonparser.Null
}

// IsObject reports whether the node is a JSON object.
func (n Node) IsObject() bool {
	return n.kind == jsonparser.Object
}

// Text returns the decoded value of a string node.
// The boolean is false for any other kind, including missing nodes.
func (n Node) Text() (string, bool) {
	if n.kind != jsonparser.String {
		return "", false
	}
	s, err := jsonparser.ParseString(n.raw)
	if err != nil {
		return string(n.raw), true
	}
	return s, true
}

// TextOrEmpty returns the decoded string value, or "" for anything else.
func (n Node) TextOrEmpty() string {
	s, _ := n.Text()
	return s
}

// String renders the node for messages: decoded text for strings, raw JSON
// for every other present value, and an empty string for missing nodes.
func (n Node) String() string {
	if s, ok := n.Text(); ok {
		return s
	}
	if !n.Exists() {
		return ""
	}
	return string(n.raw)
}

// Raw returns the node's bytes as they appear in the document.
// String nodes are returned without their surrounding quotes.
func (n Node) Raw() []byte {
	return n.raw
}
