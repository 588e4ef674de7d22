// Package adapter defines the narrow interface through which the tree
// constructor attaches finished nodes to a host tree representation.
//
// The tree constructor builds and walks its own minimal element tree (see
// package dom) to run the HTML5 algorithm: the open-elements stack, the
// active formatting elements list, and the scope predicates all need a
// concrete, addressable node to operate on. The Sink interface in this
// package is the separate, narrower seam: once the constructor has finished
// the dom tree, Project, ProjectDocument and ProjectFragment walk it and
// replay its nodes through a Sink. The constructor itself never calls a
// Sink. A caller that wants the parsed document as some other tree type (an
// existing XML tree, a virtual DOM, a different in-memory representation)
// supplies a Sink (for example through html5.ParseInto) instead of depending
// on the dom package directly.
//
// DOMSink is the reference implementation, a pass-through onto package dom.
// Parse and ParseFragment use no Sink; they return the dom tree directly.
package adapter

// Node is an opaque handle to a node in the host tree. The tree constructor
// never inspects it; every Sink method hands one back and takes one in.
type Node interface{}

// Attribute is a single namespaced attribute passed to CreateElement.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Sink is implemented by a tree representation that the parser's internal
// model can be projected onto. Every method must be a pure translator: it
// never rejects an operation and never raises a parse error of its own --
// malformed input has already been resolved into well-formed tree-mutation
// instructions by the time a Sink method is called.
type Sink interface {
	// CreateElement creates (but does not attach) an element with the given
	// namespace URI and local name, initialised with attrs.
	CreateElement(namespace, localName string, attrs []Attribute) Node

	// CreateComment creates a comment node carrying data.
	CreateComment(data string) Node

	// CreateDoctype creates a DOCTYPE node. publicID and systemID may be empty.
	CreateDoctype(name, publicID, systemID string) Node

	// CreateText creates a text node carrying data.
	CreateText(data string) Node

	// Append attaches child as the last child of parent.
	Append(parent, child Node)

	// InsertBefore attaches child as a child of parent, immediately before
	// ref. If ref is nil, InsertBefore behaves like Append.
	InsertBefore(parent, child, ref Node)

	// Remove detaches child from its current parent.
	Remove(parent, child Node)

	// SetAttribute sets a namespaced attribute on el, creating it if absent.
	SetAttribute(el Node, namespace, name, value string)

	// GetChildren returns parent's children in order.
	GetChildren(parent Node) []Node

	// GetParent returns child's parent, or nil if child is a root.
	GetParent(child Node) Node
}
