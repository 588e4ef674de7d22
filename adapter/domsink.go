package adapter

import (
	"github.com/go-html5parse/html5parse/dom"
)

// DOMSink is the reference Sink: it projects the constructor's internal
// element tree onto itself, i.e. onto package dom's Node types. Parse and
// ParseFragment do not use it; they return the constructor's *dom.Document /
// []*dom.Element directly.
type DOMSink struct{}

// NewDOMSink returns the default dom-backed Sink.
func NewDOMSink() *DOMSink {
	return &DOMSink{}
}

func (DOMSink) CreateElement(namespace, localName string, attrs []Attribute) Node {
	el := dom.NewElementNS(localName, namespace)
	for _, a := range attrs {
		el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
	}
	return el
}

func (DOMSink) CreateComment(data string) Node {
	return dom.NewComment(data)
}

func (DOMSink) CreateDoctype(name, publicID, systemID string) Node {
	return dom.NewDocumentType(name, publicID, systemID)
}

func (DOMSink) CreateText(data string) Node {
	return dom.NewText(data)
}

func (DOMSink) Append(parent, child Node) {
	parentNode, ok := parent.(dom.Node)
	if !ok {
		return
	}
	childNode, ok := child.(dom.Node)
	if !ok {
		return
	}
	parentNode.AppendChild(childNode)
}

func (DOMSink) InsertBefore(parent, child, ref Node) {
	parentNode, ok := parent.(dom.Node)
	if !ok {
		return
	}
	childNode, ok := child.(dom.Node)
	if !ok {
		return
	}
	if ref == nil {
		parentNode.AppendChild(childNode)
		return
	}
	refNode, ok := ref.(dom.Node)
	if !ok {
		parentNode.AppendChild(childNode)
		return
	}
	parentNode.InsertBefore(childNode, refNode)
}

func (DOMSink) Remove(parent, child Node) {
	parentNode, ok := parent.(dom.Node)
	if !ok {
		return
	}
	childNode, ok := child.(dom.Node)
	if !ok {
		return
	}
	parentNode.RemoveChild(childNode)
}

func (DOMSink) SetAttribute(el Node, namespace, name, value string) {
	elem, ok := el.(*dom.Element)
	if !ok {
		return
	}
	elem.Attributes.SetNS(namespace, name, value)
}

func (DOMSink) GetChildren(parent Node) []Node {
	parentNode, ok := parent.(dom.Node)
	if !ok {
		return nil
	}
	children := parentNode.Children()
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

func (DOMSink) GetParent(child Node) Node {
	childNode, ok := child.(dom.Node)
	if !ok {
		return nil
	}
	parent := childNode.Parent()
	if parent == nil {
		return nil
	}
	return parent
}

var _ Sink = DOMSink{}
