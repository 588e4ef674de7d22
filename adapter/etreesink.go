package adapter

import (
	"github.com/beevik/etree"
)

// EtreeSink projects a parsed tree onto github.com/beevik/etree's XML
// element tree, the second concrete Sink this module ships (the first is
// DOMSink). It exists to prove the seam in Sink is real: the tree
// constructor is never compiled against etree, yet ParseInto can build
// straight into an *etree.Element hierarchy that etree itself can then
// serialise, traverse, or query with its own XPath-lite API.
//
// HTML constructs with no direct etree equivalent are approximated rather
// than rejected, per Sink's contract: a DOCTYPE becomes an etree directive
// (etree has no dedicated doctype token), and a text node is a small
// internal wrapper materialised onto its parent via SetText when attached,
// since etree elements carry character data as a property of the element
// rather than as an addressable child token.
type EtreeSink struct{}

// NewEtreeSink returns a Sink that builds an etree element tree.
func NewEtreeSink() *EtreeSink {
	return &EtreeSink{}
}

type etreeText struct {
	data string
}

func (EtreeSink) CreateElement(namespace, localName string, attrs []Attribute) Node {
	el := etree.NewElement(localName)
	for _, a := range attrs {
		if a.Namespace != "" {
			el.CreateAttr(a.Namespace+":"+a.Name, a.Value)
			continue
		}
		el.CreateAttr(a.Name, a.Value)
	}
	return el
}

func (EtreeSink) CreateComment(data string) Node {
	return etree.NewComment(data)
}

func (EtreeSink) CreateDoctype(name, publicID, systemID string) Node {
	directive := "DOCTYPE " + name
	if publicID != "" {
		directive += ` PUBLIC "` + publicID + `"`
	}
	if systemID != "" {
		directive += ` "` + systemID + `"`
	}
	return etree.NewDirective(directive)
}

func (EtreeSink) CreateText(data string) Node {
	return &etreeText{data: data}
}

func (EtreeSink) Append(parent, child Node) {
	if txt, ok := child.(*etreeText); ok {
		if el, ok := parent.(*etree.Element); ok {
			el.SetText(el.Text() + txt.data)
		}
		return
	}
	switch p := parent.(type) {
	case *etree.Element:
		if tok, ok := child.(etree.Token); ok {
			p.AddChild(tok)
		}
	case *etree.Document:
		if tok, ok := child.(etree.Token); ok {
			p.AddChild(tok)
		}
	}
}

func (s EtreeSink) InsertBefore(parent, child, ref Node) {
	// etree does not expose positional child insertion in its public API;
	// ordering among non-element siblings is not preserved by this Sink.
	s.Append(parent, child)
}

func (EtreeSink) Remove(parent, child Node) {
	tok, ok := child.(etree.Token)
	if !ok {
		return
	}
	switch p := parent.(type) {
	case *etree.Element:
		p.RemoveChild(tok)
	case *etree.Document:
		p.RemoveChild(tok)
	}
}

func (EtreeSink) SetAttribute(el Node, namespace, name, value string) {
	e, ok := el.(*etree.Element)
	if !ok {
		return
	}
	if namespace != "" {
		e.CreateAttr(namespace+":"+name, value)
		return
	}
	e.CreateAttr(name, value)
}

func (EtreeSink) GetChildren(parent Node) []Node {
	e, ok := parent.(*etree.Element)
	if !ok {
		return nil
	}
	kids := e.ChildElements()
	out := make([]Node, len(kids))
	for i, k := range kids {
		out[i] = k
	}
	return out
}

func (EtreeSink) GetParent(child Node) Node {
	e, ok := child.(*etree.Element)
	if !ok {
		return nil
	}
	parent := e.Parent()
	if parent == nil {
		return nil
	}
	return parent
}

var _ Sink = EtreeSink{}
