package adapter

import (
	"github.com/go-html5parse/html5parse/dom"
)

// Project walks a finished subtree built by package dom and replays it,
// node by node, through sink. It is the bridge named by component 9: the
// tree constructor never imports a host tree library directly, and package
// dom (component 4) is itself just the constructor's own minimal working
// model. Project is what lets that finished model become some other
// concrete representation -- a different in-memory tree, a builder for a
// third-party DOM library, anything satisfying Sink -- without the
// constructor or package dom knowing that representation exists.
//
// Project only runs over a tree that has already been fully constructed;
// the constructor's in-flight mutations (adoption agency reparenting,
// foster parenting, template content attachment) all happen against package
// dom first, and only a finished result is ever projected.
func Project(node dom.Node, sink Sink) Node {
	switch n := node.(type) {
	case *dom.Element:
		return projectElement(n, sink)
	case *dom.Comment:
		return sink.CreateComment(n.Data)
	case *dom.Text:
		return sink.CreateText(n.Data)
	case *dom.DocumentType:
		return sink.CreateDoctype(n.Name, n.PublicID, n.SystemID)
	default:
		return nil
	}
}

func projectElement(el *dom.Element, sink Sink) Node {
	attrs := make([]Attribute, 0, el.Attributes.Len())
	for _, a := range el.Attributes.All() {
		attrs = append(attrs, Attribute{Namespace: a.Namespace, Name: a.Name, Value: a.Value})
	}
	out := sink.CreateElement(el.Namespace, el.TagName, attrs)

	children := el.Children()
	if el.TemplateContent != nil {
		children = el.TemplateContent.Children()
	}
	for _, child := range children {
		projected := Project(child, sink)
		if projected != nil {
			sink.Append(out, projected)
		}
	}
	return out
}

// ProjectDocument projects every child of doc (the doctype, if present, and
// the root html element) onto root, which the caller must already have
// created in the host tree to stand in for the document node -- Sink has no
// CreateDocument method, since a document/root object is assumed to be the
// host's own starting point rather than something the parser manufactures.
func ProjectDocument(doc *dom.Document, root Node, sink Sink) {
	if doc.Doctype != nil {
		sink.Append(root, sink.CreateDoctype(doc.Doctype.Name, doc.Doctype.PublicID, doc.Doctype.SystemID))
	}
	for _, child := range doc.Children() {
		if _, isDoctype := child.(*dom.DocumentType); isDoctype {
			continue
		}
		projected := Project(child, sink)
		if projected != nil {
			sink.Append(root, projected)
		}
	}
}

// ProjectFragment projects each top-level node of a parsed fragment onto
// root.
func ProjectFragment(nodes []*dom.Element, root Node, sink Sink) {
	for _, n := range nodes {
		projected := Project(n, sink)
		if projected != nil {
			sink.Append(root, projected)
		}
	}
}
