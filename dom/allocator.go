package dom

import "strings"

// Chunk sizes for each pooled node type. Text nodes get the largest chunks,
// elements and attribute sets the next largest; documents get the smallest
// chunk, which avoids wasting memory on documents that only ever parse once.
const (
	elementChunkSize   = 128
	textChunkSize      = 256
	commentChunkSize   = 64
	doctypeChunkSize   = 32
	documentChunkSize  = 8
	fragmentChunkSize  = 64
	attributeChunkSize = 128
)

// NodeAllocator hands out DOM nodes from fixed-size backing arrays instead
// of one heap allocation per node, which matters for documents with tens of
// thousands of elements.
type NodeAllocator struct {
	elements  []Element
	elementAt int

	texts  []Text
	textAt int

	comments  []Comment
	commentAt int

	doctypes  []DocumentType
	doctypeAt int

	documents  []Document
	documentAt int

	fragments  []DocumentFragment
	fragmentAt int

	attributes  []Attributes
	attributeAt int
}

func NewNodeAllocator() *NodeAllocator {
	return &NodeAllocator{}
}

func (a *NodeAllocator) grabElement() *Element {
	if a.elementAt == len(a.elements) {
		a.elements = make([]Element, elementChunkSize)
		a.elementAt = 0
	}
	e := &a.elements[a.elementAt]
	a.elementAt++
	return e
}

func (a *NodeAllocator) grabText() *Text {
	if a.textAt == len(a.texts) {
		a.texts = make([]Text, textChunkSize)
		a.textAt = 0
	}
	t := &a.texts[a.textAt]
	a.textAt++
	return t
}

func (a *NodeAllocator) grabComment() *Comment {
	if a.commentAt == len(a.comments) {
		a.comments = make([]Comment, commentChunkSize)
		a.commentAt = 0
	}
	c := &a.comments[a.commentAt]
	a.commentAt++
	return c
}

func (a *NodeAllocator) grabDoctype() *DocumentType {
	if a.doctypeAt == len(a.doctypes) {
		a.doctypes = make([]DocumentType, doctypeChunkSize)
		a.doctypeAt = 0
	}
	dt := &a.doctypes[a.doctypeAt]
	a.doctypeAt++
	return dt
}

func (a *NodeAllocator) grabDocument() *Document {
	if a.documentAt == len(a.documents) {
		a.documents = make([]Document, documentChunkSize)
		a.documentAt = 0
	}
	d := &a.documents[a.documentAt]
	a.documentAt++
	return d
}

func (a *NodeAllocator) grabFragment() *DocumentFragment {
	if a.fragmentAt == len(a.fragments) {
		a.fragments = make([]DocumentFragment, fragmentChunkSize)
		a.fragmentAt = 0
	}
	df := &a.fragments[a.fragmentAt]
	a.fragmentAt++
	return df
}

func (a *NodeAllocator) grabAttributes() *Attributes {
	if a.attributeAt == len(a.attributes) {
		a.attributes = make([]Attributes, attributeChunkSize)
		a.attributeAt = 0
	}
	attr := &a.attributes[a.attributeAt]
	a.attributeAt++
	attr.items = attr.items[:0] // reused slot may carry a previous document's backing array
	return attr
}

func (a *NodeAllocator) NewDocument() *Document {
	d := a.grabDocument()
	*d = Document{}
	d.bind(d)
	return d
}

func (a *NodeAllocator) NewDocumentFragment() *DocumentFragment {
	df := a.grabFragment()
	*df = DocumentFragment{}
	df.bind(df)
	return df
}

// NewElement builds an HTML element, lowercasing tagName.
func (a *NodeAllocator) NewElement(tagName string) *Element {
	e := a.grabElement()
	*e = Element{
		TagName:    strings.ToLower(tagName),
		Namespace:  NamespaceHTML,
		Attributes: a.grabAttributes(),
	}
	e.bind(e)
	return e
}

func (a *NodeAllocator) NewElementNS(tagName, namespace string) *Element {
	e := a.grabElement()
	*e = Element{
		TagName:    tagName,
		Namespace:  namespace,
		Attributes: a.grabAttributes(),
	}
	e.bind(e)
	return e
}

func (a *NodeAllocator) NewText(data string) *Text {
	t := a.grabText()
	*t = Text{Data: data}
	return t
}

func (a *NodeAllocator) NewComment(data string) *Comment {
	c := a.grabComment()
	*c = Comment{Data: data}
	return c
}

func (a *NodeAllocator) NewDocumentType(name, publicID, systemID string) *DocumentType {
	dt := a.grabDoctype()
	*dt = DocumentType{Name: name, PublicID: publicID, SystemID: systemID}
	return dt
}
