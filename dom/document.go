package dom

// QuirksMode records which of the three rendering modes a document parsed
// into, per the "update the current document's quirks mode" step.
type QuirksMode int

const (
	NoQuirks      QuirksMode = iota // standards mode
	Quirks                          // quirks mode
	LimitedQuirks                   // almost standards mode
)

// Document is the root of a parsed tree.
type Document struct {
	container

	Doctype    *DocumentType
	QuirksMode QuirksMode
}

func NewDocument() *Document {
	d := &Document{}
	d.bind(d)
	return d
}

func (d *Document) Type() NodeType { return DocumentNodeType }

func (d *Document) Clone(deep bool) Node {
	clone := &Document{QuirksMode: d.QuirksMode}
	clone.bind(clone)
	if d.Doctype != nil {
		clone.Doctype = d.Doctype.Clone(false).(*DocumentType)
	}
	if deep {
		cloneChildrenInto(clone, &d.container)
	}
	return clone
}

// DocumentElement returns the document's sole element child, the <html>
// element, or nil if none was ever inserted.
func (d *Document) DocumentElement() *Element {
	return firstElementChild(d, "")
}

func (d *Document) Head() *Element {
	if html := d.DocumentElement(); html != nil {
		return firstElementChild(html, "head")
	}
	return nil
}

func (d *Document) Body() *Element {
	if html := d.DocumentElement(); html != nil {
		return firstElementChild(html, "body")
	}
	return nil
}

// Title returns the text content of the first <title> under <head>, or ""
// if the document has none.
func (d *Document) Title() string {
	head := d.Head()
	if head == nil {
		return ""
	}
	if title := firstElementChild(head, "title"); title != nil {
		return title.Text()
	}
	return ""
}

// firstElementChild returns the first direct *Element child of n whose
// TagName matches tag, or the first element child at all when tag is "".
func firstElementChild(n Node, tag string) *Element {
	for _, child := range n.Children() {
		if el, ok := child.(*Element); ok && (tag == "" || el.TagName == tag) {
			return el
		}
	}
	return nil
}

// DocumentType is a DOCTYPE declaration; the HTML parser only ever produces
// at most one, as the document's first child.
type DocumentType struct {
	parent Node

	Name     string
	PublicID string
	SystemID string
}

func NewDocumentType(name, publicID, systemID string) *DocumentType {
	return &DocumentType{Name: name, PublicID: publicID, SystemID: systemID}
}

func (dt *DocumentType) Type() NodeType { return DoctypeNodeType }

func (dt *DocumentType) Parent() Node { return dt.parent }

func (dt *DocumentType) SetParent(parent Node) { dt.parent = parent }

func (dt *DocumentType) Children() []Node { return nil }

func (dt *DocumentType) AppendChild(_ Node) {}

func (dt *DocumentType) InsertBefore(_, _ Node) {}

func (dt *DocumentType) RemoveChild(_ Node) {}

func (dt *DocumentType) ReplaceChild(_, _ Node) Node { return nil }

func (dt *DocumentType) HasChildNodes() bool { return false }

func (dt *DocumentType) Clone(_ bool) Node {
	return &DocumentType{Name: dt.Name, PublicID: dt.PublicID, SystemID: dt.SystemID}
}

// DocumentFragment holds the content of a <template> element, or the
// synthetic root used while parsing an HTML fragment.
type DocumentFragment struct {
	container
}

func NewDocumentFragment() *DocumentFragment {
	df := &DocumentFragment{}
	df.bind(df)
	return df
}

func (df *DocumentFragment) Type() NodeType { return DocumentNodeType }

func (df *DocumentFragment) Clone(deep bool) Node {
	clone := &DocumentFragment{}
	clone.bind(clone)
	if deep {
		cloneChildrenInto(clone, &df.container)
	}
	return clone
}
