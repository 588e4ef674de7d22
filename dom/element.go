package dom

import "strings"

// Namespace URIs for the three vocabularies the tree constructor produces
// elements in.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
)

// Element is an HTML, SVG, or MathML element.
type Element struct {
	container

	TagName   string
	Namespace string

	Attributes *Attributes

	// TemplateContent holds the fragment a <template> element's children are
	// actually inserted into; nil for every other element.
	TemplateContent *DocumentFragment
}

// NewElement builds an HTML element, lowercasing tagName per the HTML
// parsing rules.
func NewElement(tagName string) *Element {
	e := &Element{
		TagName:    strings.ToLower(tagName),
		Namespace:  NamespaceHTML,
		Attributes: NewAttributes(),
	}
	e.bind(e)
	return e
}

// NewElementNS builds an element in a foreign namespace. Foreign tag names
// keep their original case.
func NewElementNS(tagName, namespace string) *Element {
	e := &Element{
		TagName:    tagName,
		Namespace:  namespace,
		Attributes: NewAttributes(),
	}
	e.bind(e)
	return e
}

func (e *Element) Type() NodeType { return ElementNodeType }

func (e *Element) Clone(deep bool) Node {
	clone := &Element{
		TagName:    e.TagName,
		Namespace:  e.Namespace,
		Attributes: e.Attributes.Clone(),
	}
	clone.bind(clone)
	if deep {
		cloneChildrenInto(clone, &e.container)
		if e.TemplateContent != nil {
			clone.TemplateContent = e.TemplateContent.Clone(true).(*DocumentFragment)
		}
	}
	return clone
}

// Text concatenates every descendant text node's data, depth-first.
func (e *Element) Text() string {
	var sb strings.Builder
	appendText(e, &sb)
	return sb.String()
}

func appendText(n Node, sb *strings.Builder) {
	for _, child := range n.Children() {
		switch c := child.(type) {
		case *Text:
			sb.WriteString(c.Data)
		default:
			appendText(c, sb)
		}
	}
}

func (e *Element) Attr(name string) string {
	val, _ := e.Attributes.Get(name)
	return val
}

func (e *Element) HasAttr(name string) bool { return e.Attributes.Has(name) }

func (e *Element) SetAttr(name, value string) { e.Attributes.Set(name, value) }

func (e *Element) RemoveAttr(name string) { e.Attributes.Remove(name) }

func (e *Element) ID() string { return e.Attr("id") }

// Classes splits the class attribute on ASCII whitespace, as the HTML
// spec's "set of space-separated tokens" requires.
func (e *Element) Classes() []string {
	class := e.Attr("class")
	if class == "" {
		return nil
	}
	return strings.Fields(class)
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}
