package treebuilder

import (
	"strings"

	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/internal/constants"
	"github.com/go-html5parse/html5parse/tokenizer"
)

// shouldUseForeignContent decides whether the current token is processed by
// the "parsing tokens in foreign content" rules (§13.2.6.5) rather than by
// the current HTML insertion mode. Foreign content applies once an SVG or
// MathML element is open, except at integration points that hand control
// back to HTML rules for specific token shapes.
func (tb *TreeBuilder) shouldUseForeignContent(tok tokenizer.Token) bool {
	current := tb.currentElement()
	if current == nil || current.Namespace == dom.NamespaceHTML || tok.Type == tokenizer.EOF {
		return false
	}

	if tb.isMathMLTextIntegrationPoint(current) {
		if tok.Type == tokenizer.Character {
			return false
		}
		if tok.Type == tokenizer.StartTag && tok.Name != "mglyph" && tok.Name != "malignmark" {
			return false
		}
	}

	if current.Namespace == dom.NamespaceMathML && strings.EqualFold(current.TagName, "annotation-xml") &&
		tok.Type == tokenizer.StartTag && tok.Name == "svg" {
		return false
	}

	if tb.isHTMLIntegrationPoint(current) && (tok.Type == tokenizer.Character || tok.Type == tokenizer.StartTag) {
		return false
	}

	return true
}

// processForeignContent applies one step of §13.2.6.5 and reports whether
// the caller must reprocess the same token — which happens only when a
// breakout condition hands control back to the ordinary HTML insertion mode
// (tb.forceHTMLMode is set so ProcessToken skips straight past the foreign-
// content check on the next pass).
func (tb *TreeBuilder) processForeignContent(tok tokenizer.Token) bool {
	if tb.currentElement() == nil {
		return false
	}

	switch tok.Type {
	case tokenizer.Character:
		return tb.foreignCharacter(tok)
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		return tb.foreignStartTag(tok)
	case tokenizer.EndTag:
		return tb.foreignEndTag(tok)
	default:
		return false
	}
}

func (tb *TreeBuilder) foreignCharacter(tok tokenizer.Token) bool {
	if tok.Data == "" {
		return false
	}
	data := strings.ReplaceAll(tok.Data, "\x00", string(rune(0xFFFD)))
	if !isAllWhitespace(data) {
		tb.framesetOK = false
	}
	tb.insertText(data)
	return false
}

func (tb *TreeBuilder) foreignStartTag(tok tokenizer.Token) bool {
	if constants.ForeignBreakoutElements[tok.Name] || (tok.Name == "font" && foreignBreakoutFont(tok.Attrs)) {
		return tb.breakOutToHTML()
	}

	namespace := tb.currentElement().Namespace
	name := tok.Name
	if namespace == dom.NamespaceSVG {
		name = adjustSVGTagName(name)
	}
	tb.insertForeignElement(name, namespace, prepareForeignAttributes(namespace, tok.Attrs), tok.SelfClosing)
	return false
}

// foreignEndTag implements the "any other end tag" branch of §13.2.6.5: br
// and p unconditionally break out to HTML handling, otherwise the stack is
// searched top-down for a case-insensitive tag-name match, popping foreign
// elements above it, or breaking out once an HTML element is reached first.
func (tb *TreeBuilder) foreignEndTag(tok tokenizer.Token) bool {
	if tok.Name == "br" || tok.Name == "p" {
		return tb.breakOutToHTML()
	}

	for i := len(tb.openElements) - 1; i >= 0; i-- {
		node := tb.openElements[i]
		if strings.EqualFold(node.TagName, tok.Name) {
			if tb.fragmentElement != nil && node == tb.fragmentElement {
				return false
			}
			if node.Namespace == dom.NamespaceHTML {
				tb.forceHTMLMode = true
				return true
			}
			tb.openElements = tb.openElements[:i]
			return false
		}
		if node.Namespace == dom.NamespaceHTML {
			tb.forceHTMLMode = true
			return true
		}
	}
	return false
}

func (tb *TreeBuilder) breakOutToHTML() bool {
	tb.popUntilHTMLOrIntegrationPoint()
	tb.resetInsertionModeAppropriately()
	tb.forceHTMLMode = true
	return true
}

func (tb *TreeBuilder) popUntilHTMLOrIntegrationPoint() {
	for {
		node := tb.currentElement()
		if node == nil || node.Namespace == dom.NamespaceHTML || tb.isHTMLIntegrationPoint(node) {
			return
		}
		tb.popCurrent()
	}
}

// isHTMLIntegrationPoint reports whether node is an HTML integration point:
// the fixed table in constants.HTMLIntegrationPoints, plus the special case
// of a MathML annotation-xml element whose encoding names HTML or XHTML.
func (tb *TreeBuilder) isHTMLIntegrationPoint(node *dom.Element) bool {
	if node == nil {
		return false
	}
	if node.Namespace == dom.NamespaceMathML && node.TagName == "annotation-xml" {
		enc, ok := node.Attributes.Get("encoding")
		if !ok {
			return false
		}
		switch strings.ToLower(enc) {
		case "text/html", "application/xhtml+xml":
			return true
		default:
			return false
		}
	}
	point := constants.IntegrationPoint{Namespace: node.Namespace, LocalName: node.TagName}
	return constants.HTMLIntegrationPoints[point]
}

func (tb *TreeBuilder) isMathMLTextIntegrationPoint(node *dom.Element) bool {
	if node == nil {
		return false
	}
	point := constants.IntegrationPoint{Namespace: node.Namespace, LocalName: node.TagName}
	return constants.MathMLTextIntegrationPoints[point]
}

// foreignBreakoutFont reports the <font color/face/size> special case: a
// <font> start tag with any of these attributes breaks out of foreign
// content even though "font" isn't itself in the breakout element table.
func foreignBreakoutFont(attrs []tokenizer.Attr) bool {
	for _, a := range attrs {
		switch strings.ToLower(a.Name) {
		case "color", "face", "size":
			return true
		}
	}
	return false
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := constants.SVGTagNameAdjustments[strings.ToLower(name)]; ok {
		return adjusted
	}
	return name
}

// prepareForeignAttributes applies the per-namespace attribute-name fixups
// (camelCase SVG attributes, MathML's "definitionurl", etc.) and the
// foreign xlink:/xml:/xmlns: prefix adjustments that assign a real
// namespace URI to a handful of specific attribute names.
func prepareForeignAttributes(namespace string, attrs []tokenizer.Attr) []dom.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]dom.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, adjustForeignAttribute(namespace, a))
	}
	return out
}

func adjustForeignAttribute(namespace string, a tokenizer.Attr) dom.Attribute {
	name := a.Name
	lower := strings.ToLower(name)

	switch namespace {
	case dom.NamespaceMathML:
		if adj, ok := constants.MathMLAttributeAdjustments[lower]; ok {
			name = adj
			lower = strings.ToLower(name)
		}
	case dom.NamespaceSVG:
		if adj, ok := constants.SVGAttributeAdjustments[lower]; ok {
			name = adj
			lower = strings.ToLower(name)
		}
	}

	if adj, ok := constants.ForeignAttributeAdjustments[lower]; ok {
		if adj.Prefix != "" {
			name = adj.Prefix + ":" + adj.LocalName
		} else {
			name = adj.LocalName
		}
		return dom.Attribute{Namespace: adj.NamespaceURL, Name: name, Value: a.Value}
	}

	return dom.Attribute{Name: name, Value: a.Value}
}

func (tb *TreeBuilder) insertForeignElement(name, namespace string, attrs []dom.Attribute, selfClosing bool) *dom.Element {
	el := tb.alloc.NewElementNS(name, namespace)
	for _, a := range attrs {
		el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
	}
	tb.currentNode().AppendChild(el)
	if !selfClosing {
		tb.openElements = append(tb.openElements, el)
	}
	return el
}
