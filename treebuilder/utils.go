package treebuilder

import (
	"strings"

	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/internal/constants"
	"github.com/go-html5parse/html5parse/tokenizer"
)

// hasElementInScope implements the "has an element in scope" family from
// §13.2.5.2.5, parameterized by which elements close the search (scope).
func (tb *TreeBuilder) hasElementInScope(tagName string, scope map[string]bool) bool {
	return tb.scopeSearch(scope, true, func(node *dom.Element) bool {
		return node.TagName == tagName
	})
}

func (tb *TreeBuilder) hasAnyElementInScope(tagSet map[string]bool, scope map[string]bool) bool {
	return tb.scopeSearch(scope, true, func(node *dom.Element) bool {
		return tagSet[node.TagName]
	})
}

func (tb *TreeBuilder) hasPElementInButtonScope() bool {
	return tb.hasElementInScope("p", constants.ButtonScope)
}

// hasElementInTableScope is the table-scope variant, which does not stop at
// integration-point boundaries the way the general scope search does.
func (tb *TreeBuilder) hasElementInTableScope(tagName string) bool {
	return tb.scopeSearch(constants.TableScope, false, func(node *dom.Element) bool {
		return node.TagName == tagName
	})
}

// scopeSearch walks the open-elements stack from the top down, reporting
// whether match fires before a scope-terminating element (or, when
// checkIntegrationPoints is set, an HTML/MathML-text integration point) is
// reached.
func (tb *TreeBuilder) scopeSearch(scope map[string]bool, checkIntegrationPoints bool, match func(*dom.Element) bool) bool {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		node := tb.openElements[i]
		if node.Namespace == dom.NamespaceHTML {
			if match(node) {
				return true
			}
			if scope[node.TagName] {
				return false
			}
			continue
		}
		if match(node) {
			return true
		}
		if checkIntegrationPoints && (tb.isHTMLIntegrationPoint(node) || tb.isMathMLTextIntegrationPoint(node)) {
			return false
		}
	}
	return false
}

var headingElements = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

func isHeadingElement(tag string) bool {
	return headingElements[tag]
}

// generateImpliedEndTags pops elements whose end tags may be implied
// (§13.2.5.3), stopping at except or at the first element the table doesn't
// cover.
func (tb *TreeBuilder) generateImpliedEndTags(except string) {
	for {
		node := tb.currentElement()
		if node == nil || node.Namespace != dom.NamespaceHTML {
			return
		}
		if node.TagName == except || !constants.ImpliedEndTagElements[node.TagName] {
			return
		}
		tb.popCurrent()
	}
}

// clearStackUntil implements "clear the stack back to a context" (used for
// table, table body, and table row contexts per §13.2.6.4.9-11), popping
// elements until one named in stopAt is current.
func (tb *TreeBuilder) clearStackUntil(stopAt map[string]bool) {
	for len(tb.openElements) > 0 {
		node := tb.currentElement()
		if node.Namespace == dom.NamespaceHTML && stopAt[node.TagName] {
			return
		}
		tb.popCurrent()
	}
}

func (tb *TreeBuilder) closeCaptionElement() bool {
	if !tb.hasElementInTableScope("caption") {
		return false
	}
	tb.generateImpliedEndTags("")
	tb.popUntil("caption")
	tb.clearActiveFormattingUpToMarker()
	tb.mode = InTable
	return true
}

func (tb *TreeBuilder) popUntilAnyCell() {
	for len(tb.openElements) > 0 {
		name := tb.currentElement().TagName
		tb.popCurrent()
		if name == "td" || name == "th" {
			return
		}
	}
}

func (tb *TreeBuilder) closeTableCell() bool {
	if !tb.hasElementInTableScope("td") && !tb.hasElementInTableScope("th") {
		return false
	}
	tb.generateImpliedEndTags("")
	tb.popUntilAnyCell()
	tb.clearActiveFormattingUpToMarker()
	tb.mode = InRow
	return true
}

// resetInsertionModeAppropriately implements §13.2.5.2.4, walking the stack
// from the current node down to <html> to pick the mode that token
// processing should resume in.
func (tb *TreeBuilder) resetInsertionModeAppropriately() {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		node := tb.openElements[i]
		if node.Namespace != dom.NamespaceHTML {
			// Foreign elements (e.g. an SVG <tr>) never drive mode selection.
			continue
		}
		if mode, ok := modeForStackElement(tb, node, i == 0); ok {
			tb.mode = mode
			return
		}
	}
	tb.mode = InBody
}

func modeForStackElement(tb *TreeBuilder, node *dom.Element, isLast bool) (InsertionMode, bool) {
	switch strings.ToLower(node.TagName) {
	case "select":
		return InSelect, true
	case "td", "th":
		return InCell, true
	case "tr":
		return InRow, true
	case "tbody", "tfoot", "thead":
		return InTableBody, true
	case "caption":
		return InCaption, true
	case "colgroup":
		return InColumnGroup, true
	case "table":
		return InTable, true
	case "template":
		if len(tb.templateModes) > 0 {
			return tb.templateModes[len(tb.templateModes)-1], true
		}
		return InTemplate, true
	case "head":
		return InHead, true
	case "body", "html":
		return InBody, true
	}
	return 0, false
}

func (tb *TreeBuilder) clearActiveFormattingElements() {
	tb.clearActiveFormattingUpToMarker()
}

func (tb *TreeBuilder) pushActiveFormattingMarker() {
	tb.pushFormattingMarker()
}

func (tb *TreeBuilder) setQuirksModeFromDoctype(name string, publicID, systemID *string, forceQuirks bool) {
	_, mode := classifyDoctype(name, publicID, systemID, forceQuirks, tb.iframeSrcdoc)
	tb.document.QuirksMode = mode
}

// anyOtherEndTag is the InBody "any other end tag" fallback (§13.2.6.4.7,
// last item): search down the stack for a same-named element, implying end
// tags above it, unless a special element is found first.
func (tb *TreeBuilder) anyOtherEndTag(name string) {
	target := strings.ToLower(name)
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		node := tb.openElements[i]
		if strings.ToLower(node.TagName) == target {
			tb.generateImpliedEndTags(name)
			tb.openElements = tb.openElements[:i]
			return
		}
		if isSpecialElement(node) {
			return
		}
	}
}

// acceptableDoctypes lists the (name, public ID, system ID) triples that
// §13.2.4.60's tokenizer rules permit without a parse error.
var acceptableDoctypes = map[[3]string]bool{
	{"html", "", ""}:                         true,
	{"html", "", "about:legacy-compat"}:      true,
	{"html", "-//W3C//DTD HTML 4.0//EN", ""}: true,
	{"html", "-//W3C//DTD HTML 4.0//EN", "http://www.w3.org/TR/REC-html40/strict.dtd"}:                true,
	{"html", "-//W3C//DTD HTML 4.01//EN", ""}:                                                         true,
	{"html", "-//W3C//DTD HTML 4.01//EN", "http://www.w3.org/TR/html4/strict.dtd"}:                    true,
	{"html", "-//W3C//DTD XHTML 1.0 Strict//EN", "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"}: true,
	{"html", "-//W3C//DTD XHTML 1.1//EN", "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd"}:             true,
}

// classifyDoctype implements the DOCTYPE token's "force-quirks" aside and the
// quirks-mode table from §13.2.6.2, returning whether the doctype was a
// parse error and which quirks mode the document should adopt.
func classifyDoctype(name string, publicID, systemID *string, forceQuirks, iframeSrcdoc bool) (bool, dom.QuirksMode) {
	nameLower := strings.ToLower(name)
	public := ptrToString(publicID)
	system := ptrToString(systemID)
	parseError := !acceptableDoctypes[[3]string{nameLower, public, system}]

	if forceQuirks {
		return parseError, dom.Quirks
	}
	if iframeSrcdoc {
		return parseError, dom.NoQuirks
	}
	if nameLower != "html" {
		return parseError, dom.Quirks
	}

	publicLower := strings.ToLower(public)
	systemLower := strings.ToLower(system)

	switch {
	case constants.QuirkyPublicMatches[publicLower], constants.QuirkySystemMatches[systemLower]:
		return parseError, dom.Quirks
	case publicLower != "" && prefixedByAny(publicLower, constants.QuirkyPublicPrefixes):
		return parseError, dom.Quirks
	case publicLower != "" && prefixedByAny(publicLower, constants.LimitedQuirkyPublicPrefixes):
		return parseError, dom.LimitedQuirks
	case publicLower != "" && prefixedByAny(publicLower, constants.HTML4PublicPrefixes):
		if systemID == nil {
			return parseError, dom.Quirks
		}
		return parseError, dom.LimitedQuirks
	}
	return parseError, dom.NoQuirks
}

func prefixedByAny(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func isHiddenInput(attrs []tokenizer.Attr) bool {
	for _, attr := range attrs {
		if attr.Namespace == "" && strings.EqualFold(attr.Name, "type") && strings.EqualFold(attr.Value, "hidden") {
			return true
		}
	}
	return false
}
