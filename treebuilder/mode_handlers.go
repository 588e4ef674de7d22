package treebuilder

import (
	"strings"

	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/internal/constants"
	"github.com/go-html5parse/html5parse/tokenizer"
)

// The bodies in this file are one function per insertion mode from
// WHATWG §13.2.6.4, dispatched through insertionModeDispatch in builder.go.
// Each returns whether ProcessToken must run the same token again under
// whatever mode it just switched to.

func (tb *TreeBuilder) processInitial(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.DOCTYPE:
		tb.document.Doctype = tb.alloc.NewDocumentType(tok.Name, ptrToString(tok.PublicID), ptrToString(tok.SystemID))
		tb.setQuirksModeFromDoctype(tok.Name, tok.PublicID, tok.SystemID, tok.ForceQuirks)
		tb.mode = BeforeHTML
		return false
	case tokenizer.Comment:
		tb.document.AppendChild(tb.alloc.NewComment(tok.Data))
		return false
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
	}
	tb.document.QuirksMode = dom.Quirks
	tb.mode = BeforeHTML
	return true
}

func (tb *TreeBuilder) processBeforeHTML(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		tb.document.AppendChild(tb.alloc.NewComment(tok.Data))
		return false
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
		tok.Data = strings.TrimLeft(tok.Data, "\t\n\f\r ")
	case tokenizer.StartTag:
		if tok.Name == "html" {
			tb.insertElement("html", tok.Attrs)
			tb.mode = BeforeHead
			return false
		}
	case tokenizer.EndTag:
		if !tagIn(tok.Name, "head", "body", "html", "br") {
			return false
		}
	}
	tb.insertElement("html", nil)
	tb.mode = BeforeHead
	return true
}

func (tb *TreeBuilder) processBeforeHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			if root := tb.rootElement(); root != nil {
				tb.addMissingAttributes(root, tok.Attrs)
			}
			return false
		case "head":
			tb.headElement = tb.insertElement("head", tok.Attrs)
			tb.mode = InHead
			return false
		}
	case tokenizer.EndTag:
		return false
	}
	tb.headElement = tb.insertElement("head", nil)
	tb.mode = InHead
	return true
}

// switchToTextMode inserts the element for a content-model-changing start tag,
// enters the Text insertion mode, and switches the tokenizer to RCDATA
// (title/textarea), script data (script) or RAWTEXT (everything else).
func switchToTextMode(tb *TreeBuilder, tok tokenizer.Token) {
	tb.insertElement(tok.Name, tok.Attrs)
	tb.originalMode = tb.mode
	tb.mode = Text
	tb.tokenizer.SetLastStartTag(tok.Name)
	switch tok.Name {
	case "title", "textarea":
		tb.tokenizer.SetState(tokenizer.RCDATAState)
	case "script":
		tb.tokenizer.SetState(tokenizer.ScriptDataState)
	default:
		tb.tokenizer.SetState(tokenizer.RAWTEXTState)
	}
}

func (tb *TreeBuilder) processInHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "title", "textarea", "script", "style", "xmp", "iframe", "noembed", "noframes":
			switchToTextMode(tb, tok)
			return false
		case "noscript":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.mode = InHeadNoscript
			return false
		case "base", "basefont", "bgsound", "link", "meta":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.popCurrent()
			return false
		case "template":
			tb.insertElement("template", tok.Attrs)
			tb.pushActiveFormattingMarker()
			tb.framesetOK = false
			tb.templateModes = append(tb.templateModes, InTemplate)
			tb.mode = InTemplate
			return false
		case "head":
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "head":
			tb.popUntil("head")
			tb.mode = AfterHead
			return false
		case "template":
			return tb.endTemplateInHead()
		case "body", "html", "br":
		default:
			return false
		}
	case tokenizer.EOF:
		tb.popUntil("head")
		tb.mode = AfterHead
		return true
	}
	tb.popUntil("head")
	tb.mode = AfterHead
	return true
}

// endTemplateInHead implements the "</template>" branch of in-head handling:
// it unwinds the open-elements stack through the template, discards the
// formatting-marker scope it opened, and pops the matching template
// insertion-mode frame, or ignores the tag entirely when no template is open.
func (tb *TreeBuilder) endTemplateInHead() bool {
	if !tb.elementInStack("template") {
		return false
	}
	tb.generateImpliedEndTags("")
	tb.popUntil("template")
	tb.clearActiveFormattingUpToMarker()
	if len(tb.templateModes) > 0 {
		tb.templateModes = tb.templateModes[:len(tb.templateModes)-1]
	}
	tb.resetInsertionModeAppropriately()
	return false
}

func (tb *TreeBuilder) processInHeadNoscript(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		return tb.processInHead(tok)
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInHead(tok)
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return tb.processInHead(tok)
		case "head", "noscript":
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "noscript":
			tb.popUntil("noscript")
			tb.mode = InHead
			return false
		case "br":
		default:
			return false
		}
	}
	tb.popUntil("noscript")
	tb.mode = InHead
	return true
}

func (tb *TreeBuilder) processAfterHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "body":
			tb.insertElement("body", tok.Attrs)
			tb.framesetOK = false
			tb.mode = InBody
			return false
		case "frameset":
			tb.insertElement("frameset", tok.Attrs)
			tb.mode = InFrameset
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			tb.pushOpenHeadAndDelegate()
			handled := tb.processInHead(tok)
			tb.popOpenHead()
			return handled
		case "head":
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "html":
			return true
		case "template":
			return tb.processInHead(tok)
		case "body", "br":
		default:
			return false
		}
	case tokenizer.EOF:
		tb.insertElement("body", nil)
		tb.mode = InBody
		return true
	}
	tb.insertElement("body", nil)
	tb.framesetOK = false
	tb.mode = InBody
	return true
}

// pushOpenHeadAndDelegate / popOpenHead implement the "act as if a start tag
// token with the tag name head had been seen" detour that §13.2.6.4.6 takes
// for stray head-only elements appearing after </head>: the stored head
// element is pushed back onto the stack just long enough to delegate to
// the in-head rules, then removed again.
func (tb *TreeBuilder) pushOpenHeadAndDelegate() {
	if tb.headElement != nil {
		tb.openElements = append(tb.openElements, tb.headElement)
	}
}

func (tb *TreeBuilder) popOpenHead() {
	if len(tb.openElements) > 0 && tb.currentElement() == tb.headElement {
		tb.openElements = tb.openElements[:len(tb.openElements)-1]
	}
}

func (tb *TreeBuilder) processText(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		tb.insertText(tok.Data)
		return false
	case tokenizer.EndTag:
		if tok.Name == "script" {
			tb.popCurrent()
		} else {
			tb.popUntil(tok.Name)
		}
	case tokenizer.EOF:
		// Falls through: an unterminated script/style still restores the
		// caller's mode so parsing can continue past it.
	default:
		return false
	}
	tb.mode = tb.originalMode
	tb.tokenizer.SetState(tokenizer.DataState)
	return tok.Type == tokenizer.EOF
}

func (tb *TreeBuilder) processInBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		return tb.inBodyCharacter(tok)
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
	case tokenizer.DOCTYPE:
		// Ignored; a DOCTYPE this late is always a parse error with no effect.
	case tokenizer.StartTag:
		return tb.inBodyStartTag(tok)
	case tokenizer.EndTag:
		return tb.inBodyEndTag(tok)
	}
	return false
}

func (tb *TreeBuilder) inBodyCharacter(tok tokenizer.Token) bool {
	tb.reconstructActiveFormattingElements()
	if tok.Data != "" {
		if !isAllWhitespace(tok.Data) {
			tb.framesetOK = false
		}
		tb.insertText(tok.Data)
	}
	return false
}

func (tb *TreeBuilder) inBodyStartTag(tok tokenizer.Token) bool {
	switch tok.Name {
	case "html":
		if root := tb.rootElement(); root != nil {
			tb.addMissingAttributes(root, tok.Attrs)
		}
		return false
	case "base", "basefont", "bgsound", "link", "meta":
		// §13.2.6.4.7 hands these to the in-head rules even inside the body.
		tb.insertElement(tok.Name, tok.Attrs)
		tb.popCurrent()
		return false
	case "body":
		if body := tb.document.Body(); body != nil {
			tb.addMissingAttributes(body, tok.Attrs)
		}
		tb.framesetOK = false
		return false
	case "svg":
		tb.reconstructActiveFormattingElements()
		tb.insertForeignElement("svg", dom.NamespaceSVG, prepareForeignAttributes(dom.NamespaceSVG, tok.Attrs), tok.SelfClosing)
		tb.framesetOK = false
		return false
	case "math":
		tb.reconstructActiveFormattingElements()
		tb.insertForeignElement("math", dom.NamespaceMathML, prepareForeignAttributes(dom.NamespaceMathML, tok.Attrs), tok.SelfClosing)
		tb.framesetOK = false
		return false
	case "a":
		tb.reopenFormattingElement("a")
		node := tb.insertElement("a", tok.Attrs)
		tb.appendActiveFormattingEntry("a", tok.Attrs, node)
		tb.framesetOK = false
		return false
	case "table":
		tb.insertElement("table", tok.Attrs)
		tb.framesetOK = false
		tb.mode = InTable
		return false
	case "select":
		tb.reconstructActiveFormattingElements()
		tb.insertElement("select", tok.Attrs)
		tb.framesetOK = false
		if tableModeSet[tb.mode] {
			tb.mode = InSelectInTable
		} else {
			tb.mode = InSelect
		}
		return false
	case "title", "textarea":
		switchToTextMode(tb, tok)
		return false
	case "script", "style":
		switchToTextMode(tb, tok)
		return false
	case "p":
		if tb.hasPElementInButtonScope() {
			tb.popUntil("p")
		}
		tb.reconstructActiveFormattingElements()
		tb.insertElement("p", tok.Attrs)
		tb.framesetOK = false
		return false
	case "br":
		tb.reconstructActiveFormattingElements()
		tb.insertElement("br", tok.Attrs)
		tb.popCurrent()
		tb.framesetOK = false
		return false
	}

	if constants.FormattingElements[tok.Name] {
		if tok.Name == "nobr" && tb.hasElementInScope("nobr", constants.DefaultScope) {
			tb.adoptionAgency("nobr")
			tb.reconstructActiveFormattingElements()
		}
		tb.reopenFormattingElement(tok.Name)
		if dup, ok := tb.findActiveFormattingDuplicate(tok.Name, tok.Attrs); ok {
			tb.removeFormattingEntry(dup)
		}
		node := tb.insertElement(tok.Name, tok.Attrs)
		tb.appendActiveFormattingEntry(tok.Name, tok.Attrs, node)
		tb.framesetOK = false
		return false
	}

	tb.reconstructActiveFormattingElements()
	tb.insertElement(tok.Name, tok.Attrs)
	if tok.SelfClosing || constants.VoidElements[tok.Name] {
		tb.popCurrent()
	} else {
		tb.framesetOK = false
	}
	return false
}

// reopenFormattingElement applies the adoption-agency pre-pass that a
// formatting start tag (<a>, <nobr>, ...) runs when one of the same name is
// still active: run the adoption agency for it, then drop any leftover
// entry/stack slot before reconstructing so the new element starts clean.
func (tb *TreeBuilder) reopenFormattingElement(name string) {
	if tb.hasActiveFormattingEntry(name) {
		tb.adoptionAgency(name)
		tb.removeLastActiveFormattingByName(name)
		tb.removeLastOpenElementByName(name)
	}
	tb.reconstructActiveFormattingElements()
}

var tableModeSet = map[InsertionMode]bool{
	InTable: true, InCaption: true, InTableBody: true, InRow: true, InCell: true,
}

func (tb *TreeBuilder) inBodyEndTag(tok tokenizer.Token) bool {
	switch tok.Name {
	case "body":
		if tb.hasElementInScope("body", constants.DefaultScope) {
			tb.mode = AfterBody
		}
		return false
	case "html":
		if tb.hasElementInScope("body", constants.DefaultScope) {
			tb.mode = AfterBody
			return true
		}
		return false
	case "p":
		if !tb.hasPElementInButtonScope() {
			tb.insertElement("p", nil)
		}
		tb.popUntil("p")
		return false
	}
	if isHeadingElement(tok.Name) {
		if tb.hasAnyElementInScope(headingElements, constants.DefaultScope) {
			tb.generateImpliedEndTags("")
			tb.popUntilAny(headingElements)
		}
		return false
	}
	if constants.FormattingElements[tok.Name] {
		tb.adoptionAgency(tok.Name)
		return false
	}
	tb.anyOtherEndTag(tok.Name)
	return false
}

func (tb *TreeBuilder) popUntilAny(names map[string]bool) {
	for len(tb.openElements) > 0 {
		node := tb.popCurrent()
		if names[node.TagName] {
			return
		}
	}
}

func (tb *TreeBuilder) rootElement() *dom.Element {
	if len(tb.openElements) > 0 && tb.openElements[0].TagName == "html" {
		return tb.openElements[0]
	}
	return nil
}

func tagIn(name string, candidates ...string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

func (tb *TreeBuilder) processInTable(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		mode := tb.mode
		tb.tableTextOriginalMode = &mode
		tb.pendingTableText = tb.pendingTableText[:0]
		tb.mode = InTableText
		return true
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		if reprocess, handled := tb.inTableStartTag(tok); handled {
			return reprocess
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "table":
			if tb.hasElementInTableScope("table") {
				tb.popUntil("table")
				tb.resetInsertionModeAppropriately()
			}
			return false
		case "body", "caption", "col", "colgroup", "html", "tbody", "tfoot", "thead", "tr", "td", "th":
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return false
	}
	tb.mode = InBody
	return true
}

func (tb *TreeBuilder) inTableStartTag(tok tokenizer.Token) (reprocess bool, handled bool) {
	switch tok.Name {
	case "caption":
		tb.clearStackUntil(constants.TableScope)
		tb.pushActiveFormattingMarker()
		tb.insertElement("caption", tok.Attrs)
		tb.mode = InCaption
		return false, true
	case "colgroup":
		tb.clearStackUntil(constants.TableScope)
		tb.insertElement("colgroup", tok.Attrs)
		tb.mode = InColumnGroup
		return false, true
	case "col":
		tb.clearStackUntil(constants.TableScope)
		tb.insertElement("colgroup", nil)
		tb.mode = InColumnGroup
		return true, true
	case "tbody", "thead", "tfoot":
		tb.clearStackUntil(constants.TableScope)
		tb.insertElement(tok.Name, tok.Attrs)
		tb.mode = InTableBody
		return false, true
	case "tr", "td", "th":
		tb.clearStackUntil(constants.TableScope)
		tb.insertElement("tbody", nil)
		tb.mode = InTableBody
		return true, true
	case "table":
		if tb.hasElementInTableScope("table") {
			tb.popUntil("table")
			tb.resetInsertionModeAppropriately()
		}
		return true, true
	case "select":
		tb.reconstructActiveFormattingElements()
		tb.insertElement("select", tok.Attrs)
		tb.framesetOK = false
		tb.mode = InSelectInTable
		return false, true
	case "template":
		return tb.processInHead(tok), true
	case "style", "script":
		return tb.processInHead(tok), true
	case "input":
		if isHiddenInput(tok.Attrs) {
			tb.insertElement("input", tok.Attrs)
			tb.popCurrent()
			return false, true
		}
	}
	return false, false
}

func (tb *TreeBuilder) processInTableText(tok tokenizer.Token) bool {
	if tok.Type == tokenizer.Character {
		tb.pendingTableText = append(tb.pendingTableText, tok.Data)
		return false
	}
	tb.flushPendingTableText()
	if tb.tableTextOriginalMode != nil {
		tb.mode = *tb.tableTextOriginalMode
		tb.tableTextOriginalMode = nil
	} else {
		tb.mode = InTable
	}
	return true
}

// flushPendingTableText implements §13.2.6.4.11's distinction between pure
// whitespace (inserted normally) and any other buffered text (foster
// parented, having triggered a parse error in the standard).
func (tb *TreeBuilder) flushPendingTableText() {
	allWhitespace := true
	for _, s := range tb.pendingTableText {
		if !isAllWhitespace(s) {
			allWhitespace = false
			break
		}
	}
	for _, s := range tb.pendingTableText {
		if allWhitespace {
			tb.insertText(s)
		} else {
			tb.insertFosterText(s)
		}
	}
	tb.pendingTableText = tb.pendingTableText[:0]
}

func (tb *TreeBuilder) processInCaption(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.EndTag:
		switch tok.Name {
		case "caption":
			return !tb.closeCaptionElement() && false
		case "table":
			if tb.closeCaptionElement() {
				return true
			}
			return false
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			return false
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if tb.closeCaptionElement() {
				return true
			}
			return false
		}
	}
	return tb.processInBody(tok)
}

func (tb *TreeBuilder) processInColumnGroup(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "col":
			tb.insertElement("col", tok.Attrs)
			tb.popCurrent()
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "colgroup":
			if tb.currentElement() != nil && tb.currentElement().TagName == "colgroup" {
				tb.popCurrent()
				tb.mode = InTable
			}
			return false
		case "col":
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return false
	}
	if tb.currentElement() == nil || tb.currentElement().TagName != "colgroup" {
		return false
	}
	tb.popCurrent()
	tb.mode = InTable
	return true
}

func (tb *TreeBuilder) processInTableBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.StartTag:
		switch tok.Name {
		case "tr":
			tb.clearStackUntil(constants.TableBodyScope)
			tb.insertElement("tr", tok.Attrs)
			tb.mode = InRow
			return false
		case "th", "td":
			tb.clearStackUntil(constants.TableBodyScope)
			tb.insertElement("tr", nil)
			tb.mode = InRow
			return true
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !tb.hasAnyElementInScope(tableBodyNames, constants.TableScope) {
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return true
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "tbody", "tfoot", "thead":
			if !tb.hasElementInTableScope(tok.Name) {
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return false
		case "table":
			if !tb.hasAnyElementInScope(tableBodyNames, constants.TableScope) {
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false
		}
	}
	return tb.processInTable(tok)
}

var tableBodyNames = map[string]bool{"tbody": true, "tfoot": true, "thead": true}

func (tb *TreeBuilder) processInRow(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.StartTag:
		switch tok.Name {
		case "th", "td":
			tb.clearStackUntil(constants.TableRowScope)
			tb.insertElement(tok.Name, tok.Attrs)
			tb.mode = InCell
			tb.pushActiveFormattingMarker()
			return false
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !tb.hasElementInTableScope("tr") {
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "tr":
			if !tb.hasElementInTableScope("tr") {
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return false
		case "table":
			if !tb.hasElementInTableScope("tr") {
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		case "tbody", "tfoot", "thead":
			if !tb.hasElementInTableScope(tok.Name) || !tb.hasElementInTableScope("tr") {
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false
		}
	}
	return tb.processInTable(tok)
}

func (tb *TreeBuilder) processInCell(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.EndTag:
		switch tok.Name {
		case "td", "th":
			if !tb.hasElementInTableScope(tok.Name) {
				return false
			}
			tb.generateImpliedEndTags("")
			tb.popUntil(tok.Name)
			tb.clearActiveFormattingUpToMarker()
			tb.mode = InRow
			return false
		case "body", "caption", "col", "colgroup", "html":
			return false
		case "table", "tbody", "tfoot", "thead", "tr":
			if tb.closeTableCell() {
				return true
			}
			return false
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if tb.closeTableCell() {
				return true
			}
			return false
		}
	}
	return tb.processInBody(tok)
}

func (tb *TreeBuilder) processInSelect(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		data := strings.ReplaceAll(tok.Data, "\x00", "")
		if data != "" {
			tb.insertText(data)
		}
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "option":
			tb.closeOpenOption()
			tb.insertElement("option", tok.Attrs)
			return false
		case "optgroup":
			tb.closeOpenOption()
			tb.closeOpenOptgroup()
			tb.insertElement("optgroup", tok.Attrs)
			return false
		case "hr":
			tb.closeOpenOption()
			tb.closeOpenOptgroup()
			tb.insertElement("hr", tok.Attrs)
			tb.popCurrent()
			return false
		case "select":
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return false
		case "input", "keygen", "textarea":
			if tb.hasElementInScope("select", constants.SelectScope) {
				tb.popUntil("select")
				tb.resetInsertionModeAppropriately()
				return true
			}
			return false
		case "script", "template":
			return tb.processInHead(tok)
		}
		return false
	case tokenizer.EndTag:
		switch tok.Name {
		case "optgroup":
			tb.endOptgroupInSelect()
			return false
		case "option":
			if tb.currentElement() != nil && tb.currentElement().TagName == "option" {
				tb.popCurrent()
			}
			return false
		case "select":
			if !tb.hasElementInScope("select", constants.SelectScope) {
				return false
			}
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return false
		case "template":
			return tb.processInHead(tok)
		}
		return false
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) closeOpenOption() {
	if tb.currentElement() != nil && tb.currentElement().TagName == "option" {
		tb.popCurrent()
	}
}

func (tb *TreeBuilder) closeOpenOptgroup() {
	if tb.currentElement() != nil && tb.currentElement().TagName == "optgroup" {
		tb.popCurrent()
	}
}

// endOptgroupInSelect implements the "</optgroup>" lookahead from
// §13.2.6.4.16: an optgroup still holding a single open option closes the
// option first, then closes the optgroup itself if that's now current.
func (tb *TreeBuilder) endOptgroupInSelect() {
	stack := tb.openElements
	n := len(stack)
	if n >= 2 && stack[n-1].TagName == "option" && stack[n-2].TagName == "optgroup" {
		tb.popCurrent()
	}
	if tb.currentElement() != nil && tb.currentElement().TagName == "optgroup" {
		tb.popCurrent()
	}
}

func (tb *TreeBuilder) processInSelectInTable(tok tokenizer.Token) bool {
	tableTag := (tok.Type == tokenizer.StartTag || tok.Type == tokenizer.EndTag) &&
		tagIn(tok.Name, "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th")
	if tableTag {
		if tok.Type == tokenizer.EndTag && !tb.hasElementInTableScope(tok.Name) {
			return false
		}
		tb.popUntil("select")
		tb.resetInsertionModeAppropriately()
		return true
	}
	return tb.processInSelect(tok)
}

func (tb *TreeBuilder) processInTemplate(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character, tokenizer.Comment, tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.StartTag:
		switch tok.Name {
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return tb.processInHead(tok)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			return tb.switchTemplateMode(InTable, tok)
		case "col":
			return tb.switchTemplateMode(InColumnGroup, tok)
		case "tr":
			return tb.switchTemplateMode(InTableBody, tok)
		case "td", "th":
			return tb.switchTemplateMode(InRow, tok)
		default:
			return tb.switchTemplateMode(InBody, tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "template" {
			return tb.processInHead(tok)
		}
		return false
	case tokenizer.EOF:
		if !tb.elementInStack("template") {
			return false
		}
		tb.popUntil("template")
		tb.clearActiveFormattingUpToMarker()
		if len(tb.templateModes) > 0 {
			tb.templateModes = tb.templateModes[:len(tb.templateModes)-1]
		}
		tb.resetInsertionModeAppropriately()
		return true
	}
	return false
}

// switchTemplateMode replaces the current template insertion-mode frame with
// target and reprocesses the token there, per the "anything else" table in
// §13.2.6.4.18.
func (tb *TreeBuilder) switchTemplateMode(target InsertionMode, tok tokenizer.Token) bool {
	if len(tb.templateModes) > 0 {
		tb.templateModes[len(tb.templateModes)-1] = target
	}
	tb.mode = target
	return true
}

func (tb *TreeBuilder) processAfterBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.Comment:
		tb.appendCommentToRoot(tok.Data)
		return false
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "html" {
			tb.mode = AfterAfterBody
			return false
		}
	case tokenizer.EOF:
		return false
	}
	tb.mode = InBody
	return true
}

// appendCommentToRoot implements the "after body" rule that routes stray
// comments to the <html> element instead of its usual
// current-node target, since the body is already closed.
func (tb *TreeBuilder) appendCommentToRoot(data string) {
	if root := tb.rootElement(); root != nil {
		root.AppendChild(tb.alloc.NewComment(data))
		return
	}
	tb.document.AppendChild(tb.alloc.NewComment(data))
}

func (tb *TreeBuilder) processInFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
		}
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "frameset":
			tb.insertElement("frameset", tok.Attrs)
			return false
		case "frame":
			tb.insertElement("frame", tok.Attrs)
			tb.popCurrent()
			return false
		case "noframes":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "frameset" {
			if len(tb.openElements) > 1 {
				tb.popCurrent()
			}
			if !tb.elementInStack("frameset") {
				tb.mode = AfterFrameset
			}
			return false
		}
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) processAfterFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
		}
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "noframes":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "html" {
			tb.mode = AfterAfterFrameset
			return false
		}
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) processAfterAfterBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		tb.document.AppendChild(tb.alloc.NewComment(tok.Data))
		return false
	case tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
	case tokenizer.EOF:
		return false
	}
	tb.mode = InBody
	return true
}

func (tb *TreeBuilder) processAfterAfterFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		tb.document.AppendChild(tb.alloc.NewComment(tok.Data))
		return false
	case tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "noframes":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return false
	}
	return false
}
