package treebuilder

import (
	"strings"

	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/internal/constants"
	"github.com/go-html5parse/html5parse/tokenizer"
)

// TreeBuilder runs the HTML5 tree construction stage: it consumes the token
// stream from a *tokenizer.Tokenizer and builds a dom.Document by walking
// the WHATWG insertion-mode state machine (builder.go/modes.go), the
// adoption agency algorithm (adoption.go), and the foreign-content rules
// (foreign.go).
type TreeBuilder struct {
	document *dom.Document
	alloc    *dom.NodeAllocator

	openElements []*dom.Element

	mode         InsertionMode
	originalMode InsertionMode

	headElement *dom.Element

	activeFormatting []formattingEntry

	templateModes []InsertionMode

	pendingTableText      []string
	tableTextOriginalMode *InsertionMode
	framesetOK            bool
	fosterParenting       bool

	fragmentContext *FragmentContext
	fragmentRoot    *dom.Element
	fragmentElement *dom.Element

	tokenizer *tokenizer.Tokenizer

	// forceHTMLMode replays a single token through the normal HTML
	// insertion-mode dispatch instead of processForeignContent, for the one
	// step after foreign content has decided the token belongs in HTML mode.
	// Without it, ProcessToken's outer loop would hand the same token back
	// to shouldUseForeignContent and reprocess it as foreign content again.
	forceHTMLMode bool

	iframeSrcdoc bool
}

// New creates a tree builder that parses a full document.
func New(tok *tokenizer.Tokenizer) *TreeBuilder {
	alloc := dom.NewNodeAllocator()
	return &TreeBuilder{
		document:     alloc.NewDocument(),
		alloc:        alloc,
		mode:         Initial,
		originalMode: Initial,
		framesetOK:   true,
		tokenizer:    tok,
	}
}

// NewFragment creates a tree builder that parses a fragment of markup as if
// it were inserted as a child of the given context element.
func NewFragment(tok *tokenizer.Tokenizer, ctx *FragmentContext) *TreeBuilder {
	alloc := dom.NewNodeAllocator()
	tb := &TreeBuilder{
		document:        alloc.NewDocument(),
		alloc:           alloc,
		mode:            Initial,
		originalMode:    Initial,
		framesetOK:      false,
		fragmentContext: ctx,
		tokenizer:       tok,
	}

	root := tb.alloc.NewElement("html")
	tb.document.AppendChild(root)
	tb.openElements = append(tb.openElements, root)
	tb.fragmentRoot = root

	if ctx == nil || ctx.TagName == "" {
		return tb
	}

	contextEl := tb.buildFragmentContextElement(ctx)
	root.AppendChild(contextEl)
	tb.openElements = append(tb.openElements, contextEl)
	tb.fragmentElement = contextEl

	tb.mode = fragmentInitialMode(ctx, contextEl.TagName)
	tb.originalMode = tb.mode

	tb.primeTokenizerForFragmentContext(ctx, contextEl.TagName)

	return tb
}

func (tb *TreeBuilder) buildFragmentContextElement(ctx *FragmentContext) *dom.Element {
	switch ctx.Namespace {
	case "svg":
		return tb.alloc.NewElementNS(ctx.TagName, dom.NamespaceSVG)
	case "mathml":
		return tb.alloc.NewElementNS(ctx.TagName, dom.NamespaceMathML)
	default:
		return tb.alloc.NewElement(ctx.TagName)
	}
}

// fragmentInitialMode picks the insertion mode fragment parsing starts in,
// per the WHATWG "reset the insertion mode appropriately" rules specialized
// to a single-element stack.
func fragmentInitialMode(ctx *FragmentContext, tag string) InsertionMode {
	if ctx.Namespace != "" && ctx.Namespace != "html" {
		return InBody
	}
	switch tag {
	case "html":
		return BeforeHead
	case "tbody", "thead", "tfoot":
		return InTableBody
	case "tr":
		return InRow
	case "td", "th":
		return InCell
	case "caption":
		return InCaption
	case "colgroup":
		return InColumnGroup
	case "table":
		return InTable
	case "select":
		return InSelect
	default:
		return InBody
	}
}

// primeTokenizerForFragmentContext switches the tokenizer's content model to
// match the fragment context element, since fragment parsing never emits a
// start-tag token for that element to trigger the switch the normal way.
func (tb *TreeBuilder) primeTokenizerForFragmentContext(ctx *FragmentContext, tag string) {
	if ctx.Namespace != "" && ctx.Namespace != "html" {
		return
	}
	switch tag {
	case "title", "textarea":
		tb.tokenizer.SetLastStartTag(tag)
		tb.tokenizer.SetState(tokenizer.RCDATAState)
	case "style", "xmp", "iframe", "noembed", "noframes":
		tb.tokenizer.SetLastStartTag(tag)
		tb.tokenizer.SetState(tokenizer.RAWTEXTState)
	case "script":
		tb.tokenizer.SetLastStartTag(tag)
		tb.tokenizer.SetState(tokenizer.ScriptDataState)
	case "plaintext":
		tb.tokenizer.SetLastStartTag(tag)
		tb.tokenizer.SetState(tokenizer.PLAINTEXTState)
	}
}

// SetIframeSrcdoc marks the document as an iframe srcdoc document, which
// affects quirks-mode determination (such documents are never quirks mode).
func (tb *TreeBuilder) SetIframeSrcdoc(enabled bool) {
	tb.iframeSrcdoc = enabled
}

// Document returns the tree built so far.
func (tb *TreeBuilder) Document() *dom.Document {
	return tb.document
}

// FinishDocument runs the post-construction fixups that apply once the
// whole token stream has been consumed: currently, mirroring each <select>'s
// selected <option> into any <selectedcontent> it contains.
func (tb *TreeBuilder) FinishDocument() {
	tb.populateSelectedContent(tb.document)
}

// FinishFragment is FinishDocument's counterpart for fragment parsing,
// applied to the fragment root rather than a full document.
func (tb *TreeBuilder) FinishFragment() {
	if root := tb.fragmentElement; root != nil {
		tb.populateSelectedContent(root)
	} else if tb.fragmentRoot != nil {
		tb.populateSelectedContent(tb.fragmentRoot)
	}
}

// FragmentNodes returns the fragment's top-level element children.
func (tb *TreeBuilder) FragmentNodes() []*dom.Element {
	root := tb.fragmentElement
	if root == nil {
		root = tb.fragmentRoot
	}
	if root == nil {
		return nil
	}
	var out []*dom.Element
	for _, child := range root.Children() {
		if el, ok := child.(*dom.Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// modeHandler runs one insertion mode's "process the token" steps, possibly
// changing tb.mode, and reports whether the token must be reprocessed
// (true) under the mode that resulted, or was fully consumed (false).
type modeHandler func(*TreeBuilder, tokenizer.Token) bool

var insertionModeDispatch = map[InsertionMode]modeHandler{
	Initial:            (*TreeBuilder).processInitial,
	BeforeHTML:         (*TreeBuilder).processBeforeHTML,
	BeforeHead:         (*TreeBuilder).processBeforeHead,
	InHead:             (*TreeBuilder).processInHead,
	InHeadNoscript:     (*TreeBuilder).processInHeadNoscript,
	AfterHead:          (*TreeBuilder).processAfterHead,
	Text:               (*TreeBuilder).processText,
	InBody:             (*TreeBuilder).processInBody,
	InTable:            (*TreeBuilder).processInTable,
	InTableText:        (*TreeBuilder).processInTableText,
	InCaption:          (*TreeBuilder).processInCaption,
	InColumnGroup:      (*TreeBuilder).processInColumnGroup,
	InTableBody:        (*TreeBuilder).processInTableBody,
	InRow:              (*TreeBuilder).processInRow,
	InCell:             (*TreeBuilder).processInCell,
	InSelect:           (*TreeBuilder).processInSelect,
	InSelectInTable:    (*TreeBuilder).processInSelectInTable,
	InTemplate:         (*TreeBuilder).processInTemplate,
	AfterBody:          (*TreeBuilder).processAfterBody,
	InFrameset:         (*TreeBuilder).processInFrameset,
	AfterFrameset:      (*TreeBuilder).processAfterFrameset,
	AfterAfterBody:     (*TreeBuilder).processAfterAfterBody,
	AfterAfterFrameset: (*TreeBuilder).processAfterAfterFrameset,
}

// ProcessToken runs one tokenizer.Token through the tree construction
// algorithm. A single call may drive several passes internally: foreign
// content can hand a token back to HTML mode, and an insertion mode can ask
// to reprocess the same token after changing tb.mode (e.g. inserting an
// implied <head> before reprocessing a token that belongs after it).
func (tb *TreeBuilder) ProcessToken(tok tokenizer.Token) {
	for {
		if !tb.forceHTMLMode && tb.shouldUseForeignContent(tok) {
			if tb.processForeignContent(tok) {
				continue
			}
			return
		}
		tb.forceHTMLMode = false

		handler, ok := insertionModeDispatch[tb.mode]
		if !ok {
			handler = (*TreeBuilder).processInBody
		}
		if !handler(tb, tok) {
			return
		}
	}
}

func (tb *TreeBuilder) currentNode() dom.Node {
	if len(tb.openElements) == 0 {
		return tb.document
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) currentElement() *dom.Element {
	if len(tb.openElements) == 0 {
		return nil
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) insertComment(data string) {
	tb.insertNode(tb.alloc.NewComment(data), nil)
}

func (tb *TreeBuilder) insertText(data string) {
	if data == "" {
		return
	}
	parent, before := tb.appropriateInsertionLocation()
	tb.insertNode(tb.alloc.NewText(data), &insertionTarget{parent: parent, before: before})
}

// insertFosterText inserts non-whitespace character data that accumulated
// while the insertion point was inside a table (the "in table text"
// insertion mode's flush step), routing it through foster-parenting rules
// rather than the table's own content model.
func (tb *TreeBuilder) insertFosterText(data string) {
	tb.withFosterParenting(func() bool {
		tb.insertText(data)
		return false
	})
}

// popUntilCaseInsensitive implements the "any other end tag" fallback of
// the in-body insertion mode: pop the stack down to and including the
// first element whose tag name matches name ASCII-case-insensitively.
func (tb *TreeBuilder) popUntilCaseInsensitive(name string) {
	for len(tb.openElements) > 0 {
		if el := tb.popCurrent(); strings.EqualFold(el.TagName, name) {
			return
		}
	}
}

func (tb *TreeBuilder) insertElement(name string, attrs []tokenizer.Attr) *dom.Element {
	el := tb.alloc.NewElement(name)
	if el.TagName == "template" && el.Namespace == dom.NamespaceHTML && el.TemplateContent == nil {
		el.TemplateContent = tb.alloc.NewDocumentFragment()
	}
	for _, a := range attrs {
		if a.Namespace != "" {
			el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
			continue
		}
		el.SetAttr(a.Name, a.Value)
	}
	tb.insertNode(el, nil)
	tb.openElements = append(tb.openElements, el)
	return el
}

// addMissingAttributes fills in attributes a token carries that the element
// doesn't already have, per the "body"/"html" start-tag handling that merges a
// second <html>/<body> start tag's attributes onto the existing element
// rather than replacing it. Ignored inside templates, which never merge.
func (tb *TreeBuilder) addMissingAttributes(el *dom.Element, attrs []tokenizer.Attr) {
	if el == nil || len(tb.templateModes) > 0 {
		return
	}
	for _, a := range attrs {
		if a.Namespace != "" {
			if !el.Attributes.HasNS(a.Namespace, a.Name) {
				el.Attributes.SetNS(a.Namespace, a.Name, a.Value)
			}
			continue
		}
		if !el.HasAttr(a.Name) {
			el.SetAttr(a.Name, a.Value)
		}
	}
}

func (tb *TreeBuilder) popCurrent() *dom.Element {
	if len(tb.openElements) == 0 {
		return nil
	}
	el := tb.openElements[len(tb.openElements)-1]
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
	return el
}

func (tb *TreeBuilder) popUntil(name string) {
	for len(tb.openElements) > 0 {
		el := tb.popCurrent()
		if el.TagName == name {
			return
		}
	}
}

func (tb *TreeBuilder) elementInStack(name string) bool {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.openElements[i].TagName == name {
			return true
		}
	}
	return false
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case '\t', '\n', '\f', '\r', ' ':
		default:
			return false
		}
	}
	return true
}

func ptrToString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// insertionTarget pins a specific parent/before-sibling pair for insertNode,
// overriding the usual appropriateInsertionLocation lookup. Used when the
// location was already computed (insertText) or is foster-parented.
type insertionTarget struct {
	parent dom.Node
	before dom.Node
}

func (tb *TreeBuilder) withFosterParenting(fn func() bool) bool {
	prev := tb.fosterParenting
	tb.fosterParenting = true
	defer func() { tb.fosterParenting = prev }()
	return fn()
}

// appropriateInsertionLocation implements the WHATWG algorithm of the same
// name: templates insert into their content fragment, and certain table
// elements foster-parent their children out of the table entirely.
func (tb *TreeBuilder) appropriateInsertionLocation() (dom.Node, dom.Node) {
	if current := tb.currentElement(); current != nil && current.Namespace == dom.NamespaceHTML && current.TagName == "template" {
		if current.TemplateContent == nil {
			current.TemplateContent = tb.alloc.NewDocumentFragment()
		}
		return current.TemplateContent, nil
	}
	if !tb.fosterParenting || !needsFosterParent(tb.currentElement()) {
		return tb.currentNode(), nil
	}
	return tb.fosterInsertionLocation()
}

func needsFosterParent(el *dom.Element) bool {
	return el != nil && el.Namespace == dom.NamespaceHTML && constants.TableFosterTargets[el.TagName]
}

func (tb *TreeBuilder) shouldFosterParenting(target *dom.Element, forTag string, isText bool) bool {
	if !tb.fosterParenting || !needsFosterParent(target) {
		return false
	}
	if isText {
		return true
	}
	return !(forTag != "" && constants.TableAllowedChildren[forTag])
}

// fosterInsertionLocation walks the open-elements stack from the top looking
// for the nearest <template> or <table>; a template's content fragment wins
// if it's closer to the top of the stack than any table, otherwise the node
// goes immediately before the table in its real parent.
func (tb *TreeBuilder) fosterInsertionLocation() (dom.Node, dom.Node) {
	tableEl, tableIndex := tb.nearestOnStack("table")
	templateEl, templateIndex := tb.nearestOnStack("template")

	if templateEl != nil && (tableEl == nil || templateIndex > tableIndex) {
		if templateEl.TemplateContent == nil {
			templateEl.TemplateContent = tb.alloc.NewDocumentFragment()
		}
		return templateEl.TemplateContent, nil
	}
	if tableEl == nil {
		return tb.currentNode(), nil
	}
	if parent := tableEl.Parent(); parent != nil {
		return parent, tableEl
	}
	if tableIndex > 0 {
		return tb.openElements[tableIndex-1], nil
	}
	return tb.document, nil
}

func (tb *TreeBuilder) nearestOnStack(tag string) (*dom.Element, int) {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if el := tb.openElements[i]; el != nil && el.Namespace == dom.NamespaceHTML && el.TagName == tag {
			return el, i
		}
	}
	return nil, -1
}

// insertNode places node at loc (or the current appropriate insertion
// location if loc is nil), coalescing adjacent text nodes the way a browser
// DOM would rather than keeping every run of characters as its own node.
func (tb *TreeBuilder) insertNode(node dom.Node, loc *insertionTarget) {
	var parent, before dom.Node
	if loc != nil && loc.parent != nil {
		parent, before = loc.parent, loc.before
	} else {
		parent, before = tb.appropriateInsertionLocation()
	}

	if before == nil {
		tb.appendCoalescingText(parent, node)
		return
	}
	tb.insertBeforeCoalescingText(parent, node, before)
}

func (tb *TreeBuilder) appendCoalescingText(parent dom.Node, node dom.Node) {
	if txt, ok := node.(*dom.Text); ok {
		if children := parent.Children(); len(children) > 0 {
			if last, ok := children[len(children)-1].(*dom.Text); ok {
				last.Data += txt.Data
				return
			}
		}
	}
	parent.AppendChild(node)
}

func (tb *TreeBuilder) insertBeforeCoalescingText(parent dom.Node, node dom.Node, before dom.Node) {
	if txt, ok := node.(*dom.Text); ok {
		if mergeTarget := precedingTextSibling(parent, before); mergeTarget != nil {
			mergeTarget.Data += txt.Data
			return
		}
		if beforeText, ok := before.(*dom.Text); ok {
			beforeText.Data = txt.Data + beforeText.Data
			return
		}
	}
	parent.InsertBefore(node, before)
}

func precedingTextSibling(parent dom.Node, ref dom.Node) *dom.Text {
	children := parent.Children()
	for i, child := range children {
		if child != ref {
			continue
		}
		if i == 0 {
			return nil
		}
		t, _ := children[i-1].(*dom.Text)
		return t
	}
	return nil
}
