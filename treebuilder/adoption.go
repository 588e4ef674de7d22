package treebuilder

import (
	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/internal/constants"
)

// adoptionAgency runs the WHATWG "adoption agency algorithm" (§13.2.5.2.5)
// for a misnested end tag matching subject, e.g. "</a>" after an unclosed
// <a> got reparented under elements opened since. The outer loop reparents
// content under a cloned copy of the formatting element one "furthest
// block" at a time; it gives up after 8 iterations per the standard's own
// bailout, since pathological markup can otherwise loop indefinitely.
func (tb *TreeBuilder) adoptionAgency(subject string) {
	if cur := tb.currentElement(); cur != nil && cur.TagName == subject && !tb.hasActiveFormattingEntry(subject) {
		tb.popUntil(subject)
		return
	}

	for iteration := 0; iteration < 8; iteration++ {
		formattingIndex, ok := tb.findActiveFormattingIndex(subject)
		if !ok {
			return
		}
		formattingElement := tb.activeFormatting[formattingIndex].node
		if formattingElement == nil {
			tb.removeFormattingEntry(formattingIndex)
			return
		}

		stackIndex, onStack := tb.openElementIndex(formattingElement)
		if !onStack {
			tb.removeFormattingEntry(formattingIndex)
			return
		}
		if !tb.hasElementInScope(formattingElement.TagName, constants.DefaultScope) {
			return
		}

		furthestBlock := tb.firstSpecialElementAfter(stackIndex)
		if furthestBlock == nil {
			tb.popThrough(formattingElement)
			tb.removeFormattingEntry(formattingIndex)
			return
		}

		bookmark := formattingIndex + 1
		lastNode := tb.runInnerLoop(formattingElement, furthestBlock, &bookmark)

		commonAncestor := tb.openElements[stackIndex-1]
		reparentUnderCommonAncestor(commonAncestor, lastNode, func(n dom.Node) { tb.insertFosterNode(n) })

		newFormattingElement := tb.cloneFormattingElement(tb.activeFormatting[formattingIndex])
		tb.activeFormatting[formattingIndex].node = newFormattingElement
		migrateChildren(furthestBlock, newFormattingElement)
		furthestBlock.AppendChild(newFormattingElement)

		tb.relocateFormattingEntry(formattingIndex, bookmark)
		tb.relocateOnStack(formattingElement, furthestBlock, newFormattingElement)
	}
}

// runInnerLoop walks up the stack from furthestBlock toward formattingElement,
// either dropping stale entries that fell out of the active formatting list
// or cloning and reparenting ones that are still live, per steps 10.1-10.7 of
// the algorithm. It returns the final "last node" to be reattached under the
// common ancestor.
func (tb *TreeBuilder) runInnerLoop(formattingElement, furthestBlock *dom.Element, bookmark *int) *dom.Element {
	node := furthestBlock
	lastNode := furthestBlock

	for pass := 0; ; pass++ {
		idx, ok := tb.openElementIndex(node)
		if !ok || idx == 0 {
			return lastNode
		}
		node = tb.openElements[idx-1]
		if node == formattingElement {
			return lastNode
		}

		nodeEntryIndex, hasEntry := tb.findActiveFormattingIndexByNode(node)
		if pass >= 3 && hasEntry {
			tb.removeFormattingEntry(nodeEntryIndex)
			if nodeEntryIndex < *bookmark {
				*bookmark--
			}
			hasEntry = false
		}

		if !hasEntry {
			idx, ok := tb.openElementIndex(node)
			if !ok {
				return lastNode
			}
			tb.removeOpenElementAt(idx)
			if idx < len(tb.openElements) {
				node = tb.openElements[idx]
			}
			continue
		}

		entry := tb.activeFormatting[nodeEntryIndex]
		clone := tb.cloneFormattingElement(entry)
		tb.activeFormatting[nodeEntryIndex].node = clone
		tb.openElements[tb.mustOpenElementIndex(node)] = clone
		node = clone

		if lastNode == furthestBlock {
			*bookmark = nodeEntryIndex + 1
		}
		detach(lastNode)
		node.AppendChild(lastNode)
		lastNode = node
	}
}

func (tb *TreeBuilder) cloneFormattingElement(entry formattingEntry) *dom.Element {
	el := tb.alloc.NewElement(entry.name)
	for _, a := range entry.attrs {
		el.SetAttr(a.Name, a.Value)
	}
	return el
}

func detach(node dom.Node) {
	if p := node.Parent(); p != nil {
		p.RemoveChild(node)
	}
}

func migrateChildren(from, to *dom.Element) {
	for {
		children := from.Children()
		if len(children) == 0 {
			return
		}
		child := children[0]
		from.RemoveChild(child)
		to.AppendChild(child)
	}
}

func reparentUnderCommonAncestor(commonAncestor *dom.Element, node *dom.Element, fosterInsert func(dom.Node)) {
	detach(node)
	if isFosterParentTarget(commonAncestor) {
		fosterInsert(node)
		return
	}
	commonAncestor.AppendChild(node)
}

// relocateFormattingEntry moves the formatting element's active-formatting
// entry to just past bookmark, the slot the algorithm tracked as entries
// shifted out from under it during the inner loop.
func (tb *TreeBuilder) relocateFormattingEntry(formattingIndex, bookmark int) {
	entry := tb.activeFormatting[formattingIndex]
	tb.removeFormattingEntry(formattingIndex)
	bookmark--
	bookmark = clampInt(bookmark, 0, len(tb.activeFormatting))

	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{})
	copy(tb.activeFormatting[bookmark+1:], tb.activeFormatting[bookmark:])
	tb.activeFormatting[bookmark] = entry
}

func (tb *TreeBuilder) relocateOnStack(oldElement, furthestBlock, newElement *dom.Element) {
	if idx, ok := tb.openElementIndex(oldElement); ok {
		tb.removeOpenElementAt(idx)
	}
	furthestIdx := tb.mustOpenElementIndex(furthestBlock)
	tb.insertOpenElementAt(furthestIdx+1, newElement)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (tb *TreeBuilder) firstSpecialElementAfter(stackIndex int) *dom.Element {
	for i := stackIndex + 1; i < len(tb.openElements); i++ {
		if isSpecialElement(tb.openElements[i]) {
			return tb.openElements[i]
		}
	}
	return nil
}

func (tb *TreeBuilder) popThrough(target *dom.Element) {
	for len(tb.openElements) > 0 {
		if tb.popCurrent() == target {
			return
		}
	}
}

func isSpecialElement(el *dom.Element) bool {
	return el != nil && el.Namespace == dom.NamespaceHTML && constants.SpecialElements[el.TagName]
}

func isFosterParentTarget(el *dom.Element) bool {
	if el == nil {
		return false
	}
	switch el.TagName {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	default:
		return false
	}
}

// insertFosterNode places node just before the nearest <table> ancestor on
// the open-elements stack (or appends to the current node / document if no
// table is open, or the table has no parent yet).
func (tb *TreeBuilder) insertFosterNode(node dom.Node) {
	var table *dom.Element
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if el := tb.openElements[i]; el.Namespace == dom.NamespaceHTML && el.TagName == "table" {
			table = el
			break
		}
	}
	if table == nil {
		tb.currentNode().AppendChild(node)
		return
	}
	parent := table.Parent()
	if parent == nil {
		tb.document.AppendChild(node)
		return
	}
	parent.InsertBefore(node, table)
}

func (tb *TreeBuilder) openElementIndex(target *dom.Element) (int, bool) {
	for i, el := range tb.openElements {
		if el == target {
			return i, true
		}
	}
	return -1, false
}

func (tb *TreeBuilder) mustOpenElementIndex(target *dom.Element) int {
	idx, ok := tb.openElementIndex(target)
	if !ok {
		panic("treebuilder: expected element on open element stack")
	}
	return idx
}

func (tb *TreeBuilder) removeOpenElementAt(index int) {
	if index < 0 || index >= len(tb.openElements) {
		return
	}
	copy(tb.openElements[index:], tb.openElements[index+1:])
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
}

func (tb *TreeBuilder) insertOpenElementAt(index int, el *dom.Element) {
	index = clampInt(index, 0, len(tb.openElements))
	tb.openElements = append(tb.openElements, nil)
	copy(tb.openElements[index+1:], tb.openElements[index:])
	tb.openElements[index] = el
}
