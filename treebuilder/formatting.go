package treebuilder

import (
	"sort"
	"strings"

	"github.com/go-html5parse/html5parse/dom"
	"github.com/go-html5parse/html5parse/tokenizer"
)

// formattingEntry is one slot in the "list of active formatting elements"
// (§13.2.5.2). A marker slot (used to scope template content and table
// cells/captions) carries no name/attrs/node.
type formattingEntry struct {
	marker    bool
	name      string
	attrs     []tokenizer.Attr
	node      *dom.Element
	signature string
}

func (tb *TreeBuilder) pushFormattingMarker() {
	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{marker: true})
}

// clearActiveFormattingUpToMarker implements §13.2.5.2.2: pop entries off
// the end of the list until a marker is removed (or the list runs out).
func (tb *TreeBuilder) clearActiveFormattingUpToMarker() {
	for n := len(tb.activeFormatting); n > 0; n = len(tb.activeFormatting) {
		entry := tb.activeFormatting[n-1]
		tb.activeFormatting = tb.activeFormatting[:n-1]
		if entry.marker {
			return
		}
	}
}

func (tb *TreeBuilder) appendActiveFormattingEntry(name string, attrs []tokenizer.Attr, node *dom.Element) {
	owned := cloneTokenAttrs(attrs)
	tb.activeFormatting = append(tb.activeFormatting, formattingEntry{
		name:      name,
		attrs:     owned,
		node:      node,
		signature: attrsSignature(owned),
	})
}

// findActiveFormattingIndex searches back from the end of the list for an
// entry named name, stopping at the nearest marker — entries created before
// the most recent scope boundary are not "active" for this purpose.
func (tb *TreeBuilder) findActiveFormattingIndex(name string) (int, bool) {
	for i := len(tb.activeFormatting) - 1; i >= 0; i-- {
		entry := tb.activeFormatting[i]
		if entry.marker {
			return -1, false
		}
		if entry.name == name {
			return i, true
		}
	}
	return -1, false
}

func (tb *TreeBuilder) findActiveFormattingIndexByNode(node *dom.Element) (int, bool) {
	for i := len(tb.activeFormatting) - 1; i >= 0; i-- {
		if entry := tb.activeFormatting[i]; !entry.marker && entry.node == node {
			return i, true
		}
	}
	return -1, false
}

// findActiveFormattingDuplicate runs the "Noah's Ark clause" (§13.2.5.2,
// step 3): if the list already holds three or more entries since the last
// marker with the given name and attributes, it reports the earliest of them
// so that entry can be dropped before the new one is added.
func (tb *TreeBuilder) findActiveFormattingDuplicate(name string, attrs []tokenizer.Attr) (int, bool) {
	sig := attrsSignature(attrs)
	var runSinceMarker []int
	for i, entry := range tb.activeFormatting {
		if entry.marker {
			runSinceMarker = runSinceMarker[:0]
			continue
		}
		if entry.name == name && entry.signature == sig {
			runSinceMarker = append(runSinceMarker, i)
		}
	}
	if len(runSinceMarker) >= 3 {
		return runSinceMarker[0], true
	}
	return -1, false
}

func (tb *TreeBuilder) hasActiveFormattingEntry(name string) bool {
	_, ok := tb.findActiveFormattingIndex(name)
	return ok
}

func (tb *TreeBuilder) removeFormattingEntry(index int) {
	if index < 0 || index >= len(tb.activeFormatting) {
		return
	}
	tb.activeFormatting = append(tb.activeFormatting[:index], tb.activeFormatting[index+1:]...)
}

func (tb *TreeBuilder) removeLastActiveFormattingByName(name string) {
	if i, ok := tb.findActiveFormattingIndex(name); ok {
		tb.removeFormattingEntry(i)
	}
}

func (tb *TreeBuilder) removeLastOpenElementByName(name string) {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.openElements[i].TagName == name {
			tb.openElements = append(tb.openElements[:i], tb.openElements[i+1:]...)
			return
		}
	}
}

// reconstructActiveFormattingElements implements §13.2.5.2.1. Before
// inserting text or an element, any formatting elements that fell off the
// stack of open elements (because something closed around them) get
// reinserted as fresh clones, in list order, so markup like "<p><b>x</p>y"
// wraps "y" in a new <b>.
func (tb *TreeBuilder) reconstructActiveFormattingElements() {
	if len(tb.activeFormatting) == 0 {
		return
	}
	last := tb.activeFormatting[len(tb.activeFormatting)-1]
	if last.marker || tb.elementInOpenElements(last.node) {
		return
	}

	start := len(tb.activeFormatting) - 1
	for start > 0 {
		start--
		entry := tb.activeFormatting[start]
		if entry.marker || tb.elementInOpenElements(entry.node) {
			start++
			break
		}
	}

	for i := start; i < len(tb.activeFormatting); i++ {
		entry := tb.activeFormatting[i]
		clone := tb.insertElement(entry.name, cloneTokenAttrs(entry.attrs))
		tb.activeFormatting[i].node = clone
	}
}

func (tb *TreeBuilder) elementInOpenElements(node *dom.Element) bool {
	for _, el := range tb.openElements {
		if el == node {
			return true
		}
	}
	return false
}

func cloneTokenAttrs(attrs []tokenizer.Attr) []tokenizer.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]tokenizer.Attr, len(attrs))
	copy(out, attrs)
	return out
}

// attrsSignature builds a stable, order-independent fingerprint of an
// attribute set for the Noah's Ark duplicate check, skipping foreign
// (namespaced) attributes since the spec compares only the name/value pairs
// the parser itself assigned.
func attrsSignature(attrs []tokenizer.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	names := make([]string, 0, len(attrs))
	byName := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Namespace != "" {
			continue
		}
		names = append(names, a.Name)
		byName[a.Name] = a.Value
	}
	sort.Strings(names)
	var sig strings.Builder
	for _, name := range names {
		sig.WriteString(name)
		sig.WriteByte('=')
		sig.WriteString(byName[name])
		sig.WriteByte(0)
	}
	return sig.String()
}
