package treebuilder

import "github.com/go-html5parse/html5parse/dom"

// populateSelectedContent implements the <selectedcontent> mirroring step
// that runs after tree construction finishes: each <select>'s live
// <selectedcontent> child (if any) gets a clone of its currently-selected
// <option>'s contents, so it renders the selection without script.
func (tb *TreeBuilder) populateSelectedContent(root dom.Node) {
	var selects []*dom.Element
	collectByTagName(root, "select", &selects)

	for _, sel := range selects {
		mirror := firstDescendantByTagName(sel, "selectedcontent")
		if mirror == nil {
			continue
		}

		var options []*dom.Element
		collectByTagName(sel, "option", &options)
		if len(options) == 0 {
			continue
		}

		chosen := options[0]
		for _, opt := range options {
			if opt.Namespace == dom.NamespaceHTML && opt.HasAttr("selected") {
				chosen = opt
				break
			}
		}

		replaceChildrenWithClone(mirror, chosen)
	}
}

// collectByTagName appends every HTML-namespace descendant named name to
// *out, depth-first, descending into template content fragments as well as
// ordinary children.
func collectByTagName(node dom.Node, name string, out *[]*dom.Element) {
	if el, ok := node.(*dom.Element); ok {
		if el.Namespace == dom.NamespaceHTML && el.TagName == name {
			*out = append(*out, el)
		}
		if el.TemplateContent != nil {
			for _, child := range el.TemplateContent.Children() {
				collectByTagName(child, name, out)
			}
		}
	}
	for _, child := range node.Children() {
		collectByTagName(child, name, out)
	}
}

func firstDescendantByTagName(node dom.Node, name string) *dom.Element {
	if el, ok := node.(*dom.Element); ok {
		if el.Namespace == dom.NamespaceHTML && el.TagName == name {
			return el
		}
		if el.TemplateContent != nil {
			for _, child := range el.TemplateContent.Children() {
				if found := firstDescendantByTagName(child, name); found != nil {
					return found
				}
			}
		}
	}
	for _, child := range node.Children() {
		if found := firstDescendantByTagName(child, name); found != nil {
			return found
		}
	}
	return nil
}

func replaceChildrenWithClone(target, source *dom.Element) {
	for _, child := range append([]dom.Node(nil), target.Children()...) {
		target.RemoveChild(child)
	}
	for _, child := range source.Children() {
		target.AppendChild(child.Clone(true))
	}
}
