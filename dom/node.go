// Package dom provides the DOM node types the tree constructor builds into:
// documents, elements, text, comments, and doctypes, plus the arena
// allocator that hands them out during parsing.
package dom

// NodeType identifies the concrete kind of a Node, using the numeric values
// defined by the DOM specification (https://dom.spec.whatwg.org/#interface-node).
type NodeType int

const (
	ElementNodeType  NodeType = 1
	TextNodeType     NodeType = 3
	CommentNodeType  NodeType = 8
	DocumentNodeType NodeType = 9
	DoctypeNodeType  NodeType = 10
)

// Node is implemented by every node type the parser produces. Leaf node
// types (Text, Comment, DocumentType) implement the child-mutation methods
// as no-ops rather than panicking, so callers can treat the tree uniformly.
type Node interface {
	Type() NodeType
	Parent() Node
	SetParent(parent Node)
	Children() []Node
	AppendChild(child Node)
	InsertBefore(newChild, refChild Node)
	RemoveChild(child Node)
	ReplaceChild(newChild, oldChild Node) Node
	HasChildNodes() bool

	// Clone copies the node. A deep clone also copies every descendant;
	// a shallow clone leaves the copy childless.
	Clone(deep bool) Node
}

// container holds the child-list bookkeeping shared by every node type that
// can actually have children (Element, Document, DocumentFragment). It is
// embedded rather than composed through an interface so that the common
// mutation logic lives in one place without a layer of indirection per call.
type container struct {
	owner    Node // the Node value embedding this container, for SetParent calls
	parent   Node
	kids     []Node
}

func (c *container) bind(owner Node) {
	c.owner = owner
}

func (c *container) Parent() Node { return c.parent }

func (c *container) SetParent(parent Node) { c.parent = parent }

func (c *container) Children() []Node { return c.kids }

func (c *container) HasChildNodes() bool { return len(c.kids) > 0 }

func (c *container) AppendChild(child Node) {
	child.SetParent(c.owner)
	c.kids = append(c.kids, child)
}

func (c *container) InsertBefore(newChild, refChild Node) {
	if refChild == nil {
		c.AppendChild(newChild)
		return
	}
	at := c.indexOf(refChild)
	if at < 0 {
		c.AppendChild(newChild)
		return
	}
	newChild.SetParent(c.owner)
	c.kids = append(c.kids[:at], append([]Node{newChild}, c.kids[at:]...)...)
}

func (c *container) RemoveChild(child Node) {
	at := c.indexOf(child)
	if at < 0 {
		return
	}
	child.SetParent(nil)
	c.kids = append(c.kids[:at], c.kids[at+1:]...)
}

func (c *container) ReplaceChild(newChild, oldChild Node) Node {
	at := c.indexOf(oldChild)
	if at < 0 {
		return nil
	}
	newChild.SetParent(c.owner)
	oldChild.SetParent(nil)
	c.kids[at] = newChild
	return oldChild
}

func (c *container) indexOf(child Node) int {
	for i, kid := range c.kids {
		if kid == child {
			return i
		}
	}
	return -1
}

// cloneChildrenInto deep-clones every child of src and appends the clones to
// dst, preserving order. Used by the Clone implementations of every
// container type so the descent logic isn't repeated per type.
func cloneChildrenInto(dst Node, src *container) {
	for _, child := range src.kids {
		dst.AppendChild(child.Clone(true))
	}
}
