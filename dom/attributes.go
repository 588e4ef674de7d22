package dom

import "strings"

// Attribute is a single name/value pair, with an optional namespace for the
// handful of foreign attributes (xlink:href and friends) the parser assigns
// a namespace to during foreign-content adjustment.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Attributes is an element's attribute set, kept in insertion order since
// serializers and DOM walkers both care about the order attributes were
// first seen in the source.
type Attributes struct {
	items []Attribute
}

func NewAttributes() *Attributes {
	return &Attributes{}
}

func (a *Attributes) find(namespace, name string, foldCase bool) int {
	for i, attr := range a.items {
		if attr.Namespace != namespace {
			continue
		}
		if foldCase {
			if strings.EqualFold(attr.Name, name) {
				return i
			}
		} else if attr.Name == name {
			return i
		}
	}
	return -1
}

// Get looks up an unnamespaced (HTML) attribute case-insensitively.
func (a *Attributes) Get(name string) (string, bool) {
	if i := a.find("", name, true); i >= 0 {
		return a.items[i].Value, true
	}
	return "", false
}

// GetNS looks up a namespaced attribute by exact name.
func (a *Attributes) GetNS(namespace, name string) (string, bool) {
	if i := a.find(namespace, name, false); i >= 0 {
		return a.items[i].Value, true
	}
	return "", false
}

// Set sets or updates an unnamespaced attribute. Callers are expected to
// pass an already-lowercased name, as the tokenizer does for HTML attributes.
func (a *Attributes) Set(name, value string) {
	a.SetNS("", strings.ToLower(name), value)
}

func (a *Attributes) SetNS(namespace, name, value string) {
	if i := a.find(namespace, name, true); i >= 0 {
		a.items[i].Value = value
		return
	}
	a.items = append(a.items, Attribute{Namespace: namespace, Name: name, Value: value})
}

func (a *Attributes) Has(name string) bool {
	return a.find("", name, true) >= 0
}

func (a *Attributes) HasNS(namespace, name string) bool {
	return a.find(namespace, name, false) >= 0
}

func (a *Attributes) Remove(name string) {
	a.RemoveNS("", name)
}

func (a *Attributes) RemoveNS(namespace, name string) {
	if i := a.find(namespace, name, true); i >= 0 {
		a.items = append(a.items[:i], a.items[i+1:]...)
	}
}

// All returns a defensive copy of every attribute, in insertion order.
func (a *Attributes) All() []Attribute {
	out := make([]Attribute, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Attributes) Len() int {
	return len(a.items)
}

func (a *Attributes) Clone() *Attributes {
	return &Attributes{items: a.All()}
}
