package svgdom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// QName returns the qualified name of an attribute, i.e. including a
// namespace prefix.
func QName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Prefix returns the namespace prefix of a qualified name, or "".
func Prefix(qname string) string {
	if i := strings.IndexByte(qname, ':'); i > 0 {
		return qname[:i]
	}
	return ""
}

// LocalName returns the name of an element without namespace prefix.
func LocalName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return localName(n.Data)
}

// IsElement is a predicate: is n an element with the given (qualified) name?
func IsElement(n *html.Node, name string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == name
}

// Attr returns the value of attribute key of n. Key may be qualified,
// e.g. "xlink:href".
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if QName(a) == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of attribute key of n, or dflt if not present.
func AttrOr(n *html.Node, key, dflt string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return dflt
}

// SetAttr sets or replaces the value of an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if QName(a) == key {
			n.Attr[i].Val = val
			return
		}
	}
	ns := ""
	if p := Prefix(key); p == "xlink" || p == "xml" {
		ns, key = p, key[len(p)+1:]
	}
	n.Attr = append(n.Attr, html.Attribute{Namespace: ns, Key: key, Val: val})
}

// RemoveAttr deletes an attribute, if present. Returns true if an attribute
// has been removed.
func RemoveAttr(n *html.Node, key string) bool {
	return RemoveAttrFunc(n, func(a html.Attribute) bool { return QName(a) == key })
}

// RemoveAttrFunc deletes all attributes for which pred is true.
func RemoveAttrFunc(n *html.Node, pred func(html.Attribute) bool) bool {
	removed := false
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if pred(a) {
			removed = true
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
	return removed
}

// HasClass is a predicate: does n carry class cl?
func HasClass(n *html.Node, cl string) bool {
	for _, c := range strings.Fields(AttrOr(n, "class", "")) {
		if c == cl {
			return true
		}
	}
	return false
}

// --- Style -----------------------------------------------------------------

// Style returns the inline style declarations of n. Unparsable style
// attributes yield no declarations.
func Style(n *html.Node) []*css.Declaration {
	s, ok := Attr(n, "style")
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		tracer().Debugf("cannot parse style %q: %v", s, err)
		return nil
	}
	return decls
}

// Property returns the value of a presentation property of n, with inline
// style taking precedence over presentation attributes, as CSS demands.
func Property(n *html.Node, prop string) (string, bool) {
	for _, d := range Style(n) {
		if d.Property == prop {
			return strings.TrimSpace(d.Value), true
		}
	}
	if v, ok := Attr(n, prop); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}

// SetProperty sets a presentation property as an attribute and removes any
// inline style declaration of the same property, which would shadow it.
func SetProperty(n *html.Node, prop, val string) {
	RemoveStyle(n, prop)
	SetAttr(n, prop, val)
}

// RemoveStyle removes inline style declarations for properties props.
// An empty style attribute is removed altogether.
func RemoveStyle(n *html.Node, props ...string) {
	decls := Style(n)
	if len(decls) == 0 {
		return
	}
	var parts []string
	changed := false
	for _, d := range decls {
		if contains(props, d.Property) {
			changed = true
			continue
		}
		parts = append(parts, declString(d))
	}
	if !changed {
		return
	}
	if len(parts) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", strings.Join(parts, ";"))
}

func declString(d *css.Declaration) string {
	s := d.Property + ":" + d.Value
	if d.Important {
		s += " !important"
	}
	return s
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// --- Tree helpers ----------------------------------------------------------

// Elements returns the element children of n.
func Elements(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// Walk calls f for n and every element below n, in document order. If f
// returns false, the subtree of the current node is skipped. f may not
// detach the current node; use Remove for this.
func Walk(n *html.Node, f func(*html.Node) bool) {
	if n.Type == html.ElementNode && !f(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, f)
	}
}

// Remove detaches all elements below (and excluding) n for which pred is
// true, returning the number of removed elements.
func Remove(n *html.Node, pred func(*html.Node) bool) int {
	count := 0
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && pred(c) {
			n.RemoveChild(c)
			count++
		} else {
			count += Remove(c, pred)
		}
		c = next
	}
	return count
}

// Select returns all elements below n which match a CSS selector.
func Select(n *html.Node, sel cascadia.Selector) []*html.Node {
	var matches []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		matches = append(matches, sel.MatchAll(c)...)
	}
	return matches
}

// Clone returns a deep copy of n, detached from any tree.
func Clone(n *html.Node) *html.Node {
	m := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		m.Attr = make([]html.Attribute, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.AppendChild(Clone(c))
	}
	return m
}
