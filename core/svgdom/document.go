package svgdom

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Namespace URIs used in SVG documents.
const (
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
)

// XMLHeader is written in front of serialized documents.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n"

// Document is an SVG document tree.
type Document struct {
	doc  *html.Node // document node
	root *html.Node // <svg> element
}

var svgRoot = cascadia.MustCompile("svg")

// Parse reads SVG bytes into a document tree. It returns ErrNotWellFormed
// for input which is not well-formed XML and ErrNoSVGRoot if the root
// element is not an <svg> element.
func Parse(data []byte) (*Document, error) {
	rootName, err := CheckWellFormed(data)
	if err != nil {
		tracer().Debugf("input not well-formed: %v", err)
		return nil, err
	}
	if localName(rootName) != "svg" {
		return nil, fmt.Errorf("%w: root is <%s>", ErrNoSVGRoot, rootName)
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	root := svgRoot.MatchFirst(doc)
	if root == nil || root.Namespace != "svg" {
		return nil, ErrNoSVGRoot
	}
	tracer().Debugf("parsed SVG document, root has %d attributes", len(root.Attr))
	return &Document{doc: doc, root: root}, nil
}

// New creates an empty SVG document with a root element carrying the given
// attributes, given as key-value pairs.
func New(attrs ...string) *Document {
	doc := &html.Node{Type: html.DocumentNode}
	root := Element("svg", attrs...)
	doc.AppendChild(root)
	return &Document{doc: doc, root: root}
}

// Root returns the <svg> element of d.
func (d *Document) Root() *html.Node {
	return d.root
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	doc := &html.Node{Type: html.DocumentNode}
	root := Clone(d.root)
	doc.AppendChild(root)
	return &Document{doc: doc, root: root}
}

// Render writes d as XML, starting with an XML declaration.
func (d *Document) Render(w io.Writer) error {
	if _, err := io.WriteString(w, XMLHeader); err != nil {
		return err
	}
	if err := html.Render(w, d.root); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Bytes returns the XML serialization of d.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Element creates a new SVG element. Attributes are given as key-value
// pairs; a dangling key is ignored.
func Element(name string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      name,
		DataAtom:  atom.Lookup([]byte(name)),
		Namespace: "svg",
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
