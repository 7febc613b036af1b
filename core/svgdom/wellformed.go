package svgdom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// ErrNotWellFormed is returned for input which is not well-formed XML.
var ErrNotWellFormed = errors.New("document is not well-formed")

// ErrNoSVGRoot is returned for well-formed input without an <svg> root element.
var ErrNoSVGRoot = errors.New("document has no <svg> root element")

// CheckWellFormed scans XML input and checks that elements are properly
// nested and that there is exactly one root element. It returns the
// (qualified) name of the root element.
//
// CheckWellFormed does not validate entities or namespaces.
func CheckWellFormed(data []byte) (string, error) {
	// the lexer uses the input as its working buffer
	l := xml.NewLexer(parse.NewInputBytes(bytes.Clone(data)))
	var stack []string
	root := ""
	for {
		tt, lexeme := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return root, fmt.Errorf("%w: %v", ErrNotWellFormed, err)
			}
			if len(stack) > 0 {
				return root, fmt.Errorf("%w: element <%s> not closed", ErrNotWellFormed,
					stack[len(stack)-1])
			}
			if root == "" {
				return "", fmt.Errorf("%w: no root element", ErrNotWellFormed)
			}
			return root, nil
		case xml.StartTagToken:
			name := tagName(lexeme)
			if len(stack) == 0 {
				if root != "" {
					return root, fmt.Errorf("%w: more than one root element", ErrNotWellFormed)
				}
				root = name
			}
			stack = append(stack, name)
		case xml.StartTagCloseVoidToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.EndTagToken:
			name := tagName(lexeme)
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return root, fmt.Errorf("%w: unexpected end tag </%s>", ErrNotWellFormed, name)
			}
			stack = stack[:len(stack)-1]
		case xml.TextToken, xml.CDATAToken:
			if len(stack) == 0 && len(bytes.TrimSpace(lexeme)) > 0 {
				return root, fmt.Errorf("%w: text outside of root element", ErrNotWellFormed)
			}
		}
	}
}

// tagName extracts the element name from a start or end tag lexeme,
// i.e. from `<name` or `</name >`.
func tagName(lexeme []byte) string {
	s := strings.TrimPrefix(string(lexeme), "<")
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, ">")
	return strings.TrimSpace(s)
}

// localName strips a namespace prefix from a qualified name.
func localName(qname string) string {
	if i := strings.LastIndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
