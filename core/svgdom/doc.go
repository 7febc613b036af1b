/*
Package svgdom implements a document tree for SVG.

SVG documents are read with the HTML5 parser of golang.org/x/net/html, which
handles SVG as foreign content: element names and attributes are adjusted
to their SVG spelling (e.g., `viewBox`, `linearGradient`), and self-closing
tags are acknowledged. As the HTML5 parser is forgiving by nature, input is
first checked for well-formedness with an XML lexer (tdewolff/parse).

Trees are rendered back to XML with html.Render, which writes every element
in its parsed form. Attributes with a namespace prefix which the parser does
not know about (e.g., `inkscape:label`) keep the prefix as part of their key.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package svgdom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'nameplate.svg'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.svg")
}
