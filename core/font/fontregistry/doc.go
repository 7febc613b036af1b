/*
Package fontregistry manages a registry for loaded fonts.

Glyph tables are immutable once built, so a table parsed for one render
pass may be shared by all later passes using the same font asset. The
registry caches tables by asset path.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'nameplate.fonts'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.fonts")
}
