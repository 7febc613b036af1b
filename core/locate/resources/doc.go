/*
Package resources resolves asset paths to bytes for the application.

Assets are drawings and font descriptions. They may live in a local
directory, be packaged with the application, be downloaded from a remote
location or be installed as system fonts. Every source is a Resolver;
resolvers may be chained.

As resource loading may be a time-consuming task, assets may be fetched
in an async/await fashion. Functions named

   Resolve…(…)

will return a promise, which the client will call later to receive the
loaded resource. The call to the promise-function will then block until
loading has completed or the context is done.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'nameplate.resources'.
func tracer() tracing.Trace {
	return tracing.Select("nameplate.resources")
}
