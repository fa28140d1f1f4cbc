/*
Package bridge provides host transports for mdview.Bridge.

A rendered code block's Apply action posts an "applyCode" message to whatever
hosts the panel. The host may be a parent process reading JSON lines from our
stdout, an HTTP endpoint, or Go code embedding the renderer. Every transport
here is safe for concurrent use.
*/
package bridge

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdview.bridge'.
func tracer() tracing.Trace {
	return tracing.Select("mdview.bridge")
}
