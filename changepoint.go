/*
Package changepoint holds application level constants shared by the
change point detection library, command line tool, and service.

The detection algorithms live in the perf package. The units package
wraps them in amboy jobs, operations holds the command line interface,
and rest holds the HTTP service.
*/
package changepoint

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

// Version is reported by the command line tool.
const Version = "0.1.0"
