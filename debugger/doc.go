// Package debugger traces calls through wrapped functions, methods,
// constructors, properties and attribute cells.
//
// Every wrapper funnels through one emitter. On each call it reads the
// effective level of the wrapper's sink and derives five capture switches
// from it (timing, arguments, return value, caller site, callee site). When
// none is on the wrapped call runs directly and nothing is formatted.
// Otherwise a multi-line record is built:
//
//	[ANGRY] worker-1[7]
//	                          src: main.run [/src/main.go:41]
//	                          dst: main.Store.Put [/src/store.go:18]
//	                          function called: main.Store.Put(key="a", value=1)
//	                          duration: 1.200 ms
//	                          main.Store.Put => nil
//
// Records go straight to the sink unless a logging run is open. Runs buffer a
// goroutine's records between BeginRun and EndRun and flush them as one
// delimited block. Records produced by a goroutine without a run while any
// other goroutine has one open are queued and written at the next run
// boundary.
//
// Tracing is heavyweight and write-amplifying. It is a debugging aid, not
// something to leave on in production hot paths.
package debugger
