// Package host is the Go runtime seen through a garbage-collector callback
// contract: "before collection" and "after collection" hook slots, a heap
// statistics query, a monotonic clock, a primary execution context (an
// event loop) and a background work queue whose completions re-enter that
// loop.
//
// Go raises no such hooks itself, so GoRuntime raises them around the
// collections it performs (runtime.GC, debug.FreeOSMemory). Collections are
// serialized: a cycle's before and after hooks never interleave with
// another cycle's.
package host
