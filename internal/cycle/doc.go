// Package cycle turns a pair of collection hooks into cycle reports.
//
// The Recorder runs in the "before collection" hook and stores a heap
// snapshot plus a monotonic timestamp in a State cell. The Finalizer runs in
// the "after collection" hook, takes the second snapshot, builds a Report and
// submits it. Neither ever calls a consumer: both run inside the collection
// critical section and only touch plain values.
package cycle
