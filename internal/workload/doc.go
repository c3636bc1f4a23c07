// Package workload produces heap activity for gcstats sessions: allocation
// churn between collections and session-scoped GC tuning.
package workload
