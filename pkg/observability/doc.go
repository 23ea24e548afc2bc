/*
Package observability turns interview lifecycle events into structured logs
and Prometheus metrics.

Both are delivered as domain.LifecycleHooks so that the assistant core stays
unaware of how it is observed; Combine fans one event out to several hook sets.
*/
package observability
