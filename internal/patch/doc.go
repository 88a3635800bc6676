// Package patch builds minimal JSON patch sequences by comparing desired
// field values with the last observed state of a record.
//
// An operation is only emitted when a field actually changed, and the
// operation kind depends on whether the observed field exists: the API server
// rejects "replace" on a missing path and "add" semantics differ from
// "replace" on an existing one.
package patch
