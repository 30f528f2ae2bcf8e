// Package isolation provides the two read-side tenant-boundary interceptors:
// an application-level predicate rewrite and a best-effort mirror of the
// tenant scope into storage session state. The layers are independently
// registrable; disabling the session mirror never affects the predicate
// layer's correctness.
package isolation
