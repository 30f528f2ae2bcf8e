// Package authz resolves role assignments into per-operation authorization
// contexts and enforces the write-side tenant boundary.
//
// A UserAuthorizationContext is built fresh for every resolution call and is
// never shared across users or across operations. The mutation guard is the
// authoritative write-side check; read-side filtering is a separate layer in
// package isolation.
package authz
