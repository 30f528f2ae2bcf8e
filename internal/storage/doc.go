// Package storage defines the persistence-facing query model shared by all
// store implementations: collection kinds, read-query descriptors, and the
// interceptor chain the isolation layer registers against.
//
// Stores themselves are collaborators behind interfaces owned by their
// consuming packages; this package carries only what every implementation
// must agree on.
package storage
