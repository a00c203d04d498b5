// Package store defines interfaces for problem batch persistence.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic; platform/memstore provides the in-process
// implementation used by the server.
package store
