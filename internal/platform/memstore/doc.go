// Package memstore implements store.BatchStore in process memory.
//
// Batches live for the lifetime of the process and are never deleted.
// All access goes through a single mutex, so a batch has exactly one
// writer at a time and problem ids are assigned without gaps.
package memstore
