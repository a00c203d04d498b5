// Package task manages background job queuing, processing, and lifecycle.
// It runs the background top-up of problem batches so that HTTP handlers can
// return the initial slice of a batch without waiting for word problems.
package task
