// Package events decouples the problem service from the background task runner.
//
// The service emits a TaskRequestEvent when a batch needs its background
// top-up; a handler registered by the server turns the event into a task.
// Neither side imports the other.
package events
