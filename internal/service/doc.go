// Package service contains the application use cases of the math practice API.
//
// ProblemService runs two-phase batch generation: it serves a synchronous
// slice of basic problems and hands the rest of the batch to a background
// task through the event emitter. It also answers "remaining" polls and
// generates unstored similar problems. ExplanationService explains a problem
// from a local rule table or, for non-basic problems, the remote generator.
//
// Services depend on the store ports and the generation interfaces, never on
// a concrete platform implementation.
package service
