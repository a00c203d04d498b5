// Package api exposes the math practice operations over HTTP.
//
// MathHandler serves problem batches, answer checks, explanations and
// similar problems under /api/education/math; AuthHandler rotates session
// tokens. All error bodies carry a Norwegian message and the request's
// trace id.
package api
