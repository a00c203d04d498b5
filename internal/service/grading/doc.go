// Package grading checks submitted answers against stored problems.
//
// Basic problems compare truncated integers exactly. Every other type
// compares with a relative tolerance of 0.001, inclusive, falling back to an
// absolute tolerance when the correct answer is zero.
package grading
