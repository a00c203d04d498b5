// Package domain contains the core entities of the math practice service:
// problems, their types and difficulty levels, and the age calibration
// rules that decide which numbers and operations a child is given.
// It has no dependencies on infrastructure or delivery mechanisms.
package domain
