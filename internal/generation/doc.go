// Package generation produces math practice problems.
//
// It has two tiers. Local generators (BasicGenerator, WordGenerator) are
// deterministic for a given random source and never fail: on any internal
// problem they fall back to a trivial addition problem. A RemoteGenerator,
// typically backed by an LLM, is tried first for word problems and composed
// with the local tier through FallbackWordSource, so callers always receive
// the number of problems they asked for.
//
// Problems coming from outside the process go through ValidateCandidate
// before they become domain.ProblemDraft values.
package generation
