// Package gemini provides an implementation of the generation.RemoteGenerator
// and generation.RemoteExplainer interfaces backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it renders prompts from
// text/template files, makes a single time-bounded GenerateContent call per
// request, strips code fences from the reply, and turns the JSON payload into
// validated domain.ProblemDraft values. Invalid candidates are logged and
// dropped. No retries are attempted; callers fall back to local generation.
package gemini
