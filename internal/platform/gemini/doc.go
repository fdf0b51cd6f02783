// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It owns prompt construction, retry handling with
// exponential backoff, and mapping provider errors onto the generation
// package's sentinel errors.
package gemini
