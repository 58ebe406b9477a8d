// Package gemini implements the generation.Generator interface against
// Google's Gemini API. Calls are retried with exponential backoff and
// jitter; safety blocks and malformed responses are permanent failures.
package gemini
