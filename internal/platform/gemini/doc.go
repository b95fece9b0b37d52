// Package gemini provides an implementation of the generation.Completer
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the generation client to Google's external Gemini service
// without exposing the details of that service to the core application.
//
// Key responsibilities:
//
//  1. Request formatting: wraps the prompt as a single user turn and enables
//     Gemini's JSON response mode for structured requests.
//
//  2. Response processing: concatenates the text parts of the first
//     candidate and rejects empty or blocked responses.
//
//  3. Error translation: token-limit failures (oversized prompts and
//     MAX_TOKENS truncation) become generation.ErrCapacityExceeded so the
//     client can fall back to a larger model; safety blocks become
//     generation.ErrContentBlocked.
//
// The package depends on the google.golang.org/genai client library.
package gemini
