// Package generation turns an unreliable LLM completion capability into a
// dependable call that returns either a well-formed JSON object (or raw text
// for free-form requests) or a single typed InvocationError.
//
// The package is organised in three stages, leaves first:
//
//  1. Sanitizer/Validator (Sanitize, Validate): strips code fences, prose
//     and control characters from model output and confirms the remainder
//     parses as a JSON object. Pure and deterministic.
//
//  2. Retry controller: retries the same model when structured output fails
//     validation, with a short constant delay between attempts.
//
//  3. Fallback orchestrator (Client.Invoke): walks an ordered list of model
//     candidates and advances to the next one only when the current model
//     reports a capacity/token-limit failure.
//
// The completion capability itself is the Completer interface; the Gemini
// adapter lives in internal/platform/gemini.
package generation
