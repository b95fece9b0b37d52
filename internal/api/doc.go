// Package api exposes the generation client over HTTP. It decodes and
// validates requests, runs invocations through the Invoker interface, and
// maps the failure taxonomy onto status codes:
//
//   - 400 for malformed requests and empty prompts
//   - 422 when every attempt returned unusable JSON
//   - 503 when the last candidate ran out of tokens
//   - 502 for other upstream failures, 504 on timeout
//
// Error bodies carry a safe message, the failure kind and the trace ID.
package api
