// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the server, LLM candidate and auth settings while keeping
// configuration details separate from the invocation logic.
package config
