// Package driven defines the outbound ports of the core: interfaces the
// core depends on and adapters implement (config persistence, request
// signing, the posting transport, and the post history store).
package driven
