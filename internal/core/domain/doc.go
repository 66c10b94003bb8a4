// Package domain contains the core business types for plover: messages,
// credentials, duplicate-handling policies, and posting outcomes.
//
// The domain layer has no dependencies on adapters or external services.
// All types here are plain data with behaviour that can be tested in
// isolation.
package domain
