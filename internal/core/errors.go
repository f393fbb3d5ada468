package core

import "errors"

// Pipeline error taxonomy. Context and search failures are recoverable and
// absorbed close to where they happen; security and generation failures are
// surfaced to the caller as explicit failure results, never masked as a
// normal reply.
var (
	// ErrSecurityCheckFailed means both classifier tiers were unreachable
	// while the gate is configured to fail closed.
	ErrSecurityCheckFailed = errors.New("security check failed")

	// ErrContextUnavailable means the persistent context store could not be
	// reached. Callers proceed with empty context.
	ErrContextUnavailable = errors.New("context store unavailable")

	// ErrSearchUnavailable means the vector index could not be reached.
	ErrSearchUnavailable = errors.New("search unavailable")

	// ErrGenerationFailed means every configured generative provider was
	// exhausted.
	ErrGenerationFailed = errors.New("generation failed")
)
