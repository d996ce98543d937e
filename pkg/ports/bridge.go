package ports

import "context"

// Bridge submits script source to the external automation engine and
// returns its raw textual result.
//
// Run sends a short ad hoc script directly. RunFile writes the source to
// a file first and invokes it from there, which is preferable for long
// multi-line scripts. Both block until the engine responds or the
// invocation itself fails; there is no retry and no timeout beyond what
// the caller encodes in ctx.
//
// Implementations must normalize every engine-reported failure into
// *domain.EngineError and wrap invocation failures as plain errors.
type Bridge interface {
	Run(ctx context.Context, source string) (string, error)
	RunFile(ctx context.Context, source string) (string, error)
}
