/*
Package maestro is a typed control bridge for a macOS macro engine. It
drives the already-running engine through its native AppleScript
dictionary and exposes macro, group, action and trigger CRUD plus
execution as plain Go operations.

The engine is treated as a black box that accepts textual commands and
returns textual (or hex-encoded binary) results. maestro owns the
marshaling in between: safe command construction, dual-channel payload
delivery (inline escaped literals for short strings, temp-file transfer
for arbitrary XML), delimiter-separated result decoding, and extraction
of a single macro definition from the engine's full export blob.

# Usage

	client, err := maestro.New()
	if err != nil {
		log.Fatal(err)
	}
	macros, err := client.ListMacros(context.Background())

All state lives in the engine. Every read is a fresh round trip unless
an explicit listing cache is installed with WithListingCache, and even
then invalidation is always a visible call (InvalidateListings), never
implicit.

# Caveats

Action and trigger indices are ephemeral cursors: they are 1-based,
valid only at read time, and invalidated by any structural mutation of
the same macro. Concurrent calls are safe with respect to transfer
files, but not with respect to index-addressed operations on the same
macro; the engine exposes no transactional primitive the bridge could
lean on.

Failed multi-step operations are not rolled back: if CreateMacro with an
initial action payload fails after the create succeeded, the macro
stays. This is a documented limitation of the engine's command surface.
*/
package maestro
