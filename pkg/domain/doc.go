// Package domain contains the core types exchanged between the maestro
// facade and its adapters: records decoded from engine output, the
// identifier union used to address macros and groups, and the error
// taxonomy shared across the bridge.
//
// Records are produced only by decoding engine output; callers never
// construct them directly. Action and trigger records are positional:
// their indices are valid only until the next structural mutation of the
// owning macro.
package domain
